package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/SWESH1K/TimeTableGenerator/internal/dto"
	"github.com/SWESH1K/TimeTableGenerator/internal/projector"
	"github.com/SWESH1K/TimeTableGenerator/internal/solver"
	"github.com/SWESH1K/TimeTableGenerator/internal/timetable"
)

// multiSectionResponse 班级 A、B 的多班级形状响应
const multiSectionResponse = `{
  "A": {
    "Monday": {"T1": [{"Course":"DMW","Day":"Monday","Time Slot":"T1","Section":"A","Type":"L","Professor":"Dr Purushotam"}], "T2": []},
    "Wednesday": {"T1": [], "T2": [{"Course":"DL","Day":"Wednesday","Time Slot":"T2","Section":"A","Type":"P","Professor":"Dr Hitesh"}]}
  },
  "B": {}
}`

func TestGenerateService_Success(t *testing.T) {
	env := setupTestEnv()
	env.solver.response = json.RawMessage(multiSectionResponse)
	id := createSession(t, env)
	fillForm(t, env, id)

	resp, err := env.svc.Generate.Generate(context.Background(), id)
	if err != nil {
		t.Fatalf("Generate 失败: %v", err)
	}

	if env.solver.callCount() != 1 {
		t.Fatalf("期望调用求解服务 1 次，实际 %d", env.solver.callCount())
	}
	sent := env.solver.calls[0]
	if diff := cmp.Diff(map[string][]string{"A": {"DMW", "DL"}, "B": {}}, sent.Courses); diff != "" {
		t.Errorf("请求课程不符 (-want +got):\n%s", diff)
	}

	if len(resp.Sections) != 2 || resp.Sections[0].Section != "A" {
		t.Fatalf("结果班级不符: %+v", resp.Sections)
	}
	monday := resp.Sections[0].Rows[0]
	if monday.Day != "Monday" || monday.Cells[0].Text != "DMW (L)\nDr Purushotam" || monday.Cells[1].Text != projector.EmptyCell {
		t.Errorf("周一行不符: %+v", monday)
	}
	wantProf := []dto.SummaryRow{
		{Key: "Dr Hitesh", Values: []string{"DL"}},
		{Key: "Dr Purushotam", Values: []string{"DMW"}},
	}
	if diff := cmp.Diff(wantProf, resp.ProfessorSummary); diff != "" {
		t.Errorf("教师汇总不符 (-want +got):\n%s", diff)
	}

	// 结果已写回会话
	again, err := env.svc.Generate.Result(context.Background(), id)
	if err != nil {
		t.Fatalf("Result 失败: %v", err)
	}
	if diff := cmp.Diff(resp, again); diff != "" {
		t.Errorf("保存的结果不一致 (-want +got):\n%s", diff)
	}
	st, _ := env.svc.Form.State(context.Background(), id)
	if !st.HasResult {
		t.Error("表单状态应标记已有结果")
	}
}

func TestGenerateService_ValidationError(t *testing.T) {
	env := setupTestEnv()
	id := createSession(t, env)

	_, err := env.svc.Generate.Generate(context.Background(), id)
	var ve *timetable.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("期望 ValidationError，实际: %v", err)
	}
	if env.solver.callCount() != 0 {
		t.Error("校验失败不应调用求解服务")
	}
}

func TestGenerateService_SolverErrorKeepsState(t *testing.T) {
	env := setupTestEnv()
	env.solver.response = json.RawMessage(multiSectionResponse)
	id := createSession(t, env)
	fillForm(t, env, id)
	ctx := context.Background()

	if _, err := env.svc.Generate.Generate(ctx, id); err != nil {
		t.Fatalf("首次生成失败: %v", err)
	}
	before, _ := env.svc.Form.State(ctx, id)

	env.solver.err = &solver.Error{Status: 500, Message: "infeasible"}
	_, err := env.svc.Generate.Generate(ctx, id)
	var se *solver.Error
	if !errors.As(err, &se) || se.Message != "infeasible" {
		t.Fatalf("期望求解错误透传，实际: %v", err)
	}

	after, _ := env.svc.Form.State(ctx, id)
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("求解失败不应修改表单 (-before +after):\n%s", diff)
	}
	if _, err := env.svc.Generate.Result(ctx, id); err != nil {
		t.Errorf("求解失败不应清除上一次结果: %v", err)
	}
}

func TestGenerateService_MalformedResponse(t *testing.T) {
	env := setupTestEnv()
	env.solver.response = json.RawMessage(`[1,2,3]`)
	id := createSession(t, env)
	fillForm(t, env, id)

	if _, err := env.svc.Generate.Generate(context.Background(), id); !errors.Is(err, projector.ErrMalformedResponse) {
		t.Errorf("期望 ErrMalformedResponse，实际: %v", err)
	}
	if _, err := env.svc.Generate.Result(context.Background(), id); !errors.Is(err, ErrNoResult) {
		t.Errorf("期望 ErrNoResult，实际: %v", err)
	}
}

// 先发出的请求后返回时必须被丢弃
func TestGenerateService_StaleResponseDiscarded(t *testing.T) {
	env := setupTestEnv()
	env.solver.response = json.RawMessage(multiSectionResponse)
	id := createSession(t, env)
	fillForm(t, env, id)

	firstEntered := make(chan struct{})
	releaseFirst := make(chan struct{})
	env.solver.hook = func(call int) {
		if call == 1 {
			close(firstEntered)
			<-releaseFirst
		}
	}

	var (
		wg       sync.WaitGroup
		firstErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = env.svc.Generate.Generate(context.Background(), id)
	}()

	<-firstEntered
	// 第一次请求在途时表单仍可编辑
	if _, err := env.svc.Form.SetMaxContinuousHours(context.Background(), id, "3"); err != nil {
		t.Fatalf("求解期间编辑失败: %v", err)
	}
	if _, err := env.svc.Generate.Generate(context.Background(), id); err != nil {
		t.Fatalf("第二次生成失败: %v", err)
	}
	close(releaseFirst)
	wg.Wait()

	if !errors.Is(firstErr, ErrStaleResponse) {
		t.Errorf("期望 ErrStaleResponse，实际: %v", firstErr)
	}
	if env.solver.calls[1].MaxContinuousHours != 3 {
		t.Errorf("第二次请求应使用最新表单，实际 %d", env.solver.calls[1].MaxContinuousHours)
	}
}

func TestGenerateService_UnknownSession(t *testing.T) {
	env := setupTestEnv()
	if _, err := env.svc.Generate.Generate(context.Background(), "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("期望 ErrSessionNotFound，实际: %v", err)
	}
	if _, err := env.svc.Generate.Result(context.Background(), "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("期望 ErrSessionNotFound，实际: %v", err)
	}
}
