package solver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/SWESH1K/TimeTableGenerator/config"
	"github.com/SWESH1K/TimeTableGenerator/internal/timetable"
)

func newTestClient(url string, timeout time.Duration) Client {
	return NewClient(&config.SolverConfig{
		BaseURL: url + "/",
		Path:    "/api/generate_timetable/",
		Timeout: timeout,
	}, zap.NewNop())
}

func sampleRequest() *timetable.SolverRequest {
	return &timetable.SolverRequest{
		Sections:           []string{"A"},
		Courses:            map[string][]string{"A": {"DMW"}},
		Professors:         map[string]string{"DMW": "Dr Purushotam"},
		LTPS:               map[string]timetable.LoadHours{"DMW": {L: 3, T: 1}},
		Days:               []string{"Monday"},
		TimeSlots:          []string{"T1"},
		MaxContinuousHours: 2,
	}
}

func TestGenerate_Success(t *testing.T) {
	var gotPath, gotContentType string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Timetable generated successfully","time_table":{"Monday":{"T1":[]}}}`))
	}))
	defer srv.Close()

	raw, err := newTestClient(srv.URL, time.Second).Generate(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Generate 失败: %v", err)
	}
	if gotPath != "/api/generate_timetable/" {
		t.Errorf("请求路径不符: %s", gotPath)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type 不符: %s", gotContentType)
	}
	if _, ok := gotBody["max_continuous_hours"]; !ok {
		t.Error("请求体缺少 max_continuous_hours")
	}
	if diff := cmp.Diff(`{"Monday":{"T1":[]}}`, string(raw)); diff != "" {
		t.Errorf("time_table 不符 (-want +got):\n%s", diff)
	}
}

func TestGenerate_ErrorStatusWithMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Missing required fields in the request."}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, time.Second).Generate(context.Background(), sampleRequest())
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("期望 *Error，实际: %v", err)
	}
	if se.Status != http.StatusBadRequest || se.Message != "Missing required fields in the request." {
		t.Errorf("错误内容不符: %+v", se)
	}
}

func TestGenerate_ErrorStatusWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, time.Second).Generate(context.Background(), sampleRequest())
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("期望 *Error，实际: %v", err)
	}
	if se.Message != GenericFailureMessage {
		t.Errorf("期望通用错误信息，实际: %s", se.Message)
	}
}

func TestGenerate_ErrorShapedOKBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"infeasible"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, time.Second).Generate(context.Background(), sampleRequest())
	var se *Error
	if !errors.As(err, &se) || se.Message != "infeasible" {
		t.Fatalf("期望 infeasible 错误，实际: %v", err)
	}
}

func TestGenerate_MissingTimeTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, time.Second).Generate(context.Background(), sampleRequest())
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("期望 *Error，实际: %v", err)
	}
}

func TestGenerate_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := newTestClient(srv.URL, 50*time.Millisecond).Generate(context.Background(), sampleRequest())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("期望 ErrUnavailable，实际: %v", err)
	}
}

func TestGenerate_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url, time.Second).Generate(context.Background(), sampleRequest())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("期望 ErrUnavailable，实际: %v", err)
	}
}

// ── Sequencer ──

func TestSequencer_OnlyLatestWins(t *testing.T) {
	var s Sequencer
	first := s.Next()
	second := s.Next()

	if s.IsLatest(first) {
		t.Error("较早的序号不应为最新")
	}
	if !s.IsLatest(second) {
		t.Error("最后分配的序号应为最新")
	}
}

func TestSequencer_Concurrent(t *testing.T) {
	var s Sequencer
	var wg sync.WaitGroup
	seen := make(chan uint64, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- s.Next()
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[uint64]bool)
	for id := range seen {
		if unique[id] {
			t.Fatalf("序号重复: %d", id)
		}
		unique[id] = true
	}
	if !s.IsLatest(100) {
		t.Error("100 次分配后最新序号应为 100")
	}
}
