package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/SWESH1K/TimeTableGenerator/internal/model"
	"github.com/SWESH1K/TimeTableGenerator/internal/timetable"
	pkgerrors "github.com/SWESH1K/TimeTableGenerator/pkg/errors"
)

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses []model.Course
	err     error
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: []model.Course{
		{Code: "DMW", Name: "Data Mining and Warehousing", Lecture: 4, Practical: 4, IsActive: true},
		{Code: "DL", Name: "Deep Learning", Lecture: 4, Practical: 4, Skill: 4, IsActive: true},
		{Code: "MP", Name: "Mathematical Programming", Lecture: 2, Tutorial: 2, IsActive: true},
	}}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	for _, c := range m.courses {
		if c.Code == course.Code {
			return pkgerrors.ErrDuplicateRecord
		}
	}
	m.courses = append(m.courses, *course)
	return nil
}

func (m *mockCourseRepo) GetByCode(_ context.Context, code string) (*model.Course, error) {
	for i := range m.courses {
		if m.courses[i].Code == code {
			return &m.courses[i], nil
		}
	}
	return nil, pkgerrors.ErrRecordNotFound
}

func (m *mockCourseRepo) List(_ context.Context) ([]model.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.courses, nil
}

// ── Mock ProfessorRepository ──

type mockProfessorRepo struct {
	profs []model.Professor
	err   error
}

func newMockProfessorRepo() *mockProfessorRepo {
	return &mockProfessorRepo{profs: []model.Professor{
		{Name: "Dr Purushotam", IsActive: true},
		{Name: "Dr Hitesh", IsActive: true},
	}}
}

func (m *mockProfessorRepo) Create(_ context.Context, prof *model.Professor) error {
	m.profs = append(m.profs, *prof)
	return nil
}

func (m *mockProfessorRepo) List(_ context.Context) ([]model.Professor, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.profs, nil
}

// ── Mock solver.Client ──

type mockSolverClient struct {
	mu       sync.Mutex
	calls    []timetable.SolverRequest
	response json.RawMessage
	err      error
	// hook 在返回前调用，用于控制并发时序
	hook func(call int)
}

func (m *mockSolverClient) Generate(_ context.Context, req *timetable.SolverRequest) (json.RawMessage, error) {
	m.mu.Lock()
	m.calls = append(m.calls, *req)
	call := len(m.calls)
	hook := m.hook
	resp, err := m.response, m.err
	m.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	return resp, err
}

func (m *mockSolverClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// ── Mock TokenRevoker ──

type mockRevoker struct {
	revoked map[string]bool
	err     error
}

func newMockRevoker() *mockRevoker {
	return &mockRevoker{revoked: make(map[string]bool)}
}

func (m *mockRevoker) RevokeToken(_ context.Context, jti string, _ time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.revoked[jti] = true
	return nil
}

var errMockDB = errors.New("mock db error")
