package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/SWESH1K/TimeTableGenerator/internal/assignment"
	"github.com/SWESH1K/TimeTableGenerator/internal/dto"
	"github.com/SWESH1K/TimeTableGenerator/internal/repository"
)

// CatalogService 课程目录与教师名单业务接口
type CatalogService interface {
	ListCourses(ctx context.Context) ([]dto.CourseResponse, error)
	ListProfessors(ctx context.Context) ([]dto.ProfessorResponse, error)
	// Catalog 课程 → 默认学时，用于新会话的学时自动填充
	Catalog(ctx context.Context) (assignment.Catalog, error)
}

type catalogService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCatalogService 创建 CatalogService 实例
func NewCatalogService(repo *repository.Repository, logger *zap.Logger) CatalogService {
	return &catalogService{repo: repo, logger: logger}
}

func (s *catalogService) ListCourses(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.List(ctx)
	if err != nil {
		s.logger.Error("查询课程目录失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		result = append(result, dto.CourseResponse{
			Code: courses[i].Code,
			Name: courses[i].Name,
			LTPS: courses[i].LoadHours(),
		})
	}
	return result, nil
}

func (s *catalogService) ListProfessors(ctx context.Context) ([]dto.ProfessorResponse, error) {
	profs, err := s.repo.Professor.List(ctx)
	if err != nil {
		s.logger.Error("查询教师名单失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.ProfessorResponse, 0, len(profs))
	for _, p := range profs {
		result = append(result, dto.ProfessorResponse{Name: p.Name})
	}
	return result, nil
}

func (s *catalogService) Catalog(ctx context.Context) (assignment.Catalog, error) {
	courses, err := s.repo.Course.List(ctx)
	if err != nil {
		s.logger.Error("加载课程目录失败", zap.Error(err))
		return nil, err
	}
	catalog := make(assignment.Catalog, len(courses))
	for i := range courses {
		catalog[courses[i].Code] = courses[i].LoadHours()
	}
	return catalog, nil
}
