package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/SWESH1K/TimeTableGenerator/internal/model"
	pkgerrors "github.com/SWESH1K/TimeTableGenerator/pkg/errors"
)

// ProfessorRepository 教师名单数据访问接口
type ProfessorRepository interface {
	Create(ctx context.Context, prof *model.Professor) error
	List(ctx context.Context) ([]model.Professor, error)
}

type professorRepo struct {
	db *gorm.DB
}

// NewProfessorRepo 创建 ProfessorRepository 实例
func NewProfessorRepo(db *gorm.DB) ProfessorRepository {
	return &professorRepo{db: db}
}

func (r *professorRepo) Create(ctx context.Context, prof *model.Professor) error {
	err := r.db.WithContext(ctx).Create(prof).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return pkgerrors.ErrDuplicateRecord
	}
	return err
}

func (r *professorRepo) List(ctx context.Context) ([]model.Professor, error) {
	var profs []model.Professor
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, name ASC").
		Find(&profs).Error
	return profs, err
}
