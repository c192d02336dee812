package sql

import (
	"avatarlab/internal/entity"

	"gorm.io/gorm"
)

// GormRepository implements the model.Repository interface using GORM.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new repository instance.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) calculatePagination(totalCount int64, page, pageSize int) *entity.Meta {
	if pageSize <= 0 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}

	return &entity.Meta{
		Total:    totalCount,
		Page:     int64(page),
		PageSize: int64(pageSize),
	}
}

func normalizePage(page, pageSize int64) (int, int, int) {
	p := 1
	size := 20
	if page > 0 {
		p = int(page)
	}
	if pageSize > 0 {
		size = int(pageSize)
	}
	offset := (p - 1) * size
	if offset < 0 {
		offset = 0
	}
	return p, size, offset
}
