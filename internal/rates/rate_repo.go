package rates

import (
	"context"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=rate_repo.go -destination=mock/rate_repo_mock.go -package=mock
type Repository interface {
	FindEffective(ctx context.Context, employmentType, source string, asOf time.Time) (*RateSet, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindEffective(ctx context.Context, employmentType, source string, asOf time.Time) (*RateSet, error) {
	var rs RateSet
	err := r.db.WithContext(ctx).
		Where("employment_type = ?", employmentType).
		Where("source = ?", source).
		Where("effective_from <= ?", asOf.Format("2006-01-02")).
		Order("effective_from DESC").
		First(&rs).Error
	return &rs, err
}
