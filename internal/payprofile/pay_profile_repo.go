package payprofile

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=pay_profile_repo.go -destination=mock/pay_profile_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *PayProfile) error
	FindEffective(ctx context.Context, userID uuid.UUID, asOf time.Time) (*PayProfile, error)
	FindAllByUser(ctx context.Context, userID uuid.UUID) ([]PayProfile, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx rebinds the session onto tx, so every operation on the returned
// repository commits or rolls back with the caller's transaction.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	db := r.db.Session(&gorm.Session{Context: r.db.Statement.Context, NewDB: true})
	db.Statement.ConnPool = tx
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *PayProfile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindEffective(ctx context.Context, userID uuid.UUID, asOf time.Time) (*PayProfile, error) {
	var p PayProfile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("effective_date <= ?", asOf.Format("2006-01-02")).
		Order("effective_date DESC").
		First(&p).Error
	return &p, err
}

func (r *repository) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]PayProfile, error) {
	var rows []PayProfile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("effective_date DESC").
		Find(&rows).Error
	return rows, err
}
