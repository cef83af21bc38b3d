package rates

import (
	"context"
	"errors"
	"time"

	rateserrors "go-payroll/internal/rates/errors"

	"gorm.io/gorm"
)

//go:generate mockgen -source=resolver.go -destination=mock/resolver_mock.go -package=mock
type Resolver interface {
	// Resolve returns the rate set effective at or before asOf for the given
	// employment type. Explicit OVERRIDE rows win over the DEFAULT table.
	//
	// Callers holding a snapshot that already carries a rate annotation must
	// treat that annotation as authoritative and not call Resolve again,
	// otherwise later corrections to the rate table would rewrite history.
	Resolve(ctx context.Context, employmentType string, asOf time.Time) (*RateSet, error)
}

type resolver struct {
	repo Repository
}

func NewResolver(repo Repository) Resolver {
	return &resolver{repo: repo}
}

func (r *resolver) Resolve(ctx context.Context, employmentType string, asOf time.Time) (*RateSet, error) {
	if !ValidEmploymentType(employmentType) {
		return nil, rateserrors.ErrInvalidEmploymentType
	}

	rs, err := r.repo.FindEffective(ctx, employmentType, SourceOverride, asOf)
	if err == nil {
		return rs, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rs, err = r.repo.FindEffective(ctx, employmentType, SourceDefault, asOf)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, rateserrors.ErrRateNotFound
		}
		return nil, err
	}

	return rs, nil
}
