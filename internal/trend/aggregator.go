package trend

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go-payroll/internal/snapshot"
	trenderrors "go-payroll/internal/trend/errors"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultMonths = 6
	MaxMonths     = 24

	// cacheTTL is deliberately short: an approval changes the aggregate and
	// a minute of staleness is acceptable for a dashboard.
	cacheTTL = 60 * time.Second

	// snapshotScanCap bounds the listing per requested month so one oversized
	// tenant cannot pull the whole table through the aggregator.
	snapshotScanCap = 100
)

func trendCacheKey(months int) string {
	return fmt.Sprintf("trend:months:%d", months)
}

//go:generate mockgen -source=aggregator.go -destination=mock/aggregator_mock.go -package=mock
type Aggregator interface {
	// GetTrend returns per-month totals over APPROVED and PAID snapshots for
	// the last `months` calendar months, oldest first.
	GetTrend(ctx context.Context, months int) ([]TrendEntry, error)
}

type aggregator struct {
	snapshots snapshot.Repository
	cache     Cache
	sf        *singleflight.Group
	logger    *zap.Logger
	now       func() time.Time
}

func NewAggregator(snapshots snapshot.Repository, cache Cache, logger *zap.Logger) Aggregator {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &aggregator{
		snapshots: snapshots,
		cache:     cache,
		sf:        &singleflight.Group{},
		logger:    logger.Named("trend.aggregator"),
		now:       time.Now,
	}
}

func (a *aggregator) GetTrend(ctx context.Context, months int) ([]TrendEntry, error) {
	if months == 0 {
		months = DefaultMonths
	}
	if months < 1 || months > MaxMonths {
		return nil, trenderrors.ErrInvalidMonths
	}

	cacheKey := trendCacheKey(months)

	// A cache failure degrades to a rebuild, never to a request failure.
	if cached, ok, err := a.cache.Get(ctx, cacheKey); err != nil {
		a.logger.Warn("trend cache read failed", zap.String("key", cacheKey), zap.Error(err))
	} else if ok {
		var entries []TrendEntry
		if err := json.Unmarshal(cached, &entries); err == nil {
			return entries, nil
		}
		a.logger.Warn("trend cache entry corrupt, rebuilding", zap.String("key", cacheKey))
	}

	v, err, _ := a.sf.Do(cacheKey, func() (interface{}, error) {
		entries, err := a.build(ctx, months)
		if err != nil {
			return nil, err
		}

		if payload, err := json.Marshal(entries); err == nil {
			if err := a.cache.Set(ctx, cacheKey, payload, cacheTTL); err != nil {
				a.logger.Warn("trend cache write failed", zap.String("key", cacheKey), zap.Error(err))
			}
		}

		return entries, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]TrendEntry), nil
}

func (a *aggregator) build(ctx context.Context, months int) ([]TrendEntry, error) {
	fromYear, fromMonth := windowStart(a.now().UTC(), months)

	snaps, err := a.snapshots.List(ctx, snapshot.ListFilter{
		Statuses:  []string{snapshot.StatusApproved, snapshot.StatusPaid},
		FromYear:  fromYear,
		FromMonth: fromMonth,
		Limit:     months * snapshotScanCap,
	})
	if err != nil {
		return nil, err
	}

	byMonth := map[string]*TrendEntry{}
	for _, snap := range snaps {
		label := fmt.Sprintf("%04d-%02d", snap.Year, snap.Month)
		entry, ok := byMonth[label]
		if !ok {
			entry = &TrendEntry{MonthLabel: label}
			byMonth[label] = entry
		}
		entry.Count++
		entry.GrossSum += snap.TotalGrossPay
		entry.DeductionsSum += snap.TotalDeductions
		entry.NetSum += snap.NetPay
	}

	entries := make([]TrendEntry, 0, len(byMonth))
	for _, entry := range byMonth {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].MonthLabel < entries[j].MonthLabel
	})

	if len(entries) > months {
		entries = entries[len(entries)-months:]
	}

	return entries, nil
}

// windowStart returns the first (year, month) inside a window of `months`
// calendar months ending at `now`.
func windowStart(now time.Time, months int) (int, int) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -(months - 1), 0)
	return start.Year(), int(start.Month())
}
