package statistics

import (
	"context"
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-evently-api/internal/types"
)

var _ StatisticsService = (*StatisticsServiceImpl)(nil)

type StatisticsService interface {
	GetStatistics(ctx context.Context) (*types.Statistics, error)
}

type StatisticsServiceImpl struct {
	logger *slog.Logger
	repo   StatisticsRepo
}

func NewStatisticsService(repo StatisticsRepo, logger *slog.Logger) *StatisticsServiceImpl {
	return &StatisticsServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// GetStatistics runs the three aggregate queries concurrently. The first
// failure cancels the others.
func (s *StatisticsServiceImpl) GetStatistics(ctx context.Context) (*types.Statistics, error) {
	ctx, span := otel.Tracer("StatisticsService").Start(ctx, "GetStatistics")
	defer span.End()

	var stats types.Statistics
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.ByType, err = s.repo.CountByType(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.ByLocation, err = s.repo.CountByLocation(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.ByMonth, err = s.repo.CountByMonth(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "statistics failed")
		return nil, err
	}

	sortByCount(stats.ByType)
	sortByCount(stats.ByLocation)
	// YYYY-MM labels sort chronologically as strings.
	sort.Slice(stats.ByMonth, func(i, j int) bool { return stats.ByMonth[i].Label < stats.ByMonth[j].Label })
	return &stats, nil
}

func sortByCount(b []types.Bucket) {
	sort.Slice(b, func(i, j int) bool {
		if b[i].Count != b[j].Count {
			return b[i].Count > b[j].Count
		}
		return b[i].Label < b[j].Label
	})
}
