package statistics

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-evently-api/internal/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStack(t *testing.T) (pgxmock.PgxPoolIface, *StatisticsServiceImpl) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	// the three queries run concurrently
	mockPool.MatchExpectationsInOrder(false)
	return mockPool, NewStatisticsService(NewPostgresStatisticsRepo(mockPool, discardLogger()), discardLogger())
}

func bucketRows(pairs ...any) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"label", "count"})
	for i := 0; i < len(pairs); i += 2 {
		rows.AddRow(pairs[i], pairs[i+1])
	}
	return rows
}

func TestGetStatistics(t *testing.T) {
	mockPool, svc := newStack(t)
	mockPool.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(type, '')")).
		WillReturnRows(bucketRows("Meetup", int64(1), "Conference", int64(3), "", int64(1)))
	mockPool.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(location, '')")).
		WillReturnRows(bucketRows("Lisbon", int64(2)))
	mockPool.ExpectQuery(regexp.QuoteMeta("to_char(date, 'YYYY-MM')")).
		WillReturnRows(bucketRows("2025-01", int64(1), "2024-12", int64(4)))

	stats, err := svc.GetStatistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []types.Bucket{{Label: "Conference", Count: 3}, {Label: "", Count: 1}, {Label: "Meetup", Count: 1}}, stats.ByType)
	assert.Equal(t, []types.Bucket{{Label: "Lisbon", Count: 2}}, stats.ByLocation)
	assert.Equal(t, []types.Bucket{{Label: "2024-12", Count: 4}, {Label: "2025-01", Count: 1}}, stats.ByMonth)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestGetStatisticsHandler(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		mockPool, svc := newStack(t)
		mockPool.ExpectQuery("COALESCE\\(type").WillReturnRows(bucketRows())
		mockPool.ExpectQuery("COALESCE\\(location").WillReturnRows(bucketRows())
		mockPool.ExpectQuery("to_char").WillReturnRows(bucketRows())

		rr := httptest.NewRecorder()
		NewHandlerImpl(svc, discardLogger()).GetStatistics(rr, httptest.NewRequest(http.MethodGet, "/api/statistics", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"by_type":[],"by_location":[],"by_month":[]}`, rr.Body.String())
	})

	t.Run("StoreFailure", func(t *testing.T) {
		mockPool, svc := newStack(t)
		mockPool.ExpectQuery("COALESCE\\(type").WillReturnError(errors.New("connection refused"))
		mockPool.ExpectQuery("COALESCE\\(location").WillReturnRows(bucketRows()).Maybe()
		mockPool.ExpectQuery("to_char").WillReturnRows(bucketRows()).Maybe()

		rr := httptest.NewRecorder()
		NewHandlerImpl(svc, discardLogger()).GetStatistics(rr, httptest.NewRequest(http.MethodGet, "/api/statistics", nil))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), "Failed to retrieve statistics")
	})
}
