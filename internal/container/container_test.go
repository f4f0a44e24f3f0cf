package container

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-evently-api/config"
	"github.com/FACorreiaa/go-evently-api/internal/notifier"
	"github.com/FACorreiaa/go-evently-api/internal/router"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT = config.JWTConfig{SecretKey: "container-secret", Issuer: "evently-test", AccessTokenTTL: time.Hour}
	cfg.CORS.AllowedOrigins = []string{"http://localhost:4200"}
	cfg.RateLimit.AuthRequestsPerMinute = 20
	return cfg
}

func TestNewContainer(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	c, err := NewContainer(testConfig(), mockPool, logger)
	require.NoError(t, err)
	assert.IsType(t, notifier.NoopPublisher{}, c.Publisher)

	rcfg := c.RouterConfig()
	assert.Equal(t, 20, rcfg.AuthRequestsPerMinute)
	assert.Equal(t, []string{"http://localhost:4200"}, rcfg.AllowedOrigins)

	rr := httptest.NewRecorder()
	router.SetupRouter(rcfg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/relations", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	assert.NoError(t, c.Close())
}

func TestNewContainerRequiresSecret(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig()
	cfg.JWT.SecretKey = ""

	_, err := NewContainer(cfg, nil, logger)
	assert.Error(t, err)
}
