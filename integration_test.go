//go:build integration

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	database "github.com/FACorreiaa/go-evently-api/app/db"
	"github.com/FACorreiaa/go-evently-api/config"
	"github.com/FACorreiaa/go-evently-api/internal/container"
	"github.com/FACorreiaa/go-evently-api/internal/router"
)

func startPostgres(t *testing.T) *config.Config {
	t.Helper()
	ctx := context.Background()

	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "event_management",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	host, err := pg.Host(ctx)
	require.NoError(t, err)
	port, err := pg.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Repositories.Postgres = config.PostgresConfig{
		Host:     host,
		Port:     port.Port(),
		Username: "postgres",
		Password: "postgres",
		DB:       "event_management",
		SSLMODE:  "disable",
		MaxConns: 4,
	}
	cfg.JWT = config.JWTConfig{SecretKey: "integration-secret", Issuer: "evently-test", AccessTokenTTL: time.Hour}
	return cfg
}

type client struct {
	t      *testing.T
	server *httptest.Server
	token  string
}

func (c *client) call(method, path string, body any) (int, []byte) {
	c.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.server.URL+path, rd)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.server.Client().Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, out
}

func TestEventManagementFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping Postgres integration test in short mode")
	}
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := startPostgres(t)

	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(dbConfig.ConnectionURL, logger))
	pool, err := database.Init(ctx, dbConfig, logger)
	require.NoError(t, err)
	defer pool.Close()
	require.True(t, database.WaitForDB(ctx, pool, logger))

	c, err := container.NewContainer(cfg, pool, logger)
	require.NoError(t, err)
	defer c.Close()

	server := httptest.NewServer(router.SetupRouter(c.RouterConfig()))
	defer server.Close()
	api := &client{t: t, server: server}

	creds := map[string]string{"email": "a@x.io", "password": "pw1"}

	status, _ := api.call(http.MethodPost, "/api/auth/register", creds)
	require.Equal(t, http.StatusCreated, status)
	status, _ = api.call(http.MethodPost, "/api/auth/register", creds)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = api.call(http.MethodPost, "/api/auth/login", map[string]string{"email": "a@x.io", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = api.call(http.MethodPost, "/api/auth/login", map[string]string{"email": "nobody@x.io", "password": "pw1"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := api.call(http.MethodGet, "/api/events", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, string(body), "Access denied. No token provided.")

	status, body = api.call(http.MethodPost, "/api/auth/login", creds)
	require.Equal(t, http.StatusOK, status)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &login))
	api.token = login.Token

	status, body = api.call(http.MethodPost, "/api/events", map[string]string{
		"name": "Tech Meetup", "date": "2024-12-23T00:00:00.000Z", "location": "Lisbon", "type": "Meetup",
	})
	require.Equal(t, http.StatusCreated, status)
	var ev struct {
		ID   int64  `json:"id"`
		Date string `json:"date"`
	}
	require.NoError(t, json.Unmarshal(body, &ev))
	assert.Equal(t, "2024-12-23", ev.Date)

	status, body = api.call(http.MethodPost, "/api/participants", map[string]string{"name": "John Doe", "email": "john.doe@example.com"})
	require.Equal(t, http.StatusCreated, status)
	var p struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &p))

	addPath := "/api/events/" + strconv.FormatInt(ev.ID, 10) + "/participants/" + strconv.FormatInt(p.ID, 10)
	status, _ = api.call(http.MethodPost, addPath, nil)
	assert.Equal(t, http.StatusCreated, status)
	// repeated pairs are stored as separate rows
	status, _ = api.call(http.MethodPost, addPath, nil)
	assert.Equal(t, http.StatusCreated, status)

	status, body = api.call(http.MethodGet, "/api/relations", nil)
	require.Equal(t, http.StatusOK, status)
	var relations []map[string]any
	require.NoError(t, json.Unmarshal(body, &relations))
	assert.Len(t, relations, 2)

	status, body = api.call(http.MethodGet, "/api/events", nil)
	require.Equal(t, http.StatusOK, status)
	var listed []struct {
		EventID      int64            `json:"event_id"`
		Participants []map[string]any `json:"participants"`
	}
	require.NoError(t, json.Unmarshal(body, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, ev.ID, listed[0].EventID)
	assert.Len(t, listed[0].Participants, 2)

	status, _ = api.call(http.MethodDelete, addPath, nil)
	assert.Equal(t, http.StatusOK, status)
	status, body = api.call(http.MethodDelete, addPath, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, string(body), "Association not found")

	status, _ = api.call(http.MethodGet, "/api/statistics", nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = api.call(http.MethodGet, "/api/events/export", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "Tech Meetup")

	status, _ = api.call(http.MethodDelete, "/api/events/"+strconv.FormatInt(ev.ID, 10), nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = api.call(http.MethodGet, "/api/events/"+strconv.FormatInt(ev.ID, 10), nil)
	assert.Equal(t, http.StatusNotFound, status)

	api.token = ""
	status, _ = api.call(http.MethodGet, "/api/participants/"+strconv.FormatInt(p.ID, 10), nil)
	assert.Equal(t, http.StatusOK, status)
}
