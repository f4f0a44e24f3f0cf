package relation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-evently-api/internal/types"
)

type MockRelationRepo struct {
	mock.Mock
}

func (m *MockRelationRepo) List(ctx context.Context) ([]types.EventParticipant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.EventParticipant), args.Error(1)
}

func (m *MockRelationRepo) Add(ctx context.Context, eventID, participantID int64) (*types.EventParticipant, error) {
	args := m.Called(ctx, eventID, participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.EventParticipant), args.Error(1)
}

func (m *MockRelationRepo) Remove(ctx context.Context, eventID, participantID int64) error {
	return m.Called(ctx, eventID, participantID).Error(0)
}

func (m *MockRelationRepo) EventsByParticipant(ctx context.Context, participantID int64) ([]types.EventSummary, error) {
	args := m.Called(ctx, participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.EventSummary), args.Error(1)
}

func (m *MockRelationRepo) ParticipantsByEvent(ctx context.Context, eventID int64) ([]types.ParticipantSummary, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ParticipantSummary), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, typ types.NotificationType, eventID, participantID int64) {
	m.Called(ctx, typ, eventID, participantID)
}

func newTestRouter(repo *MockRelationRepo, n *MockNotifier) http.Handler {
	h := NewHandlerImpl(NewRelationService(repo, n, discardLogger()), discardLogger())
	r := chi.NewRouter()
	r.Get("/api/relations", h.ListRelations)
	r.Get("/api/events/participants/{participantId}", h.GetEventsByParticipant)
	r.Get("/api/events/{eventId}/participants", h.GetParticipantsByEvent)
	r.Post("/api/events/{eventId}/participants/{participantId}", h.AddParticipantToEvent)
	r.Delete("/api/events/{eventId}/participants/{participantId}", h.RemoveParticipantFromEvent)
	return r
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body["error"].(string)
}

func TestAddParticipantToEvent(t *testing.T) {
	repo, n := new(MockRelationRepo), new(MockNotifier)
	repo.On("Add", mock.Anything, int64(1), int64(2)).
		Return(&types.EventParticipant{ID: 9, EventID: 1, ParticipantID: 2}, nil).Once()
	n.On("Notify", mock.Anything, types.NotificationParticipantAdded, int64(1), int64(2)).Once()

	rr := serve(newTestRouter(repo, n), http.MethodPost, "/api/events/1/participants/2")
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t,
		`{"message":"Participant added to event successfully","association":{"id":9,"event_id":1,"participant_id":2}}`,
		rr.Body.String())
	repo.AssertExpectations(t)
	n.AssertExpectations(t)
}

func TestAddParticipantToEventFailure(t *testing.T) {
	repo, n := new(MockRelationRepo), new(MockNotifier)
	repo.On("Add", mock.Anything, int64(1), int64(2)).Return(nil, errors.New("boom")).Once()

	rr := serve(newTestRouter(repo, n), http.MethodPost, "/api/events/1/participants/2")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Failed to add participant to event", errorMessage(t, rr))
	n.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveParticipantFromEvent(t *testing.T) {
	t.Run("Removed", func(t *testing.T) {
		repo, n := new(MockRelationRepo), new(MockNotifier)
		repo.On("Remove", mock.Anything, int64(1), int64(2)).Return(nil).Once()
		n.On("Notify", mock.Anything, types.NotificationParticipantRemoved, int64(1), int64(2)).Once()

		rr := serve(newTestRouter(repo, n), http.MethodDelete, "/api/events/1/participants/2")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"message":"Participant removed from event successfully"}`, rr.Body.String())
		n.AssertExpectations(t)
	})

	t.Run("Missing", func(t *testing.T) {
		repo, n := new(MockRelationRepo), new(MockNotifier)
		repo.On("Remove", mock.Anything, int64(1), int64(2)).
			Return(fmt.Errorf("association 1/2: %w", types.ErrNotFound)).Once()

		rr := serve(newTestRouter(repo, n), http.MethodDelete, "/api/events/1/participants/2")
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Association not found", errorMessage(t, rr))
		n.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("BadParticipantID", func(t *testing.T) {
		repo, n := new(MockRelationRepo), new(MockNotifier)
		rr := serve(newTestRouter(repo, n), http.MethodDelete, "/api/events/1/participants/abc")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		repo.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRelationQueries(t *testing.T) {
	repo, n := new(MockRelationRepo), new(MockNotifier)
	repo.On("EventsByParticipant", mock.Anything, int64(2)).
		Return([]types.EventSummary{{EventID: 1, EventName: "Tech Meetup"}}, nil).Once()
	repo.On("ParticipantsByEvent", mock.Anything, int64(1)).
		Return([]types.ParticipantSummary{}, nil).Once()
	repo.On("List", mock.Anything).Return(nil, errors.New("down")).Once()
	router := newTestRouter(repo, n)

	rr := serve(router, http.MethodGet, "/api/events/participants/2")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"event_id":1,"event_name":"Tech Meetup"}]`, rr.Body.String())

	rr = serve(router, http.MethodGet, "/api/events/1/participants")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = serve(router, http.MethodGet, "/api/relations")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Failed to retrieve relations", errorMessage(t, rr))
	repo.AssertExpectations(t)
}
