package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinohub/cinema-api/internal/model"
	"github.com/kinohub/cinema-api/internal/repository"
)

func TestOrderCreate(t *testing.T) {
	env := newTestEnv(t)

	created := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	env.orders.CreateFunc = func(_ context.Context, userID, sessionID uint64, seats []model.SeatRef) (*model.Order, error) {
		assert.EqualValues(t, 2, userID)
		assert.EqualValues(t, 3, sessionID)
		require.Len(t, seats, 2)
		order := &model.Order{ID: 40, UserID: userID, CreatedAt: created}
		for i, s := range seats {
			order.Tickets = append(order.Tickets, model.Ticket{
				ID: uint64(100 + i), OrderID: 40, SessionID: sessionID, Row: s.Row, Seat: s.Seat,
			})
		}
		return order, nil
	}
	env.sessions.GetByIDFunc = func(context.Context, uint64) (*model.MovieSession, error) {
		return sampleSession(), nil
	}

	rec := env.doJSON(t, http.MethodPost, "/v1/orders", env.userToken(t), map[string]any{
		"movie_session": 3,
		"seats":         []map[string]int{{"row": 1, "seat": 5}, {"row": 1, "seat": 6}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		ID      uint64 `json:"id"`
		Tickets []struct {
			MovieSession uint64 `json:"movie_session"`
			Row          uint32 `json:"row"`
			Seat         uint32 `json:"seat"`
		} `json:"tickets"`
	}
	decodeBody(t, rec, &body)
	assert.EqualValues(t, 40, body.ID)
	require.Len(t, body.Tickets, 2)
	assert.EqualValues(t, 3, body.Tickets[0].MovieSession)

	// The booking event carries the order context.
	require.Len(t, env.events.Events, 1)
	event := env.events.Events[0]
	assert.EqualValues(t, 40, event.OrderID)
	assert.Equal(t, "Inception", event.MovieTitle)
	assert.Equal(t, "Blue", event.HallName)
	assert.Equal(t, []string{"1/5", "1/6"}, event.Seats)
	assert.Equal(t, 2, event.TicketCount)
}

func TestOrderCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.userToken(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing session", map[string]any{"seats": []map[string]int{{"row": 1, "seat": 1}}}},
		{"no seats", map[string]any{"movie_session": 3, "seats": []map[string]int{}}},
		{"zero seat", map[string]any{"movie_session": 3, "seats": []map[string]int{{"row": 1, "seat": 0}}}},
		{"duplicate seat", map[string]any{"movie_session": 3, "seats": []map[string]int{
			{"row": 1, "seat": 5}, {"row": 1, "seat": 5},
		}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.doJSON(t, http.MethodPost, "/v1/orders", token, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestOrderCreateConflicts(t *testing.T) {
	env := newTestEnv(t)
	token := env.userToken(t)
	body := map[string]any{
		"movie_session": 3,
		"seats":         []map[string]int{{"row": 1, "seat": 5}},
	}

	t.Run("seat already sold", func(t *testing.T) {
		env.orders.CreateFunc = func(context.Context, uint64, uint64, []model.SeatRef) (*model.Order, error) {
			return nil, fmt.Errorf("seat 1/5: %w", repository.ErrSeatsTaken)
		}
		rec := env.doJSON(t, http.MethodPost, "/v1/orders", token, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("seat out of hall bounds", func(t *testing.T) {
		env.orders.CreateFunc = func(context.Context, uint64, uint64, []model.SeatRef) (*model.Order, error) {
			return nil, fmt.Errorf("row 99: %w", repository.ErrSeatOutOfRange)
		}
		rec := env.doJSON(t, http.MethodPost, "/v1/orders", token, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("session not found", func(t *testing.T) {
		env.orders.CreateFunc = func(context.Context, uint64, uint64, []model.SeatRef) (*model.Order, error) {
			return nil, repository.ErrNotFound
		}
		rec := env.doJSON(t, http.MethodPost, "/v1/orders", token, body)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	// None of the failures published an event.
	assert.Empty(t, env.events.Events)
}

func TestOrderCreateSurvivesPublisherFailure(t *testing.T) {
	env := newTestEnv(t)
	env.events.Err = fmt.Errorf("broker down")

	env.orders.CreateFunc = func(_ context.Context, userID, sessionID uint64, seats []model.SeatRef) (*model.Order, error) {
		return &model.Order{ID: 41, UserID: userID, CreatedAt: time.Now(),
			Tickets: []model.Ticket{{ID: 1, OrderID: 41, SessionID: sessionID, Row: 1, Seat: 5}}}, nil
	}
	env.sessions.GetByIDFunc = func(context.Context, uint64) (*model.MovieSession, error) {
		return sampleSession(), nil
	}

	rec := env.doJSON(t, http.MethodPost, "/v1/orders", env.userToken(t), map[string]any{
		"movie_session": 3, "seats": []map[string]int{{"row": 1, "seat": 5}},
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestOrderListMine(t *testing.T) {
	env := newTestEnv(t)

	env.orders.ListByUserFunc = func(_ context.Context, userID uint64) ([]model.Order, error) {
		assert.EqualValues(t, 2, userID)
		return []model.Order{
			{ID: 40, UserID: userID, CreatedAt: time.Now(),
				Tickets: []model.Ticket{{ID: 100, OrderID: 40, SessionID: 3, Row: 1, Seat: 5}}},
		}, nil
	}

	rec := env.doJSON(t, http.MethodGet, "/v1/orders", env.userToken(t), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body []struct {
		ID      uint64 `json:"id"`
		Tickets []struct {
			Row  uint32 `json:"row"`
			Seat uint32 `json:"seat"`
		} `json:"tickets"`
	}
	decodeBody(t, rec, &body)
	require.Len(t, body, 1)
	assert.EqualValues(t, 40, body[0].ID)
	require.Len(t, body[0].Tickets, 1)
	assert.EqualValues(t, 5, body[0].Tickets[0].Seat)
}

func TestOrdersRequireAuthentication(t *testing.T) {
	env := newTestEnv(t)
	rec := env.doJSON(t, http.MethodGet, "/v1/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
