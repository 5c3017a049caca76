package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinohub/cinema-api/internal/model"
	"github.com/kinohub/cinema-api/internal/repository"
)

func TestGenres(t *testing.T) {
	env := newTestEnv(t)

	env.genres.ListFunc = func(context.Context) ([]model.Genre, error) {
		return []model.Genre{{ID: 1, Name: "Drama"}, {ID: 2, Name: "Sci-Fi"}}, nil
	}
	env.genres.CreateFunc = func(_ context.Context, g *model.Genre) error {
		if g.Name == "Drama" {
			return repository.ErrConflict
		}
		g.ID = 3
		return nil
	}

	t.Run("list", func(t *testing.T) {
		rec := env.doJSON(t, http.MethodGet, "/v1/genres", env.userToken(t), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var body []map[string]any
		decodeBody(t, rec, &body)
		require.Len(t, body, 2)
		assert.Equal(t, "Drama", body[0]["name"])
	})

	t.Run("create", func(t *testing.T) {
		rec := env.doJSON(t, http.MethodPost, "/v1/genres", env.adminToken(t), map[string]string{"name": "Horror"})
		require.Equal(t, http.StatusCreated, rec.Code)
		var body map[string]any
		decodeBody(t, rec, &body)
		assert.EqualValues(t, 3, body["id"])
	})

	t.Run("duplicate name", func(t *testing.T) {
		rec := env.doJSON(t, http.MethodPost, "/v1/genres", env.adminToken(t), map[string]string{"name": "Drama"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty name", func(t *testing.T) {
		rec := env.doJSON(t, http.MethodPost, "/v1/genres", env.adminToken(t), map[string]string{"name": "  "})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("create forbidden for plain user", func(t *testing.T) {
		rec := env.doJSON(t, http.MethodPost, "/v1/genres", env.userToken(t), map[string]string{"name": "Horror"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestActors(t *testing.T) {
	env := newTestEnv(t)

	env.actors.ListFunc = func(context.Context) ([]model.Actor, error) {
		return []model.Actor{{ID: 1, FirstName: "Leonardo", LastName: "DiCaprio"}}, nil
	}
	env.actors.CreateFunc = func(_ context.Context, a *model.Actor) error {
		a.ID = 2
		return nil
	}

	t.Run("list includes full name", func(t *testing.T) {
		rec := env.doJSON(t, http.MethodGet, "/v1/actors", env.userToken(t), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var body []map[string]any
		decodeBody(t, rec, &body)
		require.Len(t, body, 1)
		assert.Equal(t, "Leonardo DiCaprio", body[0]["full_name"])
	})

	t.Run("create", func(t *testing.T) {
		rec := env.doJSON(t, http.MethodPost, "/v1/actors", env.adminToken(t), map[string]string{
			"first_name": "Elliot", "last_name": "Page",
		})
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("missing last name", func(t *testing.T) {
		rec := env.doJSON(t, http.MethodPost, "/v1/actors", env.adminToken(t), map[string]string{
			"first_name": "Elliot",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCinemaHalls(t *testing.T) {
	env := newTestEnv(t)

	env.halls.ListFunc = func(context.Context) ([]model.CinemaHall, error) {
		return []model.CinemaHall{{ID: 1, Name: "Blue", Rows: 10, SeatsInRow: 12}}, nil
	}
	env.halls.CreateFunc = func(_ context.Context, h *model.CinemaHall) error {
		h.ID = 2
		return nil
	}

	t.Run("list includes capacity", func(t *testing.T) {
		rec := env.doJSON(t, http.MethodGet, "/v1/cinema-halls", env.userToken(t), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var body []map[string]any
		decodeBody(t, rec, &body)
		require.Len(t, body, 1)
		assert.EqualValues(t, 120, body[0]["capacity"])
	})

	t.Run("create", func(t *testing.T) {
		rec := env.doJSON(t, http.MethodPost, "/v1/cinema-halls", env.adminToken(t), map[string]any{
			"name": "Red", "rows": 8, "seats_in_row": 10,
		})
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("zero geometry rejected", func(t *testing.T) {
		rec := env.doJSON(t, http.MethodPost, "/v1/cinema-halls", env.adminToken(t), map[string]any{
			"name": "Red", "rows": 0, "seats_in_row": 10,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
