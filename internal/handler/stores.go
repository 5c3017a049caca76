// Package handler implements the HTTP handlers. Handlers depend on the
// narrow store interfaces below, implemented by the repository layer in
// production and by function-field mocks in tests.
package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kinohub/cinema-api/internal/middleware"
	"github.com/kinohub/cinema-api/internal/model"
	"github.com/kinohub/cinema-api/internal/queue"
	"github.com/kinohub/cinema-api/internal/repository"
)

// UserStore provides user persistence for the auth endpoints.
type UserStore interface {
	Create(ctx context.Context, email, password, role string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// TokenStore persists refresh token hashes.
type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

// GenreStore provides genre persistence.
type GenreStore interface {
	List(ctx context.Context) ([]model.Genre, error)
	Create(ctx context.Context, g *model.Genre) error
}

// ActorStore provides actor persistence.
type ActorStore interface {
	List(ctx context.Context) ([]model.Actor, error)
	Create(ctx context.Context, a *model.Actor) error
}

// HallStore provides cinema hall persistence.
type HallStore interface {
	List(ctx context.Context) ([]model.CinemaHall, error)
	Create(ctx context.Context, h *model.CinemaHall) error
}

// MovieStore provides movie persistence including association links and
// the poster path.
type MovieStore interface {
	List(ctx context.Context, f repository.MovieFilters) ([]model.Movie, error)
	GetByID(ctx context.Context, id uint64) (*model.Movie, error)
	Create(ctx context.Context, m *model.Movie, genreIDs, actorIDs []uint64) error
	Update(ctx context.Context, m *model.Movie, genreIDs, actorIDs []uint64) error
	Delete(ctx context.Context, id uint64) error
	SetImage(ctx context.Context, id uint64, path string) (string, error)
}

// SessionStore provides movie session persistence and availability.
type SessionStore interface {
	List(ctx context.Context, f repository.SessionFilters) ([]repository.SessionListItem, error)
	GetByID(ctx context.Context, id uint64) (*model.MovieSession, error)
	TakenPlaces(ctx context.Context, sessionID uint64) ([]model.SeatRef, error)
	Create(ctx context.Context, s *model.MovieSession) error
	Update(ctx context.Context, s *model.MovieSession) error
	Delete(ctx context.Context, id uint64) error
}

// OrderStore provides order placement and listing.
type OrderStore interface {
	Create(ctx context.Context, userID, sessionID uint64, seats []model.SeatRef) (*model.Order, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Order, error)
}

// PosterStore stores uploaded movie posters.
type PosterStore interface {
	SavePoster(movieID uint64, r io.Reader) (string, error)
	Remove(rel string) error
}

// BookingPublisher emits an event after an order was placed.
type BookingPublisher interface {
	PublishBookingCreated(ctx context.Context, event queue.BookingCreatedEvent) error
}

// dbTimeout bounds the duration of store calls made from handlers.
const dbTimeout = 5 * time.Second

// getUserID extracts the authenticated user's ID set by the JWT
// middleware.
func getUserID(c echo.Context) (uint64, error) {
	if v, ok := c.Get(middleware.CtxUserID).(uint64); ok && v != 0 {
		return v, nil
	}
	return 0, errors.New("no user_id in context")
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// parseIDList parses query/form values like "1,2" or repeated fields
// into a list of IDs. Invalid entries are rejected, not skipped.
func parseIDList(values []string) ([]uint64, error) {
	var ids []uint64
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := strconv.ParseUint(part, 10, 64)
			if err != nil || n == 0 {
				return nil, errors.New("invalid id list")
			}
			ids = append(ids, n)
		}
	}
	return ids, nil
}

// storeError maps shared repository sentinels to HTTP responses.
// Endpoint-specific errors are handled before calling this.
func storeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "conflicting or unknown reference"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}
