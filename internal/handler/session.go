package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kinohub/cinema-api/internal/model"
	"github.com/kinohub/cinema-api/internal/repository"
)

// SessionHandler serves the movie session schedule.
type SessionHandler struct {
	Sessions SessionStore
}

func NewSessionHandler(sessions SessionStore) *SessionHandler {
	if sessions == nil {
		panic("nil store passed to NewSessionHandler")
	}
	return &SessionHandler{Sessions: sessions}
}

// sessionListItem is the flattened list row, availability included.
type sessionListItem struct {
	ID                 uint64    `json:"id"`
	ShowTime           time.Time `json:"show_time"`
	MovieID            uint64    `json:"movie_id"`
	MovieTitle         string    `json:"movie_title"`
	MovieImage         *string   `json:"movie_image"`
	CinemaHallID       uint64    `json:"cinema_hall_id"`
	CinemaHallName     string    `json:"cinema_hall_name"`
	CinemaHallCapacity uint32    `json:"cinema_hall_capacity"`
	TicketsAvailable   uint32    `json:"tickets_available"`
}

// sessionDetail nests the full movie and hall plus the seats already
// sold.
type sessionDetail struct {
	ID          uint64          `json:"id"`
	ShowTime    time.Time       `json:"show_time"`
	Movie       movieDetail     `json:"movie"`
	CinemaHall  hallResp        `json:"cinema_hall"`
	TakenPlaces []model.SeatRef `json:"taken_places"`
}

func toSessionListItem(it repository.SessionListItem) sessionListItem {
	return sessionListItem{
		ID:                 it.ID,
		ShowTime:           it.ShowTime,
		MovieID:            it.MovieID,
		MovieTitle:         it.MovieTitle,
		MovieImage:         it.MovieImage,
		CinemaHallID:       it.HallID,
		CinemaHallName:     it.HallName,
		CinemaHallCapacity: it.HallCapacity,
		TicketsAvailable:   it.TicketsAvailable,
	}
}

// List handles GET /v1/movie-sessions with optional date (YYYY-MM-DD)
// and movie query filters.
func (h *SessionHandler) List(c echo.Context) error {
	var filters repository.SessionFilters
	if d := c.QueryParam("date"); d != "" {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
		filters.Date = d
	}
	if mv := c.QueryParam("movie"); mv != "" {
		id, err := strconv.ParseUint(mv, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie filter"})
		}
		filters.MovieID = id
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, err := h.Sessions.List(ctx, filters)
	if err != nil {
		return storeError(c, err)
	}
	out := make([]sessionListItem, 0, len(items))
	for _, it := range items {
		out = append(out, toSessionListItem(it))
	}
	return c.JSON(http.StatusOK, out)
}

// Detail handles GET /v1/movie-sessions/:id.
func (h *SessionHandler) Detail(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	s, err := h.Sessions.GetByID(ctx, id)
	if err != nil {
		return storeError(c, err)
	}
	taken, err := h.Sessions.TakenPlaces(ctx, id)
	if err != nil {
		return storeError(c, err)
	}

	return c.JSON(http.StatusOK, sessionDetail{
		ID:          s.ID,
		ShowTime:    s.ShowTime,
		Movie:       toMovieDetail(*s.Movie),
		CinemaHall:  toHallResp(*s.Hall),
		TakenPlaces: taken,
	})
}

type sessionReq struct {
	Movie      uint64    `json:"movie"`
	CinemaHall uint64    `json:"cinema_hall"`
	ShowTime   time.Time `json:"show_time"`
}

func (req sessionReq) validate() error {
	if req.Movie == 0 || req.CinemaHall == 0 {
		return errors.New("movie and cinema_hall required")
	}
	if req.ShowTime.IsZero() {
		return errors.New("show_time required")
	}
	return nil
}

// Create handles POST /v1/movie-sessions (admin).
func (h *SessionHandler) Create(c echo.Context) error {
	var req sessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	s := model.MovieSession{MovieID: req.Movie, HallID: req.CinemaHall, ShowTime: req.ShowTime.UTC()}
	if err := h.Sessions.Create(ctx, &s); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown movie or cinema hall id"})
		}
		return storeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":          s.ID,
		"movie":       s.MovieID,
		"cinema_hall": s.HallID,
		"show_time":   s.ShowTime,
	})
}

// Update handles PUT /v1/movie-sessions/:id (admin).
func (h *SessionHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req sessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	s := model.MovieSession{ID: id, MovieID: req.Movie, HallID: req.CinemaHall, ShowTime: req.ShowTime.UTC()}
	if err := h.Sessions.Update(ctx, &s); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown movie or cinema hall id"})
		}
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":          s.ID,
		"movie":       s.MovieID,
		"cinema_hall": s.HallID,
		"show_time":   s.ShowTime,
	})
}

// Delete handles DELETE /v1/movie-sessions/:id (admin).
func (h *SessionHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Sessions.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "session has sold tickets"})
		}
		return storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
