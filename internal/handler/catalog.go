package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kinohub/cinema-api/internal/model"
	"github.com/kinohub/cinema-api/internal/repository"
)

// CatalogHandler serves the fixture-style resources: genres, actors and
// cinema halls.
type CatalogHandler struct {
	Genres GenreStore
	Actors ActorStore
	Halls  HallStore
}

func NewCatalogHandler(genres GenreStore, actors ActorStore, halls HallStore) *CatalogHandler {
	if genres == nil || actors == nil || halls == nil {
		panic("nil store passed to NewCatalogHandler")
	}
	return &CatalogHandler{Genres: genres, Actors: actors, Halls: halls}
}

type genreResp struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type actorResp struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

type hallResp struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	Rows       uint32 `json:"rows"`
	SeatsInRow uint32 `json:"seats_in_row"`
	Capacity   uint32 `json:"capacity"`
}

func toGenreResp(g model.Genre) genreResp { return genreResp{ID: g.ID, Name: g.Name} }

func toActorResp(a model.Actor) actorResp {
	return actorResp{ID: a.ID, FirstName: a.FirstName, LastName: a.LastName, FullName: a.FullName()}
}

func toHallResp(h model.CinemaHall) hallResp {
	return hallResp{ID: h.ID, Name: h.Name, Rows: h.Rows, SeatsInRow: h.SeatsInRow, Capacity: h.Capacity()}
}

// ListGenres handles GET /v1/genres.
func (h *CatalogHandler) ListGenres(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	genres, err := h.Genres.List(ctx)
	if err != nil {
		return storeError(c, err)
	}
	out := make([]genreResp, 0, len(genres))
	for _, g := range genres {
		out = append(out, toGenreResp(g))
	}
	return c.JSON(http.StatusOK, out)
}

// CreateGenre handles POST /v1/genres (admin).
func (h *CatalogHandler) CreateGenre(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	g := model.Genre{Name: req.Name}
	if err := h.Genres.Create(ctx, &g); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "genre already exists"})
		}
		return storeError(c, err)
	}
	return c.JSON(http.StatusCreated, toGenreResp(g))
}

// ListActors handles GET /v1/actors.
func (h *CatalogHandler) ListActors(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	actors, err := h.Actors.List(ctx)
	if err != nil {
		return storeError(c, err)
	}
	out := make([]actorResp, 0, len(actors))
	for _, a := range actors {
		out = append(out, toActorResp(a))
	}
	return c.JSON(http.StatusOK, out)
}

// CreateActor handles POST /v1/actors (admin).
func (h *CatalogHandler) CreateActor(c echo.Context) error {
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := c.Bind(&req); err != nil ||
		strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name/last_name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	a := model.Actor{FirstName: req.FirstName, LastName: req.LastName}
	if err := h.Actors.Create(ctx, &a); err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusCreated, toActorResp(a))
}

// ListHalls handles GET /v1/cinema-halls.
func (h *CatalogHandler) ListHalls(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	halls, err := h.Halls.List(ctx)
	if err != nil {
		return storeError(c, err)
	}
	out := make([]hallResp, 0, len(halls))
	for _, hl := range halls {
		out = append(out, toHallResp(hl))
	}
	return c.JSON(http.StatusOK, out)
}

// CreateHall handles POST /v1/cinema-halls (admin).
func (h *CatalogHandler) CreateHall(c echo.Context) error {
	var req struct {
		Name       string `json:"name"`
		Rows       uint32 `json:"rows"`
		SeatsInRow uint32 `json:"seats_in_row"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	if req.Rows == 0 || req.SeatsInRow == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rows and seats_in_row must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	hall := model.CinemaHall{Name: req.Name, Rows: req.Rows, SeatsInRow: req.SeatsInRow}
	if err := h.Halls.Create(ctx, &hall); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "hall already exists"})
		}
		return storeError(c, err)
	}
	return c.JSON(http.StatusCreated, toHallResp(hall))
}
