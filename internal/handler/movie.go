package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kinohub/cinema-api/internal/media"
	"github.com/kinohub/cinema-api/internal/model"
	"github.com/kinohub/cinema-api/internal/repository"
)

// MovieHandler serves the movie catalog including poster uploads.
type MovieHandler struct {
	Movies  MovieStore
	Posters PosterStore
}

func NewMovieHandler(movies MovieStore, posters PosterStore) *MovieHandler {
	if movies == nil || posters == nil {
		panic("nil store passed to NewMovieHandler")
	}
	return &MovieHandler{Movies: movies, Posters: posters}
}

// movieListItem renders genres and actors as display strings, the way
// the list view shows them.
type movieListItem struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Duration    uint32   `json:"duration"`
	Genres      []string `json:"genres"`
	Actors      []string `json:"actors"`
	Image       *string  `json:"image"`
}

// movieDetail renders genres and actors as full objects.
type movieDetail struct {
	ID          uint64      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Duration    uint32      `json:"duration"`
	Genres      []genreResp `json:"genres"`
	Actors      []actorResp `json:"actors"`
	Image       *string     `json:"image"`
}

func toMovieListItem(m model.Movie) movieListItem {
	it := movieListItem{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Duration:    m.Duration,
		Genres:      []string{},
		Actors:      []string{},
		Image:       m.Image,
	}
	for _, g := range m.Genres {
		it.Genres = append(it.Genres, g.Name)
	}
	for _, a := range m.Actors {
		it.Actors = append(it.Actors, a.FullName())
	}
	return it
}

func toMovieDetail(m model.Movie) movieDetail {
	d := movieDetail{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Duration:    m.Duration,
		Genres:      []genreResp{},
		Actors:      []actorResp{},
		Image:       m.Image,
	}
	for _, g := range m.Genres {
		d.Genres = append(d.Genres, toGenreResp(g))
	}
	for _, a := range m.Actors {
		d.Actors = append(d.Actors, toActorResp(a))
	}
	return d
}

// List handles GET /v1/movies with optional title, genres and actors
// query filters.
func (h *MovieHandler) List(c echo.Context) error {
	q := c.QueryParams()
	genreIDs, err := parseIDList(q["genres"])
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid genres filter"})
	}
	actorIDs, err := parseIDList(q["actors"])
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid actors filter"})
	}
	filters := repository.MovieFilters{
		Title:    strings.TrimSpace(c.QueryParam("title")),
		GenreIDs: genreIDs,
		ActorIDs: actorIDs,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	movies, err := h.Movies.List(ctx, filters)
	if err != nil {
		return storeError(c, err)
	}
	out := make([]movieListItem, 0, len(movies))
	for _, m := range movies {
		out = append(out, toMovieListItem(m))
	}
	return c.JSON(http.StatusOK, out)
}

// Detail handles GET /v1/movies/:id.
func (h *MovieHandler) Detail(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, toMovieDetail(*m))
}

// movieInput carries the writable movie fields parsed from either a
// JSON body or multipart form fields.
type movieInput struct {
	Title       string
	Description string
	Duration    uint32
	GenreIDs    []uint64
	ActorIDs    []uint64
}

func (in movieInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return errors.New("title required")
	}
	if in.Duration == 0 {
		return errors.New("duration must be positive")
	}
	return nil
}

// bindMovieInput parses the movie payload. Multipart requests carry
// form fields (genres/actors repeated or comma separated); everything
// else binds as JSON.
func bindMovieInput(c echo.Context) (movieInput, error) {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(ct, echo.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return movieInput{}, errors.New("invalid multipart form")
		}
		var in movieInput
		in.Title = c.FormValue("title")
		in.Description = c.FormValue("description")
		if v := c.FormValue("duration"); v != "" {
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				return movieInput{}, errors.New("invalid duration")
			}
			in.Duration = uint32(n)
		}
		if in.GenreIDs, err = parseIDList(form.Value["genres"]); err != nil {
			return movieInput{}, errors.New("invalid genres")
		}
		if in.ActorIDs, err = parseIDList(form.Value["actors"]); err != nil {
			return movieInput{}, errors.New("invalid actors")
		}
		return in, nil
	}

	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Duration    uint32   `json:"duration"`
		Genres      []uint64 `json:"genres"`
		Actors      []uint64 `json:"actors"`
	}
	if err := c.Bind(&req); err != nil {
		return movieInput{}, errors.New("invalid body")
	}
	return movieInput{
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
		GenreIDs:    req.Genres,
		ActorIDs:    req.Actors,
	}, nil
}

// Create handles POST /v1/movies (admin). The payload may be JSON or a
// multipart form; a multipart "image" part uploads the poster in the
// same request. A non-image poster fails the whole create.
func (h *MovieHandler) Create(c echo.Context) error {
	in, err := bindMovieInput(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := in.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	m := model.Movie{Title: in.Title, Description: in.Description, Duration: in.Duration}
	if err := h.Movies.Create(ctx, &m, in.GenreIDs, in.ActorIDs); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown genre or actor id"})
		}
		return storeError(c, err)
	}

	if file, err := c.FormFile("image"); err == nil {
		src, err := file.Open()
		if err != nil {
			_ = h.Movies.Delete(ctx, m.ID)
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot read image"})
		}
		defer src.Close()

		rel, err := h.Posters.SavePoster(m.ID, src)
		if err != nil {
			_ = h.Movies.Delete(ctx, m.ID)
			if errors.Is(err, media.ErrNotImage) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "image must be a valid image file"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store image failed"})
		}
		if _, err := h.Movies.SetImage(ctx, m.ID, rel); err != nil {
			return storeError(c, err)
		}
		m.Image = &rel
	}

	return c.JSON(http.StatusCreated, toMovieDetail(m))
}

// Update handles PUT /v1/movies/:id (admin). The poster path is left
// untouched; UploadImage is the only way to change it.
func (h *MovieHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	in, err := bindMovieInput(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := in.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	m := model.Movie{ID: id, Title: in.Title, Description: in.Description, Duration: in.Duration}
	if err := h.Movies.Update(ctx, &m, in.GenreIDs, in.ActorIDs); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown genre or actor id"})
		}
		return storeError(c, err)
	}

	full, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, toMovieDetail(*full))
}

// Delete handles DELETE /v1/movies/:id (admin).
func (h *MovieHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		return storeError(c, err)
	}
	if err := h.Movies.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie has scheduled sessions"})
		}
		return storeError(c, err)
	}
	if m.Image != nil {
		_ = h.Posters.Remove(*m.Image)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadImage handles POST /v1/movies/:id/upload-image (admin). The
// multipart "image" part must decode as an actual image; anything else
// is a 400. A replaced poster file is removed from disk.
func (h *MovieHandler) UploadImage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Movies.GetByID(ctx, id); err != nil {
		return storeError(c, err)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image file required"})
	}
	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot read image"})
	}
	defer src.Close()

	rel, err := h.Posters.SavePoster(id, src)
	if err != nil {
		if errors.Is(err, media.ErrNotImage) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "image must be a valid image file"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store image failed"})
	}

	prev, err := h.Movies.SetImage(ctx, id, rel)
	if err != nil {
		_ = h.Posters.Remove(rel)
		return storeError(c, err)
	}
	if prev != "" && prev != rel {
		_ = h.Posters.Remove(prev)
	}

	return c.JSON(http.StatusOK, echo.Map{"id": id, "image": rel})
}
