package handler_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kinohub/cinema-api/internal/config"
	"github.com/kinohub/cinema-api/internal/handler"
	"github.com/kinohub/cinema-api/internal/mocks"
	"github.com/kinohub/cinema-api/internal/model"
	"github.com/kinohub/cinema-api/internal/router"
	"github.com/kinohub/cinema-api/internal/utils"
)

// testEnv bundles a fully routed echo instance with the mock stores
// behind every handler. Tests assign only the mock functions they
// exercise.
type testEnv struct {
	e *echo.Echo

	cfg config.Config

	users    *mocks.UserStore
	tokens   *mocks.TokenStore
	genres   *mocks.GenreStore
	actors   *mocks.ActorStore
	halls    *mocks.HallStore
	movies   *mocks.MovieStore
	sessions *mocks.SessionStore
	orders   *mocks.OrderStore
	posters  *mocks.PosterStore
	events   *mocks.BookingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithRedis(t, nil)
}

// newTestEnvWithRedis routes the app against a real redis client so the
// cache and rate limit middleware run for real instead of passing
// through.
func newTestEnvWithRedis(t *testing.T, rdb *redis.Client) *testEnv {
	t.Helper()

	env := &testEnv{
		cfg: config.Config{
			JWTSecret:      "test-secret",
			AccessTTLMin:   15,
			RefreshTTLDays: 7,
			BcryptCost:     bcrypt.MinCost,
		},
		users:    &mocks.UserStore{},
		tokens:   &mocks.TokenStore{},
		genres:   &mocks.GenreStore{},
		actors:   &mocks.ActorStore{},
		halls:    &mocks.HallStore{},
		movies:   &mocks.MovieStore{},
		sessions: &mocks.SessionStore{},
		orders:   &mocks.OrderStore{},
		posters:  &mocks.PosterStore{},
		events:   &mocks.BookingPublisher{},
	}

	h := router.Handlers{
		Auth:     handler.NewAuthHandler(env.cfg, env.users, env.tokens),
		Catalog:  handler.NewCatalogHandler(env.genres, env.actors, env.halls),
		Movies:   handler.NewMovieHandler(env.movies, env.posters),
		Sessions: handler.NewSessionHandler(env.sessions),
		Orders:   handler.NewOrderHandler(env.orders, env.sessions, env.events),
	}

	env.e = echo.New()
	router.Register(env.e, h, env.cfg, rdb)
	return env
}

// tokenFor signs a valid access token for the given identity, the same
// way the login endpoint does.
func (env *testEnv) tokenFor(t *testing.T, userID uint64, role string) string {
	t.Helper()
	access, err := utils.NewAccessToken(env.cfg.JWTSecret, userID, role, env.cfg.AccessTTLMin)
	require.NoError(t, err)
	return access.Token
}

func (env *testEnv) adminToken(t *testing.T) string { return env.tokenFor(t, 1, model.RoleAdmin) }
func (env *testEnv) userToken(t *testing.T) string  { return env.tokenFor(t, 2, model.RoleUser) }

// doJSON performs a request with an optional JSON body and bearer
// token, returning the recorded response.
func (env *testEnv) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(bs)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals the recorded JSON response into out.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// jpegBytes renders a small in-memory JPEG for upload tests.
func jpegBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

// multipartBody builds a multipart form from fields plus an optional
// file part, returning the body and content type.
func multipartBody(t *testing.T, fields map[string][]string, fileField, fileName string, file []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, values := range fields {
		for _, v := range values {
			require.NoError(t, w.WriteField(name, v))
		}
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

// doMultipart performs a multipart request with a bearer token.
func (env *testEnv) doMultipart(t *testing.T, method, path, token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, contentType)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}
