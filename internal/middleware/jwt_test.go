package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinohub/cinema-api/internal/utils"
)

const testSecret = "test-secret"

func runProtected(t *testing.T, authHeader string, mw ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h := func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"user_id": c.Get(CtxUserID),
			"role":    c.Get(CtxRole),
		})
	}
	e.GET("/protected", h, mw...)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	access, err := utils.NewAccessToken(testSecret, 42, "USER", 15)
	require.NoError(t, err)

	t.Run("valid token passes and sets context", func(t *testing.T) {
		rec := runProtected(t, "Bearer "+access.Token, JWTAuth(testSecret))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"user_id":42`)
		assert.Contains(t, rec.Body.String(), `"role":"USER"`)
	})

	t.Run("missing header", func(t *testing.T) {
		rec := runProtected(t, "", JWTAuth(testSecret))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("not a bearer scheme", func(t *testing.T) {
		rec := runProtected(t, "Basic dXNlcjpwYXNz", JWTAuth(testSecret))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := runProtected(t, "Bearer not.a.jwt", JWTAuth(testSecret))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("tampered signature", func(t *testing.T) {
		rec := runProtected(t, "Bearer eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.fake.expired", JWTAuth(testSecret))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := utils.NewAccessToken("other-secret", 42, "USER", 15)
		require.NoError(t, err)
		rec := runProtected(t, "Bearer "+other.Token, JWTAuth(testSecret))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := utils.NewAccessToken(testSecret, 42, "USER", -1)
		require.NoError(t, err)
		rec := runProtected(t, "Bearer "+expired.Token, JWTAuth(testSecret))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unsigned token rejected", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": 42})
		raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		rec := runProtected(t, "Bearer "+raw, JWTAuth(testSecret))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	adminTok, err := utils.NewAccessToken(testSecret, 1, "ADMIN", 15)
	require.NoError(t, err)
	userTok, err := utils.NewAccessToken(testSecret, 2, "USER", 15)
	require.NoError(t, err)

	t.Run("allowed role passes", func(t *testing.T) {
		rec := runProtected(t, "Bearer "+adminTok.Token, JWTAuth(testSecret), RequireRole("ADMIN"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("authenticated but wrong role", func(t *testing.T) {
		rec := runProtected(t, "Bearer "+userTok.Token, JWTAuth(testSecret), RequireRole("ADMIN"))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("multiple allowed roles", func(t *testing.T) {
		rec := runProtected(t, "Bearer "+userTok.Token, JWTAuth(testSecret), RequireRole("ADMIN", "USER"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestSubjectID(t *testing.T) {
	cases := []struct {
		name string
		sub  interface{}
		want uint64
		ok   bool
	}{
		{"float64", float64(7), 7, true},
		{"string", "7", 7, true},
		{"negative", float64(-1), 0, false},
		{"non-numeric string", "abc", 0, false},
		{"missing", nil, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			claims := jwt.MapClaims{}
			if tc.sub != nil {
				claims["sub"] = tc.sub
			}
			got, ok := subjectID(claims)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
