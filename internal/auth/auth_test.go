package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event_org/internal/models"
	"event_org/internal/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUsers map[string]*models.User

func (f fakeUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, &repository.NotFoundError{Entity: "user", ID: id}
	}
	return u, nil
}

var alice = &models.User{UserID: "11111111-1111-4111-8111-111111111111", Username: "alice", Email: "alice@example.com"}

func TestTokens_RoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	signed, exp, err := tokens.Issue(alice)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, alice.UserID, claims.UserID)
	assert.Equal(t, alice.Email, claims.Email)
	assert.Equal(t, alice.UserID, claims.Subject)
}

func TestTokens_Rejects(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)

	other, _, err := NewTokens("other", time.Hour).Issue(alice)
	require.NoError(t, err)
	_, err = tokens.Parse(other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: alice.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = tokens.Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = tokens.Parse(noUser)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.Parse("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokens_DefaultTTL(t *testing.T) {
	_, exp, err := NewTokens("secret", 0).Issue(alice)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), exp, 5*time.Second)
}

func newJWTRouter(tokens *Tokens, users UserLookup) *gin.Engine {
	r := gin.New()
	r.GET("/me", JWT(tokens, users), func(c *gin.Context) {
		u, ok := UserFrom(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		cl, _ := ClaimsFrom(c)
		c.JSON(http.StatusOK, gin.H{"username": u.Username, "uid": cl.UserID})
	})
	return r
}

func TestJWT(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	signed, _, err := tokens.Issue(alice)
	require.NoError(t, err)

	cases := []struct {
		name   string
		setup  func(*http.Request)
		users  fakeUsers
		status int
	}{
		{
			name:   "missing",
			setup:  func(*http.Request) {},
			users:  fakeUsers{alice.UserID: alice},
			status: http.StatusUnauthorized,
		},
		{
			name:   "header",
			setup:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+signed) },
			users:  fakeUsers{alice.UserID: alice},
			status: http.StatusOK,
		},
		{
			name:   "cookie",
			setup:  func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: signed}) },
			users:  fakeUsers{alice.UserID: alice},
			status: http.StatusOK,
		},
		{
			name:   "tampered",
			setup:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+signed+"x") },
			users:  fakeUsers{alice.UserID: alice},
			status: http.StatusUnauthorized,
		},
		{
			name:   "deleted user",
			setup:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+signed) },
			users:  fakeUsers{},
			status: http.StatusUnauthorized,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tc.setup(req)
			w := httptest.NewRecorder()
			newJWTRouter(tokens, tc.users).ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			if tc.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"username":"alice"`)
			}
		})
	}
}
