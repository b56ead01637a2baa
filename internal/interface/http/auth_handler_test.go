package handlers

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LewisCM14/allotment-sub001/internal/apperrors"
	"github.com/LewisCM14/allotment-sub001/internal/application"
	"github.com/LewisCM14/allotment-sub001/internal/domain/entity"
	"github.com/LewisCM14/allotment-sub001/internal/tokens"
	"github.com/LewisCM14/allotment-sub001/pkg/helpers"
	"github.com/LewisCM14/allotment-sub001/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

func testCodec(t *testing.T) *tokens.Codec {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	codec, err := tokens.New(privPEM, pubPEM, 15*time.Minute, 24*time.Hour, time.Hour, time.Hour)
	require.NoError(t, err)
	return codec
}

// stubUserRepo backs handler tests with a single canned account.
type stubUserRepo struct {
	user *entity.User
}

func (r *stubUserRepo) Create(ctx context.Context, u *entity.User) error { return nil }

func (r *stubUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if r.user != nil && r.user.ID == id {
		cp := *r.user
		return &cp, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *stubUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if r.user != nil && r.user.Email == entity.NormalizeEmail(email) {
		cp := *r.user
		return &cp, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *stubUserRepo) UpdateProfile(ctx context.Context, u *entity.User) error   { return nil }
func (r *stubUserRepo) UpdatePassword(ctx context.Context, id, hash string) error { return nil }
func (r *stubUserRepo) SetEmailVerified(ctx context.Context, id string) error     { return nil }
func (r *stubUserRepo) UpdateLastActive(ctx context.Context, id string) error     { return nil }

func newAuthRouter(t *testing.T) (*gin.Engine, *application.AuthService) {
	t.Helper()
	hash, err := helpers.HashPassword("pa55word!")
	require.NoError(t, err)

	repo := &stubUserRepo{user: &entity.User{
		ID:       "u-1",
		Email:    "alice@example.com",
		Password: hash,
	}}
	auth := application.NewAuthService(repo, testCodec(t), nil)
	h := NewAuthHandler(auth, nil)

	r := gin.New()
	r.POST("/api/auth/token", h.Login)
	r.POST("/api/auth/token/refresh", h.Refresh)
	return r, auth
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
	Error   map[string]any `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e
}

func TestLoginSuccess(t *testing.T) {
	r, _ := newAuthRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/token", gin.H{
		"email": "alice@example.com", "password": "pa55word!",
	})

	require.Equal(t, http.StatusOK, w.Code)
	e := decodeEnvelope(t, w)
	assert.True(t, e.Success)
	assert.NotEmpty(t, e.Data["access_token"])
	assert.NotEmpty(t, e.Data["refresh_token"])
	assert.Equal(t, "bearer", e.Data["token_type"])
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	r, _ := newAuthRouter(t)

	wrongPassword := doJSON(t, r, http.MethodPost, "/api/auth/token", gin.H{
		"email": "alice@example.com", "password": "wrong",
	})
	unknownEmail := doJSON(t, r, http.MethodPost, "/api/auth/token", gin.H{
		"email": "nobody@example.com", "password": "pa55word!",
	})

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t,
		decodeEnvelope(t, wrongPassword).Message,
		decodeEnvelope(t, unknownEmail).Message,
	)
}

func TestLoginValidation(t *testing.T) {
	r, _ := newAuthRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/token", gin.H{
		"email": "not-an-email", "password": "pa55word!",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	e := decodeEnvelope(t, w)
	assert.False(t, e.Success)
	assert.Contains(t, e.Error, "email")
}

func TestRefreshSuccess(t *testing.T) {
	r, auth := newAuthRouter(t)
	pair, err := auth.IssueLoginTokens(&entity.User{ID: "u-1", Email: "alice@example.com"})
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPost, "/api/auth/token/refresh", gin.H{
		"refresh_token": pair.RefreshToken,
	})

	require.Equal(t, http.StatusOK, w.Code)
	e := decodeEnvelope(t, w)
	assert.NotEmpty(t, e.Data["access_token"])
	assert.NotEqual(t, pair.RefreshToken, e.Data["refresh_token"], "refresh rotates the pair")
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	r, auth := newAuthRouter(t)
	pair, err := auth.IssueLoginTokens(&entity.User{ID: "u-1", Email: "alice@example.com"})
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPost, "/api/auth/token/refresh", gin.H{
		"refresh_token": pair.AccessToken,
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	r, _ := newAuthRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/token/refresh", gin.H{
		"refresh_token": "not-a-token",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
