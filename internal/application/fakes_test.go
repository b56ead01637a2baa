package application

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/LewisCM14/allotment-sub001/internal/apperrors"
	"github.com/LewisCM14/allotment-sub001/internal/domain/entity"
	"github.com/LewisCM14/allotment-sub001/internal/tokens"
)

func testCodec(t *testing.T) *tokens.Codec {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	c, err := tokens.New(privPEM, pubPEM, 15*time.Minute, 7*24*time.Hour, 30*time.Minute, 30*time.Minute)
	require.NoError(t, err)
	return c
}

// fakeUserRepo is an in-memory UserRepository for service tests. readErr,
// when set, makes every lookup fail the way a broken connection would.
type fakeUserRepo struct {
	byID            map[string]*entity.User
	lastActiveCalls []string
	readErr         error
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{byID: map[string]*entity.User{}}
	for _, u := range users {
		r.byID[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, u *entity.User) error {
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return apperrors.ErrEmailAlreadyRegistered
		}
	}
	if u.ID == "" {
		u.ID = "u-" + u.Email
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.byID[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if r.readErr != nil {
		return nil, r.readErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if r.readErr != nil {
		return nil, r.readErr
	}
	norm := entity.NormalizeEmail(email)
	for _, u := range r.byID {
		if u.Email == norm {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, u *entity.User) error {
	stored, ok := r.byID[u.ID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	stored.FirstName = u.FirstName
	stored.CountryCode = u.CountryCode
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	u, ok := r.byID[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.Password = passwordHash
	return nil
}

func (r *fakeUserRepo) SetEmailVerified(ctx context.Context, id string) error {
	u, ok := r.byID[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.IsEmailVerified = true
	return nil
}

func (r *fakeUserRepo) UpdateLastActive(ctx context.Context, id string) error {
	u, ok := r.byID[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	now := time.Now().UTC()
	u.LastActive = &now
	r.lastActiveCalls = append(r.lastActiveCalls, id)
	return nil
}

// fakeActiveVarietyRepo serves TaskService tests.
type fakeActiveVarietyRepo struct {
	active []entity.ActiveVariety
}

func (r *fakeActiveVarietyRepo) ListByUser(ctx context.Context, userID string) ([]entity.ActiveVariety, error) {
	return r.active, nil
}

func (r *fakeActiveVarietyRepo) Activate(ctx context.Context, av *entity.ActiveVariety) error {
	r.active = append(r.active, *av)
	return nil
}

func (r *fakeActiveVarietyRepo) Deactivate(ctx context.Context, userID, varietyID string) error {
	return nil
}

// fakePreferenceRepo serves TaskService tests.
type fakePreferenceRepo struct {
	prefs *entity.Preferences
}

func (r *fakePreferenceRepo) GetByUser(ctx context.Context, userID string) (*entity.Preferences, error) {
	if r.prefs == nil {
		return nil, apperrors.NotFound("preferences", "")
	}
	return r.prefs, nil
}

func (r *fakePreferenceRepo) Upsert(ctx context.Context, p *entity.Preferences) error {
	r.prefs = p
	return nil
}
