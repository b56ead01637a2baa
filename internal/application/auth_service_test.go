package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LewisCM14/allotment-sub001/internal/apperrors"
	"github.com/LewisCM14/allotment-sub001/internal/domain/entity"
	"github.com/LewisCM14/allotment-sub001/internal/tokens"
	"github.com/LewisCM14/allotment-sub001/pkg/helpers"
)

func testUser(t *testing.T, id, email, password string) *entity.User {
	t.Helper()
	hash, err := helpers.HashPassword(password)
	require.NoError(t, err)
	return &entity.User{ID: id, Email: email, Password: hash, FirstName: "Alice", CountryCode: "GB"}
}

func TestAuthenticateSuccess(t *testing.T) {
	repo := newFakeUserRepo(testUser(t, "u-1", "alice@example.com", "pa55word!"))
	svc := NewAuthService(repo, testCodec(t), nil)

	u, err := svc.Authenticate(context.Background(), "Alice@Example.com", "pa55word!")
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
	assert.NotNil(t, u.LastActive)
	assert.Equal(t, []string{"u-1"}, repo.lastActiveCalls, "login must advance last_active")
}

func TestAuthenticateFailuresIndistinguishable(t *testing.T) {
	repo := newFakeUserRepo(testUser(t, "u-1", "alice@example.com", "pa55word!"))
	svc := NewAuthService(repo, testCodec(t), nil)

	_, unknownErr := svc.Authenticate(context.Background(), "nobody@example.com", "pa55word!")
	_, wrongPwErr := svc.Authenticate(context.Background(), "alice@example.com", "wrong")

	// unknown email and wrong password must be byte-identical to callers
	assert.ErrorIs(t, unknownErr, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPwErr, apperrors.ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongPwErr.Error())
	assert.Empty(t, repo.lastActiveCalls)
}

func TestAuthenticatePersistenceFailurePropagates(t *testing.T) {
	repo := newFakeUserRepo(testUser(t, "u-1", "alice@example.com", "pa55word!"))
	repo.readErr = &apperrors.BusinessLogicError{Msg: "connection refused"}
	svc := NewAuthService(repo, testCodec(t), nil)

	_, err := svc.Authenticate(context.Background(), "alice@example.com", "pa55word!")

	// a database outage is a 500, never a credential mismatch
	var ble *apperrors.BusinessLogicError
	require.ErrorAs(t, err, &ble)
	assert.NotErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.Empty(t, repo.lastActiveCalls)
}

func TestIssueLoginTokens(t *testing.T) {
	codec := testCodec(t)
	svc := NewAuthService(newFakeUserRepo(), codec, nil)

	pair, err := svc.IssueLoginTokens(&entity.User{ID: "u-1"})
	require.NoError(t, err)

	access, err := codec.Decode(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tokens.KindAccess, access.Kind)
	assert.Equal(t, "u-1", access.Subject)

	refresh, err := codec.Decode(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, tokens.KindRefresh, refresh.Kind)
	assert.True(t, pair.RefreshTokenExpiry.After(pair.AccessTokenExpiry))
}

func TestRefresh(t *testing.T) {
	codec := testCodec(t)
	repo := newFakeUserRepo(testUser(t, "u-1", "alice@example.com", "pa55word!"))
	svc := NewAuthService(repo, codec, nil)

	refreshTok, _, err := codec.Issue("u-1", tokens.KindRefresh, 0)
	require.NoError(t, err)

	pair, u, err := svc.Refresh(context.Background(), refreshTok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEqual(t, refreshTok, pair.RefreshToken)
}

func TestRefreshRejectsWrongKind(t *testing.T) {
	codec := testCodec(t)
	repo := newFakeUserRepo(testUser(t, "u-1", "alice@example.com", "pa55word!"))
	svc := NewAuthService(repo, codec, nil)

	for _, kind := range []tokens.Kind{tokens.KindAccess, tokens.KindReset, tokens.KindVerification} {
		tok, _, err := codec.Issue("u-1", kind, 0)
		require.NoError(t, err)
		_, _, err = svc.Refresh(context.Background(), tok)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken, "kind %s", kind)
	}
}

func TestRefreshExpiredToken(t *testing.T) {
	codec := testCodec(t)
	svc := NewAuthService(newFakeUserRepo(), codec, nil)

	tok, _, err := codec.Issue("u-1", tokens.KindRefresh, -time.Minute)
	require.NoError(t, err)
	_, _, err = svc.Refresh(context.Background(), tok)
	assert.ErrorIs(t, err, apperrors.ErrExpiredToken)
}

func TestRefreshDeletedAccount(t *testing.T) {
	codec := testCodec(t)
	svc := NewAuthService(newFakeUserRepo(), codec, nil)

	tok, _, err := codec.Issue("ghost", tokens.KindRefresh, 0)
	require.NoError(t, err)
	_, _, err = svc.Refresh(context.Background(), tok)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestResolveIdentity(t *testing.T) {
	codec := testCodec(t)
	repo := newFakeUserRepo(testUser(t, "u-1", "alice@example.com", "pa55word!"))
	svc := NewAuthService(repo, codec, nil)

	access, _, err := codec.Issue("u-1", tokens.KindAccess, 0)
	require.NoError(t, err)

	u, err := svc.ResolveIdentity(context.Background(), "Bearer "+access)
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)

	// scheme is case-insensitive
	u, err = svc.ResolveIdentity(context.Background(), "bearer "+access)
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
}

func TestResolveIdentityRejectsNonAccessTokens(t *testing.T) {
	codec := testCodec(t)
	repo := newFakeUserRepo(testUser(t, "u-1", "alice@example.com", "pa55word!"))
	svc := NewAuthService(repo, codec, nil)

	refresh, _, err := codec.Issue("u-1", tokens.KindRefresh, 0)
	require.NoError(t, err)

	_, err = svc.ResolveIdentity(context.Background(), "Bearer "+refresh)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestParseBearer(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"standard", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"lowercase scheme", "bearer tok", "tok", false},
		{"empty header", "", "", true},
		{"missing value", "Bearer", "", true},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "", true},
		{"extra parts", "Bearer a b", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBearer(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
