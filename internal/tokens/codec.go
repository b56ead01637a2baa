// Package tokens implements the signed-token codec. Tokens are stateless:
// every claim set is self-contained and signed with an RS256 key pair, and
// expiry is the only termination mechanism (no server-side revocation).
package tokens

import (
	"crypto/rsa"
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/LewisCM14/allotment-sub001/internal/apperrors"
)

// Kind discriminates token purposes via the "type" claim.
type Kind string

const (
	KindAccess       Kind = "access"
	KindRefresh      Kind = "refresh"
	KindReset        Kind = "reset"
	KindVerification Kind = "email_verification"
)

// Claims is the signed payload: subject, timestamps, a unique jti and the
// token kind. Decode verifies signature and expiry only; callers must check
// Kind against the context they received the token in.
type Claims struct {
	Kind Kind `json:"type"`
	jwt.RegisteredClaims
}

// Codec issues and decodes tokens. Keys are process-wide and read-only
// after construction.
type Codec struct {
	private *rsa.PrivateKey
	public  *rsa.PublicKey

	accessTTL       time.Duration
	refreshTTL      time.Duration
	resetTTL        time.Duration
	verificationTTL time.Duration
}

// New parses the PEM-encoded key pair. An unreadable or malformed key is a
// startup configuration error; main treats it as fatal.
func New(privatePEM, publicPEM []byte, accessTTL, refreshTTL, resetTTL, verificationTTL time.Duration) (*Codec, error) {
	priv, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return nil, err
	}
	pub, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		return nil, err
	}
	return &Codec{
		private:         priv,
		public:          pub,
		accessTTL:       accessTTL,
		refreshTTL:      refreshTTL,
		resetTTL:        resetTTL,
		verificationTTL: verificationTTL,
	}, nil
}

// NewFromFiles loads the key pair from PEM files on disk.
func NewFromFiles(privatePath, publicPath string, accessTTL, refreshTTL, resetTTL, verificationTTL time.Duration) (*Codec, error) {
	privPEM, err := os.ReadFile(privatePath)
	if err != nil {
		return nil, err
	}
	pubPEM, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, err
	}
	return New(privPEM, pubPEM, accessTTL, refreshTTL, resetTTL, verificationTTL)
}

// DefaultTTL returns the configured lifetime for a token kind.
func (c *Codec) DefaultTTL(kind Kind) time.Duration {
	switch kind {
	case KindRefresh:
		return c.refreshTTL
	case KindReset:
		return c.resetTTL
	case KindVerification:
		return c.verificationTTL
	default:
		return c.accessTTL
	}
}

// Issue builds and signs a token for subject. ttl <= 0 selects the per-kind
// default. Each call mints a fresh jti, so two tokens for the same subject
// and kind issued in the same instant are still distinct.
func (c *Codec) Issue(subject string, kind Kind, ttl time.Duration) (string, time.Time, error) {
	if ttl == 0 {
		ttl = c.DefaultTTL(kind)
	}
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := &Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(c.private)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Decode verifies signature and expiry and returns the claims. It does NOT
// check the kind: the same decode path serves all token kinds and callers
// enforce the expected kind themselves.
//
// Failures map onto the domain taxonomy: expired tokens yield
// apperrors.ErrExpiredToken, everything else (bad signature, malformed
// input, wrong algorithm, missing subject) yields apperrors.ErrInvalidToken.
func (c *Codec) Decode(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, apperrors.ErrInvalidToken
			}
			return c.public, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrExpiredToken
		}
		return nil, apperrors.ErrInvalidToken
	}
	if !tkn.Valid || claims.Subject == "" {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}
