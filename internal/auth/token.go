package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"

	"github.com/dukerupert/homebase/internal/errutil"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

// invalidToken is returned for every token that fails verification.
func invalidToken() error {
	return oops.Code(errutil.CodeUnauthorized).Errorf("Invalid or expired token")
}

// Claims is the payload of a session token.
type Claims struct {
	UserID      string `json:"userId"`
	HouseholdID string `json:"householdId"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256-signed session tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens returns a Tokens signing with secret. A non-positive ttl falls
// back to DefaultTokenTTL.
func NewTokens(secret []byte, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Tokens{secret: secret, ttl: ttl, now: time.Now}
}

// Issue signs a token for id that expires after the configured TTL.
func (t *Tokens) Issue(id Identity) (string, error) {
	now := t.now()
	claims := &Claims{
		UserID:      id.UserID,
		HouseholdID: id.HouseholdID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", oops.Code("AUTH_TOKEN_SIGN_FAILED").Wrap(err)
	}
	return signed, nil
}

// Verify checks the signature, algorithm and expiry of token and returns
// the identity it carries. Any failure yields an UNAUTHORIZED error.
func (t *Tokens) Verify(token string) (Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !parsed.Valid {
		return Identity{}, invalidToken()
	}
	if claims.UserID == "" || claims.HouseholdID == "" {
		return Identity{}, invalidToken()
	}
	return Identity{UserID: claims.UserID, HouseholdID: claims.HouseholdID}, nil
}
