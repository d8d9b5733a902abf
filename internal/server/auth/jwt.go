// Package auth issues and validates HS256 access tokens and evaluates named
// authorization policies over their claims.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultIssuer is written to the iss claim when IssuerConfig.Issuer is empty.
const DefaultIssuer = "userauth"

// Claims is the claim set carried by an access token. Subject holds the
// decimal user id; UserID is filled in by Validate.
type Claims struct {
	jwt.RegisteredClaims
	Role   models.Role `json:"role"`
	UserID int         `json:"-"`
}

// IssuerConfig is the immutable configuration of a TokenIssuer.
type IssuerConfig struct {
	Secret   []byte
	Validity time.Duration
	Issuer   string
	// Leeway tolerates clock skew between instances when checking iat and
	// exp. Zero means exact.
	Leeway time.Duration
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// TokenIssuer signs and validates access tokens with a symmetric secret.
// Rotating the secret invalidates every outstanding token.
type TokenIssuer struct {
	secret   []byte
	validity time.Duration
	issuer   string
	now      func() time.Time
	parser   *jwt.Parser
}

// NewTokenIssuer copies cfg into a new issuer.
func NewTokenIssuer(cfg IssuerConfig) (*TokenIssuer, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token issuer: empty signing secret")
	}
	if cfg.Validity <= 0 {
		return nil, errors.New("token issuer: validity must be positive")
	}
	if cfg.Leeway < 0 {
		return nil, errors.New("token issuer: leeway must not be negative")
	}

	ti := &TokenIssuer{
		secret:   append([]byte(nil), cfg.Secret...),
		validity: cfg.Validity,
		issuer:   cfg.Issuer,
		now:      cfg.Now,
	}
	if ti.issuer == "" {
		ti.issuer = DefaultIssuer
	}
	if ti.now == nil {
		ti.now = time.Now
	}

	ti.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(ti.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(cfg.Leeway),
		jwt.WithTimeFunc(ti.now),
	)

	return ti, nil
}

// Validity returns how long issued tokens stay valid.
func (ti *TokenIssuer) Validity() time.Duration {
	return ti.validity
}

// Issue signs a token for user, valid from now for the configured window.
func (ti *TokenIssuer) Issue(user *models.User) (string, error) {
	issuedAt := ti.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			Issuer:    ti.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ti.validity)),
		},
		Role: user.Role,
	})

	tokenString, err := token.SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}

	return tokenString, nil
}

// Validate checks the signature and expiry of tokenString and returns its
// claims. Errors are common.ErrTokenExpired, common.ErrTokenSignatureInvalid
// or common.ErrTokenMalformed.
func (ti *TokenIssuer) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := ti.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return ti.secret, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	if !token.Valid {
		return nil, common.ErrTokenMalformed
	}

	id, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a user id", common.ErrTokenMalformed)
	}
	if !claims.Role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role", common.ErrTokenMalformed)
	}
	claims.UserID = id

	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return common.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return common.ErrTokenSignatureInvalid
	default:
		return common.ErrTokenMalformed
	}
}
