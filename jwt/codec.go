package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token kind discriminators carried in the "type" claim. An absent type
// means the credential is an access token.
const (
	TypeRefresh       = "refresh"
	TypePasswordReset = "password_reset"
)

// Claims is the signed payload embedded in every credential. Subject, exp,
// and iat come from the embedded RegisteredClaims; refresh tokens never carry
// Email, and access tokens carry no Type.
type Claims struct {
	Email string `json:"email,omitempty"`
	Type  string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// Expired reports whether the claims carry an exp in the past. Claims without
// exp never expire by this check.
func (c Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return c.ExpiresAt.Time.Before(now)
}

// UnverifiedClaims holds fields recovered from a credential WITHOUT signature
// verification. It is a distinct type so unverified data cannot be passed
// where verified [Claims] are expected; callers may use it only as a
// non-authoritative hint, never as authorization input.
type UnverifiedClaims struct {
	Subject string
	Email   string
	Type    string
}

// Config holds codec tuning parameters.
type Config struct {
	// Leeway tolerated when validating exp, to absorb clock skew between
	// issuer and verifier. Zero disables it.
	Leeway time.Duration
}

// Codec signs claims into compact credentials and verifies credentials back
// into claims. The signing secret is a per-call parameter; a Codec holds no
// key material and is safe for concurrent use.
type Codec struct {
	method jwt.SigningMethod
	leeway time.Duration
}

// NewCodec creates an HS256 codec.
func NewCodec(cfg Config) (*Codec, error) {
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	return &Codec{
		method: jwt.SigningMethodHS256,
		leeway: cfg.Leeway,
	}, nil
}

// Sign serializes claims to JSON and produces the signed three-segment
// credential. It fails only for an empty secret.
func (c *Codec) Sign(claims Claims, secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}

	token := jwt.NewWithClaims(c.method, claims)
	return token.SignedString([]byte(secret))
}

// Verify checks the credential's structure and signature and returns the
// decoded claims. Failures are reported as one of the typed kinds in
// errors.go; golang-jwt compares the recomputed MAC with crypto/hmac.Equal,
// so the comparison does not leak timing proportional to matching bytes.
func (c *Codec) Verify(credential, secret string) (*Claims, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if strings.Count(credential, ".") != 2 {
		return nil, ErrMalformedCredential
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{c.method.Alg()}),
	}
	if c.leeway > 0 {
		options = append(options, jwt.WithLeeway(c.leeway))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(credential, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != c.method.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, classifyParseError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrMalformedPayload
	}

	return claims, nil
}

// DecodeUnverified recovers claim fields from the payload segment without
// verifying the signature. Returns nil on any structural failure; never
// errors. Used only to recover routing hints from an expired or otherwise
// unverifiable token during rotation.
func (c *Codec) DecodeUnverified(credential string) *UnverifiedClaims {
	if strings.Count(credential, ".") != 2 {
		return nil
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, claims); err != nil {
		return nil
	}

	return &UnverifiedClaims{
		Subject: claims.Subject,
		Email:   claims.Email,
		Type:    claims.Type,
	}
}

func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpiredToken, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
}
