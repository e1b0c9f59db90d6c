// Package session issues and verifies the bearer tokens that identify a
// player by display name. Tokens are HS256 JWTs carrying a single "name"
// claim and never expire.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/text/unicode/norm"

	"github.com/Thechi2000/were-legends/internal/apperr"
)

const MaxNameLength = 16 // exclusive

var ErrNoToken = errors.New("missing bearer token")

type Session struct {
	Name string
}

type claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret []byte
}

func NewIssuer(secret []byte) *Issuer {
	return &Issuer{secret: secret}
}

// NormalizeName returns the canonical form of a display name, or
// ErrInvalidName when it is empty or too long once normalised.
func NormalizeName(raw string) (string, error) {
	name := norm.NFC.String(strings.TrimSpace(raw))
	if n := utf8.RuneCountInString(name); n < 1 || n >= MaxNameLength {
		return "", apperr.ErrInvalidName
	}
	return name, nil
}

// Issue validates name and signs a token for it.
func (i *Issuer) Issue(name string) (string, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return "", err
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{Name: name})
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", apperr.Internal("sign token: %v", err)
	}
	return signed, nil
}

// Verify checks the signature of raw and returns the session it carries.
func (i *Issuer) Verify(raw string) (Session, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Session{}, fmt.Errorf("verify token: %w", err)
	}
	if c.Name == "" {
		return Session{}, errors.New("verify token: empty name claim")
	}
	return Session{Name: c.Name}, nil
}

// FromHeader extracts the token of an "Authorization: Bearer <token>" header.
func FromHeader(header string) (string, error) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", ErrNoToken
	}
	return strings.TrimSpace(header[len(prefix):]), nil
}

type ctxKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
