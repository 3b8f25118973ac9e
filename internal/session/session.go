// Package session maps opaque bearer tokens to the identity that logged in.
//
// Sessions have no expiry: a token stays valid until Destroy is called or,
// for the in-memory store, until the process exits.
package session

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Lookup for an absent or unknown token.
var ErrNotFound = errors.New("session: not found")

type Session struct {
	Token    string `json:"-"`
	UserID   string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Identity is what a session is created from.
type Identity struct {
	UserID   string
	Username string
	Role     string
}

type Store interface {
	Create(ctx context.Context, id Identity) (string, error)
	Lookup(ctx context.Context, token string) (*Session, error)
	Destroy(ctx context.Context, token string) error
}

// NewToken joins two independent random v4 UUIDs into one 64-char hex token.
func NewToken() (string, error) {
	a, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	b, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(a.String()+b.String(), "-", ""), nil
}
