package app

import (
	"context"
	"errors"
	"strings"

	"goop-cafe-go/internal/db"
	"goop-cafe-go/internal/session"

	"github.com/google/uuid"
)

// reservedUsername can never be registered, whatever its case.
const reservedUsername = "admin"

// UserView is the public shape of a user.
type UserView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type AuthResult struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

type credentials struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type registration struct {
	Username string `validate:"min=3"`
	Password string `validate:"min=4"`
}

func (a *App) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if err := check(credentials{Username: username, Password: password}); err != nil {
		return nil, err
	}
	if err := check(registration{Username: username, Password: password}); err != nil {
		return nil, err
	}
	if strings.EqualFold(username, reservedUsername) {
		return nil, ValidationError("Ese nombre de usuario no está disponible")
	}

	existing, err := a.store.Q.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, StorageError("No se pudo registrar el usuario", err)
	}
	if existing != nil {
		return nil, ConflictError("El nombre de usuario ya está en uso")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, StorageError("No se pudo registrar el usuario", err)
	}
	u := db.CreateUserParams{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         RoleUser,
	}
	if err := a.store.Q.CreateUser(ctx, u); err != nil {
		if errors.Is(err, db.ErrConflict) {
			return nil, ConflictError("El nombre de usuario ya está en uso")
		}
		return nil, StorageError("No se pudo registrar el usuario", err)
	}
	a.log.Info("user registered", "user_id", u.ID, "username", u.Username)

	return a.startSession(ctx, UserView{ID: u.ID, Username: u.Username, Role: u.Role})
}

func (a *App) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if err := check(credentials{Username: username, Password: password}); err != nil {
		return nil, err
	}

	u, err := a.store.Q.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, StorageError("No se pudo iniciar sesión", err)
	}
	if u == nil || !CheckPassword(u.PasswordHash, password) {
		return nil, AuthError("Usuario o contraseña incorrectos")
	}

	if IsLegacyHash(u.PasswordHash) {
		a.upgradeLegacyHash(ctx, u.ID, password)
	}

	return a.startSession(ctx, UserView{ID: u.ID, Username: u.Username, Role: u.Role})
}

// upgradeLegacyHash replaces an old sha256 hash after a successful login.
// Failure only costs another upgrade attempt next time.
func (a *App) upgradeLegacyHash(ctx context.Context, userID, password string) {
	hash, err := HashPassword(password)
	if err == nil {
		err = a.store.Q.SetUserPassword(ctx, userID, hash)
	}
	if err != nil {
		a.log.Warn("legacy password rehash failed", "user_id", userID, "err", err)
		return
	}
	a.log.Info("legacy password rehashed", "user_id", userID)
}

func (a *App) startSession(ctx context.Context, u UserView) (*AuthResult, error) {
	tok, err := a.sessions.Create(ctx, session.Identity{UserID: u.ID, Username: u.Username, Role: u.Role})
	if err != nil {
		return nil, StorageError("No se pudo crear la sesión", err)
	}
	return &AuthResult{Token: tok, User: u}, nil
}

// Logout drops the session; unknown or empty tokens are not an error.
func (a *App) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := a.sessions.Destroy(ctx, token); err != nil {
		return StorageError("No se pudo cerrar la sesión", err)
	}
	return nil
}

// Authenticate resolves a bearer token to its session.
func (a *App) Authenticate(ctx context.Context, token string) (*session.Session, error) {
	if token == "" {
		return nil, AuthError("No autorizado. Inicia sesión primero.")
	}
	s, err := a.sessions.Lookup(ctx, token)
	if errors.Is(err, session.ErrNotFound) {
		return nil, AuthError("No autorizado. Inicia sesión primero.")
	}
	if err != nil {
		return nil, StorageError("No se pudo verificar la sesión", err)
	}
	return s, nil
}

func (a *App) Me(ctx context.Context, token string) (*UserView, error) {
	s, err := a.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	return &UserView{ID: s.UserID, Username: s.Username, Role: s.Role}, nil
}
