package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"goop-cafe-go/internal/app"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

type Server struct {
	App *app.App
}

type messageResponse struct {
	Message string `json:"message"`
}

// decode reads a JSON body into dst. An empty body leaves dst untouched.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return app.ValidationError("Cuerpo JSON inválido")
	}
	return nil
}

func idParam(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "id"))
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if err := s.App.Store().Ping(r.Context()); err != nil {
		http.Error(w, "db not ok", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

/* ---------------- Auth ---------------- */

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) RegisterPost(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(w, r, &req); err != nil {
		s.App.WriteError(w, r, err)
		return
	}
	res, err := s.App.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		s.App.WriteError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusCreated, res)
}

func (s *Server) LoginPost(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(w, r, &req); err != nil {
		s.App.WriteError(w, r, err)
		return
	}
	res, err := s.App.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.App.WriteError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusOK, res)
}

func (s *Server) LogoutPost(w http.ResponseWriter, r *http.Request) {
	if err := s.App.Logout(r.Context(), app.RequestToken(r)); err != nil {
		s.App.WriteError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusOK, messageResponse{Message: "Sesión cerrada"})
}

func (s *Server) MeGet(w http.ResponseWriter, r *http.Request) {
	u, err := s.App.Me(r.Context(), app.RequestToken(r))
	if err != nil {
		s.App.WriteError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusOK, map[string]any{"user": u})
}
