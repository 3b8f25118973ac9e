package handlers

import (
	"fmt"
	"net/http"

	"goop-cafe-go/internal/app"
)

func (s *Server) MenuList(w http.ResponseWriter, r *http.Request) {
	items, err := s.App.ListMenu(r.Context())
	if err != nil {
		s.App.WriteError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusOK, items)
}

func (s *Server) MenuGet(w http.ResponseWriter, r *http.Request) {
	m, err := s.App.GetMenuItem(r.Context(), idParam(r))
	if err != nil {
		s.App.WriteError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusOK, m)
}

func (s *Server) MenuCreate(w http.ResponseWriter, r *http.Request) {
	var in app.MenuInput
	if err := decode(w, r, &in); err != nil {
		s.App.WriteError(w, r, err)
		return
	}
	m, err := s.App.CreateMenuItem(r.Context(), s.App.CurrentSession(r), in)
	if err != nil {
		s.App.WriteError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusCreated, m)
}

func (s *Server) MenuUpdate(w http.ResponseWriter, r *http.Request) {
	var in app.MenuInput
	if err := decode(w, r, &in); err != nil {
		s.App.WriteError(w, r, err)
		return
	}
	m, err := s.App.UpdateMenuItem(r.Context(), s.App.CurrentSession(r), idParam(r), in)
	if err != nil {
		s.App.WriteError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusOK, m)
}

func (s *Server) MenuDelete(w http.ResponseWriter, r *http.Request) {
	m, err := s.App.DeleteMenuItem(r.Context(), s.App.CurrentSession(r), idParam(r))
	if err != nil {
		s.App.WriteError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Producto %q eliminado correctamente", m.Name),
	})
}
