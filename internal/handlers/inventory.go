package handlers

import (
	"fmt"
	"net/http"

	"goop-cafe-go/internal/app"
)

func (s *Server) InventoryList(w http.ResponseWriter, r *http.Request) {
	items, err := s.App.ListInventory(r.Context(), s.App.CurrentSession(r))
	if err != nil {
		s.App.WriteError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusOK, items)
}

func (s *Server) InventoryGet(w http.ResponseWriter, r *http.Request) {
	it, err := s.App.GetInventoryItem(r.Context(), s.App.CurrentSession(r), idParam(r))
	if err != nil {
		s.App.WriteError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusOK, it)
}

func (s *Server) InventoryCreate(w http.ResponseWriter, r *http.Request) {
	var in app.InventoryInput
	if err := decode(w, r, &in); err != nil {
		s.App.WriteError(w, r, err)
		return
	}
	it, err := s.App.CreateInventoryItem(r.Context(), s.App.CurrentSession(r), in)
	if err != nil {
		s.App.WriteError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusCreated, it)
}

func (s *Server) InventoryUpdate(w http.ResponseWriter, r *http.Request) {
	var in app.InventoryInput
	if err := decode(w, r, &in); err != nil {
		s.App.WriteError(w, r, err)
		return
	}
	it, err := s.App.UpdateInventoryItem(r.Context(), s.App.CurrentSession(r), idParam(r), in)
	if err != nil {
		s.App.WriteError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusOK, it)
}

func (s *Server) InventoryDelete(w http.ResponseWriter, r *http.Request) {
	it, err := s.App.DeleteInventoryItem(r.Context(), s.App.CurrentSession(r), idParam(r))
	if err != nil {
		s.App.WriteError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Insumo %q eliminado correctamente", it.Name),
	})
}
