package handlers

import (
	"net/http"

	"goop-cafe-go/internal/app"
)

func (s *Server) OrdersList(w http.ResponseWriter, r *http.Request) {
	orders, err := s.App.ListOrders(r.Context(), s.App.CurrentSession(r), r.URL.Query().Get("status"))
	if err != nil {
		s.App.WriteError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusOK, orders)
}

func (s *Server) OrderGet(w http.ResponseWriter, r *http.Request) {
	o, err := s.App.GetOrder(r.Context(), s.App.CurrentSession(r), idParam(r))
	if err != nil {
		s.App.WriteError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusOK, o)
}

func (s *Server) OrderCreate(w http.ResponseWriter, r *http.Request) {
	var in app.OrderInput
	if err := decode(w, r, &in); err != nil {
		s.App.WriteError(w, r, err)
		return
	}
	o, err := s.App.CreateOrder(r.Context(), s.App.CurrentSession(r), in)
	if err != nil {
		s.App.WriteError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusCreated, o)
}

func (s *Server) OrderUpdate(w http.ResponseWriter, r *http.Request) {
	var in app.OrderInput
	if err := decode(w, r, &in); err != nil {
		s.App.WriteError(w, r, err)
		return
	}
	o, err := s.App.UpdateOrder(r.Context(), s.App.CurrentSession(r), idParam(r), in)
	if err != nil {
		s.App.WriteError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusOK, o)
}

func (s *Server) OrderAdvance(w http.ResponseWriter, r *http.Request) {
	o, err := s.App.AdvanceOrder(r.Context(), s.App.CurrentSession(r), idParam(r))
	if err != nil {
		s.App.WriteError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusOK, o)
}

func (s *Server) OrderDelete(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if err := s.App.DeleteOrder(r.Context(), s.App.CurrentSession(r), id); err != nil {
		s.App.WriteError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusOK, messageResponse{Message: "Pedido " + id + " eliminado correctamente"})
}
