package app

import (
	"encoding/json"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

var kindStatus = map[Kind]int{
	KindValidation: http.StatusBadRequest,
	KindAuth:       http.StatusUnauthorized,
	KindForbidden:  http.StatusForbidden,
	KindNotFound:   http.StatusNotFound,
	KindConflict:   http.StatusConflict,
	KindStorage:    http.StatusInternalServerError,
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	if code, ok := kindStatus[KindOf(err)]; ok {
		return code
	}
	return http.StatusInternalServerError
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes {"error": msg}. Server-side failures are logged with
// their cause; the client only sees the message.
func (a *App) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	code := StatusFor(err)
	if code >= http.StatusInternalServerError {
		a.log.Error("request failed",
			"request_id", chimw.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"err", err,
		)
	}
	WriteJSON(w, code, map[string]string{"error": Message(err)})
}
