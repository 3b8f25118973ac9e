package app

import (
	"net/http"
)

func (a *App) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.CurrentSession(r) == nil {
			a.WriteError(w, r, AuthError("No autorizado. Inicia sesión primero."))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *App) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := a.CurrentSession(r)
			if s == nil {
				a.WriteError(w, r, AuthError("No autorizado. Inicia sesión primero."))
				return
			}
			if s.Role != role {
				a.WriteError(w, r, ForbiddenError("Acceso denegado. Se requiere rol de administrador."))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
