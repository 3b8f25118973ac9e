package handlers

import (
	"net/http"
	"strings"
	"time"

	"goop-cafe-go/internal/app"
	"goop-cafe-go/internal/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter wires every route of the API. It lives here rather than in app
// to avoid an app<->handlers import cycle.
func NewRouter(a *app.App) http.Handler {
	cfg := a.Config()

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(a.MiddlewareRequestLog)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	if cfg.MetricsEnabled {
		r.Use(metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", app.TokenHeader},
		MaxAge:         300,
	}))

	h := &Server{App: a}

	r.Get("/health", h.Health)
	if cfg.MetricsEnabled {
		r.Handle("/metrics", metrics.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		api.Use(a.MiddlewareLoadSession)

		// Public
		api.Post("/auth/register", h.RegisterPost)
		api.Post("/auth/login", h.LoginPost)
		api.Post("/auth/logout", h.LogoutPost)
		api.Get("/auth/me", h.MeGet)

		api.Get("/menu", h.MenuList)
		api.Get("/menu/{id}", h.MenuGet)

		// Authenticated; ownership is checked per order
		api.Group(func(ar chi.Router) {
			ar.Use(a.RequireAuth)

			ar.Get("/orders", h.OrdersList)
			ar.Post("/orders", h.OrderCreate)
			ar.Get("/orders/{id}", h.OrderGet)
			ar.Put("/orders/{id}", h.OrderUpdate)
		})

		// Admin
		api.Group(func(ad chi.Router) {
			ad.Use(a.RequireRole(app.RoleAdmin))

			ad.Post("/menu", h.MenuCreate)
			ad.Put("/menu/{id}", h.MenuUpdate)
			ad.Delete("/menu/{id}", h.MenuDelete)

			ad.Post("/orders/{id}/advance", h.OrderAdvance)
			ad.Delete("/orders/{id}", h.OrderDelete)

			ad.Get("/inventory", h.InventoryList)
			ad.Post("/inventory", h.InventoryCreate)
			ad.Get("/inventory/{id}", h.InventoryGet)
			ad.Put("/inventory/{id}", h.InventoryUpdate)
			ad.Delete("/inventory/{id}", h.InventoryDelete)
		})
	})

	if cfg.PublicDir != "" {
		fileServer(r, "/", http.Dir(cfg.PublicDir))
	}

	return r
}

func fileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("fileServer does not permit URL params")
	}
	fs := http.StripPrefix(path, http.FileServer(root))
	if path != "/" && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	pattern := path + "/*"
	if path == "/" {
		pattern = "/*"
	}
	r.Get(pattern, func(w http.ResponseWriter, r *http.Request) {
		fs.ServeHTTP(w, r)
	})
}
