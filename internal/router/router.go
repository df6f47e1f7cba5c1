package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/salutem-pos/api/internal/config"
	"github.com/salutem-pos/api/internal/database"
	"github.com/salutem-pos/api/internal/handler"
	mw "github.com/salutem-pos/api/internal/middleware"
	"github.com/salutem-pos/api/internal/service"
	"github.com/salutem-pos/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Reads are public so admin clients can browse without logging in;
// writes require authentication and deletes require the ADMIN role.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:4200", "https://admin.salutemburguer.com"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// WebSocket change feed
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, w, r)
	})

	sandwichService := service.NewSandwichService(pool, func(db database.DBTX) service.SandwichStore {
		return database.New(db)
	})
	orderService := service.NewOrderService(pool, func(db database.DBTX) service.OrderStore {
		return database.New(db)
	})

	ingredientHandler := handler.NewIngredientHandler(queries, hub)
	drinkHandler := handler.NewDrinkHandler(queries, hub)
	sandwichHandler := handler.NewSandwichHandler(sandwichService, queries, hub)
	orderHandler := handler.NewOrderHandler(orderService, queries, hub)

	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)

	r.Route("/api", func(r chi.Router) {
		// Auth routes (public)
		r.Post("/auth/login", authHandler.Login)

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", ingredientHandler.List)
			r.Get("/active", ingredientHandler.ListActive)
			r.Group(func(r chi.Router) {
				r.Use(mw.Authenticate(cfg.JWTSecret))
				r.Post("/", ingredientHandler.Create)
				r.Put("/", ingredientHandler.Update)
				r.With(mw.RequireRole("ADMIN")).Delete("/{id}", ingredientHandler.Delete)
			})
		})

		r.Route("/drinks", func(r chi.Router) {
			r.Get("/", drinkHandler.List)
			r.Group(func(r chi.Router) {
				r.Use(mw.Authenticate(cfg.JWTSecret))
				r.Post("/", drinkHandler.Create)
				r.Put("/", drinkHandler.Update)
				r.With(mw.RequireRole("ADMIN")).Delete("/{id}", drinkHandler.Delete)
			})
		})

		r.Route("/sandwiches", func(r chi.Router) {
			r.Get("/", sandwichHandler.List)
			r.Group(func(r chi.Router) {
				r.Use(mw.Authenticate(cfg.JWTSecret))
				r.Post("/", sandwichHandler.Create)
				r.Put("/", sandwichHandler.Update)
				r.With(mw.RequireRole("ADMIN")).Delete("/{id}", sandwichHandler.Delete)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orderHandler.List)
			r.Group(func(r chi.Router) {
				r.Use(mw.Authenticate(cfg.JWTSecret))
				r.Post("/", orderHandler.Create)
				r.With(mw.RequireRole("ADMIN")).Delete("/{id}", orderHandler.Delete)
			})
		})
	})

	return r
}
