package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/example/artisan-market/internal/api/middleware"
	"github.com/example/artisan-market/internal/auth"
	"github.com/example/artisan-market/internal/domain/user"
	"github.com/example/artisan-market/internal/metrics"
)

// NewRouter wires every route. Public catalog reads carry OptionalAuth
// so views can be attributed to logged-in users; everything that writes
// on a user's behalf requires a token.
func NewRouter(handlers *Handlers, authHandlers *AuthHandlers, assistantHandlers *AssistantHandlers, jwtService *auth.JWTService) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.Middleware())

	requireAuth := middleware.Auth(jwtService)
	optionalAuth := middleware.OptionalAuth(jwtService)
	sellerOnly := middleware.RequireRole(user.RoleArtisan, user.RoleAdmin)
	adminOnly := middleware.RequireRole(user.RoleAdmin)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/metrics", metrics.Handler())

	// Auth
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandlers.Register)
		r.Post("/login", authHandlers.Login)
		r.Post("/refresh", authHandlers.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/logout", authHandlers.Logout)
			r.Get("/me", authHandlers.Me)
			r.Post("/change-password", authHandlers.ChangePassword)
		})
	})

	// Catalog
	r.Route("/products", func(r chi.Router) {
		r.With(optionalAuth).Get("/", handlers.SearchProducts)
		r.With(optionalAuth).Get("/{id}", handlers.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/{id}/like", handlers.LikeProduct)
			r.Delete("/{id}/like", handlers.UnlikeProduct)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth, sellerOnly)
			r.Post("/", handlers.CreateProduct)
			r.Patch("/{id}", handlers.UpdateProduct)
			r.Delete("/{id}", handlers.DeleteProduct)
			r.Post("/{id}/images", handlers.UploadProductImage)
			r.Post("/{id}/stock", handlers.AddStock)
			r.Get("/{id}/inventory", handlers.GetInventory)
		})
	})
	r.Get("/categories", handlers.ListCategories)

	// Cart and wishlist
	r.Route("/cart", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", handlers.GetCart)
		r.Post("/items", handlers.AddToCart)
		r.Delete("/items/{productID}", handlers.RemoveFromCart)
		r.Delete("/", handlers.ClearCart)
	})
	r.Route("/wishlist", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", handlers.GetWishlist)
		r.Post("/items", handlers.AddToWishlist)
		r.Delete("/items/{productID}", handlers.RemoveFromWishlist)
	})

	// Orders
	r.Route("/orders", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", handlers.PlaceOrder)
		r.Get("/", handlers.ListMyOrders)
		r.Get("/{id}", handlers.GetOrder)
		r.Post("/{id}/cancel", handlers.CancelOrder)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Post("/{id}/pay", handlers.PayOrder)
			r.Post("/{id}/ship", handlers.ShipOrder)
		})
	})
	r.With(requireAuth, adminOnly).Get("/admin/orders", handlers.ListAllOrders)

	// Artisans
	r.Route("/artisans", func(r chi.Router) {
		r.Get("/{id}", handlers.GetArtisan)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", authHandlers.RegisterArtisan)
			r.With(sellerOnly).Patch("/me", handlers.UpdateArtisanProfile)
			r.With(sellerOnly).Get("/{id}/dashboard", handlers.GetDashboard)
		})
	})

	// Assistant
	r.Route("/assistant", func(r chi.Router) {
		r.Post("/chat", assistantHandlers.Chat)
		r.Get("/chat/ws", assistantHandlers.ChatSocket)
	})

	return r
}
