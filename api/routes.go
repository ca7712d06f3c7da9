package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// setupManagementRoutes mounts health, info and metrics
func setupManagementRoutes(r chi.Router, handlers *routeHandlers, metrics http.Handler) {
	r.Route("/management", func(r chi.Router) {
		r.Get("/health", handlers.management.health())
		r.Get("/health/liveness", handlers.management.liveness())
		r.Get("/health/readiness", handlers.management.readiness())
		r.Get("/info", handlers.management.info())
		r.Method(http.MethodGet, "/prometheus", metrics)
	})
}

// setupAPIRoutes mounts the entity and account endpoints of every configured
// service. Access rules are enforced by the security middleware.
func setupAPIRoutes(r chi.Router, handlers *routeHandlers) {
	r.Route("/api", func(r chi.Router) {
		if h := handlers.blogHandler; h != nil {
			r.Post("/blogs", h.createBlog())
			r.Get("/blogs", h.getAllBlogs())
			r.Get("/blogs/{id}", h.getBlog())
			r.Put("/blogs/{id}", h.updateBlog())
			r.Patch("/blogs/{id}", h.partialUpdateBlog())
			r.Delete("/blogs/{id}", h.deleteBlog())
		}

		if h := handlers.postHandler; h != nil {
			r.Post("/posts", h.createPost())
			r.Get("/posts", h.getAllPosts())
			r.Get("/posts/{id}", h.getPost())
			r.Put("/posts/{id}", h.updatePost())
			r.Patch("/posts/{id}", h.partialUpdatePost())
			r.Delete("/posts/{id}", h.deletePost())
		}

		if h := handlers.tagHandler; h != nil {
			r.Post("/tags", h.createTag())
			r.Get("/tags", h.getAllTags())
			r.Get("/tags/{id}", h.getTag())
			r.Put("/tags/{id}", h.updateTag())
			r.Patch("/tags/{id}", h.partialUpdateTag())
			r.Delete("/tags/{id}", h.deleteTag())
		}

		if h := handlers.productHandler; h != nil {
			r.Post("/products", h.createProduct())
			r.Get("/products", h.getAllProducts())
			r.Get("/products/{id}", h.getProduct())
			r.Put("/products/{id}", h.updateProduct())
			r.Patch("/products/{id}", h.partialUpdateProduct())
			r.Delete("/products/{id}", h.deleteProduct())
		}

		if h := handlers.userHandler; h != nil {
			r.Get("/users", h.getAllPublicUsers())
		}

		if h := handlers.accountHandler; h != nil {
			r.Get("/account", h.getAccount())
			r.Get("/authenticate", h.isAuthenticated())
			r.Get("/auth-info", h.getAuthInfo())
			r.Get("/authorities", h.getAuthorities())
			r.Get("/admin/users", h.getAllUsers())
			r.Get("/admin/users/{login}", h.getUser())
		}
	})
}
