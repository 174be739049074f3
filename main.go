// Entry point of the madang application: loads configuration, opens the
// record store, wires services and handlers, sets up the HTTP router and
// middleware, and runs the server with graceful shutdown.
//
// @title Madang API
// @version 1.0
// @description Social media backend: users, posts, comments, and likes over flat JSON collections.
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/madang-go/apperror"
	"github.com/user/madang-go/auth"
	"github.com/user/madang-go/comments"
	"github.com/user/madang-go/config"
	_ "github.com/user/madang-go/docs" // Generated Swagger docs
	"github.com/user/madang-go/likes"
	"github.com/user/madang-go/posts"
	"github.com/user/madang-go/store"
	"github.com/user/madang-go/users"
)

func main() {
	// .env is a development convenience; in production variables are set
	// directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		// A missing JWT_SECRET lands here: starting without a signing
		// secret is a fatal condition.
		log.Fatalf("Failed to load config: %v", err)
	}

	st, err := store.New(cfg.Store.DataDir, cfg.Store.Strict)
	if err != nil {
		log.Fatalf("Failed to open record store: %v", err)
	}

	// Services hold the business logic; dependencies are injected manually
	// via constructors.
	authService := auth.NewAuthService(st, *cfg.Auth)
	authHandlers := auth.NewHandlers(authService)

	userService := users.NewUserService(st)
	userHandlers := users.NewUserHandlers(userService)

	postService := posts.NewPostService(st)
	postHandlers := posts.NewPostHandlers(postService)

	commentService := comments.NewCommentService(st)
	commentHandlers := comments.NewCommentHandler(commentService)

	likeService := likes.NewLikeService(st)
	likeHandlers := likes.NewLikeHandlers(likeService)

	r := chi.NewRouter()

	// Chi requires all middleware to be registered before any routes.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Panic recovery that keeps the error envelope consistent.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if rvr := recover(); rvr != nil {
					log.Printf("Panic: %+v", rvr)
					auth.WriteError(ww, r, apperror.NewInternalError("internal server error", nil))
				}
			}()
			next.ServeHTTP(ww, r)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Liveness route.
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		auth.WriteSuccess(w, http.StatusOK, map[string]string{
			"message": "server is running, see /swagger/index.html",
		})
	})

	requireAuth := auth.Middleware(cfg.Auth, st)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/tokens", authHandlers.HandleIssueToken())
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandlers.HandleSignup())
		r.Get("/{userId}", userHandlers.HandleGetUser())

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", userHandlers.HandleGetMe())
			r.Patch("/me", userHandlers.HandleUpdateMe())
			r.Delete("/me", userHandlers.HandleDeleteMe())
		})
	})

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", postHandlers.HandleList())
		r.Get("/search", postHandlers.HandleSearch())
		r.Get("/{postId}", postHandlers.HandleGet())

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", postHandlers.HandleListMine())
			r.Post("/", postHandlers.HandleCreate())
			r.Patch("/{postId}", postHandlers.HandleUpdate())
			r.Delete("/{postId}", postHandlers.HandleDelete())
		})
	})

	r.Route("/comments", func(r chi.Router) {
		r.Get("/posts/{postId}", commentHandlers.HandleListByPost())

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/posts/{postId}", commentHandlers.HandleCreate())
			r.Get("/me", commentHandlers.HandleListMine())
			r.Patch("/{commentId}", commentHandlers.HandleUpdate())
			r.Delete("/{commentId}", commentHandlers.HandleDelete())
		})
	})

	r.Route("/likes", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/posts/{postId}", likeHandlers.HandleLike())
		r.Delete("/posts/{postId}", likeHandlers.HandleUnlike())
		r.Get("/posts/{postId}", likeHandlers.HandleStatus())
		r.Get("/me", likeHandlers.HandleListMine())
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s (data dir %s)", addr, st.Dir())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}
