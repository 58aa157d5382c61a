// Authgate issues HMAC-signed access tokens at login and guards every other
// route behind bearer-token authentication and authority checks.
//
// @title Authgate API
// @version 1.0
// @description Token-based authentication and per-route authorization service.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"encoding/json"
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

	"github.com/user/authgate-go/apperror"
	"github.com/user/authgate-go/auth"
	"github.com/user/authgate-go/config"
	"github.com/user/authgate-go/db"
	_ "github.com/user/authgate-go/docs" // generated Swagger spec
	"github.com/user/authgate-go/token"
	"github.com/user/authgate-go/users"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: .env file not found or not readable: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool, err := db.NewPool(cfg.DB)
	if err != nil {
		log.Fatalf("failed to create database pool: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.DB, "./migrations"); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	tokens, err := token.NewProvider(cfg.Auth)
	if err != nil {
		log.Fatalf("failed to initialize token provider: %v", err)
	}

	store := users.NewStore(pool)
	authService := auth.NewService(store, auth.NewBcryptHasher(), tokens)
	authHandlers := auth.NewHandlers(authService)
	userHandlers := users.NewHandlers(store)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Panic safety net behind Recoverer: render panics as the uniform JSON body.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if rvr := recover(); rvr != nil {
					log.Printf("panic: %+v", rvr)
					writeError(ww, apperror.NewInternalError("internal server error", nil))
				}
			}()
			next.ServeHTTP(ww, r)
		})
	})

	// The token filter runs on every request and never rejects; a garbage
	// token leaves the request anonymous so public routes stay reachable.
	r.Use(auth.TokenFilter(tokens))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Public routes: reachable without (or with an invalid) token.
	r.Get("/api/hello", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "hello")
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			writeError(w, apperror.NewDatabaseError("database unreachable", err))
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "ok")
	})
	r.Post("/api/authenticate", authHandlers.HandleAuthenticate())
	r.Post("/api/signup", authHandlers.HandleSignup())

	// Everything else requires an authenticated principal; individual
	// operations add their own authority requirement on top.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuthenticated)
		r.Get("/api/user", auth.RequireAuthority(auth.RoleUser, userHandlers.HandleGetCurrentUser()))
		r.Get("/api/user/{username}", auth.RequireAuthority(auth.RoleAdmin, userHandlers.HandleGetUser()))
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
		log.Printf("server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}
	log.Println("server stopped gracefully")
}

// writeError is a local helper for middleware that fires before the auth
// package helpers are in play.
func writeError(w http.ResponseWriter, appErr *apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if err := json.NewEncoder(w).Encode(appErr.ToResponse()); err != nil {
		http.Error(w, `{"status":500,"error":"failed to encode error response"}`, http.StatusInternalServerError)
	}
}
