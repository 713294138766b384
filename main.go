package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/testgcahm/gis/auth"
	"github.com/testgcahm/gis/config"
	"github.com/testgcahm/gis/db"
	"github.com/testgcahm/gis/events"
	"github.com/testgcahm/gis/eventstore"
	"github.com/testgcahm/gis/imgbb"
	"github.com/testgcahm/gis/live"
	"github.com/testgcahm/gis/middleware"
	"github.com/testgcahm/gis/publish"
	"github.com/testgcahm/gis/ratelim"
	"github.com/testgcahm/gis/rdx"
	"github.com/testgcahm/gis/routes"
	"github.com/testgcahm/gis/sitemap"
	"github.com/testgcahm/gis/upload"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

const libraryDir = "./static/library"

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config load failed", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := db.Init(ctx, cfg.MongoURI); err != nil {
		logger.Error("mongodb connection failed", "err", err)
		os.Exit(1)
	}

	// The page cache is an optimization; run without it if Redis is down.
	var pageCache *rdx.PageCache
	if conn, err := rdx.Connect(ctx, cfg.RedisURI); err != nil {
		logger.Warn("redis unavailable, page cache disabled", "err", err)
	} else {
		pageCache = rdx.NewPageCache(conn, 5*time.Minute, logger)
	}

	if err := os.MkdirAll(libraryDir, 0755); err != nil {
		logger.Error("library dir create failed", "err", err)
		os.Exit(1)
	}

	gate := middleware.NewGate(cfg.JWTSecret, cfg.AllowedEmails)
	rateLimiter := ratelim.NewRateLimiter()
	store := eventstore.New(db.EventsCollection)

	hub := live.NewHub(logger)
	go hub.Run()

	// Nil interfaces stay nil when the cache is disabled.
	var eventsCache events.Cache
	var sitemapCache sitemap.Cache
	var publishCache publish.Cache
	if pageCache != nil {
		eventsCache = pageCache
		sitemapCache = pageCache
		publishCache = pageCache
	}

	eventsHandler := events.New(store, eventsCache, hub, cfg.BaseURL, logger)
	authHandler := auth.New(cfg.JWTSecret, cfg.AdminCredentials, logger)
	uploadHandler := upload.New(imgbb.New(cfg.ImgBBKey), db.ImagesCollection, libraryDir, logger)
	sitemapHandler := sitemap.New(store, sitemapCache, cfg.BaseURL, logger)
	publishHandler := publish.New(publishCache, cfg.DeployHookURL, cfg.Environment, logger)

	router := httprouter.New()
	router.GET("/health", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		fmt.Fprint(w, "200")
	})
	routes.AddEventRoutes(router, eventsHandler, gate)
	routes.AddAuthRoutes(router, authHandler, rateLimiter)
	routes.AddUploadRoutes(router, uploadHandler, gate, rateLimiter)
	routes.AddPublishRoutes(router, publishHandler, gate)
	routes.AddSitemapRoutes(router, sitemapHandler)
	routes.AddLiveRoutes(router, hub, gate)
	routes.AddStaticRoutes(router)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	logging := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Info("request", "method", r.Method, "path", r.URL.Path,
				"remote", r.RemoteAddr, "duration", time.Since(start))
		})
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           logging(securityHeaders(corsHandler)),
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		hub.Stop()
	})

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
		os.Exit(1)
	}
	if err := db.Close(shutdownCtx); err != nil {
		logger.Warn("mongodb disconnect failed", "err", err)
	}
	logger.Info("server stopped cleanly")
}
