// @title           Account Server API
// @version         1.0
// @host            localhost
// @schemes         http https
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"log"
	"net/http"

	"serwer-kont/internal/api"
	"serwer-kont/internal/config"
	"serwer-kont/internal/database"
	"serwer-kont/internal/logger"
	"serwer-kont/internal/media"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "serwer-kont/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Nie można wczytać konfiguracji: %v", err)
	}

	logger.Init(logger.Config{Level: cfg.Log.Level, File: cfg.Log.File})
	defer logger.Sync()

	dbpool, err := pgxpool.New(context.Background(), cfg.DB.Source)
	if err != nil {
		logger.Fatal("Nie można połączyć się z bazą danych", logger.Err(err))
	}
	defer dbpool.Close()

	if err := dbpool.Ping(context.Background()); err != nil {
		logger.Fatal("Nie można pingować bazy danych", logger.Err(err))
	}
	logger.Info("Pomyślnie połączono z bazą danych")

	if err := database.RunMigrations(context.Background(), cfg.DB.Source); err != nil {
		logger.Fatal("Nie można wykonać migracji", logger.Err(err))
	}

	uploader, err := media.NewMinioUploader(cfg.Media)
	if err != nil {
		logger.Fatal("Nie można zainicjować magazynu mediów", logger.Err(err))
	}
	logger.Info("Magazyn mediów gotowy", logger.String("bucket", cfg.Media.Bucket))

	store := database.NewStore(dbpool)
	server := api.NewServer(cfg, store, uploader)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(api.MetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AppHost},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("https://localhost/swagger/doc.json"),
	))

	r.Get("/health", server.HealthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/register", server.RegisterHandler)
		r.Post("/login", server.LoginHandler)
		r.Post("/refresh-token", server.RefreshTokenHandler)

		r.Group(func(r chi.Router) {
			r.Use(server.AuthMiddleware)
			r.Post("/logout", server.LogoutHandler)
			r.Post("/change-password", server.ChangePasswordHandler)
			r.Get("/current-user", server.GetCurrentUserHandler)
			r.Patch("/update-account", server.UpdateAccountHandler)
			r.Patch("/avatar", server.UpdateAvatarHandler)
			r.Patch("/cover-image", server.UpdateCoverImageHandler)
		})
	})

	logger.Info("Uruchamianie serwera na porcie :8080")
	if err := http.ListenAndServe(":8080", r); err != nil {
		logger.Fatal("Nie można uruchomić serwera", logger.Err(err))
	}
}
