package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"gaitserver/internal/config"
	"gaitserver/internal/database"
	"gaitserver/internal/middleware"
	"gaitserver/internal/modules/session"
	"gaitserver/internal/modules/system"
	"gaitserver/internal/repository"
	"gaitserver/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	blobs, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		log.Fatal(err)
	}

	records, err := newRecordStore(cfg)
	if err != nil {
		log.Fatal(err)
	}

	svc := session.NewService(records, blobs)
	sessionHandler := session.NewHandler(svc)
	systemHandler := system.NewHandler(svc, cfg.UploadDir)

	r := gin.New()
	r.Use(middleware.RequestLogger(), middleware.CORS())

	api := r.Group("/api")
	{
		sessionHandler.RegisterRoutes(api)
		systemHandler.RegisterRoutes(api)
	}

	log.Printf("server_start port=%s uploads_dir=%s backend=%s", cfg.Port, cfg.UploadDir, cfg.StoreBackend)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

func newRecordStore(cfg *config.Config) (session.RecordStore, error) {
	if cfg.StoreBackend == config.BackendFile {
		return repository.NewFileSessionRepository(cfg.SessionsFile)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	repo := repository.NewSessionRepository(db)
	if err := repo.Migrate(); err != nil {
		return nil, err
	}
	return repo, nil
}
