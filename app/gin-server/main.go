package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/speaksuit/speaksuit/config"
	"github.com/speaksuit/speaksuit/internal/api/handlers"
	"github.com/speaksuit/speaksuit/internal/api/middleware"
	"github.com/speaksuit/speaksuit/internal/api/routes"
	"github.com/speaksuit/speaksuit/internal/cache"
	"github.com/speaksuit/speaksuit/internal/logger"
	"github.com/speaksuit/speaksuit/internal/meeting"
	"github.com/speaksuit/speaksuit/internal/models"
	"github.com/speaksuit/speaksuit/internal/providers/enrich"
	"github.com/speaksuit/speaksuit/internal/providers/stt"
	mongorepo "github.com/speaksuit/speaksuit/internal/repositories/mongo"
	pgrepo "github.com/speaksuit/speaksuit/internal/repositories/postgres"
	"github.com/speaksuit/speaksuit/internal/storage"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()
	ctx := context.Background()

	if err := config.InitPostgres(); err != nil {
		log.WithError(err).Fatal("PostgreSQL init error")
	}
	log.Info("PostgreSQL connected")
	if err := config.PostgresDB.AutoMigrate(&models.Utterance{}); err != nil {
		log.WithError(err).Fatal("PostgreSQL migration error")
	}

	if err := config.InitMongo(); err != nil {
		log.WithError(err).Fatal("MongoDB init error")
	}
	log.Info("MongoDB connected")
	if err := config.EnsureMongoIndexes(); err != nil {
		log.WithError(err).Warn("MongoDB index setup failed")
	}

	hub := &meeting.Hub{
		Registry: meeting.NewRegistry(),
		Logger:   log,
	}

	// Redis is optional; without it replay always hits Mongo
	if os.Getenv("REDIS_ADDR") != "" || os.Getenv("REDIS_URI") != "" || os.Getenv("REDIS_URL") != "" {
		if err := config.InitRedis(); err != nil {
			log.WithError(err).Fatal("Redis init error")
		}
		log.Info("Redis connected")
		hub.Cache = cache.NewRedisCache(config.RedisClient)
	}

	speech, err := stt.NewGoogleSpeech(ctx, os.Getenv("SPEECH_LANGUAGE"))
	if err != nil {
		log.WithError(err).Fatal("speech client init error")
	}
	defer speech.Close()
	hub.STT = speech

	hub.Enricher = newEnricher(ctx, log)
	defer hub.Enricher.Close()

	if bucket := os.Getenv("AUDIO_ARCHIVE_BUCKET"); bucket != "" {
		up, err := storage.NewGCSUploader(ctx, bucket)
		if err != nil {
			log.WithError(err).Fatal("GCS init error")
		}
		defer up.Close()
		hub.Archive = up
	}

	hub.Utterances = pgrepo.NewUtteranceRepo(config.PostgresDB)
	hub.Enrichments = mongorepo.NewEnrichmentRepo(config.MongoClient.Database(config.MongoDBName()))

	if err := hub.Init(); err != nil {
		log.WithError(err).Fatal("hub init error")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	routes.RegisterRoutes(r, routes.Deps{
		WS:          handlers.NewWSHandler(hub),
		Transcripts: handlers.NewTranscriptHandler(hub.Utterances),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("server listening")
	if err := r.Run(":" + port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func newEnricher(ctx context.Context, log *logrus.Logger) enrich.Provider {
	switch os.Getenv("ENRICH_PROVIDER") {
	case "gemini":
		p, err := enrich.NewVertexGemini(ctx,
			os.Getenv("GCP_PROJECT"),
			os.Getenv("GCP_LOCATION"),
			os.Getenv("GEMINI_MODEL"),
		)
		if err != nil {
			log.Fatal("gemini init error: ", err)
		}
		return p
	default:
		url := os.Getenv("SUMMARY_API_URL")
		if url == "" {
			log.Fatal("SUMMARY_API_URL environment variable is not set")
		}
		return enrich.NewHTTPClient(url, 30*time.Second)
	}
}
