// main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	huntapi "github.com/Ftotnem/HUNT-SERVICES/hunt/api"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/auth"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/media"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/notify"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/service"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/store"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/store/inmem"
	"github.com/Ftotnem/HUNT-SERVICES/shared/api"
	"github.com/Ftotnem/HUNT-SERVICES/shared/config"
	"github.com/Ftotnem/HUNT-SERVICES/shared/logger"
	mongodbu "github.com/Ftotnem/HUNT-SERVICES/shared/mongodb"
	redisu "github.com/Ftotnem/HUNT-SERVICES/shared/redis"
	"github.com/Ftotnem/HUNT-SERVICES/shared/registry"
	"github.com/redis/go-redis/v9"
)

const version = "1.0.0"

func main() {
	// --- 1. Load Configuration ---
	boot := logger.Default()
	if err := config.LoadDotEnv(); err != nil {
		boot.Fatal("Failed to load .env: %v", err)
	}
	cfg, err := config.LoadHuntServiceConfig()
	if err != nil {
		boot.Fatal("Failed to load configuration: %v", err)
	}

	log := logger.New(logger.Options{
		Service:      registry.ServiceTypeHuntAPI,
		Debug:        cfg.Debug,
		RollbarToken: cfg.RollbarToken,
		Environment:  cfg.Env,
		CodeVersion:  version,
	})
	defer log.Close()

	// --- 2. Data Stores ---
	var stores service.Stores
	switch cfg.StoreBackend {
	case "memory":
		log.Warn("Using in-memory store; all data is lost on restart.")
		stores = inmem.NewDB().Stores()
	default:
		mongoClient, err := mongodbu.NewClient(cfg.MongoDBConnStr, cfg.MongoDBDatabase, log)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB: %v", err)
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				log.Error("Failed to disconnect from MongoDB: %v", err)
				return
			}
			log.Info("Disconnected from MongoDB.")
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := mongoClient.EnsureIndexes(ctx); err != nil {
			cancel()
			log.Fatal("Failed to ensure MongoDB indexes: %v", err)
		}
		cancel()
		stores = service.MongoStores(store.NewMongo(mongoClient))
	}

	// --- 3. Redis (only when queueing notifications or registering) ---
	var redisClient redis.UniversalClient
	if cfg.NotifyMode == "redis" || cfg.RegisterService {
		redisClient, err = redisu.NewRedisClient(cfg.RedisAddrs, cfg.RedisPassword, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis: %v", err)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client: %v", err)
				return
			}
			log.Info("Redis client closed.")
		}()
	}

	// --- 4. Media Storage ---
	var storage media.Storage
	switch cfg.MediaBackend {
	case "cloudinary":
		storage, err = media.NewCloudinaryStorage(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, log)
	default:
		storage, err = media.NewLocalStorage(cfg.UploadsDir, "/uploads", log)
	}
	if err != nil {
		log.Fatal("Failed to initialise %s media storage: %v", cfg.MediaBackend, err)
	}

	// --- 5. Notifications ---
	var notifier notify.Notifier = notify.NewDirect(stores.Notifications)
	if cfg.NotifyMode == "redis" {
		notifier = notify.NewRedisQueue(redisClient)
		log.Info("Notifications are queued on Redis for hunt-worker.")
	}

	// --- 6. Business Logic Services ---
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiration)
	services := service.New(service.Deps{
		Stores:        stores,
		Notifier:      notifier,
		Media:         storage,
		Tokens:        tokens,
		Log:           log,
		PublicBaseURL: cfg.PublicBaseURL,
	})

	// --- 7. API Handlers ---
	opts := huntapi.Options{StaticDir: cfg.StaticDir, MaxUploadBytes: cfg.MaxUploadBytes}
	if cfg.MediaBackend == "local" {
		opts.UploadsDir = cfg.UploadsDir
	}
	handlers := huntapi.NewHuntAPIHandlers(services, tokens, log, opts)

	// --- 8. Service Registrar ---
	if cfg.RegisterService {
		registrar := registry.NewServiceRegistrar(redisClient, registry.ServiceTypeHuntAPI, version, &cfg.CommonConfig, log)
		registrar.Start()
		defer registrar.Stop()
	}

	// --- 9. HTTP Server ---
	baseServer := api.NewBaseServer(cfg.ListenAddr, log, api.ServerOptions{})
	handlers.RegisterRoutes(baseServer.Router)

	go func() {
		if err := baseServer.Start(); err != nil {
			log.Fatal("HTTP server failed to start: %v", err)
		}
	}()

	// --- 10. Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := baseServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server graceful shutdown failed: %v", err)
		return
	}
	log.Info("Server gracefully stopped.")
}
