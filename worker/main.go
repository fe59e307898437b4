// main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/notify"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/store"
	"github.com/Ftotnem/HUNT-SERVICES/shared/cluster"
	"github.com/Ftotnem/HUNT-SERVICES/shared/config"
	"github.com/Ftotnem/HUNT-SERVICES/shared/logger"
	mongodbu "github.com/Ftotnem/HUNT-SERVICES/shared/mongodb"
	redisu "github.com/Ftotnem/HUNT-SERVICES/shared/redis"
	"github.com/Ftotnem/HUNT-SERVICES/shared/registry"
	huntclient "github.com/Ftotnem/HUNT-SERVICES/shared/service"
	"github.com/Ftotnem/HUNT-SERVICES/worker/syncer"
)

const version = "1.0.0"

func main() {
	// --- 1. Load Configuration ---
	boot := logger.Default()
	if err := config.LoadDotEnv(); err != nil {
		boot.Fatal("Failed to load .env: %v", err)
	}
	cfg, err := config.LoadWorkerConfig()
	if err != nil {
		boot.Fatal("Failed to load configuration: %v", err)
	}

	log := logger.New(logger.Options{
		Service:      registry.ServiceTypeHuntWorker,
		Debug:        cfg.Debug,
		RollbarToken: cfg.RollbarToken,
		Environment:  cfg.Env,
		CodeVersion:  version,
	})
	defer log.Close()

	// --- 2. Connect to MongoDB (notification inserts) ---
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

	// --- 3. Connect to Redis ---
	redisClient, err := redisu.NewRedisClient(cfg.RedisAddrs, cfg.RedisPassword, log)
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

	// --- 4. Service Registrar and Assignment Ring ---
	registrar := registry.NewServiceRegistrar(redisClient, registry.ServiceTypeHuntWorker, version, &cfg.CommonConfig, log)
	registrar.Start()
	defer registrar.Stop()

	registryClient := registry.NewRegistryClient(redisClient, cfg.HeartbeatTTL, log)
	assignments := cluster.NewServiceAssignmentManager(registryClient, registrar, cfg.AssignmentInterval, log)
	go assignments.Start()
	defer assignments.Stop()

	// --- 5. Notification Drain ---
	notifications := store.NewNotificationStore(mongoClient.Collection(mongodbu.CollNotifications))
	drainer := notify.NewDrainer(redisClient, notify.NewDirect(notifications), cfg.DrainTimeout, log)
	drainer.Start()
	defer drainer.Stop()

	// --- 6. Scoreboard Rank Sync ---
	hunt := huntclient.NewHuntClient(cfg.HuntServiceURL)
	healthCtx, healthCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := hunt.Health(healthCtx); err != nil {
		log.Warn("hunt-api not reachable yet, scoreboard sync will retry: %v", err)
	}
	healthCancel()

	scoreboard := syncer.NewScoreboardSyncer(hunt, assignments, cfg.ScoreboardSyncInterval, log)
	scoreboard.Start()
	defer scoreboard.Stop()

	log.Info("hunt-worker %s running.", registrar.GetServiceID())

	// --- 7. Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down hunt-worker...")
}
