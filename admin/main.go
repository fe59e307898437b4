// main.go
package main

import (
	"context"
	"os"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/auth"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/service"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/store"
	"github.com/Ftotnem/HUNT-SERVICES/shared/config"
	"github.com/Ftotnem/HUNT-SERVICES/shared/logger"
	mongodbu "github.com/Ftotnem/HUNT-SERVICES/shared/mongodb"
)

func main() {
	log := logger.New(logger.Options{Service: "hunt-admin"})

	if err := config.LoadDotEnv(); err != nil {
		log.Fatal("Failed to load .env: %v", err)
	}
	cfg, err := config.LoadHuntServiceConfig()
	if err != nil {
		log.Fatal("Failed to load configuration: %v", err)
	}

	mongoClient, err := mongodbu.NewClient(cfg.MongoDBConnStr, cfg.MongoDBDatabase, log)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB: %v", err)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiration)
	cli := commandLine{
		admins:  service.NewAuthService(service.MongoStores(store.NewMongo(mongoClient)), tokens),
		indexes: mongoClient,
		out:     os.Stdout,
	}
	runErr := cli.run(os.Args)

	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("Failed to disconnect from MongoDB: %v", err)
	}
	if runErr != nil && runErr != errHelp {
		log.Error("%v", runErr)
	}
	log.Close()
	if runErr != nil {
		os.Exit(1)
	}
}
