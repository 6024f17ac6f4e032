package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/MKhiriev/go-time-sync/internal/config"
	"github.com/MKhiriev/go-time-sync/internal/handler"
	"github.com/MKhiriev/go-time-sync/internal/logger"
	"github.com/MKhiriev/go-time-sync/internal/server"
	"github.com/MKhiriev/go-time-sync/internal/service"
	"github.com/MKhiriev/go-time-sync/internal/store"
	"github.com/MKhiriev/go-time-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Print(buildInfo)

	log := logger.NewLogger("go-time-sync-server")

	flagCfg := config.RegisterFlags(flag.CommandLine)
	flag.Parse()

	cfg, err := config.GetServerConfig(flagCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if err = logger.SetLevel(cfg.Log.Level); err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}

	storages := store.NewServerStorages(models.User{
		Email:    getenv("SERVER_OWNER_EMAIL", "owner@example.com"),
		Fullname: getenv("SERVER_OWNER_NAME", "Owner"),
	}, nil, log)

	services, err := service.NewServices(storages, cfg.App, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	// The reference server hosts one account; print its token so a client
	// can be pointed at it.
	token, err := services.AuthService.CreateToken(context.Background(), store.SingletonID)
	if err != nil {
		log.Fatal().Err(err).Msg("error issuing api token")
	}
	fmt.Printf("API token: %s\n", token)

	handlers, err := handler.NewHandlers(services, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	if err = srv.RunServer(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("server run error")
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
