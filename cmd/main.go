package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"doctor_signage/internal/config"
	"doctor_signage/internal/handlers"
	"doctor_signage/internal/logger"
	"doctor_signage/internal/mqtt"
	"doctor_signage/internal/repository"
	"doctor_signage/internal/repository/db"
	"doctor_signage/internal/server"
	"doctor_signage/internal/service"

	"github.com/go-redis/redis/v8"
)

const shutdownTimeout = 10 * time.Second

// @title                       Doctor Signage API
// @version                     1.0
// @description                 Local API of the doctor signage poller: current display, transition history and live stream.
// @BasePath                    /
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-Api-Key
func main() {
	configPath := flag.String("config", "", "path to config file (default configs/config.yml)")
	flag.Parse()

	// bootstrap logger until the configured one exists
	boot := logger.Get(logger.InfoLevel)

	cfg, err := config.Load(*configPath)
	if err != nil {
		boot.Fatalw("error reading config", "err", err)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	sqlDB, err := db.InitDB(cfg.Storage.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err, "path", cfg.Storage.Path)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	repos, rdb, err := openRepository(cfg, sqlDB, log)
	if err != nil {
		log.Fatalw("failed to init storage", "err", err, "driver", cfg.Storage.Driver)
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	services, err := service.NewService(repos, serviceOptions(cfg), log)
	if err != nil {
		log.Fatalw("failed to wire services", "err", err)
	}
	apiHandler := handlers.NewHandler(services, log.Named("http")).WithAPIKey(cfg.API.Key)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	runBackground(ctx, &wg, cfg, services, log)

	srv := &server.Server{}
	runHTTPServer(srv, cfg.API.Port, apiHandler, log)

	waitForShutdown(cancel, &wg, srv, log)
}

func openRepository(cfg *config.Config, sqlDB *sql.DB, log *logger.Logger) (*repository.Repository, *redis.Client, error) {
	repos := repository.NewRepository(sqlDB)
	if cfg.Storage.Driver != config.DriverRedis {
		return repos, nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rdb, err := db.InitRedis(ctx, db.RedisOptions{
		Addr:     cfg.Storage.Redis.Addr,
		Password: cfg.Storage.Redis.Password,
		DB:       cfg.Storage.Redis.DB,
	})
	if err != nil {
		return nil, nil, err
	}
	log.Infow("device kv on redis", "addr", cfg.Storage.Redis.Addr, "prefix", cfg.Storage.Redis.Prefix)
	return repos.WithKV(repository.NewKVRedis(rdb, cfg.Storage.Redis.Prefix)), rdb, nil
}

func serviceOptions(cfg *config.Config) service.Options {
	policy := service.PreserveOccupied
	if cfg.Poll.ErrorPolicy == config.ErrorPolicyClear {
		policy = service.ClearOnError
	}
	return service.Options{
		BackendURL:    cfg.Backend.BaseURL,
		APIKey:        cfg.Backend.APIKey,
		Location:      cfg.Location(),
		Timeout:       cfg.RequestTimeout(),
		Interval:      cfg.Poll.Interval,
		ErrorPolicy:   policy,
		ProbeEnabled:  cfg.Connectivity.Enabled,
		ProbeInterval: cfg.Connectivity.Interval,
		ProbeTimeout:  cfg.Connectivity.Timeout,
	}
}

// runBackground starts the poller, the connectivity probe and the MQTT mirror.
// A poller that fails to bootstrap leaves the API up so the error screen stays readable.
func runBackground(ctx context.Context, wg *sync.WaitGroup, cfg *config.Config, services *service.Service, log *logger.Logger) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := services.Poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Errorw("poller stopped", "err", err)
		}
	}()

	if services.Connectivity != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			services.Connectivity.Run(ctx)
		}()
	}

	if cfg.MQTT.Enabled {
		client, err := mqtt.NewClient(mqtt.Config{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
		})
		if err != nil {
			log.Errorw("mqtt disabled", "err", err, "broker", cfg.MQTT.Broker)
			return
		}
		publisher := mqtt.NewDisplayPublisher(client, cfg.MQTT.TopicPrefix, cfg.MQTT.QoS, log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer client.Disconnect()
			publisher.Run(ctx, services.Board)
		}()
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, wg *sync.WaitGroup, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down...")

	// stop the poller and wait for pending writes before the DB closes
	cancel()
	wg.Wait()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
