package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/zlog"

	"activitySignup/cmd/buildCFG"
	"activitySignup/internal/api/api"
	rabbitReader "activitySignup/internal/consumerWorker"
	"activitySignup/internal/dto"
	"activitySignup/internal/mailer"
	"activitySignup/internal/metrics"
	"activitySignup/internal/model"
	"activitySignup/internal/rabbit"
	"activitySignup/internal/repo"
	"activitySignup/internal/service"
)

func main() {
	zlog.Init()
	log := zlog.Logger

	envFile := ""
	if _, err := os.Stat(".env"); err == nil {
		envFile = ".env"
	}
	cfg := config.New()
	if err := cfg.Load("config.yaml", envFile, "SIGNUP"); err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	serverCfg := buildCFG.BuildServerConfig(cfg, &log)
	activitiesCfg := buildCFG.BuildActivitiesConfig(cfg)
	metricsCfg := buildCFG.BuildMetricsConfig(cfg)

	seed := repo.DefaultActivities()
	if activitiesCfg.SeedFile != "" {
		loaded, err := repo.LoadSeedFile(activitiesCfg.SeedFile)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load activity seed")
		}
		seed = loaded
		log.Info().Str("file", activitiesCfg.SeedFile).Msg("activity seed loaded from file")
	}
	repository, err := repo.NewRepository(seed, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize repository")
	}
	seedParticipantGauges(seed)

	rabbitCfg, err := buildCFG.BuildRabbitConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load RabbitMQ config")
	}
	mailerCfg, err := buildCFG.BuildMailerConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load mailer config")
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	var publisher rabbit.Publisher
	var reader *rabbitReader.Reader
	if rabbitCfg.Enabled {
		rmq, err := rabbit.NewRabbit(rabbitCfg.Url, rabbitCfg.Exchange, rabbitCfg.Queue, dto.EventSignedUp, dto.EventUnregistered)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer rmq.Close()
		publisher = rmq

		reader = rabbitReader.NewReader(rmq, mailer.New(mailerCfg, &log), &log)
		reader.Start(workerCtx)
	}

	serviceInstance := service.NewService(repository, &log, publisher)
	app := api.NewRouters(&api.Routers{
		Service:   serviceInstance,
		Log:       &log,
		Mode:      serverCfg.Mode,
		StaticDir: serverCfg.StaticDir,
		Metrics:   metricsCfg.Enabled,
	})

	srv := &http.Server{
		Addr:         ":" + serverCfg.Port,
		Handler:      app,
		ReadTimeout:  serverCfg.ReadTimeout,
		WriteTimeout: serverCfg.WriteTimeout,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info().Msgf("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-signalChan:
		log.Info().Msgf("Received signal %s. Initiating shutdown...", sig)
	case err := <-serverErrChan:
		log.Error().Err(err).Msg("server error")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error shutting down server")
	}

	cancelWorkers()
	if reader != nil {
		reader.Stop()
	}
	log.Info().Msg("Shutdown complete")
}

func seedParticipantGauges(seed []model.Activity) {
	for _, a := range seed {
		metrics.SetParticipants(a.Name, len(a.Participants))
	}
}
