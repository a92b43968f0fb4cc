package buildCFG

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"activitySignup/internal/mailer"
)

// Source is the subset of *config.Config the builders read from.
type Source interface {
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetDuration(key string) time.Duration
}

type ServerConfig struct {
	Port            string
	Mode            string
	StaticDir       string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type ActivitiesConfig struct {
	SeedFile string
}

type RabbitConfig struct {
	Enabled  bool
	Url      string
	Exchange string
	Queue    string
}

type MetricsConfig struct {
	Enabled bool
}

func BuildServerConfig(cfg Source, log *zerolog.Logger) ServerConfig {
	sc := ServerConfig{
		Port:            cfg.GetString("server.port"),
		Mode:            cfg.GetString("server.mode"),
		StaticDir:       cfg.GetString("server.static_dir"),
		ReadTimeout:     cfg.GetDuration("server.read_timeout"),
		WriteTimeout:    cfg.GetDuration("server.write_timeout"),
		ShutdownTimeout: cfg.GetDuration("server.shutdown_timeout"),
	}
	if sc.Port == "" {
		sc.Port = "8000"
		log.Warn().Msg("server.port not set, using default 8000")
	}
	if sc.Mode == "" {
		sc.Mode = "release"
	}
	if sc.ReadTimeout <= 0 {
		sc.ReadTimeout = 10 * time.Second
	}
	if sc.WriteTimeout <= 0 {
		sc.WriteTimeout = 10 * time.Second
	}
	if sc.ShutdownTimeout <= 0 {
		sc.ShutdownTimeout = 10 * time.Second
	}
	return sc
}

func BuildActivitiesConfig(cfg Source) ActivitiesConfig {
	return ActivitiesConfig{SeedFile: strings.TrimSpace(cfg.GetString("activities.seed_file"))}
}

func BuildRabbitConfig(cfg Source, log *zerolog.Logger) (RabbitConfig, error) {
	rc := RabbitConfig{
		Enabled:  cfg.GetBool("rabbitmq.enabled"),
		Url:      cfg.GetString("rabbitmq.url"),
		Exchange: cfg.GetString("rabbitmq.exchange"),
		Queue:    cfg.GetString("rabbitmq.queue"),
	}
	if !rc.Enabled {
		log.Info().Msg("RabbitMQ disabled, participant events will not be published")
		return rc, nil
	}
	if rc.Url == "" {
		return rc, fmt.Errorf("rabbitmq.url is required when rabbitmq.enabled is true")
	}
	if rc.Exchange == "" {
		rc.Exchange = "activity.participants"
	}
	if rc.Queue == "" {
		rc.Queue = "activity.participants.notifications"
	}
	return rc, nil
}

func BuildMailerConfig(cfg Source) (mailer.Config, error) {
	mc := mailer.Config{
		Enabled:  cfg.GetBool("mailer.enabled"),
		Host:     cfg.GetString("mailer.host"),
		Port:     cfg.GetInt("mailer.port"),
		Username: cfg.GetString("mailer.username"),
		Password: cfg.GetString("mailer.password"),
		From:     cfg.GetString("mailer.from"),
	}
	if !mc.Enabled {
		return mc, nil
	}
	if mc.Host == "" || mc.From == "" {
		return mc, fmt.Errorf("mailer.host and mailer.from are required when mailer.enabled is true")
	}
	if mc.Port == 0 {
		mc.Port = 587
	}
	return mc, nil
}

func BuildMetricsConfig(cfg Source) MetricsConfig {
	return MetricsConfig{Enabled: cfg.GetBool("metrics.enabled")}
}
