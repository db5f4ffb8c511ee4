package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-bridge/infrastructure/integrator/upstream"
	"github.com/vfg2006/ads-bridge/internal/api"
	"github.com/vfg2006/ads-bridge/internal/config"
	"github.com/vfg2006/ads-bridge/internal/domain"
	"github.com/vfg2006/ads-bridge/internal/usecases/reporting"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metaManager := upstream.NewManager(
		domain.PlatformMeta,
		upstream.NewMCPConnector(cfg.Meta.URL),
		cfg.Bridge.MaxRetries,
		cfg.Bridge.RetryBaseDelay,
	)
	googleManager := upstream.NewManager(
		domain.PlatformGoogle,
		upstream.NewMCPConnector(cfg.Google.URL),
		cfg.Bridge.MaxRetries,
		cfg.Bridge.RetryBaseDelay,
	)

	reportingService := reporting.NewService(metaManager, googleManager)

	server, err := api.New(cfg, reportingService, metaManager, googleManager)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}
