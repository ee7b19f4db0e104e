package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/cli"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/config"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/db"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/identity"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/logging"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/notify"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/repository"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/service"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(configPath(args), nil)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := logging.New(cfg.Log, os.Stderr)
	slog.SetDefault(logger)

	database, err := db.OpenDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	uow := db.NewSQLiteUnitOfWork(database)

	// Issue order and notifications go to NATS when a broker is configured,
	// otherwise they stay in process.
	var (
		bucket   repository.KVBucket
		notifier notify.Notifier
	)
	if cfg.NATS.URL != "" {
		nc, err := nats.Connect(cfg.NATS.URL, nats.Name("momentum"), nats.Timeout(cfg.NATS.Timeout))
		if err != nil {
			return fmt.Errorf("connecting to nats: %w", err)
		}
		defer nc.Drain()

		ctx, cancel := context.WithTimeout(context.Background(), cfg.NATS.Timeout)
		defer cancel()
		js, err := repository.OpenJetStreamKVBucket(ctx, nc, cfg.NATS.OrderBucket)
		if err != nil {
			return fmt.Errorf("opening order bucket: %w", err)
		}
		bucket = js
		notifier = notify.NewNATSNotifier(nc, cfg.NATS.NotifySubject)
		logger.Debug("Using NATS", slog.String("url", cfg.NATS.URL), slog.String("bucket", cfg.NATS.OrderBucket))
	} else {
		bucket = repository.NewSQLiteKVBucket(database, cfg.NATS.OrderBucket)
		notifier = notify.NewLogNotifier(logger)
	}
	dispatcher := notify.NewDispatcher(notifier, logger)
	orders := repository.NewKVOrderStore(bucket)

	reg := prometheus.NewRegistry()
	metrics, err := service.NewPrometheusUseCaseObserver(reg)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}
	if cfg.Metrics.Textfile != "" {
		defer func() {
			if werr := prometheus.WriteToTextfile(cfg.Metrics.Textfile, reg); werr != nil {
				logger.Warn("Metrics not written", slog.String("path", cfg.Metrics.Textfile), slog.Any("error", werr))
			}
		}()
	}
	observers := []service.UseCaseObserver{metrics, service.NewLogUseCaseObserver(logger)}

	app := &cli.App{
		Projects:  service.NewProjectService(uow, identity.SQLiteFactory, observers...),
		Releases:  service.NewReleaseService(uow, identity.SQLiteFactory, dispatcher, observers...),
		Approvals: service.NewApprovalService(uow, identity.SQLiteFactory, dispatcher, observers...),
		Issues:    service.NewIssueService(uow, identity.SQLiteFactory, orders, logger, observers...),
	}

	rootCmd := cli.NewRootCmd(app)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// configPath picks --config out of args before the command tree exists.
// Everything else is left for cobra.
func configPath(args []string) string {
	fs := pflag.NewFlagSet("momentum", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	path := fs.String("config", "", "")
	_ = fs.Parse(args)
	return *path
}

