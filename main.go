package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/oaiiae/contacts-api/cli/api"
	"github.com/oaiiae/contacts-api/cli/logger"
)

// Set with -ldflags "-X main.version=... -X main.revision=... -X main.created=...".
var (
	version  = "dev" //nolint: gochecknoglobals // ldflags
	revision = ""    //nolint: gochecknoglobals // ldflags
	created  = ""    //nolint: gochecknoglobals // ldflags
)

// Options for the CLI. Pass `--port` or set the `SERVICE_PORT` env var.
type Options struct {
	logger.Options
	api.ServerOptions
	api.RouterOptions
	api.DatabaseOptions
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		logger := logger.New(&options.Options)

		metriks := metrics.NewSet()
		stores, err := api.OpenStores(context.Background(), &options.DatabaseOptions, logger, metriks)
		if err != nil {
			logger.Error("could not open the database", "err", err)
			os.Exit(1)
		}

		srv := api.NewServer(&options.ServerOptions,
			api.NewRouter(&options.RouterOptions, "Contacts API", version, revision, created, logger, stores, metriks),
			logger,
		)

		hooks.OnStart(func() {
			logger.Info("listening", "addr", srv.Addr, "version", version)
			err := srv.ListenAndServe()
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error("failed to listen and serve", "err", err)
			} else {
				logger.Info("server closed")
			}
		})
		hooks.OnStop(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			err := srv.Shutdown(ctx)
			if err != nil {
				logger.Warn("could not shutdown the server", "err", err)
			}
			if err = stores.Close(); err != nil {
				logger.Warn("could not close the database", "err", err)
			}
		})
	})
	cli.Root().Version = version
	cli.Run()
}
