package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/VictoriaMetrics/metrics"

	"github.com/oaiiae/contacts-api/handlers"
	"github.com/oaiiae/contacts-api/router"
)

type ServerOptions struct {
	Host              string        `short:"H" doc:"host to listen on"                    default:""`
	Port              string        `short:"p" doc:"port to listen on"                    default:"8888"`
	ReadHeaderTimeout time.Duration `          doc:"time allowed to read request headers" default:"15s"`
}

func NewServer(options *ServerOptions, handler http.Handler, logger *slog.Logger) *http.Server {
	return &http.Server{
		Addr:              options.Host + ":" + options.Port,
		ReadHeaderTimeout: options.ReadHeaderTimeout,
		Handler:           handler,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

type RouterOptions struct {
	EndpointsPrefix string `doc:"mount endpoints at a prefix" default:"/api"`
}

// NewRouter mounts the contacts and addresses endpoints at the configured
// prefix. Request and pool metrics are written to metriks.
func NewRouter(
	options *RouterOptions,
	title string,
	version string,
	revision string,
	created string,
	logger *slog.Logger,
	stores *Stores,
	metriks *metrics.Set,
) http.Handler {
	buildinfoMetric := fmt.Sprintf("build_info{goversion=%q,title=%q,version=%q,revision=%q,created=%q} 1\n",
		runtime.Version(), title, version, revision, created)
	handlers.Install()
	errorHandler := logErrors(logger)
	return router.New(title, version,
		readiness(stores, logger),
		func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, buildinfoMetric)
			metriks.WritePrometheus(w)
			metrics.WriteProcessMetrics(w)
		},
		router.OptUseMiddleware(
			traceRequests(logger),
			newRequestMeter(metriks).middleware,
			recoverPanics(logger),
		),
		router.OptGroup(options.EndpointsPrefix,
			router.OptGroup("/contacts", router.OptAutoRegister(&handlers.Contacts{
				Store:        stores.Contacts,
				ErrorHandler: errorHandler,
			})),
			router.OptGroup("/addresses", router.OptAutoRegister(&handlers.Addresses{
				Contacts:     stores.Contacts,
				Store:        stores.Addresses,
				ErrorHandler: errorHandler,
			})),
		),
	)
}

// readiness answers 503 while the stores cannot be pinged.
func readiness(stores *Stores, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second) //nolint: mnd // arbitrary
		defer cancel()
		if err := stores.Ping(ctx); err != nil {
			logger.LogAttrs(ctx, slog.LevelWarn, "not ready", slog.Any("err", err))
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		}
	}
}
