package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	adapthttp "weightduel/internal/adapter/http"
	"weightduel/internal/app"
	"weightduel/internal/logging"
	"weightduel/internal/metrics"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}

			logging.Setup(logging.LoggerSetupParams{
				LogFileName:   cfg.LogsPath,
				LogToStdout:   cfg.LogToStdout,
				LogLevel:      cfg.LogLevel,
				LogFormatJSON: cfg.LogFormatJSON,
			})
			if len(cfg.Passcodes) == 0 {
				log.Warnln("no passcodes configured, nobody can log in")
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			st, err := openStores(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := st.close(); err != nil {
					log.Errorf("close store: %s", err)
				}
			}()

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			m := metrics.NewManager("weightduel", "api", reg)
			clock := clockwork.NewRealClock()
			users := cfg.UserSet()

			srv := adapthttp.New(adapthttp.Options{
				Entries:       app.NewEntryService(st.entries, users, clock, m),
				Stats:         app.NewStatsService(st.entries, users, clock, cfg.Policy()),
				Charts:        app.NewChartsService(st.entries, users, clock),
				Auth:          app.NewAuthService(st.sessions, cfg.Passcodes, clock),
				Metrics:       m,
				Gatherer:      reg,
				WebDir:        cfg.WebDir,
				SecureCookies: cfg.SecureCookies,
			})

			httpServer := &http.Server{
				Addr:              cfg.Addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Infof("listening on %s (store: %s, rate policy: %s)", cfg.Addr, cfg.Store, cfg.Policy())
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
				log.Warnln("signal received, shutting down ...")
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			return httpServer.Shutdown(shutdownCtx)
		},
	}
}
