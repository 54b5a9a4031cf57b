package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"devsecrets/internal/app"
	"devsecrets/internal/logging"
	"devsecrets/internal/relay"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		listen     string
		logLevel   string
		visibility time.Duration
	)
	cmd := &cobra.Command{
		Use:          "relay",
		Short:        "Run the HTTP relay queue",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				cfg.Relay.Listen = listen
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("visibility-timeout") {
				cfg.VisibilityTimeout = visibility
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			log, err := logging.New(cfg.LogLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			gin.SetMode(gin.ReleaseMode)
			rs := relay.NewServer(log, cfg.VisibilityTimeout)
			defer rs.Close()
			srv := &http.Server{
				Addr:              cfg.Relay.Listen,
				Handler:           rs.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe() }()
			log.WithField("addr", cfg.Relay.Listen).Info("relay listening")

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			log.Info("relay shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file")
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default 127.0.0.1:8080)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "debug | info | warn | error")
	cmd.Flags().DurationVar(&visibility, "visibility-timeout", 0, "how long a delivery stays leased (default 30s)")
	return cmd
}
