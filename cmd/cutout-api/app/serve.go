// Package app wires the cutout-api serve command.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/slipway-dev/slipway/pkg/api"
)

const gracefulShutdownTimeout = 30 * time.Second

// NewServeCmd creates the serve command. Flags bind to CUTOUT_* environment
// variables so the container image can be configured without arguments.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the cutout background-removal API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}

	cmd.Flags().String("address", ":8080", "address to listen on")
	cmd.Flags().Duration(
		"predict-delay",
		0,
		"artificial delay added to each predict request",
	)
	cmd.Flags().Int64(
		"max-image-bytes",
		api.DefaultMaxImageBytes,
		"maximum decoded image payload size in bytes",
	)
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	bindFlags(cmd)

	return cmd
}

func bindFlags(cmd *cobra.Command) {
	viper.SetEnvPrefix("CUTOUT")
	viper.AutomaticEnv()

	for _, name := range []string{"address", "predict-delay", "max-image-bytes", "log-level"} {
		err := viper.BindPFlag(name, cmd.Flags().Lookup(name))
		if err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
}

func runServe(ctx context.Context) error {
	logger := logrus.New()

	level, err := logrus.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}

	logger.SetLevel(level)

	address := viper.GetString("address")

	server := api.NewHTTPServer(
		api.WithAddress(address),
		api.WithLogger(logger),
		api.WithPredictDelay(viper.GetDuration("predict-delay")),
		api.WithMaxImageBytes(viper.GetInt64("max-image-bytes")),
	)

	errCh := make(chan error, 1)

	go func() {
		logger.WithField("address", address).Info("cutout-api listening")

		serveErr := server.ListenAndServe()
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	case sig := <-quit:
		logger.WithField("signal", sig.String()).Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
