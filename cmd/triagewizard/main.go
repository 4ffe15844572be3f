package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrsinham/triagewizard/cmd/triagewizard/wizard"
	"github.com/mrsinham/triagewizard/internal/apiclient"
	"github.com/mrsinham/triagewizard/internal/config"
	"github.com/mrsinham/triagewizard/internal/logging"
	"github.com/mrsinham/triagewizard/internal/mockapi"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		fromFile    string
		saveAnswers string
		apiURL      string
		timeout     time.Duration
		logFile     string
	)

	cmd := &cobra.Command{
		Use:           "triagewizard",
		Short:         "Guided hospital consultation intake",
		Long:          "triagewizard walks a patient through a five-step consultation intake and shows the assessment returned by the consultation service.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if cmd.Flags().Changed("api-url") {
				cfg.APIURL = apiURL
			}
			if cmd.Flags().Changed("timeout") {
				cfg.RequestTimeout = timeout
			}
			if cmd.Flags().Changed("log-file") {
				cfg.LogFile = logFile
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runWizard(cmd.Context(), cfg, fromFile, saveAnswers)
		},
	}

	cmd.Flags().StringVar(&fromFile, "from", "", "Prefill the forms from a YAML answers file")
	cmd.Flags().StringVar(&saveAnswers, "save-answers", "", "Write the entered answers to a YAML file on exit")
	cmd.Flags().StringVar(&apiURL, "api-url", "", "Consultation service base URL (overrides TRIAGE_API_URL)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-request timeout, 0 for none (overrides REQUEST_TIMEOUT)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Log file path (overrides LOG_FILE)")

	cmd.AddCommand(mockAPICmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

func runWizard(ctx context.Context, cfg *config.Config, fromFile, saveAnswers string) error {
	logger, f, err := logging.NewFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer f.Close()

	client, err := apiclient.New(cfg.APIURL,
		apiclient.WithTimeout(cfg.RequestTimeout),
		apiclient.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("creating service client: %w", err)
	}

	logger.Info().
		Str("version", version).
		Str("api_url", client.BaseURL()).
		Dur("timeout", cfg.RequestTimeout).
		Msg("starting wizard")

	return wizard.Run(ctx, wizard.Options{
		Service:     client,
		Logger:      logger,
		FromFile:    fromFile,
		SaveAnswers: saveAnswers,
	})
}

func mockAPICmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "mock-api",
		Short: "Serve an in-memory consultation service for local use",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if cmd.Flags().Changed("addr") {
				cfg.MockAPIAddr = addr
			}
			return runMockAPI(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides MOCK_API_ADDR)")

	return cmd
}

func runMockAPI(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.New(os.Stdout, cfg.LogLevel, cfg.IsDev())
	if err != nil {
		return err
	}

	e := mockapi.NewServer(logger).Echo("/api")

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.MockAPIAddr).Msg("starting mock consultation service")
		if err := e.Start(cfg.MockAPIAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("mock api: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down mock consultation service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("mock api shutdown: %w", err)
	}
	logger.Info().Msg("mock consultation service stopped")
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "triagewizard", version)
		},
	}
}
