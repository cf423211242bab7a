// pkg/cli/root.go
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/config"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/logger"
)

// flags that override loaded configuration values
type overrides struct {
	configPath     string
	logLevel       string
	apiBase        string
	listen         string
	previewBackend string
}

func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interruption signals
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		logger.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		logger.Error("Error executing command: %v", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		flags overrides
		cfg   = config.New()
	)

	rootCmd := &cobra.Command{
		Use:           "fake-media-detector",
		Short:         "Check images, video and audio for deepfake manipulation",
		Long:          `A web widget and command line tool that submits media files to a deepfake classification service and reports whether they look authentic or fake.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			*cfg = *loaded
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			logger.SetLevel(cfg.LogLevel)
			return nil
		},
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Path to a configuration file (yaml, json, toml)")
	pf.StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&flags.apiBase, "api-base", config.DefaultAPIBaseURL, "Base URL of the classification service")
	pf.StringVar(&flags.listen, "listen", ":8080", "Address the web widget listens on")
	pf.StringVar(&flags.previewBackend, "preview-backend", config.PreviewMemory, "Where previews are kept (memory, s3)")

	// Add commands
	rootCmd.AddCommand(newServeCommand(cfg))
	rootCmd.AddCommand(newCheckCommand(cfg))

	return rootCmd
}

// apply copies explicitly set flags over cfg and re-validates it
func (o overrides) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if changed("api-base") {
		cfg.APIBaseURL = o.apiBase
	}
	if changed("listen") {
		cfg.Listen = o.listen
	}
	if changed("preview-backend") {
		cfg.Preview.Backend = o.previewBackend
	}
	return cfg.Validate()
}
