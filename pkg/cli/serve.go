package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/config"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/logger"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/media"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/metrics"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/notify"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/preview"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/web"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/widget"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/pkg/classifier"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload widget over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	store, memory, err := newPreviewStore(ctx, cfg)
	if err != nil {
		return err
	}

	kind, err := media.ParseKind(cfg.DefaultKind)
	if err != nil {
		return err
	}

	client := classifier.New(cfg.APIBaseURL)
	recorder := metrics.NewRecorder()

	sessions := web.NewRegistry(func() (*widget.Widget, error) {
		return widget.New(widget.Options{
			Kind:       kind,
			Classifier: client,
			Previews:   store,
			Notices:    notify.NewCenter(cfg.NoticeTTL),
			Observer:   recorder,
		})
	}, cfg.SessionIdleTimeout, recorder)

	spool, err := web.NewSpool(cfg.SpoolDir)
	if err != nil {
		return err
	}
	if n, err := spool.Cleanup(cfg.SessionIdleTimeout); err != nil {
		logger.Warn("Could not clean spool directory: %v", err)
	} else if n > 0 {
		logger.Info("Removed %d stale spool files", n)
	}

	srv, err := web.NewServer(web.Options{
		Listen:    cfg.Listen,
		Sessions:  sessions,
		Spool:     spool,
		Previews:  memory,
		Metrics:   recorder.Handler(),
		NoticeTTL: cfg.NoticeTTL,
	})
	if err != nil {
		return err
	}

	logger.Info("Using classification service at %s", cfg.APIBaseURL)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		return sessions.Run(gctx, sweepInterval(cfg.SessionIdleTimeout))
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newPreviewStore returns the configured store, and the memory store
// when previews are served by this process
func newPreviewStore(ctx context.Context, cfg *config.Config) (preview.Store, *preview.MemoryStore, error) {
	switch cfg.Preview.Backend {
	case config.PreviewS3:
		s3 := cfg.Preview.S3
		store, err := preview.NewS3(ctx, preview.S3Config{
			Endpoint:  s3.Endpoint,
			Region:    s3.Region,
			Bucket:    s3.Bucket,
			AccessKey: s3.AccessKey,
			SecretKey: s3.SecretKey,
			UseSSL:    s3.UseSSL,
			Prefix:    s3.Prefix,
			URLExpiry: cfg.Preview.URLExpiry,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize S3 previews: %w", err)
		}
		logger.Info("Previews stored in bucket %s", s3.Bucket)
		return store, nil, nil
	default:
		memory := preview.NewMemoryStore(preview.DefaultURLPrefix)
		return memory, memory, nil
	}
}

func sweepInterval(idle time.Duration) time.Duration {
	interval := idle / 4
	if interval < time.Second {
		interval = time.Second
	}
	if interval > time.Minute {
		interval = time.Minute
	}
	return interval
}
