package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/config"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/media"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/notify"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/preview"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/render"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/widget"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/pkg/classifier"
)

func newCheckCommand(cfg *config.Config) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "check [flags] <file>",
		Short: "Analyze a single local file and print the verdict",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("kind") {
				kind = cfg.DefaultKind
			}
			return runCheck(cmd.Context(), cfg, kind, args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(media.KindImage), "Media kind (image, video, audio)")

	return cmd
}

func runCheck(ctx context.Context, cfg *config.Config, kindName, path string, out io.Writer) error {
	kind, err := media.ParseKind(kindName)
	if err != nil {
		return err
	}

	f, err := media.FromPath(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	w, err := widget.New(widget.Options{
		Classifier: classifier.New(cfg.APIBaseURL),
		Previews:   preview.NewMemoryStore(preview.DefaultURLPrefix),
		Notices:    notify.NewCenter(cfg.NoticeTTL),
	})
	if err != nil {
		return err
	}
	defer w.Close(ctx)

	if err := w.SelectKind(ctx, kind); err != nil {
		return err
	}
	if err := w.SelectFile(ctx, f); err != nil {
		return err
	}

	printDetails(out, w.View())

	res, err := w.Submit(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nVerdict: %s\n\n%s\n", res.Verdict, res.Text)
	if !res.Authoritative {
		return fmt.Errorf("analysis of %s did not complete", f.Name)
	}
	return nil
}

func printDetails(out io.Writer, v widget.View) {
	fv := v.File
	fileType := fv.ContentType
	if fileType == "" {
		fileType = "Unknown"
	}

	fmt.Fprintf(out, "File Name:     %s\n", fv.Name)
	fmt.Fprintf(out, "File Size:     %s MB\n", render.FormatMB(fv.Size))
	fmt.Fprintf(out, "File Type:     %s\n", fileType)
	fmt.Fprintf(out, "Last Modified: %s\n", fv.ModTime.Format("1/2/2006"))
	if d := fv.Details; !d.Empty() {
		if d.Taken != nil {
			fmt.Fprintf(out, "Captured:      %s\n", d.Taken.Format("1/2/2006 15:04"))
		}
		if d.Camera != "" {
			fmt.Fprintf(out, "Camera:        %s\n", d.Camera)
		}
	}
}
