package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/jmylchreest/brandkit/internal/colour"
	"github.com/jmylchreest/brandkit/internal/image"
)

var (
	// Batch command flags
	batchFlags    extractSettings
	batchFormat   formatFlag
	batchWorkers  int
	batchProgress bool
)

// batchResult is one line of JSON batch output.
type batchResult struct {
	File string `json:"file"`
	colour.Response
}

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <directory>",
		Short: "Extract palettes from every image in a directory",
		Long: `Extract palettes from every supported image in a directory.

Images are processed concurrently; results are printed in file name order.
With --format json each image produces one JSON object per line. A failure on
one image is reported without stopping the others.

Examples:
  # Palettes for every image, 8 workers
  brandkit batch --workers 8 ./logos

  # JSON lines, three colours each
  brandkit batch -f json -s 3 ./logos > palettes.jsonl`,
		Args: cobra.ExactArgs(1),
		RunE: runBatch,
	}

	batchFlags.register(cmd)
	batchFormat = formatTable
	cmd.Flags().VarP(&batchFormat, "format", "f", "output format (table, hex, json)")
	cmd.Flags().IntVarP(&batchWorkers, "workers", "w", runtime.NumCPU(), "number of images processed concurrently")
	cmd.Flags().BoolVar(&batchProgress, "progress", true, "show a progress bar when stderr is a terminal")

	return cmd
}

// batchItem is the outcome for one file.
type batchItem struct {
	path    string
	palette *colour.Palette
	err     error
}

func runBatch(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd, cmd.ErrOrStderr()).Named("batch")

	if err := batchFlags.validate(); err != nil {
		return err
	}
	if batchWorkers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", batchWorkers)
	}

	files, err := image.ScanDirectoryForImages(args[0])
	if err != nil {
		return err
	}
	logger.Info("processing images", "count", len(files), "workers", batchWorkers)

	bar := newProgressBar(len(files), batchProgress && !globalQuiet && term.IsTerminal(int(os.Stderr.Fd()))) // #nosec G115 -- file descriptors fit in int
	items := processBatch(cmd, files, batchWorkers, logger, func() { _ = bar.Add(1) })
	_ = bar.Finish()

	failed := 0
	for _, item := range items {
		if item.err != nil {
			failed++
			logger.Error("extraction failed", "path", item.path, "error", item.err)
		}
	}

	if err := writeBatch(cmd.OutOrStdout(), items, string(batchFormat)); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, len(items))
	}
	return nil
}

// processBatch extracts palettes for files with at most workers running at
// once. Results keep the order of files.
func processBatch(cmd *cobra.Command, files []string, workers int, logger hclog.Logger, done func()) []batchItem {
	items := make([]batchItem, len(files))
	loader := image.NewFileLoader()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range files {
		g.Go(func() error {
			defer done()
			items[i] = batchItem{path: path}

			if err := ctx.Err(); err != nil {
				items[i].err = err
				return nil
			}

			fileLogger := logger.With("path", filepath.Base(path))
			start := time.Now()

			img, err := loader.Load(ctx, path)
			if err != nil {
				items[i].err = err
				return nil
			}
			items[i].palette, items[i].err = batchFlags.extract(cmd, img, fileLogger)
			fileLogger.Debug("processed image", "duration", time.Since(start))
			return nil
		})
	}
	_ = g.Wait()

	return items
}

func writeBatch(w io.Writer, items []batchItem, format string) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		for _, item := range items {
			result := batchResult{File: item.path}
			if item.err != nil {
				result.Response = colour.NewErrorResponse(item.err)
			} else {
				result.Response = colour.NewResponse(item.palette)
			}
			if err := enc.Encode(result); err != nil {
				return fmt.Errorf("failed to write result: %w", err)
			}
		}
		return nil
	}

	for i, item := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s\n", item.path)
		if item.err != nil {
			fmt.Fprintf(w, "  error: %v\n", item.err)
			continue
		}
		out, err := formatPalette(item.palette, format, false)
		if err != nil {
			return err
		}
		fmt.Fprint(w, out)
	}
	return nil
}

// newProgressBar returns a progress bar on stderr, or a silent one when
// disabled.
func newProgressBar(total int, enabled bool) *progressbar.ProgressBar {
	if !enabled {
		return progressbar.DefaultSilent(int64(total))
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionSetDescription("extracting"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}
