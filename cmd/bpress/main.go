// Command bpress drives the bpress package's streaming compressor from
// the command line. The core format has no CLI of its own (spec.md
// treats it as an external collaborator); this is a thin cobra-based
// wrapper grounded in the corpus's own dictzip/pbzip2 CLI shape.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/schollz/progressbar/v2"
	"github.com/spf13/cobra"

	"github.com/dsnet/bpress/bpress"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		bufSize int
		mode    string
		output  string
		quiet   bool
	)

	cmd := &cobra.Command{
		Use:   "bpress <input>",
		Short: "Compress a file with the bpress bit-level digest codec",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			out := output
			if out == "" {
				out = input + ".bpress"
			}

			delimMode, err := parseDelimiterMode(mode)
			if err != nil {
				return err
			}

			if quiet {
				logger.SetLevel(log.ErrorLevel)
			}

			logger.Info("scan starting", "input", input, "buffer", bufSize)

			fi, err := os.Stat(input)
			if err != nil {
				return err
			}

			var bar *progressbar.ProgressBar
			if !quiet && fi.Size() > 0 {
				bar = progressbar.New64(fi.Size())
			}

			opts := bpress.Options{
				BufferSize:    bufSize,
				DelimiterMode: delimMode,
				OnProgress: func(done, total int64) {
					if bar != nil {
						bar.Set64(done)
					}
				},
			}

			res, err := bpress.Compress(input, out, opts)
			if err != nil {
				logger.Error("compression failed", "err", err)
				return err
			}
			if bar != nil {
				bar.Finish()
				fmt.Fprintln(os.Stderr)
			}

			logger.Info("delimiter selected", "bit", res.Delimiter)
			logger.Info("wrote output", "path", out, "bytes", res.OutputSize)
			if res.InputSize > 0 {
				ratio := float64(res.OutputSize) / float64(res.InputSize)
				logger.Info("summary", "input", res.InputSize, "output", res.OutputSize, "ratio", fmt.Sprintf("%.3f", ratio))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&bufSize, "buffer", 4096, "read buffer size in bytes")
	cmd.Flags().StringVar(&mode, "delimiter-mode", "low", "delimiter selection mode: low or high")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: <input>.bpress)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress and all log output except errors")

	cmd.AddCommand(newScanCmd())
	return cmd
}

// newScanCmd wraps bpress.Scan, the format's read-only scanning entry
// point, for inspecting what delimiter a file would pick without writing
// any output.
func newScanCmd() *cobra.Command {
	var bufSize int
	cmd := &cobra.Command{
		Use:   "scan <input>",
		Short: "Report scanned bit statistics for a file without compressing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := bpress.Scan(args[0], bufSize)
			if err != nil {
				logger.Error("scan failed", "err", err)
				return err
			}
			fmt.Printf("bit_freqs: {0:%d 1:%d} transitions:%d flip_flops:%d\n",
				data.BitFreqs[0], data.BitFreqs[1], data.Transitions, data.FlipFlops)
			return nil
		},
	}
	cmd.Flags().IntVar(&bufSize, "buffer", 4096, "read buffer size in bytes")
	return cmd
}

func parseDelimiterMode(s string) (bpress.DelimiterMode, error) {
	switch s {
	case "low":
		return bpress.Low, nil
	case "high":
		return bpress.High, nil
	default:
		return 0, fmt.Errorf("bpress: unknown delimiter mode %q (want low or high)", s)
	}
}
