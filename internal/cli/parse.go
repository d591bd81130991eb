package cli

import (
	"fmt"
	"io"

	"github.com/auralynx/auralynx/internal/render"
	"github.com/auralynx/auralynx/internal/transcript"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type parseOptions struct {
	lrc    bool
	lrcOut string
}

// NewParseCmd builds the auralynx-parse command, which prints or exports the
// word timings of a saved transcript.
func NewParseCmd() *cobra.Command {
	return newParseCmd(newAppState())
}

func newParseCmd(app *appState) *cobra.Command {
	var opts parseOptions

	cmd := &cobra.Command{
		Use:               "auralynx-parse <json-file>",
		Short:             "Print word-level timestamps from an auralynx JSON file or export them as LRC",
		Args:              exactArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: app.initLogger,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runParse(cmd.OutOrStdout(), args[0], opts)
		},
	}
	setVersion(cmd)
	cmd.SetFlagErrorFunc(flagUsageError)

	bindLoggingFlags(cmd, app)
	cmd.Flags().BoolVar(&opts.lrc, "lrc", false, "Export an LRC file instead of printing the timings")
	cmd.Flags().StringVar(&opts.lrcOut, "lrc-out", "", "LRC output path (default: <json>.lrc)")
	return cmd
}

func (a *appState) runParse(out io.Writer, jsonPath string, opts parseOptions) error {
	words, err := transcript.LoadWords(jsonPath)
	if err != nil {
		return err
	}
	a.log().Debug("transcript loaded", zap.String("path", jsonPath), zap.Int("words", len(words)))

	render.Timings(out, words)
	if !opts.lrc {
		render.WordData(out, words)
		fmt.Fprintln(out, "\n[SUCCESS] Parse complete.")
		return nil
	}

	lrcPath := opts.lrcOut
	if lrcPath == "" {
		lrcPath = defaultLRCPath(jsonPath)
	}

	lrc := render.BuildLRC(words)
	if err := render.WriteLRC(lrcPath, lrc); err != nil {
		return err
	}
	a.log().Debug("lrc written", zap.String("path", lrcPath), zap.Int("lines", len(lrc.Lines)), zap.Int("untimed", len(lrc.Untimed)))

	fmt.Fprintf(out, "LRC exported to: %s\n", lrcPath)
	fmt.Fprintln(out, "\n[SUCCESS] LRC export complete.")
	return nil
}
