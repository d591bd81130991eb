package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/auralynx/auralynx/internal/assemblyai"
	"github.com/auralynx/auralynx/internal/render"
	"github.com/auralynx/auralynx/internal/transcript"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultTimeoutSeconds = 300

type transcribeOptions struct {
	output       string
	timeout      int
	model        string
	pollInterval time.Duration
}

// NewTranscribeCmd builds the auralynx command: upload one audio file,
// wait for its transcript and save the word timings as JSON.
func NewTranscribeCmd() *cobra.Command {
	return newTranscribeCmd(newAppState())
}

func newTranscribeCmd(app *appState) *cobra.Command {
	opts := transcribeOptions{
		timeout:      defaultTimeoutSeconds,
		model:        assemblyai.DefaultModel,
		pollInterval: assemblyai.DefaultPollInterval,
	}

	cmd := &cobra.Command{
		Use:               "auralynx <audio-file>",
		Short:             "Transcribe audio with AssemblyAI and save word-level timestamps",
		Args:              exactArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: app.initLogger,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runTranscribe(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}
	setVersion(cmd)
	cmd.SetFlagErrorFunc(flagUsageError)

	bindLoggingFlags(cmd, app)
	bindProgressFlag(cmd, app)
	bindConfigFlag(cmd, app)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output JSON file (default: <audio>"+artifactSuffix+")")
	cmd.Flags().IntVar(&opts.timeout, "timeout", opts.timeout, "Polling timeout in seconds")
	cmd.Flags().StringVar(&opts.model, "model", opts.model, "Speech model: universal|slam-1")
	cmd.Flags().DurationVar(&opts.pollInterval, "poll-interval", opts.pollInterval, "Wait between status checks")
	return cmd
}

func (a *appState) runTranscribe(ctx context.Context, out io.Writer, audioPath string, opts transcribeOptions) error {
	if opts.pollInterval <= 0 {
		return usageErrorf("--poll-interval must be positive, got %s", opts.pollInterval)
	}

	model, err := assemblyai.ResolveModel(opts.model)
	if err != nil {
		return err
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	client, err := assemblyai.New(assemblyai.Options{
		Config:     cfg,
		HTTPClient: a.httpClient,
		Logger:     a.log(),
		Out:        out,
		Progress:   a.uploadProgress,
		Sleep:      a.pollSleep,
		Now:        a.now,
	})
	if err != nil {
		return err
	}

	uploadURL, err := client.Upload(ctx, audioPath)
	if err != nil {
		return err
	}

	id, err := client.RequestTranscript(ctx, uploadURL, assemblyai.DefaultOptions(model))
	if err != nil {
		return err
	}

	doc, err := client.Poll(ctx, id, time.Duration(opts.timeout)*time.Second, opts.pollInterval)
	if err != nil {
		return err
	}

	words := doc.Words
	if len(words) == 0 {
		if model.Beta {
			fmt.Fprintln(out, "Warning: This model is still in beta stage")
		} else {
			fmt.Fprintln(out, "Warning: No word-level data found in transcript.")
		}
	}
	render.Timings(out, words)

	outputPath := opts.output
	if outputPath == "" {
		outputPath = defaultArtifactPath(audioPath)
	}
	if err := transcript.WriteArtifact(outputPath, transcript.NewArtifact(audioPath, doc)); err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved output to: %s\n", outputPath)
	a.log().Debug("artifact written", zap.String("path", outputPath), zap.String("id", id), zap.Int("words", len(words)))

	render.Preview(out, words, render.PreviewLimit)
	fmt.Fprintln(out, "Success.")
	fmt.Fprintf(out, "using model: %s\n", model.Name)
	return nil
}

func (a *appState) uploadProgress(total int64) (io.Writer, func()) {
	w, stop := startUploadBar(a.progressEnabled(), total)
	return w, stop
}

// pollSleep shows a spinner while waiting between status checks.
func (a *appState) pollSleep(ctx context.Context, d time.Duration) error {
	stop := startSpinner(a.progressEnabled(), "transcribing")
	defer stop()

	sleep := a.sleep
	if sleep == nil {
		sleep = assemblyai.SleepContext
	}
	return sleep(ctx, d)
}
