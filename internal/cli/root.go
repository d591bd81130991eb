package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/auralynx/auralynx/internal/config"
	"github.com/auralynx/auralynx/internal/logging"
	"github.com/auralynx/auralynx/internal/platform"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// defaultEnvFile is read from the working directory when present.
const defaultEnvFile = ".env"

type appState struct {
	verbose    bool
	jsonLogs   bool
	noProgress bool
	configPath string

	logger *zap.Logger
	runID  string

	getenv     func(string) string
	envFiles   []string
	httpClient *http.Client
	sleep      func(ctx context.Context, d time.Duration) error
	now        func() time.Time
}

func newAppState() *appState {
	return &appState{
		getenv:   os.Getenv,
		envFiles: []string{defaultEnvFile},
	}
}

func bindLoggingFlags(cmd *cobra.Command, app *appState) {
	cmd.Flags().BoolVar(&app.verbose, "verbose", app.verbose, "Enable verbose logs")
	cmd.Flags().BoolVar(&app.jsonLogs, "json", app.jsonLogs, "Enable JSON logging")
}

func bindProgressFlag(cmd *cobra.Command, app *appState) {
	cmd.Flags().BoolVar(&app.noProgress, "no-progress", app.noProgress, "Disable progress indicators")
}

func bindConfigFlag(cmd *cobra.Command, app *appState) {
	cmd.Flags().StringVar(&app.configPath, "config", app.configPath, "YAML config file (default: per-user config dir)")
}

func (a *appState) initLogger(_ *cobra.Command, _ []string) error {
	if a.runID == "" {
		a.runID = uuid.NewString()
	}
	logger, err := logging.New(logging.Options{Verbose: a.verbose, JSON: a.jsonLogs, RunID: a.runID})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}

func (a *appState) log() *zap.Logger {
	if a.logger == nil {
		return zap.NewNop()
	}
	return a.logger
}

func (a *appState) progressEnabled() bool {
	if a.noProgress {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// loadConfig reads --config when given. Without it the per-user default file
// is optional, and an unresolvable default location just means no file.
func (a *appState) loadConfig() (config.Config, error) {
	explicit := a.configPath != ""

	path, err := platform.ResolveConfigPath(a.configPath)
	if err != nil {
		a.log().Debug("no default config location", zap.Error(err))
		path = ""
	}
	a.log().Debug("loading config", zap.String("path", path), zap.Bool("explicit", explicit))

	return config.Load(config.LoadOptions{
		Path:     path,
		Explicit: explicit,
		EnvFiles: a.envFiles,
		Getenv:   a.getenv,
	})
}
