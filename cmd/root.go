// Package cmd provides the CLI commands for legal-tools.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/MyCarrier-DevOps/legal-tools/internal/adapters/output"
	"github.com/MyCarrier-DevOps/legal-tools/internal/domain"
	"github.com/MyCarrier-DevOps/legal-tools/internal/usecases"
)

// Logger defines the logging interface used by the commands.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, err error, fields map[string]interface{})
}

// GitRepository is the data repository as used by the commands.
// Its owner/repo name appears in branch status output.
type GitRepository interface {
	domain.TranslationRepository
	domain.RepositoryNamer
}

// OutputWriter renders command results.
type OutputWriter interface {
	WriteBranchStatus(status *domain.BranchStatus) error
	WriteBranches(branches []domain.TranslationBranch) error
	WriteLanguages(languages []domain.LanguageInfo) error
	WriteTranslationStats(stats []domain.TranslationStats) error
	WriteValues(pairs ...output.Pair) error
	WriteValue(key, value string) error
}

// Server is the JSON API started by the serve command.
type Server interface {
	Listen(addr string) error
	Shutdown(ctx context.Context) error
	SetNormalizer(n *usecases.Normalizer)
	SetSummarizer(summarizer domain.BranchStatusSummarizer)
}

// SettingsWatcher delivers new revisions of the settings file.
type SettingsWatcher interface {
	Run(ctx context.Context, onChange func(domain.LanguageSettings)) error
	Close() error
}

// Dependencies holds all injectable dependencies for the commands.
// This enables testing by allowing mock implementations to be injected.
type Dependencies struct {
	// LoggerFactory creates a logger instance.
	LoggerFactory func() Logger

	// ConfigLoader loads application configuration.
	ConfigLoader func(ctx context.Context) (*AppConfig, error)

	// GitRepoFactory opens the data repository at path.
	GitRepoFactory func(path string, log Logger) (GitRepository, error)

	// StoreFactory opens the translation branch store.
	StoreFactory func(ctx context.Context, cfg *AppConfig, log Logger) (domain.BranchStore, error)

	// SummarizerFactory creates a BranchStatusSummarizer over repo.
	SummarizerFactory func(repo domain.TranslationRepository, officialBranch string, log Logger) domain.BranchStatusSummarizer

	// StatsReader counts the messages of the catalogs under a locale directory.
	StatsReader func(dir string) ([]domain.TranslationStats, error)

	// OutputWriterFactory creates an OutputWriter for the given format.
	OutputWriterFactory func(format output.Format, out io.Writer) OutputWriter

	// ServerFactory creates the JSON API server.
	ServerFactory func(
		store domain.BranchStore,
		summarizer domain.BranchStatusSummarizer,
		normalizer *usecases.Normalizer,
		log Logger,
	) Server

	// WatcherFactory watches the settings file at path. Optional.
	WatcherFactory func(path string, log Logger) (SettingsWatcher, error)

	// Stdout is the writer for command results.
	Stdout io.Writer

	// Stderr is the writer for standard error (for warnings/errors).
	Stderr io.Writer
}

// AppConfig holds application configuration loaded by ConfigLoader.
type AppConfig struct {
	// Settings holds the language fallback settings.
	Settings domain.LanguageSettings

	// SettingsFile is the settings file to watch; empty when settings did
	// not come from a file.
	SettingsFile string

	// DatabaseURL locates the translation branch store.
	DatabaseURL string

	// DataRepositoryDir is the default data repository checkout.
	DataRepositoryDir string

	// HTTPAddr is the default listen address of the serve command.
	HTTPAddr string

	// LogLevel is the log level setting.
	LogLevel string

	// LogAppName is the application name for logging.
	LogAppName string
}

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	verbose bool
	format  string
}

// defaultDeps holds the production dependencies.
// This is set by the production wiring in main or via SetDefaultDependencies.
var defaultDeps *Dependencies

// SetDefaultDependencies sets the default dependencies for production use.
// This should be called from main() before Execute().
func SetDefaultDependencies(deps *Dependencies) {
	defaultDeps = deps
}

// NewRootCmd creates the root command for legal-tools.
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithDeps(defaultDeps)
}

// NewRootCmdWithDeps creates the root command with explicit dependencies.
// This is the primary constructor that enables testing via dependency injection.
func NewRootCmdWithDeps(deps *Dependencies) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "legal-tools",
		Short: "Language fallback and translation branch tooling for the legal tools site",
		Long: `legal-tools computes canonical deed and legal code paths for the legal
tools site and reports on translation branches of the data repository.

Language settings come from Vault (VAULT_SETTINGS_PATH), a YAML or JSON file
(LEGAL_TOOLS_SETTINGS) or the built-in defaults.

Examples:
  # Normalize a request path for a jurisdiction
  legal-tools normalize /licenses/by/3.0/de/legalcode --jurisdiction de

  # Show the latest commits of a translation branch
  legal-tools status nl_21_11_11 --repo ../cc-legal-tools-data

  # Export deeds and UX translation statistics as CSV
  legal-tools transstats --output-file transstats.csv

  # Serve the JSON API
  legal-tools serve --addr :8080`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if _, err := output.ParseFormat(opts.format); err != nil {
				return err
			}
			// Set log level based on verbose flag (best-effort)
			if opts.verbose {
				if err := os.Setenv("LOG_LEVEL", "debug"); err != nil {
					writeWarningf(stderrOf(deps), "warning: could not set log level: %v\n", err)
				}
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"Enable verbose/debug logging")
	rootCmd.PersistentFlags().StringVarP(&opts.format, "format", "o", string(output.FormatText),
		"Output format: text, json or yaml")

	rootCmd.AddCommand(
		newStatusCmd(deps, opts),
		newBranchesCmd(deps, opts),
		newNormalizeCmd(deps, opts),
		newDeedPathCmd(deps, opts),
		newLegalCodePathCmd(deps, opts),
		newCategoryCmd(deps, opts),
		newJurisdictionCmd(deps, opts),
		newLanguagesCmd(deps, opts),
		newLanguageCodesCmd(deps, opts),
		newTransStatsCmd(deps, opts),
		newServeCmd(deps, opts),
	)

	return rootCmd
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := fang.Execute(ctx, NewRootCmd())
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// session is the per-invocation state shared by the command implementations.
type session struct {
	ctx    context.Context
	deps   *Dependencies
	log    Logger
	cfg    *AppConfig
	format output.Format
	writer OutputWriter
}

// newSession validates deps, builds the logger, loads the configuration and
// prepares the output writer.
func newSession(cmd *cobra.Command, deps *Dependencies, opts *rootOptions) (*session, error) {
	if deps == nil {
		return nil, errors.New("dependencies not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return nil, err
	}

	// Initialize logger
	log := deps.LoggerFactory()

	log.Debug(ctx, "starting legal-tools", map[string]interface{}{
		"command": cmd.Name(),
		"format":  string(format),
		"verbose": opts.verbose,
	})

	// Load configuration
	cfg, err := deps.ConfigLoader(ctx)
	if err != nil {
		log.Error(ctx, "failed to load configuration", err, nil)
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	stdout := deps.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	return &session{
		ctx:    ctx,
		deps:   deps,
		log:    log,
		cfg:    cfg,
		format: format,
		writer: deps.OutputWriterFactory(format, stdout),
	}, nil
}

// normalizer builds a Normalizer from the loaded settings.
func (s *session) normalizer() (*usecases.Normalizer, error) {
	n, err := usecases.NewNormalizer(s.cfg.Settings)
	if err != nil {
		s.log.Error(s.ctx, "invalid language settings", err, nil)
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return n, nil
}

// openStore opens the branch store. The caller must close it.
func (s *session) openStore() (domain.BranchStore, error) {
	branchStore, err := s.deps.StoreFactory(s.ctx, s.cfg, s.log)
	if err != nil {
		s.log.Error(s.ctx, "failed to open branch store", err, nil)
		return nil, fmt.Errorf("database error: %w", err)
	}
	return branchStore, nil
}

// openRepository opens the data repository at path, or at the configured
// checkout when path is empty. The caller must close it.
func (s *session) openRepository(path string) (GitRepository, error) {
	if path == "" {
		path = s.cfg.DataRepositoryDir
	}

	repo, err := s.deps.GitRepoFactory(path, s.log)
	if err != nil {
		s.log.Error(s.ctx, "failed to open git repository", err, map[string]interface{}{
			"path": path,
		})
		if errors.Is(err, domain.ErrRepositoryNotFound) {
			return nil, fmt.Errorf("not a git repository: %s", path)
		}
		return nil, err
	}
	return repo, nil
}

// closeQuietly closes c and logs a warning on failure.
func (s *session) closeQuietly(what string, c io.Closer) {
	if err := c.Close(); err != nil {
		s.log.Warn(s.ctx, "failed to close "+what, map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// writeResult reports output failures the same way for every command.
func (s *session) writeResult(err error) error {
	if err != nil {
		s.log.Error(s.ctx, "failed to write output", err, nil)
		return fmt.Errorf("output error: %w", err)
	}
	return nil
}

func stderrOf(deps *Dependencies) io.Writer {
	if deps == nil || deps.Stderr == nil {
		return os.Stderr
	}
	return deps.Stderr
}

// writeWarningf writes a warning message to the given writer.
// This is a best-effort operation; errors are intentionally ignored
// because there is no recovery action if stderr writes fail.
func writeWarningf(w io.Writer, format string, args ...any) {
	_, err := fmt.Fprintf(w, format, args...)
	if err != nil {
		// Intentionally ignored: no recovery action for failed stderr writes
		return
	}
}
