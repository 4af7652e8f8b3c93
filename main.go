// Package main is the entry point for the legal-tools CLI application.
// legal-tools computes canonical document paths and languages for the legal
// tools site and summarizes translation branches of its data repository.
package main

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/MyCarrier-DevOps/goLibMyCarrier/logger"
	"github.com/joho/godotenv"

	"github.com/MyCarrier-DevOps/legal-tools/cmd"
	"github.com/MyCarrier-DevOps/legal-tools/internal/adapters/git"
	"github.com/MyCarrier-DevOps/legal-tools/internal/adapters/httpapi"
	"github.com/MyCarrier-DevOps/legal-tools/internal/adapters/locale"
	logadapter "github.com/MyCarrier-DevOps/legal-tools/internal/adapters/logger"
	"github.com/MyCarrier-DevOps/legal-tools/internal/adapters/output"
	"github.com/MyCarrier-DevOps/legal-tools/internal/adapters/store"
	"github.com/MyCarrier-DevOps/legal-tools/internal/domain"
	"github.com/MyCarrier-DevOps/legal-tools/internal/infrastructure/config"
	"github.com/MyCarrier-DevOps/legal-tools/internal/usecases"
)

func main() {
	// Best-effort: a missing .env file is not an error
	_ = godotenv.Load()

	cmd.SetDefaultDependencies(newDependencies(func() logadapter.Logger {
		return logger.NewZapLoggerFromConfig()
	}))
	cmd.Execute()
}

// newDependencies wires the production dependencies. The logger is built on
// first use so that --verbose can raise LOG_LEVEL before zap reads it.
func newDependencies(newLogger func() logadapter.Logger) *cmd.Dependencies {
	var (
		once    sync.Once
		adapter *logadapter.ZapAdapter
	)
	rootLogger := func() *logadapter.ZapAdapter {
		once.Do(func() {
			adapter = logadapter.NewZapAdapter(newLogger())
		})
		return adapter
	}
	component := func(name string) *logadapter.ZapAdapter {
		return rootLogger().With(map[string]any{"component": name})
	}

	return &cmd.Dependencies{
		LoggerFactory: func() cmd.Logger {
			return rootLogger()
		},

		ConfigLoader: func(ctx context.Context) (*cmd.AppConfig, error) {
			cfg, err := config.LoadWithVaultClient(ctx, nil)
			if err != nil {
				return nil, err
			}
			return newAppConfig(cfg), nil
		},

		GitRepoFactory: func(path string, _ cmd.Logger) (cmd.GitRepository, error) {
			repo, err := git.NewGoGitRepository(path, component("git"))
			if err != nil {
				return nil, err
			}
			return repo, nil
		},

		StoreFactory: func(ctx context.Context, cfg *cmd.AppConfig, _ cmd.Logger) (domain.BranchStore, error) {
			branchStore, err := store.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return nil, err
			}
			return branchStore, nil
		},

		SummarizerFactory: func(
			repo domain.TranslationRepository,
			officialBranch string,
			log cmd.Logger,
		) domain.BranchStatusSummarizer {
			return usecases.NewBranchStatusSummarizer(repo, officialBranch, log)
		},

		StatsReader: locale.ReadStats,

		OutputWriterFactory: func(format output.Format, out io.Writer) cmd.OutputWriter {
			return output.NewWriterWithOutput(out, format)
		},

		ServerFactory: func(
			branchStore domain.BranchStore,
			summarizer domain.BranchStatusSummarizer,
			normalizer *usecases.Normalizer,
			_ cmd.Logger,
		) cmd.Server {
			return httpapi.NewServer(branchStore, summarizer, normalizer, component("http"))
		},

		WatcherFactory: func(path string, _ cmd.Logger) (cmd.SettingsWatcher, error) {
			watcher, err := config.NewSettingsWatcher(path, config.DefaultReloadDebounce, component("settings"))
			if err != nil {
				return nil, err
			}
			return watcher, nil
		},

		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// newAppConfig maps the loaded configuration onto the command configuration.
// Only file-backed settings are watched for changes.
func newAppConfig(cfg *config.Config) *cmd.AppConfig {
	appCfg := &cmd.AppConfig{
		Settings:          cfg.Settings,
		DatabaseURL:       cfg.DatabaseURL,
		DataRepositoryDir: cfg.DataRepositoryDir,
		HTTPAddr:          cfg.HTTPAddr,
		LogLevel:          cfg.LogLevel,
		LogAppName:        cfg.LogAppName,
	}
	if cfg.SettingsSource == config.SourceFile {
		appCfg.SettingsFile = cfg.SettingsFile
	}
	return appCfg
}
