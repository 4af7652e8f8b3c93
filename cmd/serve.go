package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MyCarrier-DevOps/legal-tools/internal/domain"
	"github.com/MyCarrier-DevOps/legal-tools/internal/usecases"
)

// shutdownTimeout bounds the graceful shutdown of the JSON API.
const shutdownTimeout = 10 * time.Second

func newServeCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	var addr, repoPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Long: `Serve the normalizer and the translation branch status as a JSON API.

When the language settings come from a file, the file is watched and valid
revisions are applied without a restart, official_git_branch included.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, addr, repoPath, deps, opts)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to HTTP_ADDR)")
	cmd.Flags().StringVar(&repoPath, "repo", "",
		"Path to the data repository (defaults to DATA_REPOSITORY_DIR)")

	return cmd
}

func runServe(cmd *cobra.Command, addr, repoPath string, deps *Dependencies, opts *rootOptions) error {
	s, err := newSession(cmd, deps, opts)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = s.cfg.HTTPAddr
	}

	n, err := s.normalizer()
	if err != nil {
		return err
	}

	branchStore, err := s.openStore()
	if err != nil {
		return err
	}
	defer s.closeQuietly("branch store", branchStore)

	repo, err := s.openRepository(repoPath)
	if err != nil {
		return err
	}
	defer s.closeQuietly("git repository", repo)

	summarizer := deps.SummarizerFactory(repo, s.cfg.Settings.OfficialGitBranch, s.log)
	server := deps.ServerFactory(branchStore, summarizer, n, s.log)

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	if s.cfg.SettingsFile != "" && deps.WatcherFactory != nil {
		watchSettings(ctx, s, server, repo)
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "serving JSON API", map[string]interface{}{"addr": addr})
		errCh <- server.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.log.Error(ctx, "server failed", err, map[string]interface{}{"addr": addr})
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info(s.ctx, "shutting down", nil)
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.log.Error(shutdownCtx, "graceful shutdown failed", err, nil)
		return fmt.Errorf("server error: %w", err)
	}
	<-errCh
	return nil
}

// watchSettings swaps the server's normalizer and summarizer whenever a valid
// revision of the settings file appears. Watch failures are logged; the
// server keeps the settings it started with.
func watchSettings(ctx context.Context, s *session, server Server, repo domain.TranslationRepository) {
	watcher, err := s.deps.WatcherFactory(s.cfg.SettingsFile, s.log)
	if err != nil {
		s.log.Warn(ctx, "settings reload disabled", map[string]interface{}{
			"path":  s.cfg.SettingsFile,
			"error": err.Error(),
		})
		return
	}

	go func() {
		defer s.closeQuietly("settings watcher", watcher)

		err := watcher.Run(ctx, func(settings domain.LanguageSettings) {
			n, err := usecases.NewNormalizer(settings)
			if err != nil {
				s.log.Warn(ctx, "ignoring reloaded settings", map[string]interface{}{
					"error": err.Error(),
				})
				return
			}
			server.SetNormalizer(n)
			server.SetSummarizer(s.deps.SummarizerFactory(repo, settings.OfficialGitBranch, s.log))
		})
		if err != nil {
			s.log.Warn(ctx, "settings watcher stopped", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()
}
