package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/MyCarrier-DevOps/legal-tools/internal/domain"
)

func newStatusCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	var repoPath string

	cmd := &cobra.Command{
		Use:   "status <branch-id|branch-name>",
		Short: "Show the latest commits of a translation branch",
		Long: `Show the latest commits of a translation branch, newest first.

The branch is looked up in the branch store by numeric ID or by name; a
numeric argument that matches no ID is tried as a name. The remote ref origin/<name> is preferred over the local branch; a branch that
exists in neither place has no commits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, args[0], repoPath, deps, opts)
		},
	}

	cmd.Flags().StringVar(&repoPath, "repo", "",
		"Path to the data repository (defaults to DATA_REPOSITORY_DIR)")

	return cmd
}

func runStatus(cmd *cobra.Command, ident, repoPath string, deps *Dependencies, opts *rootOptions) error {
	s, err := newSession(cmd, deps, opts)
	if err != nil {
		return err
	}

	branchStore, err := s.openStore()
	if err != nil {
		return err
	}
	defer s.closeQuietly("branch store", branchStore)

	branch, err := lookupBranch(s, branchStore, ident)
	if err != nil {
		return err
	}

	repo, err := s.openRepository(repoPath)
	if err != nil {
		return err
	}
	defer s.closeQuietly("git repository", repo)

	summarizer := deps.SummarizerFactory(repo, s.cfg.Settings.OfficialGitBranch, s.log)
	status, err := summarizer.Summarize(s.ctx, *branch)
	if err != nil {
		s.log.Error(s.ctx, "failed to summarize branch", err, map[string]interface{}{
			"branch": branch.BranchName,
		})
		return fmt.Errorf("repository error: %w", err)
	}

	s.log.Info(s.ctx, "branch status complete", map[string]interface{}{
		"branch":  branch.BranchName,
		"commits": len(status.Commits),
	})

	return s.writeResult(s.writer.WriteBranchStatus(status))
}

// lookupBranch resolves ident as a branch ID when it is numeric, else as a
// name. Numeric branch names are found when no branch has that ID.
func lookupBranch(s *session, branchStore domain.BranchStore, ident string) (*domain.TranslationBranch, error) {
	branch, err := findBranch(s, branchStore, ident)

	if err != nil {
		if errors.Is(err, domain.ErrBranchNotFound) {
			return nil, fmt.Errorf("no translation branch %q", ident)
		}
		s.log.Error(s.ctx, "failed to look up branch", err, map[string]interface{}{
			"branch": ident,
		})
		return nil, fmt.Errorf("database error: %w", err)
	}
	return branch, nil
}

func findBranch(s *session, branchStore domain.BranchStore, ident string) (*domain.TranslationBranch, error) {
	id, err := strconv.ParseInt(ident, 10, 64)
	if err != nil {
		return branchStore.GetByName(s.ctx, ident)
	}

	branch, err := branchStore.Get(s.ctx, id)
	if errors.Is(err, domain.ErrBranchNotFound) {
		return branchStore.GetByName(s.ctx, ident)
	}
	return branch, err
}
