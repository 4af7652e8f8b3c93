// Package usecases contains the application business logic.
// This package orchestrates domain entities and interfaces to fulfill use cases.
package usecases

import (
	"context"
	"fmt"

	"github.com/MyCarrier-DevOps/legal-tools/internal/domain"
)

// Logger defines the logging interface required by the use cases.
// This abstracts the logger dependency to avoid coupling to a specific implementation.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, err error, fields map[string]interface{})
}

// RemoteName is the remote whose refs are preferred when summarizing a branch.
const RemoteName = "origin"

// BranchStatusSummarizer builds the status of a translation branch from the
// data repository's history.
type BranchStatusSummarizer struct {
	repo           domain.TranslationRepository
	officialBranch string
	logger         Logger
}

// NewBranchStatusSummarizer creates a new BranchStatusSummarizer.
func NewBranchStatusSummarizer(
	repo domain.TranslationRepository,
	officialBranch string,
	log Logger,
) *BranchStatusSummarizer {
	return &BranchStatusSummarizer{
		repo:           repo,
		officialBranch: officialBranch,
		logger:         log,
	}
}

// Summarize returns the latest domain.NumCommits commits of the branch,
// newest first, each linked to its next-older commit. Repositories that
// implement domain.RepositoryNamer also report their owner/repo name.
//
// The remote ref origin/<name> is preferred over the local branch. A branch
// that exists in neither place yields an empty status, not an error.
// Repository failures are returned as-is (wrapped) and never retried.
func (s *BranchStatusSummarizer) Summarize(
	ctx context.Context,
	branch domain.TranslationBranch,
) (*domain.BranchStatus, error) {
	ref, err := s.resolveRef(ctx, branch.BranchName)
	if err != nil {
		return nil, err
	}

	if ref == "" {
		s.logger.Warn(ctx, "translation branch not found locally or upstream", map[string]interface{}{
			"branch": branch.BranchName,
		})
		status := domain.NewBranchStatus(branch, nil, domain.NumCommits, s.officialBranch)
		status.Repository = s.repositoryName(ctx)
		return status, nil
	}

	raw, err := s.repo.CommitsFrom(ctx, ref, domain.NumCommits+1)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits of %s: %w", ref, err)
	}

	window := threadCommits(raw)
	status := domain.NewBranchStatus(branch, window, domain.NumCommits, s.officialBranch)
	status.Repository = s.repositoryName(ctx)

	s.logger.Debug(ctx, "summarized translation branch", map[string]interface{}{
		"branch":        branch.BranchName,
		"ref":           ref,
		"commits_found": len(raw),
		"commits_shown": len(status.Commits),
	})

	return status, nil
}

// resolveRef picks the ref to read commits from, or "" if there is none.
func (s *BranchStatusSummarizer) resolveRef(ctx context.Context, name string) (string, error) {
	remote, err := s.repo.RemoteRefExists(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to check remote ref %s/%s: %w", RemoteName, name, err)
	}
	if remote {
		return RemoteName + "/" + name, nil
	}

	local, err := s.repo.BranchExists(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to check local branch %s: %w", name, err)
	}
	if local {
		s.logger.Debug(ctx, "branch only exists locally", map[string]interface{}{
			"branch": name,
		})
		return name, nil
	}

	return "", nil
}

// repositoryName returns the owner/repo name of the repository, or "" when
// it cannot be determined.
func (s *BranchStatusSummarizer) repositoryName(ctx context.Context) string {
	namer, ok := s.repo.(domain.RepositoryNamer)
	if !ok {
		return ""
	}
	name, err := namer.Repository(ctx)
	if err != nil {
		s.logger.Debug(ctx, "could not determine data repository name", map[string]interface{}{
			"error": err.Error(),
		})
		return ""
	}
	return name
}

// threadCommits shapes raw commits for display and links each commit to the
// next-older one by index. The oldest commit has no previous commit.
func threadCommits(raw []domain.RawCommit) []domain.CommitSummary {
	window := make([]domain.CommitSummary, len(raw))
	for i, c := range raw {
		previous := domain.NoPrevious
		if i+1 < len(raw) {
			previous = i + 1
		}
		window[i] = domain.CommitSummary{
			Hash:          c.Hash,
			ShortHash:     shortHash(c.Hash),
			Message:       c.Message,
			Committer:     c.Committer,
			CommittedAt:   c.CommittedAt,
			PreviousIndex: previous,
		}
	}
	return window
}

func shortHash(hash string) string {
	if len(hash) <= domain.ShortHashLength {
		return hash
	}
	return hash[:domain.ShortHashLength]
}
