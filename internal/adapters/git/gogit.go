// Package git provides adapters for reading the legal-tools data repository.
// This package implements the domain.TranslationRepository interface using go-git/v5.
package git

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/MyCarrier-DevOps/legal-tools/internal/domain"
)

// RemoteName is the remote whose refs are inspected by RemoteRefExists.
const RemoteName = "origin"

// Logger defines the logging interface for the git adapter.
// This interface enables dependency injection and testability.
type Logger interface {
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
}

// GoGitRepository implements domain.TranslationRepository using go-git/v5.
type GoGitRepository struct {
	repo   *git.Repository
	path   string
	logger Logger
}

// NewGoGitRepository opens the data repository at path.
// The path can be either a working directory or a bare repository.
// Returns domain.ErrRepositoryNotFound if the path is not a valid Git repository.
func NewGoGitRepository(path string, log Logger) (*GoGitRepository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrRepositoryNotFound, path)
	}

	return &GoGitRepository{
		repo:   repo,
		path:   path,
		logger: log,
	}, nil
}

// NewGoGitRepositoryFromRepo wraps an already opened repository, such as an
// in-memory one.
func NewGoGitRepositoryFromRepo(repo *git.Repository, log Logger) *GoGitRepository {
	return &GoGitRepository{repo: repo, logger: log}
}

// BranchExists reports whether refs/heads/<name> exists.
func (r *GoGitRepository) BranchExists(ctx context.Context, name string) (bool, error) {
	return r.referenceExists(ctx, plumbing.NewBranchReferenceName(name))
}

// RemoteRefExists reports whether refs/remotes/origin/<name> exists.
func (r *GoGitRepository) RemoteRefExists(ctx context.Context, name string) (bool, error) {
	return r.referenceExists(ctx, plumbing.NewRemoteReferenceName(RemoteName, name))
}

func (r *GoGitRepository) referenceExists(ctx context.Context, name plumbing.ReferenceName) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := r.repo.Reference(name, true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read reference %s: %w", name, err)
	}
	return true, nil
}

// CommitsFrom walks the history reachable from ref by commit time and
// returns at most maxCount commits, newest first.
func (r *GoGitRepository) CommitsFrom(ctx context.Context, ref string, maxCount int) ([]domain.RawCommit, error) {
	if maxCount <= 0 {
		return nil, nil
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", ref, err)
	}

	tip, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit object for %s: %w", ref, err)
	}

	commits := make([]domain.RawCommit, 0, maxCount)
	iter := object.NewCommitIterCTime(tip, nil, nil)
	defer iter.Close()

	err = iter.ForEach(func(c *object.Commit) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if len(commits) >= maxCount {
			return storer.ErrStop
		}
		commits = append(commits, domain.RawCommit{
			Hash:        c.Hash.String(),
			Message:     c.Message,
			Committer:   c.Committer.Name,
			CommittedAt: c.Committer.When,
		})
		return nil
	})

	// ErrStop is expected when maxCount is reached
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return nil, fmt.Errorf("failed to walk commit history: %w", err)
	}

	r.logger.Debug(ctx, "walked branch history", map[string]interface{}{
		"ref":           ref,
		"max_count":     maxCount,
		"commits_found": len(commits),
	})

	return commits, nil
}

// Repository returns the owner/repo name of the origin remote.
// Returns domain.ErrNoRemoteOrigin if no origin remote is configured.
func (r *GoGitRepository) Repository(ctx context.Context) (string, error) {
	remote, err := r.repo.Remote(RemoteName)
	if err != nil {
		return "", fmt.Errorf("%w: failed to get origin remote: %w", domain.ErrNoRemoteOrigin, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("%w: origin remote has no URLs configured", domain.ErrNoRemoteOrigin)
	}

	name, err := parseRepoFromURL(urls[0])
	if err != nil {
		r.logger.Warn(ctx, "could not parse origin remote URL", map[string]interface{}{
			"url":  urls[0],
			"path": r.path,
		})
		return "", fmt.Errorf("%w: failed to parse URL: %w", domain.ErrInvalidRemoteURL, err)
	}
	return name, nil
}

// Close releases any resources held by the repository.
// For go-git, this is a no-op as the repository doesn't hold persistent resources.
func (r *GoGitRepository) Close() error {
	return nil
}

var (
	// https://github.com/owner/repo(.git)
	httpsURLPattern = regexp.MustCompile(`^https?://[^/]+/([^/]+)/([^/]+?)(?:\.git)?$`)

	// git@github.com:owner/repo(.git)
	sshURLPattern = regexp.MustCompile(`^git@[^:]+:([^/]+)/([^/]+?)(?:\.git)?$`)
)

// parseRepoFromURL extracts owner/repo from an HTTPS or SSH remote URL.
func parseRepoFromURL(url string) (string, error) {
	url = strings.TrimSpace(url)

	for _, pattern := range []*regexp.Regexp{httpsURLPattern, sshURLPattern} {
		if matches := pattern.FindStringSubmatch(url); len(matches) == 3 {
			return matches[1] + "/" + matches[2], nil
		}
	}

	return "", fmt.Errorf("unrecognized URL format: %s", url)
}
