// Package domain defines the core business entities and interfaces for legal-tools.
// This package contains no external dependencies and represents the innermost layer
// of the CLEAN architecture.
package domain

import (
	"context"
	"errors"
)

// Domain errors.
var (
	// ErrRepositoryNotFound indicates the specified path is not a valid Git repository.
	ErrRepositoryNotFound = errors.New("git repository not found at specified path")

	// ErrNoRemoteOrigin indicates no 'origin' remote is configured in the repository.
	ErrNoRemoteOrigin = errors.New("no 'origin' remote configured; cannot determine repository name")

	// ErrInvalidRemoteURL indicates the remote URL could not be parsed to extract owner/repo.
	ErrInvalidRemoteURL = errors.New("could not parse repository name from remote URL")

	// ErrBranchNotFound indicates no translation branch record matches the lookup.
	ErrBranchNotFound = errors.New("translation branch not found")

	// ErrUnknownCategory indicates a category missing from the category title table.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrDefaultLanguageRequired indicates the settings carry no default language.
	ErrDefaultLanguageRequired = errors.New("default language is not configured")
)

// TranslationRepository is the minimal view of the data repository needed to
// summarize a translation branch.
type TranslationRepository interface {
	// BranchExists reports whether a local branch with the given name exists.
	BranchExists(ctx context.Context, name string) (bool, error)

	// RemoteRefExists reports whether origin has a ref with the given branch name.
	RemoteRefExists(ctx context.Context, name string) (bool, error)

	// CommitsFrom returns at most maxCount commits reachable from ref, newest first.
	CommitsFrom(ctx context.Context, ref string, maxCount int) ([]RawCommit, error)

	// Close releases any resources held by the repository.
	Close() error
}

// RepositoryNamer is implemented by repositories that can report their
// owner/repo name.
type RepositoryNamer interface {
	Repository(ctx context.Context) (string, error)
}

// BranchStore persists translation branch records.
type BranchStore interface {
	// Get returns the branch with the given ID or ErrBranchNotFound.
	Get(ctx context.Context, id int64) (*TranslationBranch, error)

	// GetByName returns the branch with the given name or ErrBranchNotFound.
	GetByName(ctx context.Context, name string) (*TranslationBranch, error)

	// List returns all branches ordered by name.
	List(ctx context.Context) ([]TranslationBranch, error)

	// Save inserts the branch, or updates the record with the same name.
	// The stored ID is written back to branch.
	Save(ctx context.Context, branch *TranslationBranch) error

	// Close releases any resources held by the store.
	Close() error
}

// BranchStatusSummarizer summarizes the recent history of a translation branch.
type BranchStatusSummarizer interface {
	Summarize(ctx context.Context, branch TranslationBranch) (*BranchStatus, error)
}
