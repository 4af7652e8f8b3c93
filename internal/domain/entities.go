// Package domain defines the core business entities and interfaces for legal-tools.
package domain

import "time"

// NumCommits is the number of commits shown for a translation branch.
// One extra commit is fetched so the oldest visible commit still has a
// previous commit to compare against.
const NumCommits = 3

// ShortHashLength is the length of the abbreviated commit hash.
const ShortHashLength = 7

// NoPrevious marks a CommitSummary without a next-older commit in its window.
const NoPrevious = -1

// LanguageSettings holds the process-wide language fallback configuration.
type LanguageSettings struct {
	// DefaultLanguage is the site language code (LANGUAGE_CODE). It is always
	// acceptable, even when missing from LanguagesMostlyTranslated.
	DefaultLanguage string `json:"default_language" yaml:"default_language"`

	// LanguagesMostlyTranslated lists the languages whose deed and UX
	// translation meets the translation threshold.
	LanguagesMostlyTranslated []string `json:"languages_mostly_translated" yaml:"languages_mostly_translated"`

	// JurisdictionLanguages maps a jurisdiction code to its default language.
	JurisdictionLanguages map[string]string `json:"jurisdiction_languages" yaml:"jurisdiction_languages"`

	// OfficialGitBranch is the reference branch translation branches are compared to.
	OfficialGitBranch string `json:"official_git_branch" yaml:"official_git_branch"`

	// TranslationThreshold is the minimum percent translated for a language
	// to count as mostly translated.
	TranslationThreshold float64 `json:"translation_threshold" yaml:"translation_threshold"`

	// TranslationPercentages optionally carries percent translated per
	// language. When set, LanguagesMostlyTranslated is derived from it.
	TranslationPercentages map[string]float64 `json:"translation_percentages,omitempty" yaml:"translation_percentages,omitempty"`

	// LocaleDir is the deeds and UX locale directory. When set and no
	// TranslationPercentages are given, the percentages are read from its
	// django.po files.
	LocaleDir string `json:"locale_dir,omitempty" yaml:"locale_dir,omitempty"`
}

// TranslationStats counts the messages of one language's deeds and UX
// translation file.
type TranslationStats struct {
	LanguageCode      string `json:"lang_django" yaml:"lang_django"`
	Locale            string `json:"lang_locale" yaml:"lang_locale"`
	TransifexCode     string `json:"lang_transifex" yaml:"lang_transifex"`
	Messages          int    `json:"num_messages" yaml:"num_messages"`
	Translated        int    `json:"num_trans" yaml:"num_trans"`
	Fuzzy             int    `json:"num_fuzzy" yaml:"num_fuzzy"`
	PercentTranslated int    `json:"percent_trans" yaml:"percent_trans"`
}

// TranslationBranch identifies a branch of the data repository holding
// in-progress translation work for one language.
type TranslationBranch struct {
	ID                  int64      `json:"id" yaml:"id"`
	BranchName          string     `json:"branch_name" yaml:"branch_name"`
	LanguageCode        string     `json:"language_code" yaml:"language_code"`
	Version             string     `json:"version,omitempty" yaml:"version,omitempty"`
	LastTransifexUpdate *time.Time `json:"last_transifex_update,omitempty" yaml:"last_transifex_update,omitempty"`
	Complete            bool       `json:"complete" yaml:"complete"`
}

// RawCommit is a commit as returned by a TranslationRepository.
type RawCommit struct {
	Hash        string
	Message     string
	Committer   string
	CommittedAt time.Time
}

// CommitSummary is a commit shaped for display.
type CommitSummary struct {
	Hash        string
	ShortHash   string
	Message     string
	Committer   string
	CommittedAt time.Time

	// PreviousIndex is the position of the next-older commit in the
	// owning BranchStatus window, or NoPrevious.
	PreviousIndex int
}

// BranchStatus describes the recent history of a translation branch.
// It is built once per query and must not be modified afterwards.
type BranchStatus struct {
	Branch TranslationBranch

	// Commits holds at most NumCommits commits, newest first.
	Commits []CommitSummary

	// LastCommit is the newest commit, or nil when the branch has none.
	LastCommit *CommitSummary

	OfficialGitBranch string

	// Repository is the owner/repo name of the data repository, or empty
	// when it could not be determined.
	Repository string

	// window holds every fetched commit; Commits is a prefix of it.
	window []CommitSummary
}

// NewBranchStatus builds a BranchStatus from a fetched, threaded window of
// commits, exposing at most visible of them.
func NewBranchStatus(branch TranslationBranch, window []CommitSummary, visible int, official string) *BranchStatus {
	if visible > len(window) {
		visible = len(window)
	}
	if visible < 0 {
		visible = 0
	}

	status := &BranchStatus{
		Branch:            branch,
		Commits:           window[:visible:visible],
		OfficialGitBranch: official,
		window:            window,
	}
	if visible > 0 {
		status.LastCommit = &status.Commits[0]
	}
	return status
}

// Previous returns the next-older commit of c, if it was fetched.
func (s *BranchStatus) Previous(c CommitSummary) (CommitSummary, bool) {
	if c.PreviousIndex < 0 || c.PreviousIndex >= len(s.window) {
		return CommitSummary{}, false
	}
	return s.window[c.PreviousIndex], true
}

// Tool is the subset of a legal tool needed for category and jurisdiction lookups.
type Tool struct {
	Category         string
	Unit             string
	Version          string
	JurisdictionCode string
}

// LanguageInfo describes a language for display.
type LanguageInfo struct {
	Code      string `json:"code" yaml:"code"`
	Name      string `json:"name" yaml:"name"`
	NameLocal string `json:"name_local" yaml:"name_local"`
	Bidi      bool   `json:"bidi" yaml:"bidi"`
}
