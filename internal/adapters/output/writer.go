// Package output provides adapters for writing application output.
package output

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MyCarrier-DevOps/legal-tools/internal/domain"
)

// Format selects how results are rendered.
type Format string

// Supported output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for unsupported output formats.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat validates a user supplied format name. Empty means text.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (want text, json or yaml)", ErrUnknownFormat, name)
	}
}

// Writer renders results to the configured output destination.
// By default, it writes text to stdout.
type Writer struct {
	out    io.Writer
	format Format
}

// NewWriter creates a new Writer that writes to stdout.
func NewWriter(format Format) *Writer {
	return NewWriterWithOutput(os.Stdout, format)
}

// NewWriterWithOutput creates a new Writer with a custom output destination.
// This is useful for testing.
func NewWriterWithOutput(out io.Writer, format Format) *Writer {
	if format == "" {
		format = FormatText
	}
	return &Writer{out: out, format: format}
}

// CommitView is a commit as rendered, with its previous commit resolved.
type CommitView struct {
	Hash              string    `json:"hash" yaml:"hash"`
	ShortHash         string    `json:"short_hash" yaml:"short_hash"`
	Message           string    `json:"message" yaml:"message"`
	Committer         string    `json:"committer" yaml:"committer"`
	CommittedAt       time.Time `json:"committed_at" yaml:"committed_at"`
	PreviousShortHash string    `json:"previous_short_hash,omitempty" yaml:"previous_short_hash,omitempty"`
	SincePrevious     string    `json:"since_previous,omitempty" yaml:"since_previous,omitempty"`
}

// BranchStatusView is the rendered form of a domain.BranchStatus.
type BranchStatusView struct {
	Branch            domain.TranslationBranch `json:"branch" yaml:"branch"`
	Repository        string                   `json:"repository,omitempty" yaml:"repository,omitempty"`
	OfficialGitBranch string                   `json:"official_git_branch" yaml:"official_git_branch"`
	LastCommit        *CommitView              `json:"last_commit" yaml:"last_commit"`
	Commits           []CommitView             `json:"commits" yaml:"commits"`
}

// NewBranchStatusView flattens status for rendering.
func NewBranchStatusView(status *domain.BranchStatus) BranchStatusView {
	view := BranchStatusView{
		Branch:            status.Branch,
		Repository:        status.Repository,
		OfficialGitBranch: status.OfficialGitBranch,
		Commits:           make([]CommitView, 0, len(status.Commits)),
	}
	for _, c := range status.Commits {
		view.Commits = append(view.Commits, newCommitView(status, c))
	}
	if len(view.Commits) > 0 {
		last := view.Commits[0]
		view.LastCommit = &last
	}
	return view
}

func newCommitView(status *domain.BranchStatus, c domain.CommitSummary) CommitView {
	view := CommitView{
		Hash:        c.Hash,
		ShortHash:   c.ShortHash,
		Message:     strings.TrimSpace(c.Message),
		Committer:   c.Committer,
		CommittedAt: c.CommittedAt,
	}
	if previous, ok := status.Previous(c); ok {
		view.PreviousShortHash = previous.ShortHash
		view.SincePrevious = c.CommittedAt.Sub(previous.CommittedAt).String()
	}
	return view
}

// WriteBranchStatus writes the status of a translation branch.
func (w *Writer) WriteBranchStatus(status *domain.BranchStatus) error {
	view := NewBranchStatusView(status)
	if w.format != FormatText {
		return w.encode(view)
	}

	tw := tabwriter.NewWriter(w.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Branch:\t%s\n", view.Branch.BranchName)
	fmt.Fprintf(tw, "Language:\t%s\n", view.Branch.LanguageCode)
	if view.Repository != "" {
		fmt.Fprintf(tw, "Repository:\t%s\n", view.Repository)
	}
	fmt.Fprintf(tw, "Official branch:\t%s\n", view.OfficialGitBranch)
	if view.LastCommit == nil {
		fmt.Fprintf(tw, "Last commit:\t(none)\n")
		return tw.Flush()
	}
	fmt.Fprintf(tw, "Last commit:\t%s %s\n", view.LastCommit.ShortHash, firstLine(view.LastCommit.Message))
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "COMMIT\tDATE\tCOMMITTER\tPREVIOUS\tMESSAGE")
	for _, c := range view.Commits {
		previous := "-"
		if c.PreviousShortHash != "" {
			previous = fmt.Sprintf("%s (+%s)", c.PreviousShortHash, c.SincePrevious)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			c.ShortHash,
			c.CommittedAt.UTC().Format(time.RFC3339),
			c.Committer,
			previous,
			firstLine(c.Message),
		)
	}
	return tw.Flush()
}

// WriteBranches writes a list of translation branch records.
func (w *Writer) WriteBranches(branches []domain.TranslationBranch) error {
	if branches == nil {
		branches = []domain.TranslationBranch{}
	}
	if w.format != FormatText {
		return w.encode(branches)
	}

	tw := tabwriter.NewWriter(w.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBRANCH\tLANGUAGE\tVERSION\tCOMPLETE")
	for _, b := range branches {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\n", b.ID, b.BranchName, b.LanguageCode, b.Version, b.Complete)
	}
	return tw.Flush()
}

// WriteLanguages writes display information for a list of languages.
func (w *Writer) WriteLanguages(languages []domain.LanguageInfo) error {
	if languages == nil {
		languages = []domain.LanguageInfo{}
	}
	if w.format != FormatText {
		return w.encode(languages)
	}

	tw := tabwriter.NewWriter(w.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tLOCAL NAME\tBIDI")
	for _, l := range languages {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", l.Code, l.Name, l.NameLocal, l.Bidi)
	}
	return tw.Flush()
}

// TranslationStatsHeader is the header row of the text (CSV) rendering of
// translation statistics.
var TranslationStatsHeader = []string{
	"lang_django",
	"lang_locale",
	"lang_transifex",
	"num_messages",
	"num_trans",
	"num_fuzzy",
	"percent_trans",
}

// WriteTranslationStats writes per-language translation statistics. Text
// output is CSV with TranslationStatsHeader as the first row.
func (w *Writer) WriteTranslationStats(stats []domain.TranslationStats) error {
	if stats == nil {
		stats = []domain.TranslationStats{}
	}
	if w.format != FormatText {
		return w.encode(stats)
	}

	cw := csv.NewWriter(w.out)
	if err := cw.Write(TranslationStatsHeader); err != nil {
		return err
	}
	for _, s := range stats {
		record := []string{
			s.LanguageCode,
			s.Locale,
			s.TransifexCode,
			strconv.Itoa(s.Messages),
			strconv.Itoa(s.Translated),
			strconv.Itoa(s.Fuzzy),
			strconv.Itoa(s.PercentTranslated),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteValues writes named scalar results, such as a normalized path and
// its language. Text output is one "key: value" line per pair, in order.
func (w *Writer) WriteValues(pairs ...Pair) error {
	if w.format == FormatText {
		for _, p := range pairs {
			if _, err := fmt.Fprintf(w.out, "%s: %s\n", p.Key, p.Value); err != nil {
				return err
			}
		}
		return nil
	}

	values := make(map[string]string, len(pairs))
	for _, p := range pairs {
		values[p.Key] = p.Value
	}
	return w.encode(values)
}

// WriteValue writes a single result. Text output is the bare value.
func (w *Writer) WriteValue(key, value string) error {
	if w.format == FormatText {
		_, err := fmt.Fprintln(w.out, value)
		return err
	}
	return w.WriteValues(Pair{Key: key, Value: value})
}

// Pair is a named scalar result.
type Pair struct {
	Key   string
	Value string
}

func (w *Writer) encode(v any) error {
	switch w.format {
	case FormatJSON:
		enc := json.NewEncoder(w.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, w.format)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
