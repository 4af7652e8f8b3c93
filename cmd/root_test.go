package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MyCarrier-DevOps/legal-tools/internal/adapters/output"
	"github.com/MyCarrier-DevOps/legal-tools/internal/domain"
	"github.com/MyCarrier-DevOps/legal-tools/internal/usecases"
)

// Test mocks for dependency injection testing.

// mockLogger implements the Logger interface for testing.
type mockLogger struct{}

func (m *mockLogger) Info(_ context.Context, _ string, _ map[string]interface{})           {}
func (m *mockLogger) Debug(_ context.Context, _ string, _ map[string]interface{})          {}
func (m *mockLogger) Warn(_ context.Context, _ string, _ map[string]interface{})           {}
func (m *mockLogger) Error(_ context.Context, _ string, _ error, _ map[string]interface{}) {}

// mockGitRepo implements GitRepository for testing.
type mockGitRepo struct {
	repoName    string
	closeErr    error
	closeCalled bool
}

func (m *mockGitRepo) BranchExists(_ context.Context, _ string) (bool, error)    { return false, nil }
func (m *mockGitRepo) RemoteRefExists(_ context.Context, _ string) (bool, error) { return false, nil }
func (m *mockGitRepo) CommitsFrom(_ context.Context, _ string, _ int) ([]domain.RawCommit, error) {
	return nil, nil
}
func (m *mockGitRepo) Repository(_ context.Context) (string, error) { return m.repoName, nil }
func (m *mockGitRepo) Close() error {
	m.closeCalled = true
	return m.closeErr
}

// mockStore implements domain.BranchStore for testing.
type mockStore struct {
	branches    []domain.TranslationBranch
	err         error
	saved       []domain.TranslationBranch
	closeCalled bool
}

func (m *mockStore) Get(_ context.Context, id int64) (*domain.TranslationBranch, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, b := range m.branches {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, domain.ErrBranchNotFound
}

func (m *mockStore) GetByName(_ context.Context, name string) (*domain.TranslationBranch, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, b := range m.branches {
		if b.BranchName == name {
			return &b, nil
		}
	}
	return nil, domain.ErrBranchNotFound
}

func (m *mockStore) List(_ context.Context) ([]domain.TranslationBranch, error) {
	return m.branches, m.err
}

func (m *mockStore) Save(_ context.Context, branch *domain.TranslationBranch) error {
	if m.err != nil {
		return m.err
	}
	branch.ID = int64(len(m.saved) + 1)
	m.saved = append(m.saved, *branch)
	return nil
}

func (m *mockStore) Close() error {
	m.closeCalled = true
	return nil
}

// mockSummarizer implements domain.BranchStatusSummarizer for testing.
type mockSummarizer struct {
	status *domain.BranchStatus
	err    error
	got    []domain.TranslationBranch
}

func (m *mockSummarizer) Summarize(_ context.Context, branch domain.TranslationBranch) (*domain.BranchStatus, error) {
	m.got = append(m.got, branch)
	if m.err != nil {
		return nil, m.err
	}
	if m.status != nil {
		return m.status, nil
	}
	return domain.NewBranchStatus(branch, nil, domain.NumCommits, "main"), nil
}

// mockServer implements Server for testing. Listen blocks until Shutdown.
type mockServer struct {
	mu          sync.Mutex
	listenErr   error
	addr        string
	listening   chan struct{}
	stopped     chan struct{}
	normalizers []*usecases.Normalizer
	summarizers []domain.BranchStatusSummarizer
}

func newMockServer() *mockServer {
	return &mockServer{
		listening: make(chan struct{}),
		stopped:   make(chan struct{}),
	}
}

func (m *mockServer) Listen(addr string) error {
	m.mu.Lock()
	m.addr = addr
	m.mu.Unlock()
	if m.listenErr != nil {
		return m.listenErr
	}
	close(m.listening)
	<-m.stopped
	return nil
}

func (m *mockServer) Shutdown(_ context.Context) error {
	close(m.stopped)
	return nil
}

func (m *mockServer) SetNormalizer(n *usecases.Normalizer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.normalizers = append(m.normalizers, n)
}

func (m *mockServer) SetSummarizer(summarizer domain.BranchStatusSummarizer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summarizers = append(m.summarizers, summarizer)
}

func (m *mockServer) summarizerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.summarizers)
}

func (m *mockServer) normalizerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.normalizers)
}

// mockWatcher implements SettingsWatcher for testing. It delivers its
// revisions once and then waits for ctx.
type mockWatcher struct {
	revisions   []domain.LanguageSettings
	closeCalled chan struct{}
}

func (m *mockWatcher) Run(ctx context.Context, onChange func(domain.LanguageSettings)) error {
	for _, s := range m.revisions {
		onChange(s)
	}
	<-ctx.Done()
	return nil
}

func (m *mockWatcher) Close() error {
	close(m.closeCalled)
	return nil
}

// testEnv bundles the mocks behind a Dependencies value.
type testEnv struct {
	deps       *Dependencies
	stdout     *bytes.Buffer
	cfg        *AppConfig
	repo       *mockGitRepo
	store      *mockStore
	summarizer *mockSummarizer
	server     *mockServer
	repoPath   string

	mu        sync.Mutex
	officials []string
	stats     []domain.TranslationStats
	statsErr  error
	statsDir  string
}

// officialBranches returns the official branches the summarizer factory was
// called with.
func (e *testEnv) officialBranches() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.officials...)
}

func newTestEnv() *testEnv {
	env := &testEnv{
		stdout: &bytes.Buffer{},
		cfg: &AppConfig{
			Settings: domain.LanguageSettings{
				DefaultLanguage:           "en",
				LanguagesMostlyTranslated: []string{"en", "nl", "de"},
				JurisdictionLanguages:     map[string]string{"de": "de", "es": "es"},
				OfficialGitBranch:         "main",
			},
			DataRepositoryDir: "/srv/cc-legal-tools-data",
			HTTPAddr:          ":8080",
		},
		repo:       &mockGitRepo{repoName: "creativecommons/cc-legal-tools-data"},
		store:      &mockStore{},
		summarizer: &mockSummarizer{},
		server:     newMockServer(),
	}

	env.deps = &Dependencies{
		LoggerFactory: func() Logger { return &mockLogger{} },
		ConfigLoader: func(_ context.Context) (*AppConfig, error) {
			return env.cfg, nil
		},
		GitRepoFactory: func(path string, _ Logger) (GitRepository, error) {
			env.repoPath = path
			return env.repo, nil
		},
		StoreFactory: func(_ context.Context, _ *AppConfig, _ Logger) (domain.BranchStore, error) {
			return env.store, nil
		},
		SummarizerFactory: func(_ domain.TranslationRepository, official string, _ Logger) domain.BranchStatusSummarizer {
			env.mu.Lock()
			defer env.mu.Unlock()
			env.officials = append(env.officials, official)
			return env.summarizer
		},
		StatsReader: func(dir string) ([]domain.TranslationStats, error) {
			env.statsDir = dir
			return env.stats, env.statsErr
		},
		OutputWriterFactory: func(format output.Format, out io.Writer) OutputWriter {
			return output.NewWriterWithOutput(out, format)
		},
		ServerFactory: func(
			_ domain.BranchStore,
			_ domain.BranchStatusSummarizer,
			_ *usecases.Normalizer,
			_ Logger,
		) Server {
			return env.server
		},
		Stdout: env.stdout,
		Stderr: io.Discard,
	}
	return env
}

func (e *testEnv) run(args ...string) error {
	cmd := NewRootCmdWithDeps(e.deps)
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.Execute()
}

func TestNewRootCmd(t *testing.T) {
	// Set default deps so NewRootCmd() works
	SetDefaultDependencies(&Dependencies{})
	cmd := NewRootCmd()

	require.NotNil(t, cmd)
	assert.Equal(t, "legal-tools", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.True(t, cmd.SilenceUsage)

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "o", formatFlag.Shorthand)
	assert.Equal(t, "text", formatFlag.DefValue)

	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{
		"status", "branches", "normalize", "deed-path", "legalcode-path",
		"category", "jurisdiction", "languages", "language-codes", "transstats", "serve",
	} {
		assert.Contains(t, names, want)
	}
}

func TestNewRootCmd_HelpOutput(t *testing.T) {
	cmd := NewRootCmdWithDeps(&Dependencies{})

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "legal-tools")
}

func TestRootCmd_NilDependencies(t *testing.T) {
	cmd := NewRootCmdWithDeps(nil)
	cmd.SetArgs([]string{"normalize", "/licenses/by/4.0/legalcode"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "dependencies not configured")
}

func TestRootCmd_InvalidFormat(t *testing.T) {
	env := newTestEnv()

	err := env.run("normalize", "/licenses/by/4.0/legalcode", "--format", "xml")

	require.Error(t, err)
	assert.ErrorIs(t, err, output.ErrUnknownFormat)
	assert.Empty(t, env.stdout.String())
}

func TestRootCmd_ConfigLoadError(t *testing.T) {
	env := newTestEnv()
	env.deps.ConfigLoader = func(_ context.Context) (*AppConfig, error) {
		return nil, errors.New("vault sealed")
	}

	err := env.run("languages")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration error")
}

func TestRootCmd_InvalidSettings(t *testing.T) {
	env := newTestEnv()
	env.cfg.Settings.DefaultLanguage = ""

	err := env.run("normalize", "/licenses/by/4.0/legalcode")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDefaultLanguageRequired)
}

func TestRootCmd_VerboseSetsDebugLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "info")
	env := newTestEnv()

	require.NoError(t, env.run("-v", "languages"))

	assert.Equal(t, "debug", os.Getenv("LOG_LEVEL"))
}

func TestNormalizeCmd(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "jurisdiction default language",
			args: []string{"normalize", "/licenses/by/3.0/de/legalcode", "--jurisdiction", "de"},
			want: "path: /licenses/by/3.0/de/legalcode.de\nlanguage: de\n",
		},
		{
			name: "explicit language",
			args: []string{"normalize", "/licenses/by/3.0/de/legalcode", "-j", "de", "-l", "nl"},
			want: "path: /licenses/by/3.0/de/legalcode.nl\nlanguage: nl\n",
		},
		{
			name: "site default",
			args: []string{"normalize", "/licenses/by/4.0/legalcode.en"},
			want: "path: /licenses/by/4.0/legalcode.en\nlanguage: en\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()

			require.NoError(t, env.run(tt.args...))
			assert.Equal(t, tt.want, env.stdout.String())
		})
	}
}

func TestNormalizeCmd_JSON(t *testing.T) {
	env := newTestEnv()

	require.NoError(t, env.run("normalize", "/licenses/by/3.0/es/legalcode", "-j", "es", "-o", "json"))

	var got map[string]string
	require.NoError(t, json.Unmarshal(env.stdout.Bytes(), &got))
	assert.Equal(t, map[string]string{
		"path":     "/licenses/by/3.0/es/legalcode.es",
		"language": "es",
	}, got)
}

func TestDeedPathCmd(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "mostly translated language kept",
			args: []string{"deed-path", "/licenses/by/4.0/deed.nl", "--path-start", "/licenses/by/4.0/", "--lang", "nl"},
			want: "deed.nl\n",
		},
		{
			name: "less translated language uses fallback",
			args: []string{"deed-path", "/licenses/by/4.0/deed.fr", "--path-start", "/licenses/by/4.0/", "--lang", "fr", "--lang-default", "de"},
			want: "deed.de\n",
		},
		{
			name: "fallback defaults to site language",
			args: []string{"deed-path", "/licenses/by/4.0/deed.fr", "--path-start", "/licenses/by/4.0/", "--lang", "fr"},
			want: "deed.en\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()

			require.NoError(t, env.run(tt.args...))
			assert.Equal(t, tt.want, env.stdout.String())
		})
	}
}

func TestDeedPathCmd_RequiresLang(t *testing.T) {
	env := newTestEnv()

	err := env.run("deed-path", "/deed.fr")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "lang")
}

func TestLegalCodePathCmd(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "available language kept",
			args: []string{"legalcode-path", "/legalcode.es", "--lang", "es", "--available", "en,es"},
			want: "legalcode.es\n",
		},
		{
			name: "unavailable language uses fallback",
			args: []string{"legalcode-path", "/legalcode.nl", "--lang", "nl", "--available", "en,es"},
			want: "legalcode.en\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()

			require.NoError(t, env.run(tt.args...))
			assert.Equal(t, tt.want, env.stdout.String())
		})
	}
}

func TestCategoryCmd(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr error
	}{
		{
			name: "default category",
			args: []string{"category"},
			want: "category: licenses\ntitle: Licenses\n",
		},
		{
			name: "tool category",
			args: []string{"category", "--tool-category", "publicdomain"},
			want: "category: publicdomain\ntitle: Public Domain\n",
		},
		{
			name:    "unknown category",
			args:    []string{"category", "--category", "recipes"},
			wantErr: domain.ErrUnknownCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()

			err := env.run(tt.args...)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, env.stdout.String())
		})
	}
}

func TestLanguagesCmd_JSON(t *testing.T) {
	env := newTestEnv()

	require.NoError(t, env.run("languages", "--format", "json"))

	var got []domain.LanguageInfo
	require.NoError(t, json.Unmarshal(env.stdout.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "de", got[0].Code)
	assert.Equal(t, "en", got[1].Code)
	assert.Equal(t, "nl", got[2].Code)
}

func TestLanguageCodesCmd(t *testing.T) {
	env := newTestEnv()

	require.NoError(t, env.run("language-codes", "zh_CN", "-o", "json"))

	var got map[string]string
	require.NoError(t, json.Unmarshal(env.stdout.Bytes(), &got))
	assert.Equal(t, "zh-hans", got["django"])
	assert.Equal(t, "zh-Hans", got["transifex"])
	assert.Contains(t, got["redirects"], "zh-Hans")
	assert.Contains(t, got["redirects_lowercase"], "zh-cn")
}

func TestJurisdictionCmd(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "international", args: []string{"--unit", "by", "--version", "4.0"}, want: "International"},
		{name: "unported", args: []string{"--unit", "by-sa", "--version", "3.0"}, want: "Unported"},
		{name: "ported", args: []string{"--unit", "by", "--version", "3.0", "-j", "de"}, want: "Germany"},
		{name: "cc0", args: []string{"--category", "publicdomain", "--unit", "zero", "--version", "1.0"}, want: "Universal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()

			require.NoError(t, env.run(append([]string{"jurisdiction"}, tt.args...)...))

			assert.Equal(t, tt.want+"\n", env.stdout.String())
		})
	}
}

var testStats = []domain.TranslationStats{
	{LanguageCode: "de", Locale: "de", TransifexCode: "de", Messages: 10, Translated: 9, Fuzzy: 1, PercentTranslated: 90},
	{LanguageCode: "pt-br", Locale: "pt_BR", TransifexCode: "pt_BR", Messages: 10, Translated: 5, PercentTranslated: 50},
}

const testStatsCSV = "lang_django,lang_locale,lang_transifex,num_messages,num_trans,num_fuzzy,percent_trans\n" +
	"de,de,de,10,9,1,90\n" +
	"pt-br,pt_BR,pt_BR,10,5,0,50\n"

func TestTransStatsCmd_CSV(t *testing.T) {
	env := newTestEnv()
	env.stats = testStats

	require.NoError(t, env.run("transstats"))

	assert.Equal(t, testStatsCSV, env.stdout.String())
	assert.Equal(t, filepath.Join("/srv/cc-legal-tools-data", "locale"), env.statsDir)
}

func TestTransStatsCmd_LocaleDir(t *testing.T) {
	tests := []struct {
		name        string
		settingsDir string
		args        []string
		want        string
	}{
		{name: "settings locale_dir", settingsDir: "/srv/locale", want: "/srv/locale"},
		{name: "flag wins", settingsDir: "/srv/locale", args: []string{"--locale-dir", "/tmp/locale"}, want: "/tmp/locale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			env.cfg.Settings.LocaleDir = tt.settingsDir

			require.NoError(t, env.run(append([]string{"transstats"}, tt.args...)...))

			assert.Equal(t, tt.want, env.statsDir)
		})
	}
}

func TestTransStatsCmd_JSON(t *testing.T) {
	env := newTestEnv()
	env.stats = testStats

	require.NoError(t, env.run("transstats", "-o", "json"))

	var got []domain.TranslationStats
	require.NoError(t, json.Unmarshal(env.stdout.Bytes(), &got))
	assert.Equal(t, testStats, got)
}

func TestTransStatsCmd_OutputFile(t *testing.T) {
	env := newTestEnv()
	env.stats = testStats
	path := filepath.Join(t.TempDir(), "transstats.csv")

	require.NoError(t, env.run("transstats", "--output-file", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, testStatsCSV, string(data))
	assert.Empty(t, env.stdout.String())
}

func TestTransStatsCmd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(env *testEnv)
		args    []string
		wantMsg string
	}{
		{
			name:    "reader failure",
			setup:   func(env *testEnv) { env.statsErr = errors.New("locale directory not found") },
			args:    []string{"transstats"},
			wantMsg: "translation statistics error",
		},
		{
			name:    "reader not configured",
			setup:   func(env *testEnv) { env.deps.StatsReader = nil },
			args:    []string{"transstats"},
			wantMsg: "not available",
		},
		{
			name:    "output file cannot be created",
			setup:   func(_ *testEnv) {},
			args:    []string{"transstats", "--output-file", filepath.Join(t.TempDir(), "missing", "stats.csv")},
			wantMsg: "output error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			tt.setup(env)

			err := env.run(tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestStatusCmd_ByName(t *testing.T) {
	env := newTestEnv()
	env.store.branches = []domain.TranslationBranch{
		{ID: 3, BranchName: "nl_21_11_11", LanguageCode: "nl", Version: "4.0"},
	}

	require.NoError(t, env.run("status", "nl_21_11_11"))

	require.Len(t, env.summarizer.got, 1)
	assert.Equal(t, int64(3), env.summarizer.got[0].ID)
	assert.Equal(t, "/srv/cc-legal-tools-data", env.repoPath)
	assert.Contains(t, env.stdout.String(), "nl_21_11_11")
	assert.Contains(t, env.stdout.String(), "(none)")
	assert.True(t, env.repo.closeCalled)
	assert.True(t, env.store.closeCalled)
}

func TestStatusCmd_ByIDWithRepoFlag(t *testing.T) {
	env := newTestEnv()
	env.store.branches = []domain.TranslationBranch{
		{ID: 3, BranchName: "nl_21_11_11", LanguageCode: "nl"},
	}

	require.NoError(t, env.run("status", "3", "--repo", "/tmp/data", "-o", "json"))

	assert.Equal(t, "/tmp/data", env.repoPath)

	var got output.BranchStatusView
	require.NoError(t, json.Unmarshal(env.stdout.Bytes(), &got))
	assert.Equal(t, "nl_21_11_11", got.Branch.BranchName)
	assert.Empty(t, got.Commits)
	assert.Nil(t, got.LastCommit)
}

func TestStatusCmd_RendersCommits(t *testing.T) {
	env := newTestEnv()
	branch := domain.TranslationBranch{ID: 1, BranchName: "de_x", LanguageCode: "de"}
	env.store.branches = []domain.TranslationBranch{branch}

	when := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	window := []domain.CommitSummary{
		{Hash: "1111111aaaa", ShortHash: "1111111", Message: "Update de\n\nbody", Committer: "Alice", CommittedAt: when, PreviousIndex: 1},
		{Hash: "2222222bbbb", ShortHash: "2222222", Message: "Initial", Committer: "Bob", CommittedAt: when.Add(-2 * time.Hour), PreviousIndex: domain.NoPrevious},
	}
	env.summarizer.status = domain.NewBranchStatus(branch, window, 2, "main")

	require.NoError(t, env.run("status", "de_x"))

	out := env.stdout.String()
	assert.Contains(t, out, "1111111 Update de")
	assert.Contains(t, out, "2222222 (+2h0m0s)")
}

func TestStatusCmd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(env *testEnv)
		args    []string
		wantMsg string
		wantErr error
	}{
		{
			name:    "unknown branch",
			setup:   func(_ *testEnv) {},
			args:    []string{"status", "missing"},
			wantMsg: `no translation branch "missing"`,
		},
		{
			name: "store failure",
			setup: func(env *testEnv) {
				env.store.err = errors.New("connection refused")
			},
			args:    []string{"status", "7"},
			wantMsg: "database error",
		},
		{
			name: "store cannot be opened",
			setup: func(env *testEnv) {
				env.deps.StoreFactory = func(_ context.Context, _ *AppConfig, _ Logger) (domain.BranchStore, error) {
					return nil, errors.New("bad dsn")
				}
			},
			args:    []string{"status", "7"},
			wantMsg: "database error",
		},
		{
			name: "not a repository",
			setup: func(env *testEnv) {
				env.store.branches = []domain.TranslationBranch{{ID: 1, BranchName: "b"}}
				env.deps.GitRepoFactory = func(_ string, _ Logger) (GitRepository, error) {
					return nil, domain.ErrRepositoryNotFound
				}
			},
			args:    []string{"status", "b", "--repo", "/nowhere"},
			wantMsg: "not a git repository: /nowhere",
		},
		{
			name: "summarizer failure",
			setup: func(env *testEnv) {
				env.store.branches = []domain.TranslationBranch{{ID: 1, BranchName: "b"}}
				env.summarizer.err = errors.New("object not found")
			},
			args:    []string{"status", "b"},
			wantMsg: "repository error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			tt.setup(env)

			err := env.run(tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestStatusCmd_NumericBranchName(t *testing.T) {
	tests := []struct {
		name   string
		ident  string
		wantID int64
	}{
		{name: "id wins over name", ident: "2", wantID: 2},
		{name: "name used when no id matches", ident: "2024", wantID: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			env.store.branches = []domain.TranslationBranch{
				{ID: 1, BranchName: "2024", LanguageCode: "nl"},
				{ID: 2, BranchName: "de_x", LanguageCode: "de"},
			}

			require.NoError(t, env.run("status", tt.ident))

			require.Len(t, env.summarizer.got, 1)
			assert.Equal(t, tt.wantID, env.summarizer.got[0].ID)
		})
	}
}

func TestStatusCmd_NumericIdentNotFound(t *testing.T) {
	env := newTestEnv()

	err := env.run("status", "99")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `no translation branch "99"`)
}

func TestStatusCmd_ShowsRepository(t *testing.T) {
	env := newTestEnv()
	branch := domain.TranslationBranch{ID: 1, BranchName: "b", LanguageCode: "nl"}
	env.store.branches = []domain.TranslationBranch{branch}
	env.summarizer.status = domain.NewBranchStatus(branch, nil, domain.NumCommits, "main")
	env.summarizer.status.Repository = "creativecommons/cc-legal-tools-data"

	require.NoError(t, env.run("status", "b"))

	assert.Contains(t, env.stdout.String(), "creativecommons/cc-legal-tools-data")
	assert.Equal(t, []string{"main"}, env.officialBranches())
}

func TestBranchesListCmd(t *testing.T) {
	env := newTestEnv()
	env.store.branches = []domain.TranslationBranch{
		{ID: 1, BranchName: "de_x", LanguageCode: "de", Version: "4.0"},
		{ID: 2, BranchName: "nl_y", LanguageCode: "nl", Version: "4.0", Complete: true},
	}

	require.NoError(t, env.run("branches", "list"))

	out := env.stdout.String()
	assert.Contains(t, out, "BRANCH")
	assert.Contains(t, out, "de_x")
	assert.Contains(t, out, "nl_y")
	assert.True(t, env.store.closeCalled)
}

func TestBranchesAddCmd(t *testing.T) {
	env := newTestEnv()

	require.NoError(t, env.run(
		"branches", "add", "zh_hans_x",
		"--language", "zh_CN",
		"--version", "4.0",
		"--complete",
		"--last-transifex-update", "2024-02-03T04:05:06Z",
	))

	require.Len(t, env.store.saved, 1)
	saved := env.store.saved[0]
	assert.Equal(t, "zh_hans_x", saved.BranchName)
	assert.Equal(t, "zh-hans", saved.LanguageCode)
	assert.Equal(t, "4.0", saved.Version)
	assert.True(t, saved.Complete)
	require.NotNil(t, saved.LastTransifexUpdate)
	assert.True(t, saved.LastTransifexUpdate.Equal(time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)))
	assert.Contains(t, env.stdout.String(), "zh_hans_x")
}

func TestBranchesAddCmd_InvalidTime(t *testing.T) {
	env := newTestEnv()

	err := env.run("branches", "add", "x", "--language", "de", "--last-transifex-update", "yesterday")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "last-transifex-update")
	assert.Empty(t, env.store.saved)
}

func TestServeCmd_StopsOnContextCancel(t *testing.T) {
	env := newTestEnv()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := NewRootCmdWithDeps(env.deps)
	cmd.SetArgs([]string{"serve", "--addr", ":9090"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	select {
	case <-env.server.listening:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}

	env.server.mu.Lock()
	assert.Equal(t, ":9090", env.server.addr)
	env.server.mu.Unlock()
	assert.True(t, env.repo.closeCalled)
	assert.True(t, env.store.closeCalled)
}

func TestServeCmd_ListenError(t *testing.T) {
	env := newTestEnv()
	env.server.listenErr = errors.New("address already in use")

	err := env.run("serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "server error")
	assert.Equal(t, ":8080", env.server.addr)
}

func TestServeCmd_ReloadsSettings(t *testing.T) {
	env := newTestEnv()
	env.cfg.SettingsFile = "/etc/legal-tools/settings.yaml"

	watcher := &mockWatcher{
		revisions: []domain.LanguageSettings{
			{DefaultLanguage: ""}, // rejected by the normalizer
			{DefaultLanguage: "nl", OfficialGitBranch: "develop"},
		},
		closeCalled: make(chan struct{}),
	}
	var watchedPath string
	env.deps.WatcherFactory = func(path string, _ Logger) (SettingsWatcher, error) {
		watchedPath = path
		return watcher, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := NewRootCmdWithDeps(env.deps)
	cmd.SetArgs([]string{"serve"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	select {
	case <-env.server.listening:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}
	assert.Eventually(t, func() bool { return env.server.summarizerCount() == 1 }, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
	select {
	case <-watcher.closeCalled:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher was not closed")
	}

	assert.Equal(t, "/etc/legal-tools/settings.yaml", watchedPath)
	assert.Equal(t, 1, env.server.normalizerCount())
	assert.Equal(t, 1, env.server.summarizerCount())
	assert.Equal(t, []string{"main", "develop"}, env.officialBranches())
}

func TestServeCmd_WatcherUnavailable(t *testing.T) {
	env := newTestEnv()
	env.cfg.SettingsFile = "/etc/legal-tools/settings.yaml"
	env.deps.WatcherFactory = func(_ string, _ Logger) (SettingsWatcher, error) {
		return nil, errors.New("too many open files")
	}
	env.server.listenErr = errors.New("stop here")

	err := env.run("serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "stop here")
}

func TestWriteWarningf(t *testing.T) {
	var buf bytes.Buffer
	writeWarningf(&buf, "warning: %s\n", "careful")
	assert.Equal(t, "warning: careful\n", buf.String())
}
