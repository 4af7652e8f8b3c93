// Package store provides adapters for translation branch storage backends.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	// Registers the "postgres" driver.
	_ "github.com/lib/pq"
	// Registers the "sqlite" driver.
	_ "modernc.org/sqlite"

	"github.com/MyCarrier-DevOps/legal-tools/internal/domain"
)

// Dialect identifies the SQL flavour of the backing database.
type Dialect string

// Supported dialects.
const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DefaultDSN is used when no database URL is configured.
const DefaultDSN = "legal-tools.db"

var schemas = map[Dialect]string{
	DialectSQLite: `CREATE TABLE IF NOT EXISTS translation_branches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		branch_name TEXT NOT NULL UNIQUE,
		language_code TEXT NOT NULL,
		version TEXT NOT NULL DEFAULT '',
		last_transifex_update INTEGER,
		complete INTEGER NOT NULL DEFAULT 0
	)`,
	DialectPostgres: `CREATE TABLE IF NOT EXISTS translation_branches (
		id BIGSERIAL PRIMARY KEY,
		branch_name TEXT NOT NULL UNIQUE,
		language_code TEXT NOT NULL,
		version TEXT NOT NULL DEFAULT '',
		last_transifex_update BIGINT,
		complete BOOLEAN NOT NULL DEFAULT FALSE
	)`,
}

const branchColumns = `id, branch_name, language_code, version, last_transifex_update, complete`

// Queries use ? placeholders and are rebound for the dialect.
const (
	getBranchByIDQuery   = `SELECT ` + branchColumns + ` FROM translation_branches WHERE id = ?`
	getBranchByNameQuery = `SELECT ` + branchColumns + ` FROM translation_branches WHERE branch_name = ?`
	listBranchesQuery    = `SELECT ` + branchColumns + ` FROM translation_branches ORDER BY branch_name`
	saveBranchQuery      = `INSERT INTO translation_branches (
			branch_name, language_code, version, last_transifex_update, complete
		) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (branch_name) DO UPDATE SET
			language_code = excluded.language_code,
			version = excluded.version,
			last_transifex_update = excluded.last_transifex_update,
			complete = excluded.complete
		RETURNING id`
)

// branchRow is a translation_branches row as scanned by sqlx.
type branchRow struct {
	ID                  int64         `db:"id"`
	BranchName          string        `db:"branch_name"`
	LanguageCode        string        `db:"language_code"`
	Version             string        `db:"version"`
	LastTransifexUpdate sql.NullInt64 `db:"last_transifex_update"`
	Complete            bool          `db:"complete"`
}

func (r branchRow) toDomain() domain.TranslationBranch {
	branch := domain.TranslationBranch{
		ID:           r.ID,
		BranchName:   r.BranchName,
		LanguageCode: r.LanguageCode,
		Version:      r.Version,
		Complete:     r.Complete,
	}
	if r.LastTransifexUpdate.Valid {
		t := fromMillis(r.LastTransifexUpdate.Int64)
		branch.LastTransifexUpdate = &t
	}
	return branch
}

// SQLStore implements domain.BranchStore on sqlx.
type SQLStore struct {
	db      *sqlx.DB
	dialect Dialect
}

func init() {
	// sqlx knows the cgo driver as sqlite3; modernc registers as sqlite.
	sqlx.BindDriver(string(DialectSQLite), sqlx.QUESTION)
}

// DialectForDSN picks the dialect for a database URL. postgres:// and
// postgresql:// URLs use Postgres; anything else is a SQLite path.
func DialectForDSN(dsn string) Dialect {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

// Open connects to the database behind dsn and applies the schema.
func Open(ctx context.Context, dsn string) (*SQLStore, error) {
	if strings.TrimSpace(dsn) == "" {
		dsn = DefaultDSN
	}

	dialect := DialectForDSN(dsn)
	driverDSN := dsn
	if dialect == DialectSQLite && !strings.Contains(dsn, "?") {
		driverDSN = dsn + "?_pragma=busy_timeout(5000)"
	}

	db, err := sqlx.Open(string(dialect), driverDSN)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}
	if dialect == DialectPostgres {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)
	} else {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s database: %w", dialect, err)
	}

	s := &SQLStore{db: db, dialect: dialect}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the translation_branches table if it does not exist.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemas[s.dialect]); err != nil {
		return fmt.Errorf("migrate translation_branches: %w", err)
	}
	return nil
}

// Get returns the branch with the given ID.
func (s *SQLStore) Get(ctx context.Context, id int64) (*domain.TranslationBranch, error) {
	branch, err := s.getBranch(ctx, getBranchByIDQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get translation branch %d: %w", id, err)
	}
	return branch, nil
}

// GetByName returns the branch with the given name.
func (s *SQLStore) GetByName(ctx context.Context, name string) (*domain.TranslationBranch, error) {
	branch, err := s.getBranch(ctx, getBranchByNameQuery, name)
	if err != nil {
		return nil, fmt.Errorf("get translation branch %q: %w", name, err)
	}
	return branch, nil
}

func (s *SQLStore) getBranch(ctx context.Context, query string, arg any) (*domain.TranslationBranch, error) {
	var row branchRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(query), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBranchNotFound
	}
	if err != nil {
		return nil, err
	}
	branch := row.toDomain()
	return &branch, nil
}

// List returns every branch ordered by name.
func (s *SQLStore) List(ctx context.Context) ([]domain.TranslationBranch, error) {
	var rows []branchRow
	if err := s.db.SelectContext(ctx, &rows, listBranchesQuery); err != nil {
		return nil, fmt.Errorf("list translation branches: %w", err)
	}

	branches := make([]domain.TranslationBranch, 0, len(rows))
	for _, row := range rows {
		branches = append(branches, row.toDomain())
	}
	return branches, nil
}

// Save inserts branch or updates the record with the same branch name, then
// writes the stored ID back to branch.
func (s *SQLStore) Save(ctx context.Context, branch *domain.TranslationBranch) error {
	if branch == nil {
		return errors.New("translation branch is required")
	}
	name := strings.TrimSpace(branch.BranchName)
	if name == "" {
		return errors.New("branch name is required")
	}
	if strings.TrimSpace(branch.LanguageCode) == "" {
		return errors.New("language code is required")
	}

	var lastUpdate sql.NullInt64
	if branch.LastTransifexUpdate != nil {
		lastUpdate = sql.NullInt64{Int64: toMillis(*branch.LastTransifexUpdate), Valid: true}
	}

	var id int64
	err := s.db.GetContext(ctx, &id, s.db.Rebind(saveBranchQuery),
		name, branch.LanguageCode, branch.Version, lastUpdate, branch.Complete,
	)
	if err != nil {
		return fmt.Errorf("save translation branch %q: %w", name, err)
	}

	branch.ID = id
	branch.BranchName = name
	return nil
}

// Close closes the database handle.
func (s *SQLStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

var _ domain.BranchStore = (*SQLStore)(nil)
