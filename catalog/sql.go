package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/syssam/nodegen/nodetree"
)

// Dialect names.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// DefaultTable is the table holding catalog assets.
const DefaultTable = "assets"

// validIdentifierRe validates SQL identifiers (alphanumeric, underscores, dots for schema.name)
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)

func isValidIdentifier(s string) bool {
	return s != "" && len(s) <= 128 && validIdentifierRe.MatchString(s)
}

// dialectOf maps a driver name to its dialect. Wrapped or versioned
// driver names such as "sqlite3" resolve by prefix.
func dialectOf(driver string) (string, error) {
	for _, name := range []string{MySQL, SQLite, Postgres} {
		if strings.HasPrefix(driver, name) {
			return name, nil
		}
	}
	return "", fmt.Errorf("catalog: unsupported sql dialect %q", driver)
}

// SQL is a Catalog stored in a database table of (kind, name) rows.
type SQL struct {
	db      *sql.DB
	dialect string
	table   string
	logger  *slog.Logger
}

// SQLOption configures a SQL catalog.
type SQLOption func(*SQL) error

// WithTable sets the asset table name.
func WithTable(name string) SQLOption {
	return func(s *SQL) error {
		if !isValidIdentifier(name) {
			return fmt.Errorf("catalog: invalid table name %q", name)
		}
		s.table = name
		return nil
	}
}

// WithLogger sets the logger queries are traced to at debug level.
func WithLogger(l *slog.Logger) SQLOption {
	return func(s *SQL) error {
		if l == nil {
			return errors.New("catalog: logger cannot be nil")
		}
		s.logger = l
		return nil
	}
}

// NewSQL returns a catalog over db. driver is the database/sql driver
// name and selects the dialect.
func NewSQL(db *sql.DB, driver string, opts ...SQLOption) (*SQL, error) {
	d, err := dialectOf(driver)
	if err != nil {
		return nil, err
	}
	s := &SQL{db: db, dialect: d, table: DefaultTable, logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// OpenSQL opens the database and returns a catalog over it. The driver
// must be registered by the caller.
func OpenSQL(driver, dsn string, opts ...SQLOption) (*SQL, error) {
	if _, err := dialectOf(driver); err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", driver, err)
	}
	s, err := NewSQL(db, driver, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	if s.dialect == SQLite {
		// In-memory databases live per connection.
		db.SetMaxOpenConns(1)
	}
	return s, nil
}

// Dialect returns the SQL dialect of the catalog.
func (s *SQL) Dialect() string { return s.dialect }

// Close closes the underlying database.
func (s *SQL) Close() error { return s.db.Close() }

// placeholder returns the i-th (1-based) bind parameter.
func (s *SQL) placeholder(i int) string {
	if s.dialect == Postgres {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}

func (s *SQL) trace(ctx context.Context, query string, start time.Time, err error) {
	s.logger.DebugContext(ctx, "catalog: query", "query", query, "duration", time.Since(start), "error", err)
}

// Migrate creates the asset table when missing.
func (s *SQL) Migrate(ctx context.Context) error {
	query := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (kind VARCHAR(64) NOT NULL, name VARCHAR(255) NOT NULL, PRIMARY KEY (kind, name))",
		s.table,
	)
	start := time.Now()
	_, err := s.db.ExecContext(ctx, query)
	s.trace(ctx, query, start, err)
	if err != nil {
		return fmt.Errorf("catalog: migrate: %w", err)
	}
	return nil
}

// Add registers an asset. Adding an existing asset is a no-op.
func (s *SQL) Add(ctx context.Context, kind nodetree.AssetKind, name string) error {
	values := fmt.Sprintf("(kind, name) VALUES (%s, %s)", s.placeholder(1), s.placeholder(2))
	var query string
	switch s.dialect {
	case MySQL:
		query = fmt.Sprintf("INSERT IGNORE INTO %s %s", s.table, values)
	case SQLite:
		query = fmt.Sprintf("INSERT OR IGNORE INTO %s %s", s.table, values)
	default:
		query = fmt.Sprintf("INSERT INTO %s %s ON CONFLICT DO NOTHING", s.table, values)
	}
	start := time.Now()
	_, err := s.db.ExecContext(ctx, query, string(kind), name)
	s.trace(ctx, query, start, err)
	if err != nil {
		return fmt.Errorf("catalog: add %s %q: %w", kind, name, err)
	}
	return nil
}

// Exists implements Catalog.
func (s *SQL) Exists(ctx context.Context, kind nodetree.AssetKind, name string) (bool, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE kind = %s AND name = %s", s.table, s.placeholder(1), s.placeholder(2))
	start := time.Now()
	var n int
	err := s.db.QueryRowContext(ctx, query, string(kind), name).Scan(&n)
	s.trace(ctx, query, start, err)
	if err != nil {
		return false, fmt.Errorf("catalog: lookup %s %q: %w", kind, name, err)
	}
	return n > 0, nil
}

// Names returns the sorted names of the assets of a kind.
func (s *SQL) Names(ctx context.Context, kind nodetree.AssetKind) (names []string, rerr error) {
	query := fmt.Sprintf("SELECT name FROM %s WHERE kind = %s ORDER BY name", s.table, s.placeholder(1))
	start := time.Now()
	defer func() { s.trace(ctx, query, start, rerr) }()
	rows, err := s.db.QueryContext(ctx, query, string(kind))
	if err != nil {
		return nil, fmt.Errorf("catalog: list %s: %w", kind, err)
	}
	defer func() { rerr = errors.Join(rerr, rows.Close()) }()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("catalog: list %s: %w", kind, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: list %s: %w", kind, err)
	}
	return names, nil
}

// Import copies every asset of m into the catalog.
func (s *SQL) Import(ctx context.Context, m *Memory) error {
	for _, kind := range Kinds {
		for _, name := range m.Names(kind) {
			if err := s.Add(ctx, kind, name); err != nil {
				return err
			}
		}
	}
	return nil
}
