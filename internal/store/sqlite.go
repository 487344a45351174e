// ABOUTME: SQLite implementation of the Provider interface using modernc.org/sqlite
// ABOUTME: One table per store, created lazily by Init and dropped by DeleteStore

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	_ "modernc.org/sqlite"
)

// auxSchema is the schema name the database override is attached under.
const auxSchema = "aux"

// Options configures a SQLiteProvider. Missing required fields are not
// rejected here; every operation validates them so that misconfiguration
// surfaces as a distinct error on use.
type Options struct {
	// ConnectionString is the SQLite DSN or file path of the main database.
	ConnectionString string

	// Database optionally names a separate database file. When set, each
	// connection attaches it and the store table lives there instead of in
	// the main database.
	Database string

	// StoreName is the backing table name. Operator-supplied and trusted;
	// it is interpolated into statement text with identifier quoting.
	StoreName string
}

// SQLiteProvider implements Provider on a single SQLite table.
//
// Each operation opens a fresh connection, performs its statements, and
// closes the connection on every exit path. The only state shared across
// calls is an advisory flag recording whether Init has seen the table.
type SQLiteProvider struct {
	connString string
	database   string
	storeName  string
	logger     *slog.Logger

	mu         sync.Mutex
	tableKnown bool
}

// NewSQLiteProvider creates a provider for the given options. No I/O is
// performed; call Init before reading or writing.
func NewSQLiteProvider(opts Options) *SQLiteProvider {
	return &SQLiteProvider{
		connString: opts.ConnectionString,
		database:   opts.Database,
		storeName:  opts.StoreName,
		logger:     slog.Default().With("component", "store", "store", opts.StoreName),
	}
}

// checkConfig validates the provider configuration, connection string first.
func (s *SQLiteProvider) checkConfig() error {
	if strings.TrimSpace(s.connString) == "" {
		return ErrNoConnection
	}
	if strings.TrimSpace(s.storeName) == "" {
		return ErrNoStoreName
	}
	return nil
}

// checkKey validates a per-call key argument before the configuration, so a
// caller can tell a bad argument from a bad setup.
func (s *SQLiteProvider) checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrBlankKey
	}
	return s.checkConfig()
}

// open returns a fresh connection for one operation. When a database
// override is configured it is attached before any statement runs.
func (s *SQLiteProvider) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.connString)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection per operation; ATTACH is connection-scoped.
	db.SetMaxOpenConns(1)
	if s.database != "" {
		attach := fmt.Sprintf("ATTACH DATABASE ? AS %s", quoteIdent(auxSchema))
		if _, err := db.ExecContext(ctx, attach, s.database); err != nil {
			db.Close()
			return nil, fmt.Errorf("attaching database %q: %w", s.database, err)
		}
	}
	return db, nil
}

// quoteIdent quotes an identifier for interpolation into statement text.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// table returns the quoted, schema-qualified table reference.
func (s *SQLiteProvider) table() string {
	if s.database != "" {
		return quoteIdent(auxSchema) + "." + quoteIdent(s.storeName)
	}
	return quoteIdent(s.storeName)
}

// masterTable returns the sqlite_master catalog holding the store table.
func (s *SQLiteProvider) masterTable() string {
	if s.database != "" {
		return quoteIdent(auxSchema) + ".sqlite_master"
	}
	return "sqlite_master"
}

func (s *SQLiteProvider) known() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tableKnown
}

func (s *SQLiteProvider) setKnown(v bool) {
	s.mu.Lock()
	s.tableKnown = v
	s.mu.Unlock()
}

// probe reports whether the store table is present in the catalog.
func (s *SQLiteProvider) probe(ctx context.Context, db *sql.DB) (bool, error) {
	query := fmt.Sprintf(
		`SELECT COUNT(*) FROM %s WHERE type = 'table' AND name = ?`,
		s.masterTable(),
	)

	var count int
	if err := db.QueryRowContext(ctx, query, s.storeName).Scan(&count); err != nil {
		return false, fmt.Errorf("probing for table %q: %w", s.storeName, err)
	}
	return count > 0, nil
}

// StoreExists reports whether the backing table is present. It always
// re-probes the catalog and never consults or updates the cached flag.
func (s *SQLiteProvider) StoreExists(ctx context.Context) (bool, error) {
	if err := s.checkConfig(); err != nil {
		return false, err
	}

	db, err := s.open(ctx)
	if err != nil {
		return false, err
	}
	defer db.Close()

	return s.probe(ctx, db)
}

// createStore drops any previous table of the same name, creates a fresh one,
// and re-probes to confirm it is present. Destructive: only Init may call it,
// and only after confirming the table is absent.
func (s *SQLiteProvider) createStore(ctx context.Context, db *sql.DB) (bool, error) {
	drop := fmt.Sprintf(`DROP TABLE IF EXISTS %s`, s.table())
	if _, err := db.ExecContext(ctx, drop); err != nil {
		return false, fmt.Errorf("dropping table %q: %w", s.storeName, err)
	}

	create := fmt.Sprintf(`
		CREATE TABLE %s (
			"key"                VARCHAR(255) NOT NULL PRIMARY KEY,
			"cacheForTimePeriod" VARCHAR(50)  NOT NULL DEFAULT '{0:00:00:00}',
			"contents"           TEXT         NOT NULL,
			"contentType"        VARCHAR(255) NOT NULL,
			"longevity"          INTEGER      NOT NULL DEFAULT 0
		)
	`, s.table())
	if _, err := db.ExecContext(ctx, create); err != nil {
		return false, fmt.Errorf("creating table %q: %w", s.storeName, err)
	}

	return s.probe(ctx, db)
}

// Init ensures the backing table exists. Present means no-op; absent means
// create. A creation that does not yield a detectable table is reported as
// ErrBootstrap and the provider must not be used.
func (s *SQLiteProvider) Init(ctx context.Context) error {
	if err := s.checkConfig(); err != nil {
		return err
	}
	if s.known() {
		return nil
	}

	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	exists, err := s.probe(ctx, db)
	if err != nil {
		return err
	}
	if exists {
		s.setKnown(true)
		return nil
	}

	created, err := s.createStore(ctx, db)
	if err != nil {
		return err
	}
	if !created {
		return fmt.Errorf("table %q not detectable after create: %w", s.storeName, ErrBootstrap)
	}

	s.setKnown(true)
	s.logger.Info("store initialized")
	return nil
}

// AddOrUpdate upserts the storable in a single statement: insert when the key
// is new, otherwise overwrite the non-key columns in place.
func (s *SQLiteProvider) AddOrUpdate(ctx context.Context, item *Storable) error {
	if err := s.checkKey(item.Key); err != nil {
		return err
	}
	if !item.Longevity.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownLongevity, item.Longevity.String())
	}

	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	query := fmt.Sprintf(`
		INSERT INTO %s ("key", "cacheForTimePeriod", "contents", "contentType", "longevity")
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT("key") DO UPDATE SET
			"cacheForTimePeriod" = excluded."cacheForTimePeriod",
			"contents"           = excluded."contents",
			"contentType"        = excluded."contentType",
			"longevity"          = excluded."longevity"
	`, s.table())

	_, err = db.ExecContext(ctx, query,
		item.Key,
		item.CachePeriod,
		item.Contents,
		item.ContentType,
		item.Longevity.String(),
	)
	if err != nil {
		return fmt.Errorf("upserting record %q: %w", item.Key, err)
	}

	s.logger.Debug("stored record", "key", item.Key, "longevity", item.Longevity)
	return nil
}

// Get fetches the record for key. Returns (nil, nil) when no record exists;
// a stored longevity name outside the known set is reported as
// ErrUnknownLongevity, not as a missing record.
func (s *SQLiteProvider) Get(ctx context.Context, key string) (*Storable, error) {
	if err := s.checkKey(key); err != nil {
		return nil, err
	}

	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	query := fmt.Sprintf(`
		SELECT "cacheForTimePeriod", "contents", "contentType", "longevity"
		FROM %s
		WHERE "key" = ?
	`, s.table())

	item := Storable{Key: key}
	var longevity string

	err = db.QueryRowContext(ctx, query, key).Scan(
		&item.CachePeriod,
		&item.Contents,
		&item.ContentType,
		&longevity,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying record %q: %w", key, err)
	}

	item.Longevity, err = ParseLongevity(longevity)
	if err != nil {
		return nil, fmt.Errorf("record %q: %w", key, err)
	}

	return &item, nil
}

// GetAll returns every record in the store, in the engine's natural scan
// order. A single corrupt row aborts the whole call so that any returned
// snapshot is fully well-formed.
func (s *SQLiteProvider) GetAll(ctx context.Context) ([]*Storable, error) {
	if err := s.checkConfig(); err != nil {
		return nil, err
	}

	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	query := fmt.Sprintf(`
		SELECT "key", "cacheForTimePeriod", "contents", "contentType", "longevity"
		FROM %s
	`, s.table())

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var items []*Storable
	for rows.Next() {
		var item Storable
		var longevity string

		if err := rows.Scan(
			&item.Key,
			&item.CachePeriod,
			&item.Contents,
			&item.ContentType,
			&longevity,
		); err != nil {
			return nil, fmt.Errorf("scanning record row: %w", err)
		}

		item.Longevity, err = ParseLongevity(longevity)
		if err != nil {
			return nil, fmt.Errorf("record %q: %w", item.Key, err)
		}

		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating record rows: %w", err)
	}

	return items, nil
}

// Delete removes at most one record. Deleting an absent key succeeds.
func (s *SQLiteProvider) Delete(ctx context.Context, key string) error {
	if err := s.checkKey(key); err != nil {
		return err
	}

	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	query := fmt.Sprintf(`DELETE FROM %s WHERE "key" = ?`, s.table())
	if _, err := db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("deleting record %q: %w", key, err)
	}

	s.logger.Debug("deleted record", "key", key)
	return nil
}

// DeleteStore drops the backing table and resets the cached existence flag,
// so the store requires Init before further use.
func (s *SQLiteProvider) DeleteStore(ctx context.Context) error {
	if err := s.checkConfig(); err != nil {
		return err
	}

	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	query := fmt.Sprintf(`DROP TABLE IF EXISTS %s`, s.table())
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("dropping table %q: %w", s.storeName, err)
	}

	s.setKnown(false)
	s.logger.Info("store dropped")
	return nil
}

// Ensure SQLiteProvider implements Provider.
var _ Provider = (*SQLiteProvider)(nil)
