package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/pagescrape/internal/model"
)

// FileName is the name of the database file inside the data directory.
const FileName = "pagescrape.db"

// ErrDatabaseNotFound is returned by Open when CreateIfNotExists is false
// and no database file exists.
var ErrDatabaseNotFound = errors.New("database not found")

// ScrapeDB stores fetched page metadata and complete scrape results so that
// runs against the same URL can be compared later.
type ScrapeDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures ScrapeDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a ScrapeDB in dbDir.
func Open(dbDir string, opts Options) (*ScrapeDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	dsn := dbPath + "?mode=rwc"
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	} else {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &ScrapeDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Path returns the database file path.
func (sdb *ScrapeDB) Path() string {
	return sdb.dbPath
}

// Close closes the database connection.
func (sdb *ScrapeDB) Close() error {
	return sdb.db.Close()
}

func (sdb *ScrapeDB) createTables() error {
	schema := `
	-- Latest fetch metadata per URL
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL UNIQUE,
		final_url TEXT,
		status_code INTEGER,
		content_type TEXT,
		charset TEXT,
		size INTEGER,
		raw_hash TEXT,
		fetched_at TEXT NOT NULL
	);

	-- Every stored run, as JSON
	CREATE TABLE IF NOT EXISTS scrape_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		scraped_at TEXT NOT NULL,
		result_json TEXT NOT NULL,
		counts TEXT,
		failed INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_results_url ON scrape_results(url);
	CREATE INDEX IF NOT EXISTS idx_results_scraped_at ON scrape_results(scraped_at);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// PageRecord is the stored metadata of the most recent fetch of a URL.
type PageRecord struct {
	ID          int64
	URL         string
	FinalURL    string
	StatusCode  int
	ContentType string
	Charset     string
	Size        int64
	RawHash     string
	FetchedAt   time.Time
}

// SaveScrapeResult stores r and, when it has a page, upserts the page
// metadata. It returns the ID of the stored run.
func (sdb *ScrapeDB) SaveScrapeResult(ctx context.Context, r *model.ScrapeResult) (int64, error) {
	resultJSON, err := json.Marshal(r)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize result: %w", err)
	}
	countsJSON, err := json.Marshal(uniqueCounts(r))
	if err != nil {
		return 0, fmt.Errorf("failed to serialize counts: %w", err)
	}

	tx, err := sdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	scrapedAt := formatTimestamp(r.ScrapedAt)

	if r.Page != nil {
		_, err = tx.ExecContext(ctx, `
		INSERT INTO pages (url, final_url, status_code, content_type, charset, size, raw_hash, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			final_url = excluded.final_url,
			status_code = excluded.status_code,
			content_type = excluded.content_type,
			charset = excluded.charset,
			size = excluded.size,
			raw_hash = excluded.raw_hash,
			fetched_at = excluded.fetched_at
		`,
			r.Target,
			r.Page.FinalURL,
			r.Page.StatusCode,
			r.Page.ContentType,
			r.Page.Charset,
			r.Page.Size,
			r.Page.Hash,
			scrapedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to save page: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, `
	INSERT INTO scrape_results (url, scraped_at, result_json, counts, failed)
	VALUES (?, ?, ?, ?, ?)
	`,
		r.Target,
		scrapedAt,
		string(resultJSON),
		string(countsJSON),
		r.Failed(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save scrape result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get result id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return id, nil
}

// GetPage returns the stored page metadata for url, or nil if there is none.
func (sdb *ScrapeDB) GetPage(ctx context.Context, url string) (*PageRecord, error) {
	query := `
	SELECT id, url, final_url, status_code, content_type, charset, size, raw_hash, fetched_at
	FROM pages
	WHERE url = ?
	`

	var rec PageRecord
	var fetchedAt string
	err := sdb.db.QueryRowContext(ctx, query, url).Scan(
		&rec.ID,
		&rec.URL,
		&rec.FinalURL,
		&rec.StatusCode,
		&rec.ContentType,
		&rec.Charset,
		&rec.Size,
		&rec.RawHash,
		&fetchedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}

	rec.FetchedAt = parseTimestamp(fetchedAt)
	return &rec, nil
}

// ListScrapedURLs returns every URL with at least one stored run, sorted.
func (sdb *ScrapeDB) ListScrapedURLs(ctx context.Context) ([]string, error) {
	rows, err := sdb.db.QueryContext(ctx, `
	SELECT DISTINCT url FROM scrape_results
	ORDER BY url
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list urls: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan url: %w", err)
		}
		urls = append(urls, url)
	}
	return urls, rows.Err()
}

// ResultMetadata summarizes a stored run without loading the full result.
type ResultMetadata struct {
	// ID is the run's database ID.
	ID int64

	// URL is the scraped target.
	URL string

	// ScrapedAt is when the run started.
	ScrapedAt time.Time

	// Counts holds the number of unique items per category name.
	Counts map[string]int

	// Failed reports whether the run ended with an error.
	Failed bool
}

// GetHistoryWithMetadata returns the stored runs for url, newest first.
func (sdb *ScrapeDB) GetHistoryWithMetadata(ctx context.Context, url string) ([]ResultMetadata, error) {
	rows, err := sdb.db.QueryContext(ctx, `
	SELECT id, url, scraped_at, counts, failed
	FROM scrape_results
	WHERE url = ?
	ORDER BY scraped_at DESC, id DESC
	`, url)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var results []ResultMetadata
	for rows.Next() {
		var meta ResultMetadata
		var scrapedAt string
		var countsJSON sql.NullString

		if err := rows.Scan(&meta.ID, &meta.URL, &scrapedAt, &countsJSON, &meta.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		meta.ScrapedAt = parseTimestamp(scrapedAt)

		meta.Counts = make(map[string]int)
		if countsJSON.Valid && countsJSON.String != "" {
			if err := json.Unmarshal([]byte(countsJSON.String), &meta.Counts); err != nil {
				meta.Counts = make(map[string]int)
			}
		}
		results = append(results, meta)
	}
	return results, rows.Err()
}

// GetLatestResults returns up to n stored runs for url, newest first.
// Rows whose JSON cannot be decoded are skipped.
func (sdb *ScrapeDB) GetLatestResults(ctx context.Context, url string, n int) ([]*model.ScrapeResult, error) {
	if n <= 0 {
		return []*model.ScrapeResult{}, nil
	}

	rows, err := sdb.db.QueryContext(ctx, `
	SELECT result_json FROM scrape_results
	WHERE url = ?
	ORDER BY scraped_at DESC, id DESC
	LIMIT ?
	`, url, n)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest results: %w", err)
	}
	defer rows.Close()

	results := make([]*model.ScrapeResult, 0, n)
	for rows.Next() {
		var resultJSON string
		if err := rows.Scan(&resultJSON); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		r, err := decodeResult(resultJSON)
		if err != nil {
			continue
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// GetResultByID returns the stored run with the given ID, or nil if
// there is none.
func (sdb *ScrapeDB) GetResultByID(ctx context.Context, id int64) (*model.ScrapeResult, error) {
	var resultJSON string
	err := sdb.db.QueryRowContext(ctx, `
	SELECT result_json FROM scrape_results
	WHERE id = ?
	`, id).Scan(&resultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	r, err := decodeResult(resultJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to parse result: %w", err)
	}
	return r, nil
}

func decodeResult(s string) (*model.ScrapeResult, error) {
	var r model.ScrapeResult
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func uniqueCounts(r *model.ScrapeResult) map[string]int {
	counts := make(map[string]int, len(model.AllCategories))
	for _, c := range model.AllCategories {
		counts[c.String()] = r.Set(c).Len()
	}
	return counts
}

// formatTimestamp stores times in UTC with nanoseconds so that runs made
// within the same second still sort correctly.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(storedTimeFormat)
}

// storedTimeFormat is fixed-width so that lexical order matches time order.
const storedTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// timestampFormats contains the timestamp formats the database may hold.
var timestampFormats = []string{
	storedTimeFormat,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp tries each known format and returns the zero time if none match.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
