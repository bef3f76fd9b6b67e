package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"trafo-matcher/internal/design/model"
)

// Драйверы database/sql.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store: плоское хранилище записей по design_number.
type Store interface {
	All(ctx context.Context) ([]model.Record, error)
	Get(ctx context.Context, designNumber string) (model.Record, error)
	Upsert(ctx context.Context, rec model.Record) (created bool, err error)
	Delete(ctx context.Context, designNumber string) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
	Close() error
}

// SQLStore: Store поверх sqlite (по умолчанию) или postgres.
// Сравнимые поля лежат в payload (JSON записи), rating вынесен в колонку.
type SQLStore struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// Open подключается и создаёт схему.
func Open(driver, dsn string) (*SQLStore, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unknown db driver %q", driver)
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("database dsn is empty")
	}
	if driver == DriverSQLite {
		if err := ensureDir(dsn); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// одно соединение: sqlite пишет последовательно, а ":memory:" живёт в рамках соединения
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}
	s, err := NewSQLStore(db, driver)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// ensureDir создаёт каталог файла sqlite; ":memory:" и "file:" DSN не трогает.
func ensureDir(dsn string) error {
	if dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	dir := filepath.Dir(dsn)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %s: %w", dir, err)
	}
	return nil
}

// NewSQLStore переиспользует готовый *sql.DB.
func NewSQLStore(db *sql.DB, driver string) (*SQLStore, error) {
	if db == nil {
		return nil, errors.New("db is required")
	}
	s := &SQLStore{db: db, driver: driver, now: time.Now}
	if err := s.EnsureSchema(context.Background()); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// EnsureSchema: таблица designs и индекс по мощности.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS designs (
  design_number TEXT PRIMARY KEY,
  file_path TEXT NOT NULL,
  rating_kva DOUBLE PRECISION NOT NULL,
  payload TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_designs_rating ON designs(rating_kva)`,
	}
	for _, q := range stmts {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

const selectCols = `design_number, file_path, payload, created_at, updated_at`

func (s *SQLStore) All(ctx context.Context) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectCols+` FROM designs ORDER BY design_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLStore) Get(ctx context.Context, designNumber string) (model.Record, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+selectCols+` FROM designs WHERE design_number = ?`), designNumber)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Record{}, fmt.Errorf("%s: %w", designNumber, model.ErrNotFound)
	}
	return rec, err
}

// Upsert: вставка или обновление по design_number; created_at сохраняется.
func (s *SQLStore) Upsert(ctx context.Context, rec model.Record) (bool, error) {
	if err := rec.Validate(); err != nil {
		return false, err
	}
	rating, _ := rec.Rating()
	rec.CreatedAt, rec.UpdatedAt = time.Time{}, time.Time{}
	payload, err := json.Marshal(rec)
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", rec.DesignNumber, err)
	}
	now := s.now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var createdAt string
	err = tx.QueryRowContext(ctx, s.rebind(`SELECT created_at FROM designs WHERE design_number = ?`), rec.DesignNumber).Scan(&createdAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx,
			s.rebind(`INSERT INTO designs (design_number, file_path, rating_kva, payload, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`),
			rec.DesignNumber, rec.FilePath, rating, string(payload), now, now)
		if err != nil {
			return false, err
		}
		return true, tx.Commit()
	case err != nil:
		return false, err
	}

	_, err = tx.ExecContext(ctx,
		s.rebind(`UPDATE designs SET file_path = ?, rating_kva = ?, payload = ?, updated_at = ? WHERE design_number = ?`),
		rec.FilePath, rating, string(payload), now, rec.DesignNumber)
	if err != nil {
		return false, err
	}
	return false, tx.Commit()
}

func (s *SQLStore) Delete(ctx context.Context, designNumber string) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM designs WHERE design_number = ?`), designNumber)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *SQLStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM designs`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM designs`).Scan(&n)
	return n, err
}

func (s *SQLStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLStore) Close() error { return s.db.Close() }

// rebind: "?" → "$1, $2, ..." для postgres.
func (s *SQLStore) rebind(q string) string {
	if s.driver != DriverPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (model.Record, error) {
	var dn, fp, payload, created, updated string
	if err := sc.Scan(&dn, &fp, &payload, &created, &updated); err != nil {
		return model.Record{}, err
	}
	var rec model.Record
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return model.Record{}, fmt.Errorf("decode %s: %w", dn, err)
	}
	rec.DesignNumber = dn
	rec.FilePath = fp
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return rec, nil
}
