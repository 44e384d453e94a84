package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// OpenMySQL connects to MySQL and verifies the connection.
func OpenMySQL(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// A handful of interactive clients; a small pool is plenty.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// MySQLStore persists snapshots in a key/value table with a version counter
// per key.  MySQL has no push channel, so Watch polls the version column;
// this is the durable fallback path and is expected to lag the Redis pub/sub
// path by up to one poll interval.
type MySQLStore struct {
	db           *sql.DB
	origin       string
	pollInterval time.Duration
}

// NewMySQLStore binds to an open database handle and ensures the backing
// table exists.  origin identifies the owning client in recorded writes.
func NewMySQLStore(db *sql.DB, origin string) (*MySQLStore, error) {
	const schema = `CREATE TABLE IF NOT EXISTS store_entries (
		k          VARCHAR(64)  NOT NULL PRIMARY KEY,
		v          MEDIUMBLOB   NOT NULL,
		version    BIGINT       NOT NULL DEFAULT 1,
		origin     VARCHAR(64)  NOT NULL DEFAULT '',
		updated_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("%w: ensure schema: %v", ErrUnavailable, err)
	}
	return &MySQLStore{db: db, origin: origin, pollInterval: 2 * time.Second}, nil
}

// Load implements KeyedStore.
func (s *MySQLStore) Load(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT v FROM store_entries WHERE k = ?`
	var v []byte
	err := s.db.QueryRowContext(ctx, q, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: select %s: %v", ErrUnavailable, key, err)
	}
	return v, nil
}

// Save implements KeyedStore.  The upsert bumps the version counter, which
// is what Watch pollers key their change detection off.
func (s *MySQLStore) Save(ctx context.Context, key string, value []byte) error {
	const q = `INSERT INTO store_entries (k, v, origin) VALUES (?, ?, ?)
	           ON DUPLICATE KEY UPDATE v = VALUES(v), origin = VALUES(origin), version = version + 1`
	if _, err := s.db.ExecContext(ctx, q, key, value, s.origin); err != nil {
		return fmt.Errorf("%w: upsert %s: %v", ErrUnavailable, key, err)
	}
	return nil
}

// Watch implements KeyedStore by polling version counters.  The first poll
// primes the baseline without emitting, so only writes after Watch was
// called produce signals.
func (s *MySQLStore) Watch(ctx context.Context) (<-chan Change, error) {
	seen := make(map[string]int64)
	origins := make(map[string]string)
	if err := s.poll(ctx, seen, origins, nil); err != nil {
		return nil, err
	}
	out := make(chan Change, 16)
	go func() {
		defer close(out)
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.poll(ctx, seen, origins, out); err != nil {
					log.Printf("store: version poll failed: %v", err)
				}
			}
		}
	}()
	return out, nil
}

// poll reads all version counters and emits a Change for every key whose
// version moved since the previous poll.  A nil out channel primes state
// without emitting.
func (s *MySQLStore) poll(ctx context.Context, seen map[string]int64, origins map[string]string, out chan<- Change) error {
	const q = `SELECT k, version, origin FROM store_entries`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return fmt.Errorf("%w: poll versions: %v", ErrUnavailable, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			k       string
			version int64
			origin  string
		)
		if err := rows.Scan(&k, &version, &origin); err != nil {
			return fmt.Errorf("%w: scan version row: %v", ErrUnavailable, err)
		}
		prev, known := seen[k]
		seen[k] = version
		origins[k] = origin
		if out == nil || (known && prev == version) {
			continue
		}
		select {
		case out <- Change{Key: k, Origin: origin}:
		case <-ctx.Done():
			return nil
		}
	}
	return rows.Err()
}

// Close implements KeyedStore.
func (s *MySQLStore) Close() error { return s.db.Close() }
