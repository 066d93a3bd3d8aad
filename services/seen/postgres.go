package seen

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"auctionhunter/logger"
	pkgerr "auctionhunter/pkg/errors"
)

// PostgresStore is the durable Store backed by PostgreSQL.
type PostgresStore struct {
	db  *sql.DB
	log *logger.Logger
}

// NewPostgresStore opens a connection, runs the schema migration and
// returns a ready-to-use store.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, pkgerr.NewStore("open postgres", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, pkgerr.NewStore("ping failed after retries", err)
	}

	s := &PostgresStore{db: db, log: logger.ForStore()}
	if err := s.migrate(); err != nil {
		return nil, pkgerr.NewStore("migrate", err)
	}
	return s, nil
}

func (s *PostgresStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS seen_listings (
			source        VARCHAR(50) NOT NULL,
			listing_id    VARCHAR(100) NOT NULL,
			first_seen_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (source, listing_id)
		);

		CREATE INDEX IF NOT EXISTS idx_seen_first_seen ON seen_listings(first_seen_at);
	`)
	return err
}

// HasSeen reports whether (source, listingID) was ever marked.
func (s *PostgresStore) HasSeen(ctx context.Context, source, listingID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM seen_listings WHERE source = $1 AND listing_id = $2)`,
		source, listingID,
	).Scan(&exists)
	if err != nil {
		return false, pkgerr.NewStore(fmt.Sprintf("has_seen %s:%s", source, listingID), err)
	}
	return exists, nil
}

// MarkSeen inserts the identity; conflicts are ignored so the first
// writer's timestamp survives and repeated marks are no-ops.
func (s *PostgresStore) MarkSeen(ctx context.Context, source, listingID string, firstSeen time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO seen_listings (source, listing_id, first_seen_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (source, listing_id) DO NOTHING
	`, source, listingID, firstSeen)
	if err != nil {
		return pkgerr.NewStore(fmt.Sprintf("mark_seen %s:%s", source, listingID), err)
	}
	return nil
}

// Close closes the database handle.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
