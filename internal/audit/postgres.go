package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/moderation-service/internal/domain"
)

// PostgresBackend is the durable tier of the decision log.
type PostgresBackend struct {
	pool      *pgxpool.Pool
	loadLimit int
}

// NewPostgresBackend builds the durable backend. loadLimit bounds how much
// history Load pulls into the session.
func NewPostgresBackend(pool *pgxpool.Pool, loadLimit int) *PostgresBackend {
	if loadLimit <= 0 {
		loadLimit = 400
	}
	return &PostgresBackend{pool: pool, loadLimit: loadLimit}
}

// Load reads the most recent entries in ascending creation order.
func (b *PostgresBackend) Load(ctx context.Context) ([]Entry, error) {
	if b.pool == nil {
		return nil, errors.New("decision log pool not configured")
	}

	const query = `
        SELECT id, queue_id, entity_type, entity_id, action, note, meta, created_by, created_at
        FROM decision_log
        ORDER BY created_at DESC, id DESC
        LIMIT $1`
	rows, err := b.pool.Query(ctx, query, b.loadLimit)
	if err != nil {
		return nil, fmt.Errorf("load decision log: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	// Newest-first from the query; session copy is kept in append order.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// Append inserts one decision-log row.
func (b *PostgresBackend) Append(ctx context.Context, entry Entry) error {
	if b.pool == nil {
		return errors.New("decision log pool not configured")
	}

	meta, err := marshalMeta(entry.Meta)
	if err != nil {
		return fmt.Errorf("encode decision meta: %w", err)
	}

	const query = `
        INSERT INTO decision_log (id, queue_id, entity_type, entity_id, action, note, meta, created_by, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err = b.pool.Exec(ctx, query,
		entry.ID,
		entry.QueueID,
		string(entry.EntityType),
		entry.EntityID,
		entry.Action,
		entry.Note,
		meta,
		entry.CreatedBy,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append decision log: %w", err)
	}
	return nil
}

func scanEntries(rows pgx.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var entry Entry
		var entityType string
		var meta []byte
		if err := rows.Scan(
			&entry.ID,
			&entry.QueueID,
			&entityType,
			&entry.EntityID,
			&entry.Action,
			&entry.Note,
			&meta,
			&entry.CreatedBy,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan decision log row: %w", err)
		}
		entry.EntityType = domain.ItemKind(entityType)
		if len(meta) > 0 {
			_ = json.Unmarshal(meta, &entry.Meta)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func marshalMeta(meta map[string]any) ([]byte, error) {
	if len(meta) == 0 {
		return []byte(`{}`), nil
	}
	return json.Marshal(meta)
}
