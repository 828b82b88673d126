package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/opencrafts-io/keepup/internal/common"
	"github.com/opencrafts-io/keepup/internal/dbx"
	"github.com/opencrafts-io/keepup/internal/record"
)

// PostgresStore implements Store over a dbx.DBTX (*sql.DB or *sql.Tx),
// scoped to one record kind. Both kinds share the records table; the kind
// column keeps their key spaces apart.
type PostgresStore struct {
	db   dbx.DBTX
	kind record.Kind
}

// NewPostgresStore constructs a store for the given kind bound to db.
func NewPostgresStore(db dbx.DBTX, kind record.Kind) *PostgresStore {
	return &PostgresStore{db: db, kind: kind}
}

const recordColumns = `external_id, owner_id, kind, etag, title, notes, location, status,
	start_time, end_time, completed_at, all_day, timezone, transparency,
	calendar_id, parent, position, web_link, created, updated, deleted, hidden,
	attendees, reminders, recurrence`

func (s *PostgresStore) Get(ctx context.Context, owner uuid.UUID, externalID string) (*record.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records
		WHERE owner_id=$1 AND external_id=$2 AND kind=$3`

	row := s.db.QueryRowContext(ctx, query, owner, externalID, string(s.kind))
	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select record: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) List(ctx context.Context, owner uuid.UUID, f Filter) ([]*record.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records
		WHERE owner_id=$1 AND kind=$2`
	args := []any{owner, string(s.kind)}

	if !f.IncludeDeleted {
		query += ` AND deleted=false`
	}
	if !f.IncludeHidden {
		query += ` AND hidden=false`
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		query += ` AND status=$` + strconv.Itoa(len(args))
	}
	if f.StartAfter != nil {
		args = append(args, *f.StartAfter)
		query += ` AND start_time >= $` + strconv.Itoa(len(args))
	}
	if f.EndBefore != nil {
		args = append(args, *f.EndBefore)
		query += ` AND end_time <= $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY start_time ASC NULLS LAST, external_id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select records: %w", err)
	}
	defer rows.Close()

	var result []*record.Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *PostgresStore) ActiveIDs(ctx context.Context, owner uuid.UUID, start, end *time.Time) ([]string, error) {
	query := `SELECT external_id FROM records
		WHERE owner_id=$1 AND kind=$2 AND deleted=false`
	args := []any{owner, string(s.kind)}

	if start != nil {
		args = append(args, *start)
		query += " AND start_time >= $" + strconv.Itoa(len(args))
	}
	if end != nil {
		args = append(args, *end)
		query += " AND start_time <= $" + strconv.Itoa(len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select active ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, rec *record.Record) error {
	query := `
		INSERT INTO records (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
		ON CONFLICT (owner_id, external_id, kind)
		DO UPDATE SET
			etag = EXCLUDED.etag,
			title = EXCLUDED.title,
			notes = EXCLUDED.notes,
			location = EXCLUDED.location,
			status = EXCLUDED.status,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			completed_at = EXCLUDED.completed_at,
			all_day = EXCLUDED.all_day,
			timezone = EXCLUDED.timezone,
			transparency = EXCLUDED.transparency,
			calendar_id = EXCLUDED.calendar_id,
			parent = EXCLUDED.parent,
			position = EXCLUDED.position,
			web_link = EXCLUDED.web_link,
			created = EXCLUDED.created,
			updated = EXCLUDED.updated,
			deleted = EXCLUDED.deleted,
			hidden = EXCLUDED.hidden,
			attendees = EXCLUDED.attendees,
			reminders = EXCLUDED.reminders,
			recurrence = EXCLUDED.recurrence;
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.ExternalID, rec.OwnerID, string(rec.Kind), rec.Etag, rec.Title,
		rec.Notes, rec.Location, string(rec.Status), rec.Start, rec.End,
		rec.CompletedAt, rec.AllDay, rec.Timezone, rec.Transparency,
		rec.CalendarID, rec.Parent, rec.Position, rec.WebLink, rec.Created,
		rec.Updated, rec.Deleted, rec.Hidden,
		nullableJSON(rec.Attendees), nullableJSON(rec.Reminders), nullableJSON(rec.Recurrence))
	if err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}
	return nil
}

func (s *PostgresStore) MarkDeleted(ctx context.Context, owner uuid.UUID, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `UPDATE records SET deleted=true
		WHERE owner_id=$1 AND kind=$2 AND external_id = ANY($3)`

	res, err := s.db.ExecContext(ctx, query, owner, string(s.kind), ids)
	if err != nil {
		return 0, fmt.Errorf("mark deleted: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) Owners(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT owner_id FROM records`)
	if err != nil {
		return nil, fmt.Errorf("select owners: %w", err)
	}
	defer rows.Close()

	var owners []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		owners = append(owners, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return owners, nil
}

// nullableJSON maps an absent raw payload to SQL NULL instead of an empty
// byte slice, which jsonb would reject.
func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}

func scanRecord(scan func(dest ...any) error) (*record.Record, error) {
	var rec record.Record
	var kind, status string
	var attendees, reminders, recurrence []byte
	if err := scan(
		&rec.ExternalID, &rec.OwnerID, &kind, &rec.Etag, &rec.Title,
		&rec.Notes, &rec.Location, &status, &rec.Start, &rec.End,
		&rec.CompletedAt, &rec.AllDay, &rec.Timezone, &rec.Transparency,
		&rec.CalendarID, &rec.Parent, &rec.Position, &rec.WebLink,
		&rec.Created, &rec.Updated, &rec.Deleted, &rec.Hidden,
		&attendees, &reminders, &recurrence,
	); err != nil {
		return nil, err
	}
	rec.Kind = record.Kind(kind)
	rec.Status = record.Status(status)
	rec.Attendees = attendees
	rec.Reminders = reminders
	rec.Recurrence = recurrence
	return &rec, nil
}
