package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rohan/evite/internal/apperror"
	"github.com/rohan/evite/internal/model"
	"github.com/rohan/evite/internal/repository"
)

// compile-time check that *DB implements repository.EventRepository
var _ repository.EventRepository = (*DB)(nil)

// Most event columns are nullable in old database files, so everything is
// read through COALESCE rather than sql.NullString scans.
func (db *DB) GetEvent(ctx context.Context, id int64) (*model.Event, error) {
	var e model.Event
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title,
		        COALESCE(description, ''), COALESCE(host, ''),
		        COALESCE(datetime, ''), COALESCE(location, ''),
		        COALESCE(registry1, ''), COALESCE(registry2, ''),
		        COALESCE(header_image, ''), COALESCE(card_theme, 'ocean')
		 FROM events WHERE id = ?`, id,
	).Scan(
		&e.ID, &e.Title, &e.Description, &e.Host, &e.Datetime,
		&e.Location, &e.Registry1, &e.Registry2, &e.HeaderImage, &e.CardTheme,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("event", id)
		}
		return nil, fmt.Errorf("sqlite: getting event %d: %w", id, err)
	}
	return &e, nil
}

// UpdateEvent overwrites the editable fields of an event. The header image
// is deliberately not part of the admin form, so it is left untouched.
func (db *DB) UpdateEvent(ctx context.Context, event *model.Event) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE events SET
		     title = ?, description = ?, host = ?, datetime = ?, location = ?,
		     registry1 = ?, registry2 = ?, card_theme = ?
		 WHERE id = ?`,
		event.Title,
		event.Description,
		event.Host,
		event.Datetime,
		event.Location,
		event.Registry1,
		event.Registry2,
		event.CardTheme,
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating event %d: %w", event.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating event %d: %w", event.ID, err)
	}
	if n == 0 {
		return apperror.NotFound("event", event.ID)
	}
	return nil
}
