package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rohan/evite/internal/apperror"
	"github.com/rohan/evite/internal/model"
	"github.com/rohan/evite/internal/repository"
)

// compile-time check that *DB implements repository.InviteRepository
var _ repository.InviteRepository = (*DB)(nil)

// nullableID converts the model's 0-means-none convention to a SQL NULL.
func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

// nullableText stores empty strings as NULL, matching the rows written by
// earlier versions of the app so phone dedup queries behave the same for
// old and new data.
func nullableText(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (db *DB) CreateInvite(ctx context.Context, invite *model.Invite) error {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO invites (event_id, user_id, rsvp, adults_qty, kids_qty,
		                      guest_name, guest_email, guest_phone, is_anonymous)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		invite.EventID,
		nullableID(invite.UserID),
		nullableText(invite.RSVP),
		invite.AdultsQty,
		invite.KidsQty,
		nullableText(invite.GuestName),
		nullableText(invite.GuestEmail),
		nullableText(invite.GuestPhone),
		invite.Anonymous,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting invite (event=%d): %w", invite.EventID, err)
	}

	invite.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading invite id: %w", err)
	}
	return nil
}

// UpdateInvite overwrites the response fields of an existing invite. This is
// how an RSVP resubmission replaces the prior answer.
func (db *DB) UpdateInvite(ctx context.Context, invite *model.Invite) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE invites SET
		     rsvp = ?, adults_qty = ?, kids_qty = ?,
		     guest_name = ?, guest_email = ?
		 WHERE id = ?`,
		nullableText(invite.RSVP),
		invite.AdultsQty,
		invite.KidsQty,
		nullableText(invite.GuestName),
		nullableText(invite.GuestEmail),
		invite.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating invite %d: %w", invite.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating invite %d: %w", invite.ID, err)
	}
	if n == 0 {
		return apperror.NotFound("invite", invite.ID)
	}
	return nil
}

func (db *DB) GetInviteForUser(ctx context.Context, eventID, userID int64) (*model.Invite, error) {
	return db.scanInvite(db.conn.QueryRowContext(ctx,
		inviteSelect+` WHERE event_id = ? AND user_id = ?`, eventID, userID,
	))
}

func (db *DB) GetAnonymousInviteByPhone(ctx context.Context, eventID int64, phone string) (*model.Invite, error) {
	return db.scanInvite(db.conn.QueryRowContext(ctx,
		inviteSelect+` WHERE event_id = ? AND guest_phone = ? AND is_anonymous = 1`,
		eventID, phone,
	))
}

const inviteSelect = `
	SELECT id, event_id, COALESCE(user_id, 0), COALESCE(rsvp, ''),
	       COALESCE(adults_qty, 1), COALESCE(kids_qty, 0),
	       COALESCE(guest_name, ''), COALESCE(guest_email, ''),
	       COALESCE(guest_phone, ''), COALESCE(is_anonymous, 0)
	FROM invites`

func (db *DB) scanInvite(row *sql.Row) (*model.Invite, error) {
	var inv model.Invite
	err := row.Scan(
		&inv.ID, &inv.EventID, &inv.UserID, &inv.RSVP,
		&inv.AdultsQty, &inv.KidsQty,
		&inv.GuestName, &inv.GuestEmail, &inv.GuestPhone, &inv.Anonymous,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("invite", 0)
		}
		return nil, fmt.Errorf("sqlite: scanning invite: %w", err)
	}
	return &inv, nil
}

// ListGuests merges registered and anonymous invites into the admin guest
// list. Name and email come from the user account when one is linked, from
// the guest_* columns otherwise.
func (db *DB) ListGuests(ctx context.Context, eventID int64) ([]model.Guest, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT COALESCE(u.name, i.guest_name, 'Anonymous'),
		        COALESCE(u.email, i.guest_email, ''),
		        COALESCE(i.guest_phone, ''),
		        COALESCE(i.rsvp, ''),
		        COALESCE(i.adults_qty, 1), COALESCE(i.kids_qty, 0),
		        COALESCE(i.is_anonymous, 0)
		 FROM invites i
		 LEFT JOIN users u ON u.id = i.user_id
		 WHERE i.event_id = ?
		 ORDER BY 1`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing guests for event %d: %w", eventID, err)
	}
	defer rows.Close()

	guests := []model.Guest{}
	for rows.Next() {
		var g model.Guest
		if err := rows.Scan(
			&g.Name, &g.Email, &g.Phone, &g.RSVP,
			&g.AdultsQty, &g.KidsQty, &g.Anonymous,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning guest row: %w", err)
		}
		guests = append(guests, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating guest rows: %w", err)
	}
	return guests, nil
}
