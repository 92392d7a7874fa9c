package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rohan/evite/internal/model"
	"github.com/rohan/evite/internal/repository"
)

// compile-time check that *DB implements repository.CommentRepository
var _ repository.CommentRepository = (*DB)(nil)

// Timestamps are stored as REAL unix seconds, the format old database files
// already contain, so reads and writes stay compatible across versions.

func (db *DB) CreateComment(ctx context.Context, comment *model.Comment) error {
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO comments (event_id, user_id, comment, comment_name, timestamp)
		 VALUES (?, ?, ?, ?, ?)`,
		comment.EventID,
		nullableID(comment.UserID),
		comment.Text,
		nullableText(comment.DisplayName),
		float64(comment.CreatedAt.UnixNano())/float64(time.Second),
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting comment (event=%d): %w", comment.EventID, err)
	}

	comment.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading comment id: %w", err)
	}
	return nil
}

// ListComments returns an event's comments oldest first. The display name
// prefers the linked account's current name over the name typed into the
// form, so a registered guest renaming themselves updates their old
// comments too.
func (db *DB) ListComments(ctx context.Context, eventID int64) ([]model.Comment, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT c.id, c.event_id, COALESCE(c.user_id, 0), c.comment,
		        COALESCE(u.name, c.comment_name, ''), c.timestamp
		 FROM comments c
		 LEFT JOIN users u ON u.id = c.user_id
		 WHERE c.event_id = ?
		 ORDER BY c.timestamp ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments for event %d: %w", eventID, err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var (
			c    model.Comment
			unix float64
		)
		if err := rows.Scan(&c.ID, &c.EventID, &c.UserID, &c.Text, &c.DisplayName, &unix); err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		c.CreatedAt = time.Unix(0, int64(unix*float64(time.Second)))
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comment rows: %w", err)
	}
	return comments, nil
}
