package localdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/okvist/hatodo/internal/model"
)

// ListItems returns all items for an entity in creation order.
func (s *Store) ListItems(ctx context.Context, entityID string) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT uid, summary, status, due, description
		FROM items
		WHERE entity_id = ?
		ORDER BY created_at
	`, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var it model.Item
		var due, description sql.NullString
		if err := rows.Scan(&it.UID, &it.Summary, &it.Status, &due, &description); err != nil {
			return nil, err
		}
		it.Due = due.String
		it.Description = description.String
		items = append(items, it)
	}
	return items, rows.Err()
}

// AddItem creates a new item; the store assigns the uid, as a host would.
func (s *Store) AddItem(ctx context.Context, entityID string, p model.AddItemParams) error {
	now := time.Now()
	due := p.DueDate
	if p.DueDateTime != "" {
		due = p.DueDateTime
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO items (uid, entity_id, summary, status, due, description, created_at, updated_at)
		VALUES (?, ?, ?, 'needs_action', ?, ?, ?, ?)
	`, uuid.New().String(), entityID, p.Summary, nullable(due), nullable(p.Description), now, now)
	return err
}

// UpdateItem applies the non-nil fields of p to an existing item.
func (s *Store) UpdateItem(ctx context.Context, entityID string, p model.UpdateItemParams) error {
	now := time.Now()
	if p.Rename != nil {
		if err := s.setColumn(ctx, entityID, p.UID, "summary", *p.Rename, now); err != nil {
			return err
		}
	}
	if p.Description != nil {
		if err := s.setColumn(ctx, entityID, p.UID, "description", *p.Description, now); err != nil {
			return err
		}
	}
	if p.Status != nil {
		if err := s.setColumn(ctx, entityID, p.UID, "status", string(*p.Status), now); err != nil {
			return err
		}
	}
	switch {
	case p.DueDateTime != nil:
		return s.setColumn(ctx, entityID, p.UID, "due", *p.DueDateTime, now)
	case p.DueDate != nil:
		return s.setColumn(ctx, entityID, p.UID, "due", *p.DueDate, now)
	case p.ClearDue:
		_, err := s.db.ExecContext(ctx,
			`UPDATE items SET due = NULL, updated_at = ? WHERE entity_id = ? AND uid = ?`,
			now, entityID, p.UID)
		return err
	}
	return nil
}

func (s *Store) setColumn(ctx context.Context, entityID, uid, column, value string, now time.Time) error {
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE items SET %s = ?, updated_at = ? WHERE entity_id = ? AND uid = ?`, column),
		value, now, entityID, uid)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no item %s on %s", uid, entityID)
	}
	return nil
}

// RemoveItems deletes the given uids in one statement batch.
func (s *Store) RemoveItems(ctx context.Context, entityID string, uids []string) error {
	for _, uid := range uids {
		if _, err := s.db.ExecContext(ctx,
			`DELETE FROM items WHERE entity_id = ? AND uid = ?`, entityID, uid); err != nil {
			return err
		}
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
