package store

import (
	"database/sql"
	"errors"
	"time"
)

// Selection records a model part picked in the viewer.
type Selection struct {
	ID          string    `json:"id"`
	PartName    string    `json:"part_name"`
	DisplayName string    `json:"display_name"`
	Description string    `json:"description"`
	SelectedAt  time.Time `json:"selected_at"`
}

// SelectionRepository provides access to part selections.
type SelectionRepository struct {
	db *sql.DB
}

// Selections returns the selection repository for this store.
func (s *Store) Selections() *SelectionRepository {
	return &SelectionRepository{db: s.db}
}

// Create inserts a new selection. SelectedAt is set to the current time
// if it is zero.
func (r *SelectionRepository) Create(sel *Selection) error {
	if sel.SelectedAt.IsZero() {
		sel.SelectedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO selections (id, part_name, display_name, description, selected_at)
		 VALUES (?, ?, ?, ?, ?)`,
		sel.ID, sel.PartName, sel.DisplayName, sel.Description, sel.SelectedAt,
	)
	return err
}

// Latest returns the most recent selection.
func (r *SelectionRepository) Latest() (*Selection, error) {
	sel := &Selection{}

	err := r.db.QueryRow(
		`SELECT id, part_name, display_name, description, selected_at
		 FROM selections ORDER BY selected_at DESC LIMIT 1`,
	).Scan(&sel.ID, &sel.PartName, &sel.DisplayName, &sel.Description, &sel.SelectedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return sel, nil
}

// List returns up to limit selections, newest first. A non-positive limit
// returns all of them.
func (r *SelectionRepository) List(limit int) ([]*Selection, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT id, part_name, display_name, description, selected_at
		 FROM selections ORDER BY selected_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var selections []*Selection
	for rows.Next() {
		sel := &Selection{}
		if err := rows.Scan(&sel.ID, &sel.PartName, &sel.DisplayName, &sel.Description, &sel.SelectedAt); err != nil {
			return nil, err
		}
		selections = append(selections, sel)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return selections, nil
}

// Clear removes every selection and returns how many were deleted.
func (r *SelectionRepository) Clear() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM selections`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
