package storage

import (
	"fmt"
	"time"

	"github.com/wojo-o/inker-sub001/internal/domain"
)

// DesignStore implements domain.DesignStore using SQLite.
type DesignStore struct {
	db *DB
}

func NewDesignStore(db *DB) *DesignStore {
	return &DesignStore{db: db}
}

func (s *DesignStore) CreateDesign(d *domain.ScreenDesign) error {
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	_, err := s.db.Conn().Exec(
		`INSERT INTO designs (id, name, width, height, background, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.Width, d.Height, d.Background, d.CreatedAt, d.UpdatedAt,
	)
	return err
}

// GetDesign returns a design with its widgets in paint order
// (z_index ascending, insertion order breaking ties).
func (s *DesignStore) GetDesign(id string) (*domain.ScreenDesign, error) {
	d := &domain.ScreenDesign{}
	err := s.db.Conn().QueryRow(
		`SELECT id, name, width, height, background, created_at, updated_at FROM designs WHERE id = ?`, id,
	).Scan(&d.ID, &d.Name, &d.Width, &d.Height, &d.Background, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, notFound("get design", err)
	}

	widgets, err := s.listWidgets(id)
	if err != nil {
		return nil, err
	}
	d.Widgets = widgets
	return d, nil
}

func (s *DesignStore) ListDesigns() ([]domain.ScreenDesign, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, name, width, height, background, created_at, updated_at FROM designs ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var designs []domain.ScreenDesign
	for rows.Next() {
		var d domain.ScreenDesign
		if err := rows.Scan(&d.ID, &d.Name, &d.Width, &d.Height, &d.Background, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		designs = append(designs, d)
	}
	return designs, rows.Err()
}

func (s *DesignStore) UpdateDesign(d *domain.ScreenDesign) error {
	d.UpdatedAt = time.Now()
	_, err := s.db.Conn().Exec(
		`UPDATE designs SET name = ?, width = ?, height = ?, background = ?, updated_at = ? WHERE id = ?`,
		d.Name, d.Width, d.Height, d.Background, d.UpdatedAt, d.ID,
	)
	return err
}

func (s *DesignStore) DeleteDesign(id string) error {
	if _, err := s.db.Conn().Exec(`DELETE FROM widgets WHERE design_id = ?`, id); err != nil {
		return fmt.Errorf("delete widgets: %w", err)
	}
	_, err := s.db.Conn().Exec(`DELETE FROM designs WHERE id = ?`, id)
	return err
}

// TouchDesign bumps the design's updated_at so change watchers see the
// mutation even when only child widgets changed.
func (s *DesignStore) TouchDesign(id string) error {
	_, err := s.db.Conn().Exec(`UPDATE designs SET updated_at = ? WHERE id = ?`, time.Now(), id)
	return err
}

// ── widgets ────────────────────────────────────────────────

func (s *DesignStore) listWidgets(designID string) ([]domain.Widget, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, design_id, kind, x, y, width, height, rotation, z_index, config_json, created_at, updated_at
		 FROM widgets WHERE design_id = ? ORDER BY z_index ASC, created_at ASC`,
		designID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var widgets []domain.Widget
	for rows.Next() {
		var w domain.Widget
		if err := rows.Scan(&w.ID, &w.DesignID, &w.Kind, &w.X, &w.Y, &w.Width, &w.Height, &w.Rotation, &w.ZIndex, &w.Config, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		widgets = append(widgets, w)
	}
	return widgets, rows.Err()
}

func (s *DesignStore) AddWidget(w *domain.Widget) error {
	now := time.Now()
	w.CreatedAt = now
	w.UpdatedAt = now
	if w.Config == "" {
		w.Config = "{}"
	}
	_, err := s.db.Conn().Exec(
		`INSERT INTO widgets (id, design_id, kind, x, y, width, height, rotation, z_index, config_json, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.DesignID, w.Kind, w.X, w.Y, w.Width, w.Height, w.Rotation, w.ZIndex, w.Config, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return s.TouchDesign(w.DesignID)
}

func (s *DesignStore) UpdateWidget(w *domain.Widget) error {
	w.UpdatedAt = time.Now()
	_, err := s.db.Conn().Exec(
		`UPDATE widgets SET kind = ?, x = ?, y = ?, width = ?, height = ?, rotation = ?, z_index = ?, config_json = ?, updated_at = ? WHERE id = ?`,
		w.Kind, w.X, w.Y, w.Width, w.Height, w.Rotation, w.ZIndex, w.Config, w.UpdatedAt, w.ID,
	)
	if err != nil {
		return err
	}
	return s.TouchDesign(w.DesignID)
}

// DesignsReferencingCustomWidget returns the ids of designs with at
// least one widget bound to the given custom widget. Used to
// invalidate captures when custom content changes.
func (s *DesignStore) DesignsReferencingCustomWidget(customWidgetID string) ([]string, error) {
	rows, err := s.db.Conn().Query(
		`SELECT DISTINCT design_id FROM widgets WHERE kind = 'custom' AND config_json LIKE ?`,
		"%"+customWidgetID+"%",
	)
	if err != nil {
		return nil, err
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
	return ids, rows.Err()
}

// DeleteWidget removes a widget and returns the owning design id so the
// caller can invalidate that design's capture.
func (s *DesignStore) DeleteWidget(id string) (string, error) {
	var designID string
	err := s.db.Conn().QueryRow(`SELECT design_id FROM widgets WHERE id = ?`, id).Scan(&designID)
	if err != nil {
		return "", notFound("get widget", err)
	}
	if _, err := s.db.Conn().Exec(`DELETE FROM widgets WHERE id = ?`, id); err != nil {
		return "", err
	}
	return designID, s.TouchDesign(designID)
}
