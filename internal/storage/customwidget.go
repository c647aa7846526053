package storage

import (
	"context"
	"time"

	"github.com/wojo-o/inker-sub001/internal/domain"
)

// CustomWidgetStore persists externally supplied widget content and
// doubles as the resolver consumed by the custom widget generator.
type CustomWidgetStore struct {
	db *DB
}

func NewCustomWidgetStore(db *DB) *CustomWidgetStore {
	return &CustomWidgetStore{db: db}
}

func (s *CustomWidgetStore) CreateCustomWidget(cw *domain.CustomWidget) error {
	now := time.Now()
	cw.CreatedAt = now
	cw.UpdatedAt = now
	_, err := s.db.Conn().Exec(
		`INSERT INTO custom_widgets (id, name, content_json, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		cw.ID, cw.Name, cw.Content, cw.CreatedAt, cw.UpdatedAt,
	)
	return err
}

func (s *CustomWidgetStore) GetCustomWidget(id string) (*domain.CustomWidget, error) {
	cw := &domain.CustomWidget{}
	err := s.db.Conn().QueryRow(
		`SELECT id, name, content_json, created_at, updated_at FROM custom_widgets WHERE id = ?`, id,
	).Scan(&cw.ID, &cw.Name, &cw.Content, &cw.CreatedAt, &cw.UpdatedAt)
	if err != nil {
		return nil, notFound("get custom widget", err)
	}
	return cw, nil
}

func (s *CustomWidgetStore) UpdateContent(id, content string) error {
	_, err := s.db.Conn().Exec(
		`UPDATE custom_widgets SET content_json = ?, updated_at = ? WHERE id = ?`,
		content, time.Now(), id,
	)
	return err
}

func (s *CustomWidgetStore) DeleteCustomWidget(id string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM custom_widgets WHERE id = ?`, id)
	return err
}

// GetRenderedContent satisfies the widget generator's resolver contract.
func (s *CustomWidgetStore) GetRenderedContent(_ context.Context, id string) (domain.CustomContent, error) {
	cw, err := s.GetCustomWidget(id)
	if err != nil {
		return domain.CustomContent{}, err
	}
	return domain.ParseCustomContent(cw.Content), nil
}
