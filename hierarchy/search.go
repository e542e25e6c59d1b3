package hierarchy

import (
	"context"

	"github.com/homeqr/server/model"
)

// SearchHit is one container matched by a search, with its placement and
// the items inside it that matched.
type SearchHit struct {
	Container  model.Container `json:"container"`
	ParentName string          `json:"parent_name"`
	ParentType string          `json:"parent_type"`
	TopName    string          `json:"top_name"`
	TopID      string          `json:"top_id"`
	Items      []model.Item    `json:"items"`
}

// Search matches containers by their own name/type, their parents' names,
// or the names/notes of items inside them. Matched items are attached to
// each hit.
func (s *Service) Search(ctx context.Context, q string) ([]SearchHit, error) {
	if q == "" {
		return nil, nil
	}
	like := "%" + q + "%"

	var rows []struct {
		model.Container
		ParentName string
		ParentType string
		TopName    string
		TopID      string
	}
	err := s.db.WithContext(ctx).
		Table("containers").
		Select("DISTINCT containers.*, p.name AS parent_name, p.type AS parent_type, t.name AS top_name, t.id AS top_id").
		Joins("JOIN nodes p ON p.id = containers.parent_id").
		Joins("LEFT JOIN nodes t ON t.id = p.parent_id").
		Joins("LEFT JOIN items ON items.container_id = containers.id").
		Where("containers.name LIKE ? OR containers.type LIKE ? OR p.name LIKE ? OR t.name LIKE ? OR items.name LIKE ? OR items.note LIKE ?",
			like, like, like, like, like, like).
		Order("top_name").Order("parent_name").Order("containers.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	containerIDs := make([]string, 0, len(rows))
	for _, r := range rows {
		containerIDs = append(containerIDs, r.Container.ID)
	}

	var matched []model.Item
	err = s.db.WithContext(ctx).
		Where("container_id IN ?", containerIDs).
		Where("name LIKE ? OR note LIKE ?", like, like).
		Order("id DESC").
		Find(&matched).Error
	if err != nil {
		return nil, err
	}
	itemsByContainer := make(map[string][]model.Item)
	for _, it := range matched {
		itemsByContainer[it.ContainerID] = append(itemsByContainer[it.ContainerID], it)
	}

	hits := make([]SearchHit, 0, len(rows))
	for _, r := range rows {
		hits = append(hits, SearchHit{
			Container:  r.Container,
			ParentName: r.ParentName,
			ParentType: r.ParentType,
			TopName:    r.TopName,
			TopID:      r.TopID,
			Items:      itemsByContainer[r.Container.ID],
		})
	}
	return hits, nil
}
