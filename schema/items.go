package schema

import (
	"context"
	"errors"
	"strings"

	"github.com/homeqr/server/model"
	"gorm.io/gorm"
)

// ItemInput carries the submitted item fields plus the dynamic values,
// addressed by field id.
type ItemInput struct {
	Name   string
	Qty    int
	Note   string
	TypeID *int64
	Values map[int64]string
}

// DetailField is one field of an item's type with the stored value, if any.
// Value is nil when the field has no row — which is legal even for required
// fields.
type DetailField struct {
	FieldID int64   `json:"field_id"`
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Kind    string  `json:"kind"`
	Value   *string `json:"value"`
}

// CreateItem inserts an item into a container and, when the item is typed,
// writes its submitted values. An untyped create never touches the value
// store — there is nothing to delete yet and nothing to write.
func (s *Service) CreateItem(ctx context.Context, containerID string, in ItemInput) (*model.Item, error) {
	ok, err := s.containers.ContainerExists(ctx, containerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	item := &model.Item{
		ContainerID: containerID,
		Name:        strings.TrimSpace(in.Name),
		Qty:         in.Qty,
		Note:        strings.TrimSpace(in.Note),
		TypeID:      in.TypeID,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkType(tx, in.TypeID); err != nil {
			return err
		}
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		if in.TypeID == nil {
			return nil
		}
		return replaceValues(tx, item.ID, in.TypeID, in.Values)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem rewrites the item row and resyncs its values from scratch —
// every update is a full delete-then-repopulate, never a partial patch,
// whether or not the type changed. The lookup is scoped to the container so
// an id from another container cannot be updated by mistake.
func (s *Service) UpdateItem(ctx context.Context, itemID int64, containerID string, in ItemInput) (*model.Item, error) {
	var item model.Item
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND container_id = ?", itemID, containerID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := checkType(tx, in.TypeID); err != nil {
			return err
		}

		item.Name = strings.TrimSpace(in.Name)
		item.Qty = in.Qty
		item.Note = strings.TrimSpace(in.Note)
		item.TypeID = in.TypeID
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		return replaceValues(tx, item.ID, in.TypeID, in.Values)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes an item and its values. Idempotent: deleting an absent
// item succeeds.
func (s *Service) DeleteItem(ctx context.Context, itemID int64, containerID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", itemID).Delete(&model.ValueEntry{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND container_id = ?", itemID, containerID).Delete(&model.Item{}).Error
	})
}

// ItemDetail returns the item with the full field catalog of its type, each
// field carrying its stored value when one exists. An untyped item comes
// back with no fields.
func (s *Service) ItemDetail(ctx context.Context, itemID int64) (*model.Item, []DetailField, error) {
	var item model.Item
	if err := s.db.WithContext(ctx).First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	if item.TypeID == nil {
		return &item, nil, nil
	}

	fields, err := s.ListFields(ctx, *item.TypeID)
	if err != nil {
		return nil, nil, err
	}

	var entries []model.ValueEntry
	if err := s.db.WithContext(ctx).Where("item_id = ?", itemID).Find(&entries).Error; err != nil {
		return nil, nil, err
	}
	byField := make(map[int64]string, len(entries))
	for _, e := range entries {
		byField[e.FieldID] = e.Value
	}

	detail := make([]DetailField, 0, len(fields))
	for _, f := range fields {
		df := DetailField{FieldID: f.ID, Key: f.Key, Label: f.Label, Kind: f.Kind}
		if v, ok := byField[f.ID]; ok {
			value := v
			df.Value = &value
		}
		detail = append(detail, df)
	}
	return &item, detail, nil
}

// checkType verifies a non-nil type reference points at a live type.
func checkType(tx *gorm.DB, typeID *int64) error {
	if typeID == nil {
		return nil
	}
	if err := tx.First(&model.ItemType{}, *typeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
