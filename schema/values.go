package schema

import (
	"context"
	"strings"

	"github.com/homeqr/server/model"
	"gorm.io/gorm"
)

// FieldValue is one stored value joined with its field's display data.
type FieldValue struct {
	FieldID int64  `json:"field_id"`
	Label   string `json:"label"`
	Value   string `json:"value"`
}

// ValuesForItems bulk-fetches the stored values for many items in a single
// joined query, keyed by item id and ordered by (order_index, label) within
// each item. An empty input returns an empty map without touching the store.
func (s *Service) ValuesForItems(ctx context.Context, itemIDs []int64) (map[int64][]FieldValue, error) {
	result := make(map[int64][]FieldValue)
	if len(itemIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		ItemID  int64
		FieldID int64
		Label   string
		Value   string
	}
	err := s.db.WithContext(ctx).
		Table("value_entries").
		Select("value_entries.item_id, value_entries.field_id, field_defs.label, value_entries.value").
		Joins("JOIN field_defs ON field_defs.id = value_entries.field_id").
		Where("value_entries.item_id IN ?", itemIDs).
		Order("field_defs.order_index").Order("field_defs.label").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		result[r.ItemID] = append(result[r.ItemID], FieldValue{
			FieldID: r.FieldID,
			Label:   r.Label,
			Value:   r.Value,
		})
	}
	return result, nil
}

// replaceValues is the single write path for the value store: wipe every
// value the item has, then repopulate from the submission for the fields the
// type currently defines. The delete runs even when typeID is nil — an item
// moved to "no type" loses all its dynamic values. Must run inside the
// caller's transaction.
func replaceValues(tx *gorm.DB, itemID int64, typeID *int64, submitted map[int64]string) error {
	if err := tx.Where("item_id = ?", itemID).Delete(&model.ValueEntry{}).Error; err != nil {
		return err
	}
	if typeID == nil {
		return nil
	}

	var fields []model.FieldDef
	if err := tx.Where("type_id = ?", *typeID).
		Order("order_index").Order("label").
		Find(&fields).Error; err != nil {
		return err
	}

	// Submitted keys outside the type's catalog are ignored; a field with no
	// submitted value simply gets no row. Required is advisory only — an
	// empty required field is not an error here.
	for _, f := range fields {
		raw, ok := submitted[f.ID]
		if !ok {
			continue
		}
		entry := model.ValueEntry{ItemID: itemID, FieldID: f.ID, Value: strings.TrimSpace(raw)}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
	}
	return nil
}
