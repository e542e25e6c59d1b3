package schema

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/homeqr/server/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FieldInput carries the user-editable parts of a field definition.
// OptionsText is the raw comma-separated option list from the form; Key, if
// set, overrides the slug derived from Label.
type FieldInput struct {
	Label       string
	Kind        string
	Required    bool
	OptionsText string
	Key         string
}

// typeLocks serializes the read-max-then-insert of order_index per type.
// The surrounding transaction alone is not enough on MySQL, where two
// concurrent inserts can both read the same max.
var typeLocks sync.Map

func lockType(typeID int64) func() {
	v, _ := typeLocks.LoadOrStore(typeID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// ListFields returns the field catalog for a type, sorted by
// (order_index, label) ascending.
func (s *Service) ListFields(ctx context.Context, typeID int64) ([]model.FieldDef, error) {
	var fields []model.FieldDef
	err := s.db.WithContext(ctx).
		Where("type_id = ?", typeID).
		Order("order_index").Order("label").
		Find(&fields).Error
	return fields, err
}

// CreateField adds a field definition to a type. The key is derived from the
// explicit key or the label, disambiguated against the type's existing keys;
// order_index becomes max+1 within the type.
func (s *Service) CreateField(ctx context.Context, typeID int64, in FieldInput) (*model.FieldDef, error) {
	if !model.ValidKind(in.Kind) {
		return nil, ErrInvalidKind
	}

	unlock := lockType(typeID)
	defer unlock()

	var field *model.FieldDef
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&model.ItemType{}, typeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		existing, err := typeKeys(tx, typeID, 0)
		if err != nil {
			return err
		}
		key := EnsureUniqueKey(existing, keyBase(in))

		var maxOrder int
		if err := tx.Model(&model.FieldDef{}).Where("type_id = ?", typeID).
			Select("COALESCE(MAX(order_index), 0)").Scan(&maxOrder).Error; err != nil {
			return err
		}

		field = &model.FieldDef{
			TypeID:     typeID,
			Key:        key,
			Label:      strings.TrimSpace(in.Label),
			Kind:       in.Kind,
			Required:   in.Required,
			Options:    parseOptions(in.Kind, in.OptionsText),
			OrderIndex: maxOrder + 1,
		}
		return tx.Create(field).Error
	})
	if err != nil {
		return nil, err
	}
	return field, nil
}

// UpdateField rewrites a field definition. The key uniqueness check excludes
// the field itself, so saving without changing the label is a no-op rename.
func (s *Service) UpdateField(ctx context.Context, fieldID, typeID int64, in FieldInput, orderIndex int) (*model.FieldDef, error) {
	if !model.ValidKind(in.Kind) {
		return nil, ErrInvalidKind
	}

	var field model.FieldDef
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND type_id = ?", fieldID, typeID).First(&field).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		existing, err := typeKeys(tx, typeID, fieldID)
		if err != nil {
			return err
		}

		field.Key = EnsureUniqueKey(existing, keyBase(in))
		field.Label = strings.TrimSpace(in.Label)
		field.Kind = in.Kind
		field.Required = in.Required
		field.Options = parseOptions(in.Kind, in.OptionsText)
		field.OrderIndex = orderIndex
		return tx.Save(&field).Error
	})
	if err != nil {
		return nil, err
	}
	return &field, nil
}

// DeleteField removes a field definition and every value stored under it.
// Deleting an already-absent field succeeds.
func (s *Service) DeleteField(ctx context.Context, fieldID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("field_id = ?", fieldID).Delete(&model.ValueEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.FieldDef{}, fieldID).Error
	})
}

// ReorderFields assigns order_index 1..n following the given id sequence.
// Ids that do not belong to the type — stale tabs, copy-paste mistakes — are
// skipped silently rather than rejected.
func (s *Service) ReorderFields(ctx context.Context, typeID int64, orderedIDs []int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ownIDs []int64
		if err := tx.Model(&model.FieldDef{}).Where("type_id = ?", typeID).Pluck("id", &ownIDs).Error; err != nil {
			return err
		}
		owned := make(map[int64]bool, len(ownIDs))
		for _, id := range ownIDs {
			owned[id] = true
		}

		pos := 1
		for _, id := range orderedIDs {
			if !owned[id] {
				continue
			}
			if err := tx.Model(&model.FieldDef{}).Where("id = ?", id).
				Update("order_index", pos).Error; err != nil {
				return err
			}
			pos++
		}
		return nil
	})
}

// keyBase picks the slug base: the explicit key when given, else the label.
func keyBase(in FieldInput) string {
	if k := strings.TrimSpace(in.Key); k != "" {
		return Slugify(k)
	}
	return Slugify(in.Label)
}

// typeKeys collects the keys currently used under a type, optionally
// excluding one field (the one being renamed).
func typeKeys(tx *gorm.DB, typeID, excludeFieldID int64) (map[string]bool, error) {
	q := tx.Model(&model.FieldDef{}).Where("type_id = ?", typeID)
	if excludeFieldID != 0 {
		q = q.Where("id <> ?", excludeFieldID)
	}
	var keys []string
	if err := q.Pluck("key", &keys).Error; err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set, nil
}

// parseOptions splits comma-separated option text. Only select fields carry
// options; for every other kind the list is forced empty regardless of what
// the caller sent.
func parseOptions(kind, text string) datatypes.JSONSlice[string] {
	if kind != model.KindSelect {
		return datatypes.NewJSONSlice([]string{})
	}
	var opts []string
	for _, part := range strings.Split(text, ",") {
		if p := strings.TrimSpace(part); p != "" {
			opts = append(opts, p)
		}
	}
	if opts == nil {
		opts = []string{}
	}
	return datatypes.NewJSONSlice(opts)
}
