package schema

import (
	"context"
	"errors"
	"strings"

	"github.com/homeqr/server/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ListTypes returns all item types sorted by name.
func (s *Service) ListTypes(ctx context.Context) ([]model.ItemType, error) {
	var types []model.ItemType
	err := s.db.WithContext(ctx).Order("name").Find(&types).Error
	return types, err
}

// CreateType creates a new item type. Name collisions are caught by the
// unique index rather than a pre-check, so two concurrent creates cannot
// both slip through.
func (s *Service) CreateType(ctx context.Context, name string) (*model.ItemType, error) {
	typ := &model.ItemType{Name: strings.TrimSpace(name)}
	if err := s.db.WithContext(ctx).Create(typ).Error; err != nil {
		if uniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return typ, nil
}

// RenameType changes a type's display name.
func (s *Service) RenameType(ctx context.Context, id int64, name string) (*model.ItemType, error) {
	var typ model.ItemType
	if err := s.db.WithContext(ctx).First(&typ, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&typ).Update("name", strings.TrimSpace(name)).Error; err != nil {
		if uniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return &typ, nil
}

// DeleteType removes a type, its field definitions and every value stored
// under those fields. Items referencing the type survive with their type
// cleared — only the dynamic values are lost, never the item rows.
func (s *Service) DeleteType(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var typ model.ItemType
		if err := tx.First(&typ, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var fieldIDs []int64
		if err := tx.Model(&model.FieldDef{}).Where("type_id = ?", id).Pluck("id", &fieldIDs).Error; err != nil {
			return err
		}
		if len(fieldIDs) > 0 {
			if err := tx.Where("field_id IN ?", fieldIDs).Delete(&model.ValueEntry{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("type_id = ?", id).Delete(&model.FieldDef{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Item{}).Where("type_id = ?", id).Update("type_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ItemType{}, id).Error
	})
	if err == nil {
		s.logger.Info("item type deleted", zap.Int64("type_id", id))
	}
	return err
}
