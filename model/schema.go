package model

import (
	"time"

	"gorm.io/datatypes"
)

// FieldKind enumerates the value kinds a field definition may take.
type FieldKind = string

const (
	KindText     FieldKind = "text"
	KindNumber   FieldKind = "number"
	KindSelect   FieldKind = "select"
	KindDate     FieldKind = "date"
	KindCheckbox FieldKind = "checkbox"
)

// ValidKind reports whether k is one of the recognized field kinds.
func ValidKind(k string) bool {
	switch k {
	case KindText, KindNumber, KindSelect, KindDate, KindCheckbox:
		return true
	}
	return false
}

// ItemType is a user-defined schema category assignable to items.
type ItemType struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:64;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// FieldDef is one attribute definition within an ItemType. Key is the
// machine name, unique within the owning type; Label is free display text.
// Options is meaningful only for kind=select and is empty otherwise.
type FieldDef struct {
	ID         int64                       `gorm:"primaryKey;autoIncrement" json:"id"`
	TypeID     int64                       `gorm:"uniqueIndex:idx_field_type_key;not null" json:"type_id"`
	Key        string                      `gorm:"uniqueIndex:idx_field_type_key;size:64;not null" json:"key"`
	Label      string                      `gorm:"size:128;not null" json:"label"`
	Kind       string                      `gorm:"size:16;not null" json:"kind"`
	Required   bool                        `gorm:"default:false" json:"required"`
	Options    datatypes.JSONSlice[string] `json:"options"`
	OrderIndex int                         `gorm:"not null;default:0" json:"order_index"`
}

// ValueEntry is one stored attribute value for one item/field pair. Rows
// exist only while both the item and the field definition exist.
type ValueEntry struct {
	ItemID  int64  `gorm:"primaryKey;autoIncrement:false" json:"item_id"`
	FieldID int64  `gorm:"primaryKey;autoIncrement:false" json:"field_id"`
	Value   string `gorm:"type:text" json:"value"`
}
