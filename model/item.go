package model

import "time"

// Item is a thing stored in a container. TypeID is nullable: an item may
// carry no schema at all, in which case it has no dynamic values.
type Item struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ContainerID string    `gorm:"index:idx_item_container;size:8;not null" json:"container_id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Qty         int       `gorm:"default:1" json:"qty"`
	Note        string    `gorm:"type:text" json:"note"`
	TypeID      *int64    `gorm:"index:idx_item_type" json:"type_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
