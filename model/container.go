package model

import "time"

// ContainerType is the kind of a container.
type ContainerType = string

const (
	ContainerBox         ContainerType = "Box"
	ContainerOrganizator ContainerType = "Organizator"
	ContainerInPlace     ContainerType = "InPlace"
)

// Container holds items and lives under a Shelf or Drawer node. Each
// container gets a printable QR label pointing at its detail page.
type Container struct {
	ID        string    `gorm:"primaryKey;size:8" json:"id"`
	Type      string    `gorm:"size:16;not null" json:"type"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	ParentID  string    `gorm:"index:idx_container_parent;size:8;not null" json:"parent_id"`
	Note      string    `gorm:"type:text" json:"note"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
