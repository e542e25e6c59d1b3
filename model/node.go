package model

import "time"

// NodeType is the structural kind of a storage node.
type NodeType = string

const (
	NodeCabinet  NodeType = "Cabinet"
	NodeWardrobe NodeType = "Wardrobe"
	NodeShelf    NodeType = "Shelf"
	NodeDrawer   NodeType = "Drawer"
)

// Node is one level of the storage hierarchy: a Cabinet or Wardrobe at the
// top, with Shelves and Drawers nested beneath it.
type Node struct {
	ID        string    `gorm:"primaryKey;size:8" json:"id"`
	Type      string    `gorm:"size:16;not null" json:"type"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	ParentID  *string   `gorm:"index:idx_node_parent;size:8" json:"parent_id"`
	Note      string    `gorm:"type:text" json:"note"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
