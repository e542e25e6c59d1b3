package hierarchy

import "github.com/homeqr/server/model"

// Nesting rules for the storage tree. These are fixed capabilities of the
// node kinds, expressed as pure lookups — nothing mutates them at runtime.
//
//	ROOT            → Cabinet, Wardrobe
//	Cabinet/Wardrobe → Shelf, Drawer
//	Shelf            → Box, Organizator, InPlace
//	Drawer           → Organizator, InPlace

// AllowedNodeChild reports whether a node of childType may be created under
// a parent of parentType. Pass "" for top-level (root) placement.
func AllowedNodeChild(parentType, childType string) bool {
	switch parentType {
	case "":
		return childType == model.NodeCabinet || childType == model.NodeWardrobe
	case model.NodeCabinet, model.NodeWardrobe:
		return childType == model.NodeShelf || childType == model.NodeDrawer
	default:
		// Shelves and drawers hold containers, never child nodes.
		return false
	}
}

// AllowedContainer reports whether a container of containerType may live
// under a node of parentType.
func AllowedContainer(parentType, containerType string) bool {
	switch parentType {
	case model.NodeShelf:
		return containerType == model.ContainerBox ||
			containerType == model.ContainerOrganizator ||
			containerType == model.ContainerInPlace
	case model.NodeDrawer:
		return containerType == model.ContainerOrganizator ||
			containerType == model.ContainerInPlace
	default:
		return false
	}
}

// ContainerParentTypes returns the node types a container of the given type
// may be moved to. Used to offer move targets.
func ContainerParentTypes(containerType string) []string {
	var parents []string
	for _, pt := range []string{model.NodeShelf, model.NodeDrawer} {
		if AllowedContainer(pt, containerType) {
			parents = append(parents, pt)
		}
	}
	return parents
}
