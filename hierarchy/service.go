package hierarchy

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/homeqr/server/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Errors surfaced by the hierarchy service.
var (
	ErrNotFound   = errors.New("not found")
	ErrNotAllowed = errors.New("not allowed under this parent")
)

// Service manages the storage tree: nodes, containers and item placement.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a hierarchy Service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// newID produces the short uppercase ids printed on physical labels.
func newID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// CreateNode adds a node under parentID (nil for top level), enforcing the
// nesting rules.
func (s *Service) CreateNode(ctx context.Context, nodeType, name string, parentID *string, note string) (*model.Node, error) {
	parentType := ""
	if parentID != nil {
		var parent model.Node
		if err := s.db.WithContext(ctx).First(&parent, "id = ?", *parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		parentType = parent.Type
	}
	if !AllowedNodeChild(parentType, nodeType) {
		return nil, ErrNotAllowed
	}

	node := &model.Node{
		ID:       newID(),
		Type:     nodeType,
		Name:     strings.TrimSpace(name),
		ParentID: parentID,
		Note:     strings.TrimSpace(note),
	}
	if err := s.db.WithContext(ctx).Create(node).Error; err != nil {
		return nil, err
	}
	return node, nil
}

// GetNode loads one node.
func (s *Service) GetNode(ctx context.Context, id string) (*model.Node, error) {
	var node model.Node
	if err := s.db.WithContext(ctx).First(&node, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &node, nil
}

// NodeChildren lists child nodes ordered by (type, name).
func (s *Service) NodeChildren(ctx context.Context, id string) ([]model.Node, error) {
	var subs []model.Node
	err := s.db.WithContext(ctx).Where("parent_id = ?", id).
		Order("type").Order("name").Find(&subs).Error
	return subs, err
}

// TopNodes lists the top-level nodes ordered by (type, name).
func (s *Service) TopNodes(ctx context.Context) ([]model.Node, error) {
	var top []model.Node
	err := s.db.WithContext(ctx).Where("parent_id IS NULL").
		Order("type").Order("name").Find(&top).Error
	return top, err
}

// NodeContainers lists containers directly under a node.
func (s *Service) NodeContainers(ctx context.Context, id string) ([]model.Container, error) {
	var containers []model.Container
	err := s.db.WithContext(ctx).Where("parent_id = ?", id).
		Order("type").Order("name").Find(&containers).Error
	return containers, err
}

// DeleteNode removes a node and everything beneath it: child nodes,
// containers, items and their values, all in one transaction. Unlike type
// deletion, this cascade destroys the item rows too. Returns the ids of the
// deleted containers so the caller can clean up their label files, plus the
// parent id for navigation.
func (s *Service) DeleteNode(ctx context.Context, id string) (containerIDs []string, parentID *string, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var node model.Node
		if err := tx.First(&node, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		parentID = node.ParentID

		// Walk the subtree breadth-first; the tree is at most three levels
		// deep but the walk does not rely on that.
		nodeIDs := []string{id}
		frontier := []string{id}
		for len(frontier) > 0 {
			var children []string
			if err := tx.Model(&model.Node{}).Where("parent_id IN ?", frontier).
				Pluck("id", &children).Error; err != nil {
				return err
			}
			nodeIDs = append(nodeIDs, children...)
			frontier = children
		}

		if err := tx.Model(&model.Container{}).Where("parent_id IN ?", nodeIDs).
			Pluck("id", &containerIDs).Error; err != nil {
			return err
		}
		if len(containerIDs) > 0 {
			var itemIDs []int64
			if err := tx.Model(&model.Item{}).Where("container_id IN ?", containerIDs).
				Pluck("id", &itemIDs).Error; err != nil {
				return err
			}
			if len(itemIDs) > 0 {
				if err := tx.Where("item_id IN ?", itemIDs).Delete(&model.ValueEntry{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("container_id IN ?", containerIDs).Delete(&model.Item{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", containerIDs).Delete(&model.Container{}).Error; err != nil {
				return err
			}
		}
		return tx.Where("id IN ?", nodeIDs).Delete(&model.Node{}).Error
	})
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("node subtree deleted",
		zap.String("node_id", id),
		zap.Int("containers", len(containerIDs)))
	return containerIDs, parentID, nil
}

// CreateContainer adds a container under a shelf or drawer, enforcing the
// container placement rules.
func (s *Service) CreateContainer(ctx context.Context, containerType, name, parentID, note string) (*model.Container, error) {
	var parent model.Node
	if err := s.db.WithContext(ctx).First(&parent, "id = ?", parentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !AllowedContainer(parent.Type, containerType) {
		return nil, ErrNotAllowed
	}

	container := &model.Container{
		ID:       newID(),
		Type:     containerType,
		Name:     strings.TrimSpace(name),
		ParentID: parentID,
		Note:     strings.TrimSpace(note),
	}
	if err := s.db.WithContext(ctx).Create(container).Error; err != nil {
		return nil, err
	}
	return container, nil
}

// GetContainer loads one container.
func (s *Service) GetContainer(ctx context.Context, id string) (*model.Container, error) {
	var container model.Container
	if err := s.db.WithContext(ctx).First(&container, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &container, nil
}

// ContainerExists is the existence check the schema core depends on.
func (s *Service) ContainerExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Container{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ContainerItems lists the items in a container ordered by name.
func (s *Service) ContainerItems(ctx context.Context, id string) ([]model.Item, error) {
	var items []model.Item
	err := s.db.WithContext(ctx).Where("container_id = ?", id).
		Order("name").Find(&items).Error
	return items, err
}

// MoveContainer re-parents a container onto another shelf or drawer; the
// destination must allow the container's type.
func (s *Service) MoveContainer(ctx context.Context, id, destParentID string) error {
	container, err := s.GetContainer(ctx, id)
	if err != nil {
		return err
	}
	var dest model.Node
	if err := s.db.WithContext(ctx).First(&dest, "id = ?", destParentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !AllowedContainer(dest.Type, container.Type) {
		return ErrNotAllowed
	}
	return s.db.WithContext(ctx).Model(&model.Container{}).
		Where("id = ?", id).Update("parent_id", destParentID).Error
}

// DeleteContainer removes a container, its items and their values.
func (s *Service) DeleteContainer(ctx context.Context, id string) (parentID string, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var container model.Container
		if err := tx.First(&container, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		parentID = container.ParentID

		var itemIDs []int64
		if err := tx.Model(&model.Item{}).Where("container_id = ?", id).
			Pluck("id", &itemIDs).Error; err != nil {
			return err
		}
		if len(itemIDs) > 0 {
			if err := tx.Where("item_id IN ?", itemIDs).Delete(&model.ValueEntry{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("container_id = ?", id).Delete(&model.Item{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Container{}, "id = ?", id).Error
	})
	return parentID, err
}

// MoveItem relocates an item into another container.
func (s *Service) MoveItem(ctx context.Context, itemID int64, destContainerID string) error {
	var item model.Item
	if err := s.db.WithContext(ctx).First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	ok, err := s.ContainerExists(ctx, destContainerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return s.db.WithContext(ctx).Model(&model.Item{}).
		Where("id = ?", itemID).Update("container_id", destContainerID).Error
}
