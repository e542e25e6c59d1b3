// Package schema implements the dynamic item-schema core: user-defined item
// types, their ordered typed field catalogs, and the per-item value store
// keyed to those fields. The surrounding web layer talks to this package
// only; it never touches the underlying tables directly.
package schema

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ContainerChecker is the one thing the schema core needs from the storage
// hierarchy: an existence check for the container an item is placed into.
type ContainerChecker interface {
	ContainerExists(ctx context.Context, id string) (bool, error)
}

// Service owns the type catalog, field catalog, value store and the
// schema-bound item lifecycle.
type Service struct {
	db         *gorm.DB
	containers ContainerChecker
	logger     *zap.Logger
}

// NewService creates a schema Service.
func NewService(db *gorm.DB, containers ContainerChecker, logger *zap.Logger) *Service {
	return &Service{db: db, containers: containers, logger: logger}
}
