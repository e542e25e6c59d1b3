package qr

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/homeqr/server/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PruneOrphans removes label PNGs whose container no longer exists. Runs as
// a periodic scheduler task; filesystem errors are logged, never fatal.
func (g *Generator) PruneOrphans(ctx context.Context, db *gorm.DB) {
	entries, err := os.ReadDir(g.dir)
	if err != nil {
		g.logger.Warn("qr prune: read dir failed", zap.Error(err))
		return
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".png") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".png"))
	}
	if len(ids) == 0 {
		return
	}

	var live []string
	if err := db.WithContext(ctx).Model(&model.Container{}).
		Where("id IN ?", ids).Pluck("id", &live).Error; err != nil {
		g.logger.Warn("qr prune: container query failed", zap.Error(err))
		return
	}
	liveSet := make(map[string]bool, len(live))
	for _, id := range live {
		liveSet[id] = true
	}

	removed := 0
	for _, id := range ids {
		if liveSet[id] {
			continue
		}
		if err := os.Remove(filepath.Join(g.dir, id+".png")); err != nil {
			g.logger.Warn("qr prune: remove failed", zap.String("container_id", id), zap.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		g.logger.Info("qr prune: removed orphaned labels", zap.Int("count", removed))
	}
}
