package system

import (
	"github.com/ove/engine/internal/core/ecs"
	coresys "github.com/ove/engine/internal/core/system"
	"go.uber.org/zap"
)

// CleanupSystem compacts the component pools every N frames, dropping the
// tombstones left by removed components and entities. Register it last.
type CleanupSystem struct {
	coresys.Base
	every int
	frame int
	log   *zap.Logger
}

// NewCleanupSystem compacts every `every` frames; 0 disables compaction.
func NewCleanupSystem(every int, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{every: every, log: log}
}

func (s *CleanupSystem) Update(em *ecs.Manager, _ coresys.Delta) {
	if s.every <= 0 {
		return
	}
	s.frame++
	if s.frame%s.every == 0 {
		em.Compact()
		s.log.Debug("pools compacted", zap.Int("frame", s.frame))
	}
}

// Clean compacts once more so a re-initialized run starts without tombstones.
func (s *CleanupSystem) Clean(em *ecs.Manager) {
	em.Compact()
	s.frame = 0
}
