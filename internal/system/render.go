package system

import (
	"github.com/ove/engine/internal/core/ecs"
	"github.com/ove/engine/internal/core/event"
	coresys "github.com/ove/engine/internal/core/system"
	"go.uber.org/zap"
)

// RenderSystem reports a frame summary through the logger every N frames.
// It draws nothing.
type RenderSystem struct {
	coresys.Base
	every      int
	frame      int
	expired    int
	subscribed bool
	log        *zap.Logger
}

func NewRenderSystem(every int, log *zap.Logger) *RenderSystem {
	if every <= 0 {
		every = 1
	}
	return &RenderSystem{every: every, log: log}
}

func (s *RenderSystem) Init(_ *ecs.Manager) {
	if bus := s.EventBus(); bus != nil && !s.subscribed {
		s.subscribed = true
		event.Subscribe(bus, func(ev Expired) {
			s.expired++
			s.log.Debug("entity expired",
				zap.Uint64("entity", uint64(ev.Entity)),
				zap.String("name", ev.Name),
			)
		})
	}
}

// Expired returns how many expirations the system has observed.
func (s *RenderSystem) Expired() int { return s.expired }

func (s *RenderSystem) Render(em *ecs.Manager) {
	s.frame++
	if s.frame%s.every != 0 {
		return
	}
	s.log.Info("frame",
		zap.Int("frame", s.frame),
		zap.Int("entities", em.Len()),
		zap.Int("expired", s.expired),
		zap.Any("pools", em.PoolStats()),
	)
}

func (s *RenderSystem) Clean(_ *ecs.Manager) {
	s.log.Info("render summary",
		zap.Int("frames", s.frame),
		zap.Int("expired", s.expired),
	)
}
