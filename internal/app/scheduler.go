package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// CacheResetter сбрасывает кэш проекций
type CacheResetter interface {
	Reset()
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	cache    CacheResetter
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(cache CacheResetter, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cache:    cache,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("cache_reset", s.interval))
	go s.runCacheResetTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runCacheResetTask периодически сбрасывает кэш залов и тренеров
func (s *Scheduler) runCacheResetTask(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cache.Reset()
		case <-s.stopChan:
			s.logger.Info("Cache reset task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Cache reset task cancelled")
			return
		}
	}
}
