// Package jobs 定时维护任务：清理过期会话、重算站点统计
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"mujtama/internal/config"
)

const (
	defaultSessionPurge = "0 0 * * * *" // 每小时
	defaultStatsRefresh = "0 30 3 * * *"
	jobTimeout          = time.Minute
)

// SessionPurger 清理过期的服务端会话
type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int, error)
}

// StatsRefresher 重算站点统计
type StatsRefresher interface {
	RefreshStats(ctx context.Context) error
}

// Scheduler 定时任务调度器（cron 表达式含秒）
type Scheduler struct {
	cron     *cron.Cron
	sessions SessionPurger
	stats    StatsRefresher
}

// NewScheduler 创建调度器
func NewScheduler(sessions SessionPurger, stats StatsRefresher) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		sessions: sessions,
		stats:    stats,
	}
}

// Start 注册任务并启动；表达式为空时使用默认值
func (s *Scheduler) Start(cfg *config.JobsConfig) error {
	purgeSpec := cfg.SessionPurge
	if purgeSpec == "" {
		purgeSpec = defaultSessionPurge
	}
	statsSpec := cfg.StatsRefresh
	if statsSpec == "" {
		statsSpec = defaultStatsRefresh
	}

	if _, err := s.cron.AddFunc(purgeSpec, s.PurgeSessions); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(statsSpec, s.RefreshStats); err != nil {
		return err
	}

	s.cron.Start()
	log.Info().
		Str("session_purge", purgeSpec).
		Str("stats_refresh", statsSpec).
		Msg("maintenance jobs scheduled")
	return nil
}

// Stop 停止调度并等待正在执行的任务结束
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
		log.Warn().Msg("maintenance jobs still running at shutdown")
	}
}

// PurgeSessions 删除所有已过期的服务端会话
func (s *Scheduler) PurgeSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.sessions.PurgeExpiredSessions(ctx)
	if err != nil {
		log.Error().Err(err).Msg("purge expired sessions failed")
		return
	}
	if n > 0 {
		log.Info().Int("count", n).Msg("expired sessions purged")
	}
}

// RefreshStats 重算统计
func (s *Scheduler) RefreshStats() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.stats.RefreshStats(ctx); err != nil {
		log.Error().Err(err).Msg("refresh stats failed")
	}
}
