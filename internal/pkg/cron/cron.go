package cron

import (
	"context"
	"log"
	"time"
)

// Job 定时执行的任务
type Job interface {
	Run(ctx context.Context) error
}

// Service 每日定时任务调度，固定在每天 runAtHour 点（UTC）执行
type Service struct {
	job       Job
	runAtHour int
	stopChan  chan struct{}
}

func NewService(job Job, runAtHour int) *Service {
	if runAtHour < 0 || runAtHour > 23 {
		runAtHour = 0
	}
	return &Service{
		job:       job,
		runAtHour: runAtHour,
		stopChan:  make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runDaily()
	log.Printf("Cron service started (daily at %02d:00 UTC)", s.runAtHour)
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// RunNow 立即执行一次，手动触发用
func (s *Service) RunNow(ctx context.Context) error {
	return s.job.Run(ctx)
}

func (s *Service) runDaily() {
	timer := time.NewTimer(s.untilNextRun(time.Now().UTC()))

	for {
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			if err := s.job.Run(context.Background()); err != nil {
				log.Printf("Cron job failed: %v", err)
			}
			timer.Reset(s.untilNextRun(time.Now().UTC()))
		}
	}
}

// untilNextRun 距下一个 runAtHour 整点的时长
func (s *Service) untilNextRun(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.runAtHour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
