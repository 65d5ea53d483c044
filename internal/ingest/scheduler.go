package ingest

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler triggers a dataset reload on a cron schedule.
type Scheduler struct {
	engine *cron.Cron
	log    *slog.Logger
}

func NewScheduler(spec string, reload func(context.Context) error, log *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{engine: cron.New(), log: log}
	_, err := s.engine.AddFunc(spec, func() {
		if err := reload(context.Background()); err != nil {
			log.Error("scheduled reload failed", slog.String("err", err.Error()))
			return
		}
		log.Info("scheduled reload complete")
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.log.Info("reload scheduler started")
	s.engine.Start()
}

// Stop halts the schedule and waits for a running reload to finish.
func (s *Scheduler) Stop() {
	<-s.engine.Stop().Done()
	s.log.Info("reload scheduler stopped")
}
