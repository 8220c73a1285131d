package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/redis/go-redis/v9"
)

// Scheduler runs the sweep once a day at a fixed hour. A redis SETNX
// day-key keeps the sweep single-run when several instances share the
// store; losing the race is not an error.
type Scheduler struct {
	scheduler gocron.Scheduler
	sweeper   *Sweeper
	rdb       *redis.Client
}

func NewScheduler(s *Sweeper, rdb *redis.Client, hour int) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	sc := &Scheduler{scheduler: sched, sweeper: s, rdb: rdb}
	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(uint(hour), 0, 0))),
		gocron.NewTask(sc.runOnce),
		gocron.WithName("overdue-sweep"),
	)
	if err != nil {
		return nil, fmt.Errorf("create sweep job: %w", err)
	}
	return sc, nil
}

func (sc *Scheduler) Start() {
	slog.Info("starting overdue sweep scheduler")
	sc.scheduler.Start()
}

func (sc *Scheduler) Stop() error {
	slog.Info("stopping overdue sweep scheduler")
	return sc.scheduler.Shutdown()
}

func (sc *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	today := time.Now().UTC()
	lockKey := "sweep:ran:" + today.Format("2006-01-02")
	ok, err := sc.rdb.SetNX(ctx, lockKey, "1", 48*time.Hour).Result()
	if err != nil {
		slog.Warn("sweep lock check failed, running anyway",
			slog.String("error", err.Error()))
	} else if !ok {
		slog.Info("sweep already ran today, skipping")
		return
	}

	if _, err := sc.sweeper.Run(ctx, today); err != nil {
		slog.Error("scheduled sweep failed", slog.String("error", err.Error()))
	}
}
