package scheduler

import (
	"context"
	"fmt"
	"time"

	"rewards_backend/internal/leads/segmentation"
	"rewards_backend/platform/config"
	"rewards_backend/platform/logger"

	"github.com/hibiken/asynq"
)

type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	seg       *segmentation.Service
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, seg *segmentation.Service, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		seg:    seg,
		log:    log,
	}
	mux.HandleFunc(TaskLeadSegmentation, w.handleLeadSegmentation)

	cron := cfg.GetSegmentationCron()
	if cron != "" {
		sched := asynq.NewScheduler(opt, &asynq.SchedulerOpts{Location: time.UTC})
		task, err := NewLeadSegmentationTask(LeadSegmentationPayload{
			Trigger:     "nightly",
			RequestedAt: time.Now().UTC(),
		})
		if err != nil {
			return nil, err
		}
		if _, err := sched.Register(cron, task, asynq.Queue(queue)); err != nil {
			return nil, fmt.Errorf("register segmentation cron %q: %w", cron, err)
		}
		w.scheduler = sched
	}

	return w, nil
}

func (w *Worker) handleLeadSegmentation(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadSegmentationPayload(task)
	if err != nil {
		return err
	}

	w.log.Info("segmentation task started", "trigger", payload.Trigger)
	result, err := w.seg.Run(ctx)
	if err != nil {
		return err
	}

	w.log.Info("segmentation task finished",
		"trigger", payload.Trigger,
		"hot", len(result.Hot), "warm", len(result.Warm), "cold", len(result.Cold))
	return nil
}

// Run starts the periodic scheduler and the task server, blocking until ctx
// is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	if w.scheduler != nil {
		go func() {
			if err := w.scheduler.Run(); err != nil {
				w.log.Error("periodic scheduler stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		if w.scheduler != nil {
			w.scheduler.Shutdown()
		}
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
