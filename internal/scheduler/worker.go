package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	dealssvc "showdesk_backend/internal/deals/service"
	"showdesk_backend/platform/config"
	"showdesk_backend/platform/logger"
)

// CrewSyncer runs the crew-plan repair for a handed-over deal.
type CrewSyncer interface {
	SyncCrewFromProposal(ctx context.Context, workspaceID, dealID uuid.UUID) (dealssvc.SyncResult, error)
}

// Worker consumes scheduled tasks.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	syncer CrewSyncer
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, syncer CrewSyncer, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
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
		syncer: syncer,
		log:    log,
	}

	mux.HandleFunc(TaskCrewSync, w.handleCrewSync)

	return w, nil
}

func (w *Worker) handleCrewSync(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseCrewSyncPayload(task)
	if err != nil {
		return err
	}

	workspaceID, err := uuid.Parse(payload.WorkspaceID)
	if err != nil {
		return err
	}
	dealID, err := uuid.Parse(payload.DealID)
	if err != nil {
		return err
	}

	result, err := w.syncer.SyncCrewFromProposal(ctx, workspaceID, dealID)
	if err != nil {
		w.log.Error("crew sync failed", "dealId", dealID, "error", err)
		return err
	}

	w.log.Info("crew sync completed",
		"dealId", dealID,
		"productionId", payload.ProductionID,
		"added", result.Added)
	return nil
}

// Run serves tasks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
