package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/VedantYeola/Wear-Story/internal/domain"
	"github.com/VedantYeola/Wear-Story/internal/repository"
)

var activitySinkFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "storefront_activity_sink_failures_total",
	Help: "Activity entries the external sink rejected or could not be reached for.",
})

const sinkWriteTimeout = 5 * time.Second

// GuestID identifies an anonymous shopper in activity entries.
const GuestID = "guest"

// Actor is who performed a recorded action.
type Actor struct {
	ID    string
	Email string
}

// ActivityRecorder writes every entry to a local ring and, in the
// background, to the durable sink. Sink failures are logged and counted,
// never returned.
type ActivityRecorder struct {
	ring   *domain.ActivityRing
	sink   repository.ActivitySink
	logger *slog.Logger
	now    func() time.Time
	wg     sync.WaitGroup
}

// NewActivityRecorder creates a recorder. sink may be nil.
func NewActivityRecorder(sink repository.ActivitySink, logger *slog.Logger) *ActivityRecorder {
	return &ActivityRecorder{
		ring:   domain.NewActivityRing(domain.ActivityRingSize),
		sink:   sink,
		logger: logger,
		now:    time.Now,
	}
}

// Record returns as soon as the local ring holds the entry.
func (r *ActivityRecorder) Record(ctx context.Context, kind domain.ActionKind, details map[string]any, actor Actor) domain.ActivityEntry {
	if actor.ID == "" {
		actor.ID = GuestID
	}
	entry := domain.ActivityEntry{
		ID:         uuid.NewString(),
		UserID:     actor.ID,
		UserEmail:  actor.Email,
		ActionType: kind,
		Details:    details,
		CreatedAt:  r.now().UTC(),
	}
	r.ring.Push(entry)

	r.logger.InfoContext(ctx, "activity recorded",
		slog.String("action", string(kind)),
		slog.String("user_id", entry.UserID),
	)

	if r.sink == nil {
		return entry
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		sinkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkWriteTimeout)
		defer cancel()
		if err := r.sink.Append(sinkCtx, entry); err != nil {
			activitySinkFailures.Inc()
			r.logger.WarnContext(ctx, "failed to write activity to sink",
				slog.String("action", string(kind)),
				slog.String("error", err.Error()),
			)
		}
	}()
	return entry
}

// Recent merges the ring with the sink's newest entries, newest first,
// capped at the display limit. An unreachable sink yields the ring alone.
func (r *ActivityRecorder) Recent(ctx context.Context) []domain.ActivityEntry {
	local := r.ring.Entries()
	if r.sink == nil {
		return domain.MergeActivity(local, nil, domain.ActivityDisplayLimit)
	}

	remote, err := r.sink.Recent(ctx, domain.ActivityDisplayLimit)
	if err != nil {
		r.logger.WarnContext(ctx, "failed to read activity sink, showing local entries only",
			slog.String("error", err.Error()),
		)
	}
	return domain.MergeActivity(local, remote, domain.ActivityDisplayLimit)
}

// Wait blocks until background sink writes have finished.
func (r *ActivityRecorder) Wait() {
	r.wg.Wait()
}
