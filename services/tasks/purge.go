package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TypeAvailabilityPurge = "availability:purge"

// PurgePayload is the body of an availability:purge task.
type PurgePayload struct {
	RegisteredAt time.Time `json:"registeredAt"`
}

// NewAvailabilityPurgeTask builds the daily sweep of expired overrides and
// leave periods. Unique keeps overlapping schedulers from doubling it up.
func NewAvailabilityPurgeTask(registeredAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(PurgePayload{RegisteredAt: registeredAt})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeAvailabilityPurge, b)
	opts := []asynq.Option{asynq.MaxRetry(3), asynq.Timeout(5 * time.Minute), asynq.Unique(time.Hour)}

	return task, opts, nil
}
