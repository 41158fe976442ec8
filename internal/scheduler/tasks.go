package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskLeadSegmentation = "leads.segmentation.run"

// LeadSegmentationPayload carries the trigger so runs can be distinguished
// in the asynq dashboard and logs.
type LeadSegmentationPayload struct {
	Trigger     string    `json:"trigger"` // "nightly" or "manual"
	RequestedAt time.Time `json:"requestedAt"`
}

func NewLeadSegmentationTask(payload LeadSegmentationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadSegmentation, data), nil
}

func ParseLeadSegmentationPayload(task *asynq.Task) (LeadSegmentationPayload, error) {
	var payload LeadSegmentationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadSegmentationPayload{}, err
	}
	return payload, nil
}
