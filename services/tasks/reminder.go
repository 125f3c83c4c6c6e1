package tasks

import (
	"carvault/models"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TypeServiceReminder = "service:reminder"

func NewServiceReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeServiceReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}
