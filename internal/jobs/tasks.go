package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the queue every task runs on.
	QueueDefault = "default"

	// TaskSendMail delivers one transactional email.
	TaskSendMail = "mail:send"
	// TaskSendPush delivers one FCM push and logs it to the notification table.
	TaskSendPush = "push:send"

	// TaskFunctionReminder scans for functions happening tomorrow.
	TaskFunctionReminder = "reminder:functions"
	// TaskPasswordExpiry scans for passwords unchanged for three months.
	TaskPasswordExpiry = "reminder:passwords"
	// TaskUpcomingSweep marks past-dated upcoming functions completed.
	TaskUpcomingSweep = "upcoming:sweep"
)

// Cron specs for the scheduled scans (UTC).
const (
	CronFunctionReminder = "0 9 * * *"
	CronPasswordExpiry   = "0 9 * * *"
	CronUpcomingSweep    = "30 0 * * *"
)

type SendMailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type SendPushPayload struct {
	UserID int64  `json:"userId"`
	Token  string `json:"token"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Type   string `json:"type"`
}

func NewSendMailTask(payload SendMailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSendMail, data), nil
}

func NewSendPushTask(payload SendPushPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSendPush, data), nil
}
