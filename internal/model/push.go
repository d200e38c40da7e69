package model

import "time"

// Notification kinds recorded in the sent log.
const (
	NotifTypeEventReminder  = "event_reminder"
	NotifTypeCatTaskOverdue = "cat_task_overdue"
)

type PushSubscription struct {
	ID         int64     `json:"id"`
	Member     Member    `json:"member"`
	Endpoint   string    `json:"endpoint"`
	P256dhKey  string    `json:"p256dh_key"`
	AuthKey    string    `json:"auth_key"`
	DeviceName string    `json:"device_name"`
	CreatedAt  time.Time `json:"created_at"`
}
