package models

import "time"

// NotificationType tags local notifications.
type NotificationType string

const (
	NotificationLogin          NotificationType = "login"
	NotificationJoinClassroom  NotificationType = "join_classroom"
	NotificationLeaveClassroom NotificationType = "leave_classroom"
	NotificationLogout         NotificationType = "logout"
)

// Notification is a fire-and-forget user feedback event.
type Notification struct {
	ID        string                 `json:"id"`
	Type      NotificationType       `json:"type"`
	Title     string                 `json:"title"`
	Body      string                 `json:"body"`
	Data      map[string]interface{} `json:"data,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}
