package types

import "time"

type NotificationType string

const (
	NotificationEventCreated       NotificationType = "event.created"
	NotificationEventUpdated       NotificationType = "event.updated"
	NotificationEventDeleted       NotificationType = "event.deleted"
	NotificationParticipantAdded   NotificationType = "event.participant_added"
	NotificationParticipantRemoved NotificationType = "event.participant_removed"
)

// Notification is published after a successful write.
type Notification struct {
	Type          NotificationType `json:"type"`
	EventID       int64            `json:"event_id"`
	ParticipantID int64            `json:"participant_id,omitempty"`
	OccurredAt    time.Time        `json:"occurred_at"`
}
