package notification

import (
	"SaveByte/internal/utils/mailing"

	"github.com/google/uuid"
)

// Event is a side effect produced by a workflow step. Inbox events are
// stored and pushed to the user's room; Mail events are emailed. An event
// may carry both.
type Event struct {
	UserID  uuid.UUID
	Message string
	Type    string
	Inbox   bool
	Mail    *mailing.Mail
}

func InboxEvent(userID uuid.UUID, message, notificationType string) Event {
	return Event{UserID: userID, Message: message, Type: notificationType, Inbox: true}
}

func MailEvent(userID uuid.UUID, mail mailing.Mail) Event {
	return Event{UserID: userID, Mail: &mail}
}
