package domain

import (
	"time"
)

const (
	NotificationFoodAdded            = "Food Added"
	NotificationTransactionStarted   = "Transaction Started"
	NotificationTransactionFailed    = "Transaction Failed"
	NotificationTransactionCompleted = "Transaction Completed"
)

var (
	MessageSuccessGetNotifications = "notifications retrieved successfully"
	MessageSuccessMarkRead         = "notifications marked as read"

	MessageFailedGetNotifications = "fetching notifications failed, please try again"
	MessageFailedMarkRead         = "marking notifications as read failed, please try again"
)

type (
	NotificationResponse struct {
		ID        string    `json:"id"`
		Message   string    `json:"message"`
		Type      string    `json:"type"`
		IsRead    bool      `json:"is_read"`
		CreatedAt time.Time `json:"created_at"`
	}

	NotificationInbox struct {
		Notifications []NotificationResponse `json:"notifications"`
		UnreadCount   int64                  `json:"unread_count"`
	}

	// NotificationPayload is the body pushed over the real-time channel.
	NotificationPayload struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	}
)
