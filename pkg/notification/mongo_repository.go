package notification

import (
	"SaveByte/entities"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionNotifications = "notifications"

type (
	notificationDocument struct {
		ID        string    `bson:"_id"`
		UserID    string    `bson:"user_id"`
		Message   string    `bson:"message"`
		Type      string    `bson:"type"`
		IsRead    bool      `bson:"is_read"`
		CreatedAt time.Time `bson:"created_at"`
	}

	mongoNotificationRepository struct {
		collection *mongo.Collection
	}
)

// NewMongoNotificationRepository stores the inbox in MongoDB instead of
// PostgreSQL. Selected with NOTIFICATION_STORE=mongo.
func NewMongoNotificationRepository(ctx context.Context, db *mongo.Database) (NotificationRepository, error) {
	collection := db.Collection(CollectionNotifications)
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "is_read", Value: 1},
			{Key: "created_at", Value: -1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create notification index: %w", err)
	}
	return &mongoNotificationRepository{collection: collection}, nil
}

func (r *mongoNotificationRepository) CreateNotifications(ctx context.Context, notifications []*entities.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(notifications))
	for _, n := range notifications {
		if n.ID == uuid.Nil {
			n.ID = uuid.New()
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = time.Now()
		}
		docs = append(docs, notificationDocument{
			ID:        n.ID.String(),
			UserID:    n.UserID.String(),
			Message:   n.Message,
			Type:      n.Type,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert notifications to Mongo: %w", err)
	}
	return nil
}

func (r *mongoNotificationRepository) GetUnreadNotifications(ctx context.Context, userID string) ([]*entities.Notification, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"user_id": userID, "is_read": false},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []notificationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}

	notifications := make([]*entities.Notification, 0, len(docs))
	for _, doc := range docs {
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			continue
		}
		owner, err := uuid.Parse(doc.UserID)
		if err != nil {
			continue
		}
		notifications = append(notifications, &entities.Notification{
			ID:        id,
			UserID:    owner,
			Message:   doc.Message,
			Type:      doc.Type,
			IsRead:    doc.IsRead,
			CreatedAt: doc.CreatedAt,
		})
	}
	return notifications, nil
}

func (r *mongoNotificationRepository) CountUnreadNotifications(ctx context.Context, userID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"user_id": userID, "is_read": false})
}

func (r *mongoNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return result.ModifiedCount, nil
}
