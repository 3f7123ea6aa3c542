package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/elevva/client-portal/internal/core/domain"
)

const collectionMessages = "messages"

// MessageRepository stores ticket messages. Reads join the sender display
// name from the profiles collection.
type MessageRepository struct {
	col *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{col: db.Collection(collectionMessages)}
}

type messageDoc struct {
	ID        string       `bson:"_id"`
	TicketID  string       `bson:"ticket_id"`
	SenderID  string       `bson:"sender_id"`
	Content   string       `bson:"content"`
	Timestamp time.Time    `bson:"timestamp"`
	Sender    []profileDoc `bson:"sender_profile,omitempty"`
}

func (d messageDoc) toDomain() domain.Message {
	m := domain.Message{
		ID:        d.ID,
		TicketID:  d.TicketID,
		SenderID:  d.SenderID,
		Content:   d.Content,
		Timestamp: d.Timestamp,
	}
	if len(d.Sender) > 0 {
		m.SenderName = d.Sender[0].Name
	}
	return m
}

func (r *MessageRepository) Insert(ctx context.Context, message *domain.Message) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := messageDoc{
		ID:        message.ID,
		TicketID:  message.TicketID,
		SenderID:  message.SenderID,
		Content:   message.Content,
		Timestamp: message.Timestamp,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// ListByTicket returns a ticket's conversation ordered by timestamp
// ascending.
func (r *MessageRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"ticket_id": ticketID}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionProfiles},
			{Key: "localField", Value: "sender_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "sender_profile"},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "timestamp", Value: 1}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer cur.Close(ctx)

	var docs []messageDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}

	messages := make([]domain.Message, 0, len(docs))
	for _, d := range docs {
		messages = append(messages, d.toDomain())
	}
	return messages, nil
}

// EnsureIndexes creates the index backing the per-ticket conversation read.
func (r *MessageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "ticket_id", Value: 1}, {Key: "timestamp", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
