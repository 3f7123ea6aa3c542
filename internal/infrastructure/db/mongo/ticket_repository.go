package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/elevva/client-portal/internal/core/domain"
)

const collectionTickets = "tickets"

// TicketRepository stores support tickets. Reads join the client display
// name from the profiles collection; the name is never persisted on the
// ticket document itself.
type TicketRepository struct {
	col *mongo.Collection
}

func NewTicketRepository(db *mongo.Database) *TicketRepository {
	return &TicketRepository{col: db.Collection(collectionTickets)}
}

type ticketDoc struct {
	ID        string              `bson:"_id"`
	ClientID  string              `bson:"client_id"`
	Subject   string              `bson:"subject"`
	Status    domain.TicketStatus `bson:"status"`
	CreatedAt time.Time           `bson:"created_at"`
	Client    []profileDoc        `bson:"client_profile,omitempty"`
}

func (d ticketDoc) toDomain() domain.Ticket {
	t := domain.Ticket{
		ID:        d.ID,
		ClientID:  d.ClientID,
		Subject:   d.Subject,
		Status:    d.Status,
		CreatedAt: d.CreatedAt,
	}
	if len(d.Client) > 0 {
		t.ClientName = d.Client[0].Name
	}
	return t
}

// joinClientProfile is the shared $lookup stage joining client_id against
// the profiles collection.
func joinClientProfile() bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: collectionProfiles},
		{Key: "localField", Value: "client_id"},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: "client_profile"},
	}}}
}

func (r *TicketRepository) Insert(ctx context.Context, ticket *domain.Ticket) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := ticketDoc{
		ID:        ticket.ID,
		ClientID:  ticket.ClientID,
		Subject:   ticket.Subject,
		Status:    ticket.Status,
		CreatedAt: ticket.CreatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

// FindByID retrieves one ticket. When clientID is non-empty the filter is
// part of the query, so customers cannot read other clients' tickets.
func (r *TicketRepository) FindByID(ctx context.Context, id, clientID string) (*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{"_id": id}
	if clientID != "" {
		match["client_id"] = clientID
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		joinClientProfile(),
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("find ticket: %w", err)
	}
	defer cur.Close(ctx)

	var docs []ticketDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode ticket: %w", err)
	}
	if len(docs) == 0 {
		return nil, domain.ErrTicketNotFound
	}
	ticket := docs[0].toDomain()
	return &ticket, nil
}

// List returns tickets ordered by created_at descending, filtered to one
// client when clientID is non-empty.
func (r *TicketRepository) List(ctx context.Context, clientID string) ([]domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{}
	if clientID != "" {
		match["client_id"] = clientID
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		joinClientProfile(),
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer cur.Close(ctx)

	var docs []ticketDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tickets: %w", err)
	}

	tickets := make([]domain.Ticket, 0, len(docs))
	for _, d := range docs {
		tickets = append(tickets, d.toDomain())
	}
	return tickets, nil
}

func (r *TicketRepository) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("update ticket status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes backing the scoped list queries.
func (r *TicketRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "client_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
