package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/elevva/client-portal/internal/core/domain"
	"github.com/elevva/client-portal/internal/core/ports"
)

const collectionQuotes = "quotes"

// QuoteRepository stores quotes. Reads join the client display name from
// the profiles collection; updates never touch the joined name or the
// status field.
type QuoteRepository struct {
	col *mongo.Collection
}

func NewQuoteRepository(db *mongo.Database) *QuoteRepository {
	return &QuoteRepository{col: db.Collection(collectionQuotes)}
}

type quoteDoc struct {
	ID          string             `bson:"_id"`
	ClientID    string             `bson:"client_id"`
	Title       string             `bson:"title"`
	Details     string             `bson:"details"`
	Value       float64            `bson:"value"`
	Status      domain.QuoteStatus `bson:"status"`
	CreatedAt   time.Time          `bson:"created_at"`
	Observation string             `bson:"observation,omitempty"`
	Client      []profileDoc       `bson:"client_profile,omitempty"`
}

func (d quoteDoc) toDomain() domain.Quote {
	q := domain.Quote{
		ID:          d.ID,
		ClientID:    d.ClientID,
		Title:       d.Title,
		Details:     d.Details,
		Value:       d.Value,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
		Observation: d.Observation,
	}
	if len(d.Client) > 0 {
		q.ClientName = d.Client[0].Name
	}
	return q
}

func (r *QuoteRepository) Insert(ctx context.Context, quote *domain.Quote) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := quoteDoc{
		ID:          quote.ID,
		ClientID:    quote.ClientID,
		Title:       quote.Title,
		Details:     quote.Details,
		Value:       quote.Value,
		Status:      quote.Status,
		CreatedAt:   quote.CreatedAt,
		Observation: quote.Observation,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

func (r *QuoteRepository) FindByID(ctx context.Context, id, clientID string) (*domain.Quote, error) {
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
		return nil, fmt.Errorf("find quote: %w", err)
	}
	defer cur.Close(ctx)

	var docs []quoteDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}
	if len(docs) == 0 {
		return nil, domain.ErrQuoteNotFound
	}
	quote := docs[0].toDomain()
	return &quote, nil
}

// List returns quotes ordered by created_at descending, filtered to one
// client when clientID is non-empty.
func (r *QuoteRepository) List(ctx context.Context, clientID string) ([]domain.Quote, error) {
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
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer cur.Close(ctx)

	var docs []quoteDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode quotes: %w", err)
	}

	quotes := make([]domain.Quote, 0, len(docs))
	for _, d := range docs {
		quotes = append(quotes, d.toDomain())
	}
	return quotes, nil
}

func (r *QuoteRepository) Update(ctx context.Context, id string, update ports.QuoteUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"title":       update.Title,
		"details":     update.Details,
		"value":       update.Value,
		"observation": update.Observation,
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update quote: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrQuoteNotFound
	}
	return nil
}

func (r *QuoteRepository) UpdateStatus(ctx context.Context, id string, status domain.QuoteStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("update quote status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrQuoteNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes backing the scoped list queries.
func (r *QuoteRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "client_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
