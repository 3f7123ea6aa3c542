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

const collectionServices = "services"

// ServiceRepository stores contracted service records. Reads join the
// client display name from the profiles collection.
type ServiceRepository struct {
	col *mongo.Collection
}

func NewServiceRepository(db *mongo.Database) *ServiceRepository {
	return &ServiceRepository{col: db.Collection(collectionServices)}
}

type serviceDoc struct {
	ID          string               `bson:"_id"`
	ClientID    string               `bson:"client_id"`
	Title       string               `bson:"title"`
	Description string               `bson:"description"`
	Status      domain.ServiceStatus `bson:"status"`
	StartDate   time.Time            `bson:"start_date"`
	EndDate     *time.Time           `bson:"end_date,omitempty"`
	Observation string               `bson:"observation,omitempty"`
	Client      []profileDoc         `bson:"client_profile,omitempty"`
}

func (d serviceDoc) toDomain() domain.Service {
	s := domain.Service{
		ID:          d.ID,
		ClientID:    d.ClientID,
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		Observation: d.Observation,
	}
	if len(d.Client) > 0 {
		s.ClientName = d.Client[0].Name
	}
	return s
}

func (r *ServiceRepository) Insert(ctx context.Context, service *domain.Service) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := serviceDoc{
		ID:          service.ID,
		ClientID:    service.ClientID,
		Title:       service.Title,
		Description: service.Description,
		Status:      service.Status,
		StartDate:   service.StartDate,
		EndDate:     service.EndDate,
		Observation: service.Observation,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

func (r *ServiceRepository) FindByID(ctx context.Context, id, clientID string) (*domain.Service, error) {
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
		return nil, fmt.Errorf("find service: %w", err)
	}
	defer cur.Close(ctx)

	var docs []serviceDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode service: %w", err)
	}
	if len(docs) == 0 {
		return nil, domain.ErrServiceNotFound
	}
	service := docs[0].toDomain()
	return &service, nil
}

// List returns services ordered by start_date descending, filtered to one
// client when clientID is non-empty.
func (r *ServiceRepository) List(ctx context.Context, clientID string) ([]domain.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{}
	if clientID != "" {
		match["client_id"] = clientID
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		joinClientProfile(),
		bson.D{{Key: "$sort", Value: bson.D{{Key: "start_date", Value: -1}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer cur.Close(ctx)

	var docs []serviceDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode services: %w", err)
	}

	services := make([]domain.Service, 0, len(docs))
	for _, d := range docs {
		services = append(services, d.toDomain())
	}
	return services, nil
}

func (r *ServiceRepository) Update(ctx context.Context, id string, update ports.ServiceUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"title":       update.Title,
		"description": update.Description,
		"start_date":  update.StartDate,
		"observation": update.Observation,
	}
	if update.EndDate != nil {
		set["end_date"] = *update.EndDate
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrServiceNotFound
	}
	return nil
}

func (r *ServiceRepository) UpdateStatus(ctx context.Context, id string, status domain.ServiceStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("update service status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrServiceNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes backing the scoped list queries.
func (r *ServiceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "client_id", Value: 1}}},
		{Keys: bson.D{{Key: "start_date", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
