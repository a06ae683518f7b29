package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/biodatacommons/query-gateway/internal/core/domain"
)

const resourceCollection = "resources"

// MongoResourceRepository persists registered upstream resources keyed by UUID.
type MongoResourceRepository struct {
	coll *mongo.Collection
}

func NewResourceRepository(db *mongo.Database) *MongoResourceRepository {
	return &MongoResourceRepository{coll: db.Collection(resourceCollection)}
}

type mongoResource struct {
	UUID           string `bson:"_id"`
	Name           string `bson:"name"`
	Description    string `bson:"description,omitempty"`
	TargetURL      string `bson:"target_url,omitempty"`
	ResourceRSPath string `bson:"resource_rs_path,omitempty"`
	Token          string `bson:"token,omitempty"`
	CreatedAt      int64  `bson:"created_at"`
	UpdatedAt      int64  `bson:"updated_at"`
}

func (r *MongoResourceRepository) List(ctx context.Context) ([]*domain.Resource, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer cursor.Close(ctx)

	var resources []*domain.Resource
	for cursor.Next(ctx) {
		var mr mongoResource
		if err := cursor.Decode(&mr); err != nil {
			return nil, fmt.Errorf("decode resource: %w", err)
		}
		resource, err := toDomainResource(mr)
		if err != nil {
			return nil, err
		}
		resources = append(resources, resource)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return resources, nil
}

func (r *MongoResourceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Resource, error) {
	var mr mongoResource
	if err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&mr); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrResourceNotFound
		}
		return nil, fmt.Errorf("find resource: %w", err)
	}
	return toDomainResource(mr)
}

func (r *MongoResourceRepository) Create(ctx context.Context, resource *domain.Resource) (*domain.Resource, error) {
	if _, err := r.coll.InsertOne(ctx, toMongoResource(resource)); err != nil {
		return nil, fmt.Errorf("insert resource: %w", err)
	}
	return resource, nil
}

// Update writes only the mutable fields; created_at is never part of the
// update document.
func (r *MongoResourceRepository) Update(ctx context.Context, resource *domain.Resource) (*domain.Resource, error) {
	update := bson.M{"$set": bson.M{
		"name":             resource.Name,
		"description":      resource.Description,
		"target_url":       resource.TargetURL,
		"resource_rs_path": resource.ResourceRSPath,
		"token":            resource.Token,
		"updated_at":       resource.UpdatedAt.Unix(),
	}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": resource.UUID.String()}, update)
	if err != nil {
		return nil, fmt.Errorf("update resource: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, domain.ErrResourceNotFound
	}
	return resource, nil
}

func (r *MongoResourceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrResourceNotFound
	}
	return nil
}

func toMongoResource(resource *domain.Resource) mongoResource {
	return mongoResource{
		UUID:           resource.UUID.String(),
		Name:           resource.Name,
		Description:    resource.Description,
		TargetURL:      resource.TargetURL,
		ResourceRSPath: resource.ResourceRSPath,
		Token:          resource.Token,
		CreatedAt:      resource.CreatedAt.Unix(),
		UpdatedAt:      resource.UpdatedAt.Unix(),
	}
}

func toDomainResource(mr mongoResource) (*domain.Resource, error) {
	id, err := uuid.Parse(mr.UUID)
	if err != nil {
		return nil, fmt.Errorf("stored resource id %q: %w", mr.UUID, err)
	}
	return &domain.Resource{
		UUID:           id,
		Name:           mr.Name,
		Description:    mr.Description,
		TargetURL:      mr.TargetURL,
		ResourceRSPath: mr.ResourceRSPath,
		Token:          mr.Token,
		CreatedAt:      unixToTime(mr.CreatedAt),
		UpdatedAt:      unixToTime(mr.UpdatedAt),
	}, nil
}
