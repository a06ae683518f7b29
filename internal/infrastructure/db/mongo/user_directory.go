package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/biodatacommons/query-gateway/internal/core/domain"
)

const userCollection = "users"

// MongoUserDirectory persists identity records keyed by user_id.
type MongoUserDirectory struct {
	coll *mongo.Collection
}

func NewUserDirectory(db *mongo.Database) *MongoUserDirectory {
	return &MongoUserDirectory{coll: db.Collection(userCollection)}
}

type mongoUser struct {
	UserID    string   `bson:"user_id"`
	Subject   string   `bson:"subject"`
	Roles     []string `bson:"roles,omitempty"`
	CreatedAt int64    `bson:"created_at"`
	UpdatedAt int64    `bson:"updated_at"`
}

// FindOrCreate returns the record for userID, inserting it atomically on
// first sight. The upsert happens server-side in a single FindOneAndUpdate,
// so two concurrent first-time logins for the same identity converge on one
// record instead of racing a check-then-insert.
func (d *MongoUserDirectory) FindOrCreate(ctx context.Context, subject, userID string) (*domain.User, error) {
	return resolveConflictOnce(func() (*domain.User, error) {
		return d.upsert(ctx, subject, userID)
	})
}

// resolveConflictOnce retries a single time on a duplicate-key error. The
// unique user_id index can still reject one of two racing upserts with
// E11000; the loser's retry finds the record the winner just inserted.
func resolveConflictOnce(attempt func() (*domain.User, error)) (*domain.User, error) {
	user, err := attempt()
	if err != nil && mongo.IsDuplicateKeyError(err) {
		return attempt()
	}
	return user, err
}

func (d *MongoUserDirectory) upsert(ctx context.Context, subject, userID string) (*domain.User, error) {
	now := time.Now().UTC().Unix()

	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"user_id":    userID,
			"subject":    subject,
			"created_at": now,
			"updated_at": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var mu mongoUser
	if err := d.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&mu); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("find or create user: %w", err)
	}

	return &domain.User{
		UserID:    mu.UserID,
		Subject:   mu.Subject,
		Roles:     mu.Roles,
		CreatedAt: unixToTime(mu.CreatedAt),
		UpdatedAt: unixToTime(mu.UpdatedAt),
	}, nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
