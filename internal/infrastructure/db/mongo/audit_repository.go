package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/biodatacommons/query-gateway/internal/core/domain"
)

const auditCollection = "auth_audit"

// MongoAuditRepository appends gatekeeper decisions to the audit collection.
type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEvent struct {
	UserID    string `bson:"user_id,omitempty"`
	Subject   string `bson:"subject,omitempty"`
	Outcome   string `bson:"outcome"`
	Kind      string `bson:"kind,omitempty"`
	Reason    string `bson:"reason,omitempty"`
	Path      string `bson:"path"`
	Timestamp int64  `bson:"timestamp"`
}

func (r *MongoAuditRepository) Record(ctx context.Context, event domain.AuditEvent) error {
	doc := mongoAuditEvent{
		UserID:    event.UserID,
		Subject:   event.Subject,
		Outcome:   string(event.Outcome),
		Kind:      event.Kind,
		Reason:    event.Reason,
		Path:      event.Path,
		Timestamp: event.Timestamp.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
