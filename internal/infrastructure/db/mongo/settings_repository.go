package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionSettings = "settings"

const keyIdentityAuthority = "identity_authority"

// SettingsRepository persists the identity-authority endpoint so the
// pointer survives restarts.
type SettingsRepository struct {
	col *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{col: db.Collection(collectionSettings)}
}

// Endpoint returns the stored authority endpoint, or "" when none was set.
func (r *SettingsRepository) Endpoint(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc struct {
		Value string `bson:"value"`
	}
	err := r.col.FindOne(ctx, bson.M{"_id": keyIdentityAuthority}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil
		}
		return "", err
	}
	return doc.Value, nil
}

// SetEndpoint stores the authority endpoint.
func (r *SettingsRepository) SetEndpoint(ctx context.Context, endpoint string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"value":      endpoint,
		"updated_at": time.Now().UTC(),
	}}
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": keyIdentityAuthority}, update, opts)
	return err
}
