package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/veritrace/provenance/internal/core/domain"
)

const collectionRoles = "role_assignments"

// RoleRepository persists (account, role) membership documents. One
// document per held assignment; absence means the role is not held.
type RoleRepository struct {
	col *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{col: db.Collection(collectionRoles)}
}

// HasRole reports whether a membership document exists for (account, role).
func (r *RoleRepository) HasRole(ctx context.Context, account string, role domain.Role) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := r.col.FindOne(ctx, bson.M{"account": account, "role": string(role)}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Grant upserts the membership document. Granting an already-held role
// leaves the document unchanged, which makes the operation idempotent.
func (r *RoleRepository) Grant(ctx context.Context, account string, role domain.Role) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"account": account, "role": string(role)}
	update := bson.M{"$setOnInsert": bson.M{
		"account":    account,
		"role":       string(role),
		"granted_at": time.Now().UTC(),
	}}
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, filter, update, opts)
	return err
}

// Revoke deletes the membership document. Revoking a role not held deletes
// nothing and succeeds.
func (r *RoleRepository) Revoke(ctx context.Context, account string, role domain.Role) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.DeleteOne(ctx, bson.M{"account": account, "role": string(role)})
	return err
}

// EnsureIndexes creates the compound unique index on (account, role).
func (r *RoleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "account", Value: 1}, {Key: "role", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, err := r.col.Indexes().CreateOne(ctx, index)
	return err
}
