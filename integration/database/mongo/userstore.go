package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/sessionkit/core/identity"
)

const usersCollection = "users"

// userDocument mirrors the registration system's user schema. Only the fields
// credential verification needs are decoded.
type userDocument struct {
	ID           bson.ObjectID `bson:"_id"`
	Email        string        `bson:"email"`
	Password     string        `bson:"password"`
	Role         string        `bson:"role"`
	IsActive     bool          `bson:"isActive"`
	Registration struct {
		RegistrationID string `bson:"registrationId"`
		Status         string `bson:"status"`
	} `bson:"registration"`
}

// UserStore adapts the users collection to the identity.UserStore contract.
type UserStore struct {
	col *mongo.Collection
}

// NewUserStore creates the adapter over the database's users collection.
func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{col: db.Collection(usersCollection)}
}

// FindByEmail looks up an account by normalized email. The caller has already
// case-folded the address; documents store emails lowercased at registration
// time.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (identity.UserRecord, error) {
	var doc userDocument
	err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return identity.UserRecord{}, identity.ErrUserNotFound
		}
		return identity.UserRecord{}, errors.Join(identity.ErrStoreUnavailable, err)
	}

	return identity.UserRecord{
		ID:                 doc.ID.Hex(),
		Email:              doc.Email,
		PasswordHash:       doc.Password,
		Role:               doc.Role,
		RegistrationID:     doc.Registration.RegistrationID,
		RegistrationStatus: doc.Registration.Status,
		IsActive:           doc.IsActive,
	}, nil
}

var _ identity.UserStore = (*UserStore)(nil)
