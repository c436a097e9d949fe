package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smartwaste/waste-api/internal/core/domain"
	"github.com/smartwaste/waste-api/internal/core/ports"
)

const collectionUsers = "users"

// UserRepository implements ports.UserRepository on the users collection.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{col: store.Collection(collectionUsers)}
}

var _ ports.UserRepository = (*UserRepository)(nil)

type userDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	Email      string             `bson:"email"`
	Phone      string             `bson:"phone"`
	Password   string             `bson:"password"`
	Role       string             `bson:"role"`
	Address    string             `bson:"address,omitempty"`
	Location   string             `bson:"location,omitempty"`
	License    string             `bson:"license,omitempty"`
	Vehicle    string             `bson:"vehicle,omitempty"`
	Department string             `bson:"department,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
	Version    int64              `bson:"__v"`
}

func toUserDoc(u *domain.User) userDoc {
	f := u.Profile.Fields()
	return userDoc{
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Password:   string(u.Password),
		Role:       string(u.Role()),
		Address:    f.Address,
		Location:   f.Location,
		License:    f.License,
		Vehicle:    f.Vehicle,
		Department: f.Department,
		CreatedAt:  u.CreatedAt.UTC(),
		UpdatedAt:  u.UpdatedAt.UTC(),
		Version:    u.Revision,
	}
}

func (d userDoc) toDomain() (*domain.User, error) {
	role, err := domain.ParseRole(d.Role)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", d.ID.Hex(), err)
	}
	profile, err := domain.ProfileFor(role, domain.ProfileFields{
		Address:    d.Address,
		Location:   d.Location,
		License:    d.License,
		Vehicle:    d.Vehicle,
		Department: d.Department,
	})
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		Password:  domain.PasswordHash(d.Password),
		Profile:   profile,
		Revision:  d.Version,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}, nil
}

// Create inserts a new user. A unique index violation on email is reported
// as domain.ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toUserDoc(user)
	doc.Version = 0
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert user: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toDomain()
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindByID returns domain.ErrUserNotFound for ids that are not valid
// ObjectIDs, since no document can have them.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain()
}

// Update overwrites the mutable fields of an existing user and bumps its
// revision. Role and creation time never change.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	set, err := updatableFields(toUserDoc(user))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{
		"$set": set,
		"$inc": bson.M{"__v": 1},
	}

	var doc userDoc
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, domain.ErrUserNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return doc.toDomain()
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// updatableFields renders doc as a $set document, leaving out the identity,
// revision and immutable fields. Empty role fields are omitted so documents
// keep only the fields of their own role.
func updatableFields(doc userDoc) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}
	var set bson.M
	if err := bson.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}
	for _, k := range []string{"_id", "__v", "role", "createdAt"} {
		delete(set, k)
	}
	return set, nil
}
