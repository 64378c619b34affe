package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"newshub/internal/domain/entity"
	"newshub/internal/repository"
)

const usersCollection = "users"

type UserRepo struct {
	col *mongo.Collection
}

func NewUserRepo(db *mongo.Database) repository.UserRepository {
	return &UserRepo{col: db.Collection(usersCollection)}
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("FindByEmail: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	if _, err := r.col.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *UserRepo) UpdateLogin(ctx context.Context, email string, loggedInAt time.Time, role string) error {
	set := bson.M{"last_loggedIn": loggedInAt}
	if role != "" {
		set["role"] = role
	}
	if _, err := r.col.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": set}); err != nil {
		return fmt.Errorf("UpdateLogin: %w", err)
	}
	return nil
}

func (r *UserRepo) CountAll(ctx context.Context) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("CountAll: %w", err)
	}
	return n, nil
}
