package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/supplyhub/storefront-api/pkg/models"
)

var ErrDuplicateEmail = errors.New("email already exists")

func usersCollection() *mongo.Collection {
	return GetCollection("users")
}

func CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	if _, err := usersCollection().InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return user, nil
}

func GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := usersCollection().FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func GetUserByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	var user models.User
	err := usersCollection().FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers returns every user with the password hash projected out.
func ListUsers(ctx context.Context) ([]bson.M, error) {
	opts := options.Find().SetProjection(bson.D{{Key: "password", Value: 0}})
	cursor, err := usersCollection().Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []bson.M{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func UpdateUserRole(ctx context.Context, id bson.ObjectID, role string) error {
	result, err := usersCollection().UpdateOne(
		ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "role", Value: role}}}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func DeleteUser(ctx context.Context, id bson.ObjectID) error {
	result, err := usersCollection().DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func UpdateUserPassword(ctx context.Context, id bson.ObjectID, hashedPassword string) error {
	result, err := usersCollection().UpdateOne(
		ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "password", Value: hashedPassword}}}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetResetToken stores a password-reset token and its expiry on the user.
func SetResetToken(ctx context.Context, id bson.ObjectID, token string, expiry time.Time) error {
	_, err := usersCollection().UpdateOne(
		ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "resetToken", Value: token},
			{Key: "resetTokenExpiry", Value: expiry},
		}}},
	)
	return err
}

// GetUserByResetToken finds the user holding an unexpired reset token.
func GetUserByResetToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	err := usersCollection().FindOne(ctx, bson.D{
		{Key: "resetToken", Value: token},
		{Key: "resetTokenExpiry", Value: bson.D{{Key: "$gt", Value: time.Now()}}},
	}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ResetPassword sets the new hash and clears the reset token in one update.
func ResetPassword(ctx context.Context, id bson.ObjectID, hashedPassword string) error {
	_, err := usersCollection().UpdateOne(
		ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{
			{Key: "$set", Value: bson.D{{Key: "password", Value: hashedPassword}}},
			{Key: "$unset", Value: bson.D{
				{Key: "resetToken", Value: ""},
				{Key: "resetTokenExpiry", Value: ""},
			}},
		},
	)
	return err
}

// AdminExists reports whether any admin account has been created yet.
// Used by the one-time setup endpoint.
func AdminExists(ctx context.Context) (bool, error) {
	count, err := usersCollection().CountDocuments(ctx, bson.D{{Key: "role", Value: models.RoleAdmin}})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
