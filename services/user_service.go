package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"vidtree/models"
)

type UserService struct {
	*BaseService
	trees *TreeService
}

func NewUserService() *UserService {
	return &UserService{
		BaseService: NewBaseService(),
		trees:       NewTreeService(),
	}
}

// GetProfile returns the public profile for a user
func (us *UserService) GetProfile(userID primitive.ObjectID) (*models.UserProfile, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err := us.collections.Users().FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", userID.Hex(), ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch user: %v", err)
	}

	return &models.UserProfile{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Picture: user.Picture,
	}, nil
}

// UpdateProfile updates the user's display name and picture
func (us *UserService) UpdateProfile(userID primitive.ObjectID, req *models.UpdateProfileRequest) (*models.UserProfile, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	updates := bson.M{"updated_at": time.Now()}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Picture != "" {
		updates["picture"] = req.Picture
	}

	_, err := us.collections.Users().UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": updates},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %v", err)
	}

	return us.GetProfile(userID)
}

// DeleteAccount deactivates the account and cascades deletion to every tree
// and node the user owns. The node cascade runs first so the account is only
// marked gone once its data is.
func (us *UserService) DeleteAccount(userID primitive.ObjectID) error {
	if err := us.trees.RemoveByCreator(userID); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := us.collections.Users().UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{
			"is_active":  false,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate account: %v", err)
	}

	return nil
}
