// services/auth_service.go
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
	"vidtree/utils"
)

type AuthService struct {
	*BaseService
}

func NewAuthService() *AuthService {
	return &AuthService{
		BaseService: NewBaseService(),
	}
}

// Register creates a new user account
func (as *AuthService) Register(req *models.RegisterRequest) (*models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Check if user already exists
	var existingUser models.User
	err := as.collections.Users().FindOne(ctx, bson.M{"email": req.Email}).Decode(&existingUser)
	if err == nil {
		return nil, errors.New("user with this email already exists")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("database error: %v", err)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user := &models.User{
		ID:         primitive.NewObjectID(),
		Name:       req.Name,
		Email:      req.Email,
		Password:   hashedPassword,
		IsVerified: false,
		IsActive:   true,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if _, err = as.collections.Users().InsertOne(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %v", err)
	}

	return user, nil
}

// Login authenticates a user and returns a token pair
func (as *AuthService) Login(req *models.LoginRequest) (*models.User, *utils.TokenPair, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err := as.collections.Users().FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		return nil, nil, errors.New("invalid email or password")
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		return nil, nil, errors.New("invalid email or password")
	}

	if !user.IsActive {
		return nil, nil, errors.New("account is deactivated")
	}

	tokens, err := utils.GenerateTokenPair(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate tokens: %v", err)
	}

	return &user, tokens, nil
}

// RefreshTokens exchanges a valid refresh token for a fresh token pair
func (as *AuthService) RefreshTokens(refreshToken string) (*utils.TokenPair, error) {
	claims, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, errors.New("invalid or expired refresh token")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err = as.collections.Users().FindOne(ctx, bson.M{"_id": claims.UserID}).Decode(&user)
	if err != nil || !user.IsActive {
		return nil, errors.New("user not found or deactivated")
	}

	return utils.GenerateTokenPair(user.ID, user.Email, user.Name)
}
