package identity

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/pharma/backend/internal/domain/pharmacy"
	"github.com/pharma/backend/internal/domain/shared"
)

// UserService handles user account management
type UserService struct {
	store pharmacy.UserStore
}

// NewUserService creates a new UserService
func NewUserService(store pharmacy.UserStore) *UserService {
	return &UserService{store: store}
}

// CreateUserInput carries the fields accepted on user creation.
// Password is the plaintext credential; it is hashed before storage.
type CreateUserInput struct {
	Username string
	Password string
	FullName string
	Role     pharmacy.Role
}

// UpdateUserInput is a partial update; a non-nil Password is re-hashed
type UpdateUserInput struct {
	Username *string
	Password *string
	FullName *string
	Role     *pharmacy.Role
}

// Create creates a new user with a bcrypt-hashed password
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*pharmacy.User, error) {
	if len(input.Password) < 6 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Failed to hash password")
	}

	user, err := pharmacy.NewUser(input.Username, string(hash), input.FullName, input.Role)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id int64) (*pharmacy.User, error) {
	return s.store.GetUser(ctx, id)
}

// List retrieves all users in insertion order
func (s *UserService) List(ctx context.Context) ([]pharmacy.User, error) {
	return s.store.ListUsers(ctx)
}

// Update applies a partial update to a user
func (s *UserService) Update(ctx context.Context, id int64, input UpdateUserInput) (*pharmacy.User, error) {
	patch := pharmacy.UserPatch{
		Username: input.Username,
		FullName: input.FullName,
		Role:     input.Role,
	}
	if input.Role != nil && !input.Role.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Role must be admin, manager, or staff")
	}
	if input.Password != nil {
		if len(*input.Password) < 6 {
			return nil, shared.NewDomainError("INVALID_INPUT", "Password must be at least 6 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Failed to hash password")
		}
		hashed := string(hash)
		patch.Password = &hashed
	}
	return s.store.UpdateUser(ctx, id, patch)
}

// Delete removes a user; deleting an absent user is an error
func (s *UserService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.store.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return shared.NewNotFoundError("user", id)
	}
	return nil
}
