// ABOUTME: User repository with account lifecycle actions
// ABOUTME: Adds activation, deactivation and password reset to generic CRUD

package resources

import (
	"context"
	"fmt"
)

// UserRepository manages /users
type UserRepository struct {
	*Repository[User, CreateUserRequest, UpdateUserRequest]
}

// NewUserRepository returns a repository rooted at /users
func NewUserRepository(client Client) *UserRepository {
	return &UserRepository{Repository: NewRepository[User, CreateUserRequest, UpdateUserRequest](client, "/users")}
}

// Activate re-enables a deactivated account
func (r *UserRepository) Activate(ctx context.Context, id int64) error {
	return r.action(ctx, "activeUser", id)
}

// Deactivate disables an account without deleting it
func (r *UserRepository) Deactivate(ctx context.Context, id int64) error {
	return r.action(ctx, "desactiveUser", id)
}

// ResetPassword makes the API issue a new password for the account
func (r *UserRepository) ResetPassword(ctx context.Context, id int64) error {
	return r.action(ctx, "refrechPassword", id)
}

func (r *UserRepository) action(ctx context.Context, name string, id int64) error {
	path := fmt.Sprintf("%s/%s/%d", r.base, name, id)
	if err := r.client.Get(ctx, path, nil); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
