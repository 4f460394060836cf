// ABOUTME: Generic CRUD client for one entity collection of the API
// ABOUTME: Validates requests locally before sending them through the gateway

package resources

import (
	"context"
	"fmt"
)

// Client is the gateway surface the repositories need. *api.Gateway satisfies it.
type Client interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
}

// Repository talks to one collection such as /roles. T is the entity, C the
// create request and U the update request.
type Repository[T, C, U any] struct {
	client Client
	base   string
}

// NewRepository returns a repository rooted at base
func NewRepository[T, C, U any](client Client, base string) *Repository[T, C, U] {
	return &Repository[T, C, U]{client: client, base: base}
}

// Base returns the collection path
func (r *Repository[T, C, U]) Base() string {
	return r.base
}

func (r *Repository[T, C, U]) List(ctx context.Context) ([]T, error) {
	var items []T
	if err := r.client.Get(ctx, r.base, &items); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.base, err)
	}
	return items, nil
}

func (r *Repository[T, C, U]) Get(ctx context.Context, id int64) (*T, error) {
	var item T
	if err := r.client.Get(ctx, r.itemPath(id), &item); err != nil {
		return nil, fmt.Errorf("get %s: %w", r.itemPath(id), err)
	}
	return &item, nil
}

func (r *Repository[T, C, U]) Create(ctx context.Context, req C) (*T, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	var item T
	if err := r.client.Post(ctx, r.base, req, &item); err != nil {
		return nil, fmt.Errorf("create in %s: %w", r.base, err)
	}
	return &item, nil
}

func (r *Repository[T, C, U]) Update(ctx context.Context, id int64, req U) (*T, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	var item T
	if err := r.client.Put(ctx, r.itemPath(id), req, &item); err != nil {
		return nil, fmt.Errorf("update %s: %w", r.itemPath(id), err)
	}
	return &item, nil
}

// Delete removes an entity. The API exposes deletion as a GET.
func (r *Repository[T, C, U]) Delete(ctx context.Context, id int64) error {
	path := fmt.Sprintf("%s/delete/%d", r.base, id)
	if err := r.client.Get(ctx, path, nil); err != nil {
		return fmt.Errorf("delete %s: %w", r.itemPath(id), err)
	}
	return nil
}

func (r *Repository[T, C, U]) itemPath(id int64) string {
	return fmt.Sprintf("%s/%d", r.base, id)
}

// Typed repositories
type (
	RoleRepository      = Repository[Role, CreateRoleRequest, UpdateRoleRequest]
	ClassRepository     = Repository[Class, CreateClassRequest, UpdateClassRequest]
	ProfessorRepository = Repository[Professor, CreateProfessorRequest, UpdateProfessorRequest]
	ModuleRepository    = Repository[Module, CreateModuleRequest, UpdateModuleRequest]
	RoomRepository      = Repository[Room, CreateRoomRequest, UpdateRoomRequest]
)
