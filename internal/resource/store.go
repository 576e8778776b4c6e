package resource

import "context"

// Store persists rows of one entity. Get, Update and Delete return a
// not_found AppError for an unknown id; other failures are internal.
type Store[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, row *T) (*T, error)
	Update(ctx context.Context, id int64, row *T) (*T, error)
	Delete(ctx context.Context, id int64) error
}
