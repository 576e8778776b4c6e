package resource

import (
	"context"
	"log/slog"
)

// Service runs the CRUD contract for one entity: decode and validate with
// the schema, persist through the store, encode the result.
type Service[T any] struct {
	store  Store[T]
	schema *Schema[T]
	logger *slog.Logger
}

func NewService[T any](store Store[T], schema *Schema[T], logger *slog.Logger) *Service[T] {
	logger.Debug("Initializing resource service", "entity", schema.Entity)

	return &Service[T]{
		store:  store,
		schema: schema,
		logger: logger,
	}
}

func (s *Service[T]) Entity() string {
	return s.schema.Entity
}

func (s *Service[T]) List(ctx context.Context) ([]Record, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]Record, len(items))
	for i := range items {
		records[i] = s.schema.Encode(&items[i])
	}
	return records, nil
}

func (s *Service[T]) Retrieve(ctx context.Context, id int64) (Record, error) {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	return s.schema.Encode(item), nil
}

func (s *Service[T]) Create(ctx context.Context, body []byte) (Record, error) {
	logger := s.logger.With("component", s.schema.Entity+"_service", "operation", "create")

	var row T
	if err := s.schema.Decode(body, &row, false); err != nil {
		return Record{}, err
	}

	created, err := s.store.Create(ctx, &row)
	if err != nil {
		return Record{}, err
	}

	logger.Info("Created", "id", *s.schema.ID(created))
	return s.schema.Encode(created), nil
}

// Update replaces (partial=false) or patches (partial=true) the row. The row
// must exist before the payload is validated, so an unknown id is reported
// as not found even when the payload is also invalid.
func (s *Service[T]) Update(ctx context.Context, id int64, body []byte, partial bool) (Record, error) {
	logger := s.logger.With("component", s.schema.Entity+"_service", "operation", "update", "id", id, "partial", partial)

	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}

	row := *existing
	if err := s.schema.Decode(body, &row, partial); err != nil {
		return Record{}, err
	}

	updated, err := s.store.Update(ctx, id, &row)
	if err != nil {
		return Record{}, err
	}

	logger.Info("Updated")
	return s.schema.Encode(updated), nil
}

func (s *Service[T]) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Deleted", "component", s.schema.Entity+"_service", "id", id)
	return nil
}
