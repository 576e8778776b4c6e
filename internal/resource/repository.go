package resource

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"

	"spaceapp/internal/shared/database"
	"spaceapp/internal/shared/errors"
)

// Repository is the Postgres Store for an entity. Its SQL is derived once
// from the schema's column list.
type Repository[T any] struct {
	db     *database.DB
	schema *Schema[T]
	logger *slog.Logger

	listQuery   string
	getQuery    string
	insertQuery string
	updateQuery string
	deleteQuery string
}

func NewRepository[T any](db *database.DB, schema *Schema[T], logger *slog.Logger) *Repository[T] {
	logger.Debug("Initializing repository", "entity", schema.Entity, "table", schema.Table)

	cols := schema.Columns()
	placeholders := make([]string, len(cols))
	assignments := make([]string, len(cols))
	for i, col := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		assignments[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	idParam := fmt.Sprintf("$%d", len(cols)+1)
	selectList := schema.SelectList()

	return &Repository[T]{
		db:     db,
		schema: schema,
		logger: logger,

		listQuery: fmt.Sprintf(`SELECT %s FROM %s ORDER BY id`, selectList, schema.Table),
		getQuery:  fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, selectList, schema.Table),
		insertQuery: fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
			schema.Table, strings.Join(cols, ", "), strings.Join(placeholders, ", "), selectList),
		updateQuery: fmt.Sprintf(`UPDATE %s SET %s WHERE id = %s RETURNING %s`,
			schema.Table, strings.Join(assignments, ", "), idParam, selectList),
		deleteQuery: fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, schema.Table),
	}
}

func (r *Repository[T]) log(operation string) *slog.Logger {
	return r.logger.With(
		"component", r.schema.Entity+"_repository",
		"operation", operation,
	)
}

func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	logger := r.log("list")
	logger.Debug("Listing rows")

	rows, err := r.db.QueryContext(ctx, r.listQuery)
	if err != nil {
		logger.Error("Failed to query rows", "error", err)
		return nil, errors.WrapInternal(fmt.Sprintf("failed to list %s", r.schema.Entity), err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	items := []T{}
	for rows.Next() {
		var item T
		if err := rows.Scan(r.schema.ScanDest(&item)...); err != nil {
			logger.Error("Failed to scan row", "error", err)
			return nil, errors.WrapInternal(fmt.Sprintf("failed to scan %s", r.schema.Entity), err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, errors.WrapInternal(fmt.Sprintf("error iterating %s rows", r.schema.Entity), err)
	}

	logger.Debug("Rows retrieved", "count", len(items))
	return items, nil
}

func (r *Repository[T]) Get(ctx context.Context, id int64) (*T, error) {
	logger := r.log("get").With("id", id)

	var item T
	err := r.db.QueryRowContext(ctx, r.getQuery, id).Scan(r.schema.ScanDest(&item)...)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, r.notFound(id)
	}
	if err != nil {
		logger.Error("Failed to get row", "error", err)
		return nil, errors.WrapInternal(fmt.Sprintf("failed to get %s", r.schema.Entity), err)
	}

	return &item, nil
}

func (r *Repository[T]) Create(ctx context.Context, row *T) (*T, error) {
	logger := r.log("create")
	logger.Debug("Creating row")

	var created T
	err := r.db.QueryRowContext(ctx, r.insertQuery, r.schema.Values(row)...).Scan(r.schema.ScanDest(&created)...)
	if err != nil {
		logger.Error("Failed to create row", "error", err)
		return nil, errors.WrapInternal(fmt.Sprintf("failed to create %s", r.schema.Entity), err)
	}

	logger.Debug("Row created successfully", "id", *r.schema.ID(&created))
	return &created, nil
}

func (r *Repository[T]) Update(ctx context.Context, id int64, row *T) (*T, error) {
	logger := r.log("update").With("id", id)
	logger.Debug("Updating row")

	args := append(r.schema.Values(row), id)

	var updated T
	err := r.db.QueryRowContext(ctx, r.updateQuery, args...).Scan(r.schema.ScanDest(&updated)...)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, r.notFound(id)
	}
	if err != nil {
		logger.Error("Failed to update row", "error", err)
		return nil, errors.WrapInternal(fmt.Sprintf("failed to update %s", r.schema.Entity), err)
	}

	logger.Debug("Row updated successfully")
	return &updated, nil
}

func (r *Repository[T]) Delete(ctx context.Context, id int64) error {
	logger := r.log("delete").With("id", id)
	logger.Debug("Deleting row")

	result, err := r.db.ExecContext(ctx, r.deleteQuery, id)
	if err != nil {
		logger.Error("Failed to delete row", "error", err)
		return errors.WrapInternal(fmt.Sprintf("failed to delete %s", r.schema.Entity), err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.Error("Failed to read rows affected", "error", err)
		return errors.WrapInternal(fmt.Sprintf("failed to delete %s", r.schema.Entity), err)
	}
	if affected == 0 {
		return r.notFound(id)
	}

	logger.Debug("Row deleted successfully")
	return nil
}

func (r *Repository[T]) notFound(id int64) error {
	return errors.NotFoundf("%s not found with id: %d", r.schema.Entity, id)
}
