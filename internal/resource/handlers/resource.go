package handlers

import (
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"spaceapp/internal/resource"
	"spaceapp/internal/shared/errors"
	"spaceapp/internal/shared/response"
)

const maxBodyBytes = 1 << 20 // 1 MB

// ResourceHandler serves the CRUD operations of one entity. The router picks
// the method by HTTP verb, so handlers do not re-check r.Method.
type ResourceHandler[T any] struct {
	service *resource.Service[T]
}

func NewResourceHandler[T any](service *resource.Service[T]) *ResourceHandler[T] {
	return &ResourceHandler[T]{service: service}
}

func (h *ResourceHandler[T]) logger(op string) *slog.Logger {
	return slog.With("handler", op+"_"+h.service.Entity())
}

func (h *ResourceHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	logger := h.logger("list")

	records, err := h.service.List(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if records == nil {
		records = []resource.Record{}
	}

	response.Success(w, http.StatusOK, records)
}

func (h *ResourceHandler[T]) Retrieve(w http.ResponseWriter, r *http.Request) {
	logger := h.logger("retrieve")

	id, err := h.parseID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	record, err := h.service.Retrieve(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, record)
}

func (h *ResourceHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	logger := h.logger("create")

	body, err := readBody(w, r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	record, err := h.service.Create(r.Context(), body)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, record)
}

func (h *ResourceHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *ResourceHandler[T]) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *ResourceHandler[T]) update(w http.ResponseWriter, r *http.Request, partial bool) {
	op := "update"
	if partial {
		op = "partial_update"
	}
	logger := h.logger(op)

	id, err := h.parseID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	record, err := h.service.Update(r.Context(), id, body, partial)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, record)
}

func (h *ResourceHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	logger := h.logger("delete")

	id, err := h.parseID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.NoContent(w)
}

// parseID reads the {id} path value. An id that is not a positive integer
// can never match a row, so it is reported as not found.
func (h *ResourceHandler[T]) parseID(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NotFoundf("%s not found with id: %s", h.service.Entity(), idStr)
	}
	return id, nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.Validation("request body too large")
		}
		return nil, errors.WrapValidation("failed to read request body", err)
	}
	return body, nil
}
