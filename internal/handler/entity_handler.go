package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-records-api/internal/repository"
	"github.com/noah-isme/school-records-api/pkg/response"
)

type entityService[T any, C any, U any] interface {
	FindOne(ctx context.Context, id int64) (*T, error)
	FindAll(ctx context.Context, filter repository.Filter) ([]T, error)
	Create(ctx context.Context, input C) (*T, error)
	Update(ctx context.Context, id int64, input U) (*T, error)
	Remove(ctx context.Context, id int64) (*T, error)
}

// EntityHandler serves the single-key CRUD routes shared by every resource.
type EntityHandler[T any, C any, U any] struct {
	service entityService[T, C, U]
}

// NewEntityHandler constructs an EntityHandler.
func NewEntityHandler[T any, C any, U any](svc entityService[T, C, U]) *EntityHandler[T, C, U] {
	return &EntityHandler[T, C, U]{service: svc}
}

// List returns every row ordered by key.
func (h *EntityHandler[T, C, U]) List(c *gin.Context) {
	items, err := h.service.FindAll(c.Request.Context(), nil)
	respondList(c, items, err)
}

// Get returns the row identified by :id.
func (h *EntityHandler[T, C, U]) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.service.FindOne(c.Request.Context(), id)
	respondOne(c, item, err)
}

// Create stores the JSON payload as a new row.
func (h *EntityHandler[T, C, U]) Create(c *gin.Context) {
	var req C
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update applies a partial JSON payload to the row identified by :id.
func (h *EntityHandler[T, C, U]) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req U
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete removes the row identified by :id and returns its last state.
func (h *EntityHandler[T, C, U]) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.service.Remove(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Register mounts the CRUD routes on group.
func (h *EntityHandler[T, C, U]) Register(group gin.IRoutes) {
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PATCH("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

func respondList[T any](c *gin.Context, items []T, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	response.JSON(c, http.StatusOK, items, nil)
}

func respondOne[T any](c *gin.Context, item *T, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}
