package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-records-api/internal/dto"
	"github.com/noah-isme/school-records-api/internal/models"
	"github.com/noah-isme/school-records-api/internal/service"
)

type statusService[T any, C any, U any] interface {
	entityService[T, C, U]
	FindAllByStatus(ctx context.Context, status string) ([]T, error)
	ToggleStatus(ctx context.Context, id int64) (*T, error)
}

// CatalogHandler serves resources that carry a status flag: roles, grades,
// subjects and users.
type CatalogHandler[T any, C any, U any] struct {
	*EntityHandler[T, C, U]
	service statusService[T, C, U]
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler[T any, C any, U any](svc statusService[T, C, U]) *CatalogHandler[T, C, U] {
	return &CatalogHandler[T, C, U]{EntityHandler: NewEntityHandler[T, C, U](svc), service: svc}
}

// NewRoleHandler serves /roles.
func NewRoleHandler(svc *service.RoleService) *CatalogHandler[models.Role, dto.CreateRoleRequest, dto.UpdateRoleRequest] {
	return NewCatalogHandler[models.Role, dto.CreateRoleRequest, dto.UpdateRoleRequest](svc)
}

// NewGradeHandler serves /grades.
func NewGradeHandler(svc *service.GradeService) *CatalogHandler[models.Grade, dto.CreateGradeRequest, dto.UpdateGradeRequest] {
	return NewCatalogHandler[models.Grade, dto.CreateGradeRequest, dto.UpdateGradeRequest](svc)
}

// NewSubjectHandler serves /subjects.
func NewSubjectHandler(svc *service.SubjectService) *CatalogHandler[models.Subject, dto.CreateSubjectRequest, dto.UpdateSubjectRequest] {
	return NewCatalogHandler[models.Subject, dto.CreateSubjectRequest, dto.UpdateSubjectRequest](svc)
}

// List godoc
// @Summary List catalog rows
// @Tags Catalog
// @Produce json
// @Param status query string false "active, inactive or all"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /roles [get]
// @Router /grades [get]
// @Router /subjects [get]
func (h *CatalogHandler[T, C, U]) List(c *gin.Context) {
	items, err := h.service.FindAllByStatus(c.Request.Context(), c.Query("status"))
	respondList(c, items, err)
}

// ToggleStatus godoc
// @Summary Flip the status flag
// @Tags Catalog
// @Produce json
// @Param id path int true "Row ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /roles/{id}/toggle-status [patch]
func (h *CatalogHandler[T, C, U]) ToggleStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.service.ToggleStatus(c.Request.Context(), id)
	respondOne(c, item, err)
}

// Register mounts the list, CRUD and toggle routes on group.
func (h *CatalogHandler[T, C, U]) Register(group gin.IRoutes) {
	group.GET("", h.List)
	h.EntityHandler.Register(group)
	group.PATCH("/:id/toggle-status", h.ToggleStatus)
}
