package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-records-api/internal/dto"
	"github.com/noah-isme/school-records-api/internal/models"
	"github.com/noah-isme/school-records-api/pkg/response"
)

type userService interface {
	statusService[models.User, dto.CreateUserRequest, dto.UpdateUserRequest]
	Search(ctx context.Context, term string, page, pageSize int) ([]models.User, int, error)
}

// UserHandler serves /users.
type UserHandler struct {
	*CatalogHandler[models.User, dto.CreateUserRequest, dto.UpdateUserRequest]
	users userService
}

// NewUserHandler constructs a user handler.
func NewUserHandler(svc userService) *UserHandler {
	return &UserHandler{
		CatalogHandler: NewCatalogHandler[models.User, dto.CreateUserRequest, dto.UpdateUserRequest](svc),
		users:          svc,
	}
}

// Search godoc
// @Summary Search users
// @Tags Users
// @Produce json
// @Param search query string false "Name, email or CI fragment"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /users/search [get]
func (h *UserHandler) Search(c *gin.Context) {
	page, limit := queryInt(c, "page", 1), queryInt(c, "limit", 20)
	users, total, err := h.users.Search(c.Request.Context(), strings.TrimSpace(c.Query("search")), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	response.JSON(c, http.StatusOK, users, response.NewPagination(page, limit, total))
}

// Register mounts the user routes on group.
func (h *UserHandler) Register(group gin.IRoutes) {
	group.GET("/search", h.Search)
	h.CatalogHandler.Register(group)
}

type studentService interface {
	entityService[models.Student, dto.CreateStudentRequest, dto.UpdateStudentRequest]
	FindByGrade(ctx context.Context, gradeID int64) ([]models.Student, error)
	FindByUser(ctx context.Context, userID int64) (*models.Student, error)
}

// StudentHandler serves /students.
type StudentHandler struct {
	*EntityHandler[models.Student, dto.CreateStudentRequest, dto.UpdateStudentRequest]
	students studentService
}

// NewStudentHandler constructs a student handler.
func NewStudentHandler(svc studentService) *StudentHandler {
	return &StudentHandler{
		EntityHandler: NewEntityHandler[models.Student, dto.CreateStudentRequest, dto.UpdateStudentRequest](svc),
		students:      svc,
	}
}

// ByGrade godoc
// @Summary List the students of a grade
// @Tags Students
// @Produce json
// @Param gradeId path int true "Grade ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/grade/{gradeId} [get]
func (h *StudentHandler) ByGrade(c *gin.Context) {
	id, ok := pathID(c, "gradeId")
	if !ok {
		return
	}
	items, err := h.students.FindByGrade(c.Request.Context(), id)
	respondList(c, items, err)
}

// ByUser godoc
// @Summary Get the student profile of a user
// @Tags Students
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/user/{userId} [get]
func (h *StudentHandler) ByUser(c *gin.Context) {
	id, ok := pathID(c, "userId")
	if !ok {
		return
	}
	item, err := h.students.FindByUser(c.Request.Context(), id)
	respondOne(c, item, err)
}

// Register mounts the student routes on group.
func (h *StudentHandler) Register(group gin.IRoutes) {
	group.GET("", h.List)
	group.GET("/grade/:gradeId", h.ByGrade)
	group.GET("/user/:userId", h.ByUser)
	h.EntityHandler.Register(group)
}

type teacherService interface {
	entityService[models.Teacher, dto.CreateTeacherRequest, dto.UpdateTeacherRequest]
	FindByUser(ctx context.Context, userID int64) (*models.Teacher, error)
	Search(ctx context.Context, term string, page, pageSize int) ([]models.Teacher, int, error)
}

// TeacherHandler serves /teachers.
type TeacherHandler struct {
	*EntityHandler[models.Teacher, dto.CreateTeacherRequest, dto.UpdateTeacherRequest]
	teachers teacherService
}

// NewTeacherHandler constructs a teacher handler.
func NewTeacherHandler(svc teacherService) *TeacherHandler {
	return &TeacherHandler{
		EntityHandler: NewEntityHandler[models.Teacher, dto.CreateTeacherRequest, dto.UpdateTeacherRequest](svc),
		teachers:      svc,
	}
}

// ByUser godoc
// @Summary Get the teacher profile of a user
// @Tags Teachers
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/user/{userId} [get]
func (h *TeacherHandler) ByUser(c *gin.Context) {
	id, ok := pathID(c, "userId")
	if !ok {
		return
	}
	item, err := h.teachers.FindByUser(c.Request.Context(), id)
	respondOne(c, item, err)
}

// Search godoc
// @Summary Search teachers
// @Tags Teachers
// @Produce json
// @Param search query string false "Name, email or license fragment"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /teachers/search [get]
func (h *TeacherHandler) Search(c *gin.Context) {
	page, limit := queryInt(c, "page", 1), queryInt(c, "limit", 20)
	teachers, total, err := h.teachers.Search(c.Request.Context(), strings.TrimSpace(c.Query("search")), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	response.JSON(c, http.StatusOK, teachers, response.NewPagination(page, limit, total))
}

// Register mounts the teacher routes on group.
func (h *TeacherHandler) Register(group gin.IRoutes) {
	group.GET("", h.List)
	group.GET("/search", h.Search)
	group.GET("/user/:userId", h.ByUser)
	h.EntityHandler.Register(group)
}
