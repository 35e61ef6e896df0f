package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-records-api/internal/dto"
	"github.com/noah-isme/school-records-api/internal/models"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
	"github.com/noah-isme/school-records-api/pkg/response"
)

type assignmentService interface {
	Create(ctx context.Context, req dto.CreateStudentTeacherSubjectRequest) (*models.StudentTeacherSubject, error)
	FindAll(ctx context.Context) ([]models.StudentTeacherSubject, error)
	FindOne(ctx context.Context, key models.AssignmentKey) (*models.StudentTeacherSubject, error)
	FindByStudent(ctx context.Context, studentID int64) ([]models.StudentTeacherSubject, error)
	FindByTeacher(ctx context.Context, teacherID int64) ([]models.StudentTeacherSubject, error)
	FindBySubject(ctx context.Context, subjectID int64) ([]models.StudentTeacherSubject, error)
	FindByGrade(ctx context.Context, gradeID int64) ([]models.StudentTeacherSubject, error)
	FindByAcademicPeriod(ctx context.Context, period string) ([]models.StudentTeacherSubject, error)
	FindActiveAssignments(ctx context.Context) ([]models.StudentTeacherSubject, error)
	Update(ctx context.Context, key models.AssignmentKey, req dto.UpdateStudentTeacherSubjectRequest) (*models.StudentTeacherSubject, error)
	Remove(ctx context.Context, key models.AssignmentKey) (*models.StudentTeacherSubject, error)
	ToggleActive(ctx context.Context, key models.AssignmentKey) (*models.StudentTeacherSubject, error)
}

// StudentTeacherSubjectHandler serves /student-teacher-subjects. Single
// assignments are addressed by their composite key in the query string.
type StudentTeacherSubjectHandler struct {
	service assignmentService
}

// NewStudentTeacherSubjectHandler constructs the assignment handler.
func NewStudentTeacherSubjectHandler(svc assignmentService) *StudentTeacherSubjectHandler {
	return &StudentTeacherSubjectHandler{service: svc}
}

func bindAssignmentKey(c *gin.Context) (models.AssignmentKey, bool) {
	var key models.AssignmentKey
	if err := c.ShouldBindQuery(&key); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid assignment key", map[string]string{
			"key": "studentId, teacherId, subjectId and academicPeriod are required",
		}))
		return key, false
	}
	key.AcademicPeriod = strings.TrimSpace(key.AcademicPeriod)
	return key, true
}

// Create godoc
// @Summary Assign a student to a teacher for a subject
// @Tags StudentTeacherSubjects
// @Accept json
// @Produce json
// @Param payload body dto.CreateStudentTeacherSubjectRequest true "Assignment"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /student-teacher-subjects [post]
func (h *StudentTeacherSubjectHandler) Create(c *gin.Context) {
	var req dto.CreateStudentTeacherSubjectRequest
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

// List godoc
// @Summary List assignments
// @Tags StudentTeacherSubjects
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student-teacher-subjects [get]
func (h *StudentTeacherSubjectHandler) List(c *gin.Context) {
	items, err := h.service.FindAll(c.Request.Context())
	respondList(c, items, err)
}

// Find godoc
// @Summary Get one assignment by composite key
// @Tags StudentTeacherSubjects
// @Produce json
// @Param studentId query int true "Student ID"
// @Param teacherId query int true "Teacher ID"
// @Param subjectId query int true "Subject ID"
// @Param academicPeriod query string true "Academic period"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student-teacher-subjects/find [get]
func (h *StudentTeacherSubjectHandler) Find(c *gin.Context) {
	key, ok := bindAssignmentKey(c)
	if !ok {
		return
	}
	item, err := h.service.FindOne(c.Request.Context(), key)
	respondOne(c, item, err)
}

func (h *StudentTeacherSubjectHandler) byParent(param string, lookup func(context.Context, int64) ([]models.StudentTeacherSubject, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, param)
		if !ok {
			return
		}
		items, err := lookup(c.Request.Context(), id)
		respondList(c, items, err)
	}
}

// ByAcademicPeriod godoc
// @Summary List the assignments of a period
// @Tags StudentTeacherSubjects
// @Produce json
// @Param period query string true "Academic period"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /student-teacher-subjects/academic-period [get]
func (h *StudentTeacherSubjectHandler) ByAcademicPeriod(c *gin.Context) {
	period := queryString(c, "period")
	if period == nil {
		response.Error(c, appErrors.Validation(nil, "invalid academic period", map[string]string{
			"period": "period is required",
		}))
		return
	}
	items, err := h.service.FindByAcademicPeriod(c.Request.Context(), *period)
	respondList(c, items, err)
}

// Active godoc
// @Summary List active assignments
// @Tags StudentTeacherSubjects
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student-teacher-subjects/active [get]
func (h *StudentTeacherSubjectHandler) Active(c *gin.Context) {
	items, err := h.service.FindActiveAssignments(c.Request.Context())
	respondList(c, items, err)
}

// Update godoc
// @Summary Update an assignment, possibly moving it to a new key
// @Tags StudentTeacherSubjects
// @Accept json
// @Produce json
// @Param studentId query int true "Student ID"
// @Param teacherId query int true "Teacher ID"
// @Param subjectId query int true "Subject ID"
// @Param academicPeriod query string true "Academic period"
// @Param payload body dto.UpdateStudentTeacherSubjectRequest true "Changes"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /student-teacher-subjects/update [patch]
func (h *StudentTeacherSubjectHandler) Update(c *gin.Context) {
	key, ok := bindAssignmentKey(c)
	if !ok {
		return
	}
	var req dto.UpdateStudentTeacherSubjectRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.Update(c.Request.Context(), key, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// ToggleActive godoc
// @Summary Flip the active flag of an assignment
// @Tags StudentTeacherSubjects
// @Produce json
// @Param studentId query int true "Student ID"
// @Param teacherId query int true "Teacher ID"
// @Param subjectId query int true "Subject ID"
// @Param academicPeriod query string true "Academic period"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student-teacher-subjects/toggle-active [patch]
func (h *StudentTeacherSubjectHandler) ToggleActive(c *gin.Context) {
	key, ok := bindAssignmentKey(c)
	if !ok {
		return
	}
	item, err := h.service.ToggleActive(c.Request.Context(), key)
	respondOne(c, item, err)
}

// Remove godoc
// @Summary Delete an assignment
// @Tags StudentTeacherSubjects
// @Produce json
// @Param studentId query int true "Student ID"
// @Param teacherId query int true "Teacher ID"
// @Param subjectId query int true "Subject ID"
// @Param academicPeriod query string true "Academic period"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student-teacher-subjects/remove [delete]
func (h *StudentTeacherSubjectHandler) Remove(c *gin.Context) {
	key, ok := bindAssignmentKey(c)
	if !ok {
		return
	}
	item, err := h.service.Remove(c.Request.Context(), key)
	respondOne(c, item, err)
}

// Register mounts the assignment routes on group.
func (h *StudentTeacherSubjectHandler) Register(group gin.IRoutes) {
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/find", h.Find)
	group.GET("/active", h.Active)
	group.GET("/academic-period", h.ByAcademicPeriod)
	group.GET("/student/:studentId", h.byParent("studentId", h.service.FindByStudent))
	group.GET("/teacher/:teacherId", h.byParent("teacherId", h.service.FindByTeacher))
	group.GET("/subject/:subjectId", h.byParent("subjectId", h.service.FindBySubject))
	group.GET("/grade/:gradeId", h.byParent("gradeId", h.service.FindByGrade))
	group.PATCH("/update", h.Update)
	group.PATCH("/toggle-active", h.ToggleActive)
	group.DELETE("/remove", h.Remove)
}
