package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-records-api/internal/dto"
	"github.com/noah-isme/school-records-api/internal/models"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
	"github.com/noah-isme/school-records-api/pkg/export"
	"github.com/noah-isme/school-records-api/pkg/response"
)

type gradeRecordService interface {
	entityService[models.GradeRecord, dto.CreateGradeRecordRequest, dto.UpdateGradeRecordRequest]
	CreateMany(ctx context.Context, req dto.BatchCreateGradeRecordsRequest) ([]models.GradeRecord, error)
	UpdateMany(ctx context.Context, req dto.BatchUpdateGradeRecordsRequest) ([]models.GradeRecord, error)
	FindAllFiltered(ctx context.Context, filter models.GradeRecordFilter) ([]models.GradeRecord, error)
	FindByStudent(ctx context.Context, studentID int64, period *string) ([]models.GradeRecord, error)
	FindBySubject(ctx context.Context, subjectID int64, period *string) ([]models.GradeRecord, error)
	Statistics(ctx context.Context, period *string) (*models.GradeRecordStatistics, error)
	StudentSummary(ctx context.Context, studentID int64, period *string) ([]models.SubjectScoreSummary, error)
	Export(ctx context.Context, filter models.GradeRecordFilter, format string) (*export.File, error)
}

// GradeRecordHandler serves /grade-records.
type GradeRecordHandler struct {
	*EntityHandler[models.GradeRecord, dto.CreateGradeRecordRequest, dto.UpdateGradeRecordRequest]
	records gradeRecordService
}

// NewGradeRecordHandler constructs a grade record handler.
func NewGradeRecordHandler(svc gradeRecordService) *GradeRecordHandler {
	return &GradeRecordHandler{
		EntityHandler: NewEntityHandler[models.GradeRecord, dto.CreateGradeRecordRequest, dto.UpdateGradeRecordRequest](svc),
		records:       svc,
	}
}

func bindRecordFilter(c *gin.Context) (models.GradeRecordFilter, bool) {
	var filter models.GradeRecordFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid filter"))
		return filter, false
	}
	filter.AcademicPeriod = queryString(c, "academicPeriod")
	return filter, true
}

// List godoc
// @Summary List grade records
// @Tags GradeRecords
// @Produce json
// @Param studentId query int false "Student ID"
// @Param subjectId query int false "Subject ID"
// @Param gradeId query int false "Grade ID"
// @Param academicPeriod query string false "Academic period"
// @Success 200 {object} response.Envelope
// @Router /grade-records [get]
func (h *GradeRecordHandler) List(c *gin.Context) {
	filter, ok := bindRecordFilter(c)
	if !ok {
		return
	}
	items, err := h.records.FindAllFiltered(c.Request.Context(), filter)
	respondList(c, items, err)
}

// CreateBatch godoc
// @Summary Create grade records in one transaction
// @Tags GradeRecords
// @Accept json
// @Produce json
// @Param payload body dto.BatchCreateGradeRecordsRequest true "Records"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /grade-records/batch [post]
func (h *GradeRecordHandler) CreateBatch(c *gin.Context) {
	var req dto.BatchCreateGradeRecordsRequest
	if !bindJSON(c, &req) {
		return
	}
	items, err := h.records.CreateMany(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, items)
}

// UpdateBatch godoc
// @Summary Update grade records in one transaction
// @Tags GradeRecords
// @Accept json
// @Produce json
// @Param payload body dto.BatchUpdateGradeRecordsRequest true "Changes"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /grade-records/batch [patch]
func (h *GradeRecordHandler) UpdateBatch(c *gin.Context) {
	var req dto.BatchUpdateGradeRecordsRequest
	if !bindJSON(c, &req) {
		return
	}
	items, err := h.records.UpdateMany(c.Request.Context(), req)
	respondList(c, items, err)
}

// ByStudent godoc
// @Summary List the records of a student
// @Tags GradeRecords
// @Produce json
// @Param studentId path int true "Student ID"
// @Param academicPeriod query string false "Academic period"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /grade-records/student/{studentId} [get]
func (h *GradeRecordHandler) ByStudent(c *gin.Context) {
	id, ok := pathID(c, "studentId")
	if !ok {
		return
	}
	items, err := h.records.FindByStudent(c.Request.Context(), id, queryString(c, "academicPeriod"))
	respondList(c, items, err)
}

// StudentSummary godoc
// @Summary Aggregate a student's scores per subject
// @Tags GradeRecords
// @Produce json
// @Param studentId path int true "Student ID"
// @Param academicPeriod query string false "Academic period"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /grade-records/student/{studentId}/summary [get]
func (h *GradeRecordHandler) StudentSummary(c *gin.Context) {
	id, ok := pathID(c, "studentId")
	if !ok {
		return
	}
	rows, err := h.records.StudentSummary(c.Request.Context(), id, queryString(c, "academicPeriod"))
	respondList(c, rows, err)
}

// BySubject godoc
// @Summary List the records of a subject
// @Tags GradeRecords
// @Produce json
// @Param subjectId path int true "Subject ID"
// @Param academicPeriod query string false "Academic period"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /grade-records/subject/{subjectId} [get]
func (h *GradeRecordHandler) BySubject(c *gin.Context) {
	id, ok := pathID(c, "subjectId")
	if !ok {
		return
	}
	items, err := h.records.FindBySubject(c.Request.Context(), id, queryString(c, "academicPeriod"))
	respondList(c, items, err)
}

// Statistics godoc
// @Summary Aggregate scores
// @Tags GradeRecords
// @Produce json
// @Param academicPeriod query string false "Academic period"
// @Success 200 {object} response.Envelope
// @Router /grade-records/statistics [get]
func (h *GradeRecordHandler) Statistics(c *gin.Context) {
	stats, err := h.records.Statistics(c.Request.Context(), queryString(c, "academicPeriod"))
	respondOne(c, stats, err)
}

// Export godoc
// @Summary Export grade records
// @Tags GradeRecords
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /grade-records/export [get]
func (h *GradeRecordHandler) Export(c *gin.Context) {
	filter, ok := bindRecordFilter(c)
	if !ok {
		return
	}
	file, err := h.records.Export(c.Request.Context(), filter, c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.ContentType, file.Filename, file.Body)
}

// Register mounts the grade record routes on group.
func (h *GradeRecordHandler) Register(group gin.IRoutes) {
	group.GET("", h.List)
	group.POST("/batch", h.CreateBatch)
	group.PATCH("/batch", h.UpdateBatch)
	group.GET("/statistics", h.Statistics)
	group.GET("/export", h.Export)
	group.GET("/student/:studentId", h.ByStudent)
	group.GET("/student/:studentId/summary", h.StudentSummary)
	group.GET("/subject/:subjectId", h.BySubject)
	h.EntityHandler.Register(group)
}
