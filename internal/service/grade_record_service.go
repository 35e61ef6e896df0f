package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/school-records-api/internal/dto"
	"github.com/noah-isme/school-records-api/internal/models"
	"github.com/noah-isme/school-records-api/internal/repository"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
	"github.com/noah-isme/school-records-api/pkg/export"
	"github.com/noah-isme/school-records-api/pkg/validation"
)

type gradeRecordStore interface {
	entityStore[models.GradeRecord]
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
	GetMany(ctx context.Context, ids []int64) ([]models.GradeRecord, error)
	InsertMany(ctx context.Context, rows []repository.Values) ([]int64, error)
	UpdateMany(ctx context.Context, changes []repository.Change) error
	Summary(ctx context.Context, period *string) (models.GradeRecordSummary, error)
	DistributionByGrade(ctx context.Context, period *string) ([]models.GradeDistribution, error)
	SummaryBySubject(ctx context.Context, studentID int64, period *string) ([]models.SubjectScoreSummary, error)
}

type idLookup interface {
	existenceChecker
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
}

// batchReference pairs a reference with its set-based lookup.
type batchReference struct {
	reference
	lookup idLookup
}

// GradeRecordService manages evaluation scores.
type GradeRecordService struct {
	*EntityService[models.GradeRecord, dto.CreateGradeRecordRequest, dto.UpdateGradeRecordRequest]
	records gradeRecordStore
	student batchReference
	subject batchReference
	grade   batchReference
}

// NewGradeRecordService creates a GradeRecordService. Writes check the
// student, subject and grade concurrently.
func NewGradeRecordService(records gradeRecordStore, students, subjects, grades idLookup, validate *validator.Validate, logger *zap.Logger) *GradeRecordService {
	student := batchReference{ref("student_id", "Student", students), students}
	subject := batchReference{ref("subject_id", "Subject", subjects), subjects}
	grade := batchReference{ref("grade_id", "Grade", grades), grades}
	return &GradeRecordService{
		EntityService: NewEntityService[models.GradeRecord, dto.CreateGradeRecordRequest, dto.UpdateGradeRecordRequest](
			records, validate, logger, student.reference, subject.reference, grade.reference),
		records: records,
		student: student,
		subject: subject,
		grade:   grade,
	}
}

func (s *GradeRecordService) batchReferences() []batchReference {
	return []batchReference{s.student, s.subject, s.grade}
}

// CreateMany stores all records in one transaction. Every referenced
// student, subject and grade is checked with one query per table first.
func (s *GradeRecordService) CreateMany(ctx context.Context, req dto.BatchCreateGradeRecordsRequest) ([]models.GradeRecord, error) {
	if err := validation.Struct(s.validator, req, "invalid grade record batch"); err != nil {
		return nil, err
	}

	rows := make([]repository.Values, 0, len(req.Items))
	for _, item := range req.Items {
		values, err := item.Changes()
		if err != nil {
			return nil, err
		}
		rows = append(rows, values)
	}
	if err := s.ensureBatchReferences(ctx, rows); err != nil {
		return nil, err
	}

	ids, err := s.records.InsertMany(ctx, rows)
	if err != nil {
		return nil, s.writeError(err, "create", 0)
	}
	return s.loadMany(ctx, ids)
}

// UpdateMany applies every change in one transaction after confirming each
// record exists.
func (s *GradeRecordService) UpdateMany(ctx context.Context, req dto.BatchUpdateGradeRecordsRequest) ([]models.GradeRecord, error) {
	if err := validation.Struct(s.validator, req, "invalid grade record batch"); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(req.Items))
	changes := make([]repository.Change, 0, len(req.Items))
	rows := make([]repository.Values, 0, len(req.Items))
	for _, item := range req.Items {
		values, err := item.Changes()
		if err != nil {
			return nil, err
		}
		ids = append(ids, item.GradeRecordID)
		changes = append(changes, repository.Change{ID: item.GradeRecordID, Values: values})
		rows = append(rows, values)
	}

	existing, err := s.records.ExistingIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check grade records")
	}
	for _, id := range ids {
		if !existing[id] {
			return nil, appErrors.NotFound(s.records.Entity(), id)
		}
	}
	if err := s.ensureBatchReferences(ctx, rows); err != nil {
		return nil, err
	}

	if err := s.records.UpdateMany(ctx, changes); err != nil {
		return nil, s.writeError(err, "update", 0)
	}
	return s.loadMany(ctx, uniqueIDs(ids))
}

// ensureBatchReferences runs one set lookup per parent table concurrently
// and reports the first missing parent in row order.
func (s *GradeRecordService) ensureBatchReferences(ctx context.Context, rows []repository.Values) error {
	refs := s.batchReferences()
	found := make([]map[int64]bool, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	for i, r := range refs {
		ids := make([]int64, 0, len(rows))
		for _, row := range rows {
			if id, ok := row[r.column].(int64); ok {
				ids = append(ids, id)
			}
		}
		ids = uniqueIDs(ids)
		if len(ids) == 0 {
			continue
		}
		i, r := i, r
		g.Go(func() error {
			existing, err := r.lookup.ExistingIDs(gctx, ids)
			if err != nil {
				return fmt.Errorf("check %s ids: %w", r.entity, err)
			}
			found[i] = existing
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return appErrors.Internal(err, "failed to verify references")
	}

	for _, row := range rows {
		for i, r := range refs {
			id, ok := row[r.column].(int64)
			if ok && !found[i][id] {
				return appErrors.NotFound(r.entity, id)
			}
		}
	}
	return nil
}

func (s *GradeRecordService) loadMany(ctx context.Context, ids []int64) ([]models.GradeRecord, error) {
	records, err := s.records.GetMany(ctx, ids)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load grade records")
	}
	return records, nil
}

// FindAllFiltered lists records matching every filter field that is set.
func (s *GradeRecordService) FindAllFiltered(ctx context.Context, filter models.GradeRecordFilter) ([]models.GradeRecord, error) {
	return s.FindAll(ctx, recordFilter(filter))
}

// FindByStudent lists a student's records, newest period first.
func (s *GradeRecordService) FindByStudent(ctx context.Context, studentID int64, period *string) ([]models.GradeRecord, error) {
	return s.findByParentInPeriod(ctx, s.student.reference, studentID, period)
}

// FindBySubject lists a subject's records, newest period first.
func (s *GradeRecordService) FindBySubject(ctx context.Context, subjectID int64, period *string) ([]models.GradeRecord, error) {
	return s.findByParentInPeriod(ctx, s.subject.reference, subjectID, period)
}

func (s *GradeRecordService) findByParentInPeriod(ctx context.Context, parent reference, id int64, period *string) ([]models.GradeRecord, error) {
	if err := ensureExists(ctx, parent, id); err != nil {
		return nil, err
	}
	filter := repository.Filter{parent.column: id}
	if period != nil && strings.TrimSpace(*period) != "" {
		filter["academic_period"] = strings.TrimSpace(*period)
	}
	return s.list(ctx, filter, repository.Desc("academic_period"), repository.Desc("evaluation_date"))
}

// Statistics aggregates scores overall and per grade. The two aggregates are
// queried concurrently.
func (s *GradeRecordService) Statistics(ctx context.Context, period *string) (*models.GradeRecordStatistics, error) {
	if period != nil && strings.TrimSpace(*period) == "" {
		period = nil
	}
	stats := &models.GradeRecordStatistics{AcademicPeriod: period}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, err := s.records.Summary(gctx, period)
		if err != nil {
			return err
		}
		stats.Summary = summary
		return nil
	})
	g.Go(func() error {
		byGrade, err := s.records.DistributionByGrade(gctx, period)
		if err != nil {
			return err
		}
		stats.ByGrade = byGrade
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, appErrors.Internal(err, "failed to compute grade record statistics")
	}
	return stats, nil
}

// StudentSummary aggregates a student's scores per subject, optionally
// within one academic period.
func (s *GradeRecordService) StudentSummary(ctx context.Context, studentID int64, period *string) ([]models.SubjectScoreSummary, error) {
	if err := ensureExists(ctx, s.student.reference, studentID); err != nil {
		return nil, err
	}
	if period != nil {
		trimmed := strings.TrimSpace(*period)
		period = &trimmed
		if trimmed == "" {
			period = nil
		}
	}
	rows, err := s.records.SummaryBySubject(ctx, studentID, period)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to summarise grade records of student %d", studentID)
	}
	return rows, nil
}

var gradeRecordExportHeaders = []string{
	"ID", "Student", "Subject", "Grade", "Score", "Max score", "Type", "Evaluation date", "Period", "Status",
}

// Export renders the filtered records as CSV or PDF.
func (s *GradeRecordService) Export(ctx context.Context, filter models.GradeRecordFilter, format string) (*export.File, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, appErrors.Validation(err, "invalid export format", map[string]string{"format": "format must be csv or pdf"})
	}

	records, err := s.FindAllFiltered(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{Title: "Grade records", Headers: gradeRecordExportHeaders}
	data.Rows = make([]map[string]string, 0, len(records))
	for _, r := range records {
		data.Rows = append(data.Rows, gradeRecordRow(r))
	}

	file, err := export.Render(f, data, "grade-records")
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render grade record export")
	}
	s.logger.Info("grade records exported", zap.String("format", string(f)), zap.Int("rows", len(records)))
	return file, nil
}

func gradeRecordRow(r models.GradeRecord) map[string]string {
	row := map[string]string{
		"ID":              strconv.FormatInt(r.GradeRecordID, 10),
		"Student":         strconv.FormatInt(r.StudentID, 10),
		"Subject":         strconv.FormatInt(r.SubjectID, 10),
		"Grade":           strconv.FormatInt(r.GradeID, 10),
		"Score":           strconv.FormatFloat(r.Score, 'f', 2, 64),
		"Max score":       strconv.FormatFloat(r.MaxScore, 'f', 2, 64),
		"Type":            r.GradeType,
		"Evaluation date": r.EvaluationDate.Format(dto.DateLayout),
		"Period":          r.AcademicPeriod,
		"Status":          "inactive",
	}
	if r.RecordStatus {
		row["Status"] = "active"
	}
	if r.Student != nil && r.Student.User != nil {
		row["Student"] = r.Student.User.FullName()
	}
	if r.Subject != nil {
		row["Subject"] = r.Subject.SubjectName
	}
	if r.Grade != nil {
		row["Grade"] = r.Grade.GradeLevel
	}
	return row
}

func recordFilter(f models.GradeRecordFilter) repository.Filter {
	filter := repository.Filter{}
	if f.StudentID != nil {
		filter["student_id"] = *f.StudentID
	}
	if f.SubjectID != nil {
		filter["subject_id"] = *f.SubjectID
	}
	if f.GradeID != nil {
		filter["grade_id"] = *f.GradeID
	}
	if f.AcademicPeriod != nil && strings.TrimSpace(*f.AcademicPeriod) != "" {
		filter["academic_period"] = strings.TrimSpace(*f.AcademicPeriod)
	}
	return filter
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
