package dto

import (
	"strings"

	"github.com/noah-isme/school-records-api/internal/repository"
)

// DefaultMaxScore is stored when a grade record omits maxScore.
const DefaultMaxScore = 100.0

// CreateGradeRecordRequest is the payload for POST /grade-records.
type CreateGradeRecordRequest struct {
	StudentID      int64    `json:"studentId" validate:"required,gt=0"`
	SubjectID      int64    `json:"subjectId" validate:"required,gt=0"`
	GradeID        int64    `json:"gradeId" validate:"required,gt=0"`
	Score          float64  `json:"score" validate:"gte=0,lte=999.99"`
	MaxScore       *float64 `json:"maxScore" validate:"omitempty,gte=0,lte=999.99"`
	GradeType      string   `json:"gradeType" validate:"required,notblank,max=50"`
	EvaluationDate *string  `json:"evaluationDate"`
	AcademicPeriod string   `json:"academicPeriod" validate:"required,notblank,max=50"`
	Comments       *string  `json:"comments"`
	RecordStatus   *bool    `json:"recordStatus"`
}

// Changes maps the payload to grade record columns. maxScore defaults to
// 100 and the record starts active; a missing evaluation date is left to the
// database default of the current date.
func (r CreateGradeRecordRequest) Changes() (repository.Values, error) {
	maxScore := DefaultMaxScore
	if r.MaxScore != nil {
		maxScore = *r.MaxScore
	}
	values := repository.Values{
		"student_id":      r.StudentID,
		"subject_id":      r.SubjectID,
		"grade_id":        r.GradeID,
		"score":           r.Score,
		"max_score":       maxScore,
		"grade_type":      strings.TrimSpace(r.GradeType),
		"academic_period": strings.TrimSpace(r.AcademicPeriod),
		"record_status":   boolOr(r.RecordStatus, true),
	}
	setIf(values, "comments", r.Comments)
	if err := setDate(values, "evaluation_date", "evaluationDate", r.EvaluationDate); err != nil {
		return nil, err
	}
	return values, nil
}

// UpdateGradeRecordRequest is the payload for PATCH /grade-records/:id.
type UpdateGradeRecordRequest struct {
	StudentID      *int64   `json:"studentId" validate:"omitempty,gt=0"`
	SubjectID      *int64   `json:"subjectId" validate:"omitempty,gt=0"`
	GradeID        *int64   `json:"gradeId" validate:"omitempty,gt=0"`
	Score          *float64 `json:"score" validate:"omitempty,gte=0,lte=999.99"`
	MaxScore       *float64 `json:"maxScore" validate:"omitempty,gte=0,lte=999.99"`
	GradeType      *string  `json:"gradeType" validate:"omitempty,notblank,max=50"`
	EvaluationDate *string  `json:"evaluationDate"`
	AcademicPeriod *string  `json:"academicPeriod" validate:"omitempty,notblank,max=50"`
	Comments       *string  `json:"comments"`
	RecordStatus   *bool    `json:"recordStatus"`
}

// Changes returns only the fields present in the payload.
func (r UpdateGradeRecordRequest) Changes() (repository.Values, error) {
	values := repository.Values{}
	setIf(values, "student_id", r.StudentID)
	setIf(values, "subject_id", r.SubjectID)
	setIf(values, "grade_id", r.GradeID)
	setIf(values, "score", r.Score)
	setIf(values, "max_score", r.MaxScore)
	setTrimmed(values, "grade_type", r.GradeType)
	setTrimmed(values, "academic_period", r.AcademicPeriod)
	setIf(values, "comments", r.Comments)
	setIf(values, "record_status", r.RecordStatus)
	if err := setDate(values, "evaluation_date", "evaluationDate", r.EvaluationDate); err != nil {
		return nil, err
	}
	return values, nil
}

// BatchCreateGradeRecordsRequest is the payload for POST /grade-records/batch.
type BatchCreateGradeRecordsRequest struct {
	Items []CreateGradeRecordRequest `json:"items" validate:"required,min=1,max=500,dive"`
}

// GradeRecordChange is one entry of a batch update.
type GradeRecordChange struct {
	GradeRecordID int64 `json:"gradeRecordId" validate:"required,gt=0"`
	UpdateGradeRecordRequest
}

// BatchUpdateGradeRecordsRequest is the payload for PATCH /grade-records/batch.
type BatchUpdateGradeRecordsRequest struct {
	Items []GradeRecordChange `json:"items" validate:"required,min=1,max=500,dive"`
}
