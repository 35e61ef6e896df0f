package models

import "time"

// GradeRecord is a single evaluation score for a student in a subject.
type GradeRecord struct {
	GradeRecordID  int64     `db:"grade_record_id" json:"gradeRecordId"`
	StudentID      int64     `db:"student_id" json:"studentId"`
	SubjectID      int64     `db:"subject_id" json:"subjectId"`
	GradeID        int64     `db:"grade_id" json:"gradeId"`
	Score          float64   `db:"score" json:"score"`
	MaxScore       float64   `db:"max_score" json:"maxScore"`
	GradeType      string    `db:"grade_type" json:"gradeType"`
	EvaluationDate time.Time `db:"evaluation_date" json:"evaluationDate"`
	AcademicPeriod string    `db:"academic_period" json:"academicPeriod"`
	Comments       *string   `db:"comments" json:"comments,omitempty"`
	RecordStatus   bool      `db:"record_status" json:"recordStatus"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`

	Student *Student `db:"student" json:"student,omitempty"`
	Subject *Subject `db:"subject" json:"subject,omitempty"`
	Grade   *Grade   `db:"grade" json:"grade,omitempty"`
}

// IsActive reports the record status flag.
func (g GradeRecord) IsActive() bool { return g.RecordStatus }

// GradeRecordFilter narrows grade record listings. Nil fields are ignored.
type GradeRecordFilter struct {
	StudentID      *int64  `form:"studentId"`
	SubjectID      *int64  `form:"subjectId"`
	GradeID        *int64  `form:"gradeId"`
	AcademicPeriod *string `form:"academicPeriod"`
}

// GradeRecordSummary aggregates scores over a set of records.
type GradeRecordSummary struct {
	Count   int      `db:"count" json:"count"`
	Average *float64 `db:"average" json:"average"`
	Minimum *float64 `db:"minimum" json:"minimum"`
	Maximum *float64 `db:"maximum" json:"maximum"`
}

// GradeDistribution is the per-grade breakdown of a summary.
type GradeDistribution struct {
	GradeID    int64    `db:"grade_id" json:"gradeId"`
	GradeLevel string   `db:"grade_level" json:"gradeLevel"`
	Count      int      `db:"count" json:"count"`
	Average    *float64 `db:"average" json:"average"`
}

// SubjectScoreSummary aggregates one student's scores in a subject.
type SubjectScoreSummary struct {
	SubjectID   int64    `db:"subject_id" json:"subjectId"`
	SubjectName string   `db:"subject_name" json:"subjectName"`
	Count       int      `db:"count" json:"count"`
	Average     *float64 `db:"average" json:"average"`
	Minimum     *float64 `db:"minimum" json:"minimum"`
	Maximum     *float64 `db:"maximum" json:"maximum"`
}

// GradeRecordStatistics is returned by the statistics endpoint.
type GradeRecordStatistics struct {
	AcademicPeriod *string             `json:"academicPeriod,omitempty"`
	Summary        GradeRecordSummary  `json:"summary"`
	ByGrade        []GradeDistribution `json:"byGrade"`
}
