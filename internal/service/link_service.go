package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-records-api/internal/dto"
	"github.com/noah-isme/school-records-api/internal/models"
	"github.com/noah-isme/school-records-api/internal/repository"
)

func pairFilter(left string, leftID *int64, right string, rightID *int64) repository.Filter {
	filter := repository.Filter{}
	if leftID != nil {
		filter[left] = *leftID
	}
	if rightID != nil {
		filter[right] = *rightID
	}
	return filter
}

// TeacherSubjectService manages which subjects a teacher can teach.
type TeacherSubjectService struct {
	*EntityService[models.TeacherSubject, dto.CreateTeacherSubjectRequest, dto.UpdateTeacherSubjectRequest]
	teacher reference
	subject reference
}

// NewTeacherSubjectService creates a TeacherSubjectService.
func NewTeacherSubjectService(store entityStore[models.TeacherSubject], teachers, subjects existenceChecker, validate *validator.Validate, logger *zap.Logger) *TeacherSubjectService {
	teacher := ref("teacher_id", "Teacher", teachers)
	subject := ref("subject_id", "Subject", subjects)
	return &TeacherSubjectService{
		EntityService: NewEntityService[models.TeacherSubject, dto.CreateTeacherSubjectRequest, dto.UpdateTeacherSubjectRequest](store, validate, logger, teacher, subject),
		teacher:       teacher,
		subject:       subject,
	}
}

// FindAllFiltered lists links, optionally narrowed by teacher and subject.
func (s *TeacherSubjectService) FindAllFiltered(ctx context.Context, teacherID, subjectID *int64) ([]models.TeacherSubject, error) {
	return s.FindAll(ctx, pairFilter("teacher_id", teacherID, "subject_id", subjectID))
}

// FindByTeacher lists the subjects of a teacher.
func (s *TeacherSubjectService) FindByTeacher(ctx context.Context, teacherID int64) ([]models.TeacherSubject, error) {
	return s.findByParent(ctx, s.teacher, teacherID)
}

// FindBySubject lists the teachers of a subject.
func (s *TeacherSubjectService) FindBySubject(ctx context.Context, subjectID int64) ([]models.TeacherSubject, error) {
	return s.findByParent(ctx, s.subject, subjectID)
}

// TeacherGradeService manages which grades a teacher works with.
type TeacherGradeService struct {
	*EntityService[models.TeacherGrade, dto.CreateTeacherGradeRequest, dto.UpdateTeacherGradeRequest]
	teacher reference
	grade   reference
}

// NewTeacherGradeService creates a TeacherGradeService.
func NewTeacherGradeService(store entityStore[models.TeacherGrade], teachers, grades existenceChecker, validate *validator.Validate, logger *zap.Logger) *TeacherGradeService {
	teacher := ref("teacher_id", "Teacher", teachers)
	grade := ref("grade_id", "Grade", grades)
	return &TeacherGradeService{
		EntityService: NewEntityService[models.TeacherGrade, dto.CreateTeacherGradeRequest, dto.UpdateTeacherGradeRequest](store, validate, logger, teacher, grade),
		teacher:       teacher,
		grade:         grade,
	}
}

// FindAllFiltered lists links, optionally narrowed by teacher and grade.
func (s *TeacherGradeService) FindAllFiltered(ctx context.Context, teacherID, gradeID *int64) ([]models.TeacherGrade, error) {
	return s.FindAll(ctx, pairFilter("teacher_id", teacherID, "grade_id", gradeID))
}

// FindByTeacher lists the grades of a teacher.
func (s *TeacherGradeService) FindByTeacher(ctx context.Context, teacherID int64) ([]models.TeacherGrade, error) {
	return s.findByParent(ctx, s.teacher, teacherID)
}

// FindByGrade lists the teachers of a grade.
func (s *TeacherGradeService) FindByGrade(ctx context.Context, gradeID int64) ([]models.TeacherGrade, error) {
	return s.findByParent(ctx, s.grade, gradeID)
}

// GradeSubjectService manages each grade's curriculum.
type GradeSubjectService struct {
	*EntityService[models.GradeSubject, dto.CreateGradeSubjectRequest, dto.UpdateGradeSubjectRequest]
	grade   reference
	subject reference
}

// NewGradeSubjectService creates a GradeSubjectService.
func NewGradeSubjectService(store entityStore[models.GradeSubject], grades, subjects existenceChecker, validate *validator.Validate, logger *zap.Logger) *GradeSubjectService {
	grade := ref("grade_id", "Grade", grades)
	subject := ref("subject_id", "Subject", subjects)
	return &GradeSubjectService{
		EntityService: NewEntityService[models.GradeSubject, dto.CreateGradeSubjectRequest, dto.UpdateGradeSubjectRequest](store, validate, logger, grade, subject),
		grade:         grade,
		subject:       subject,
	}
}

// FindAllFiltered lists links, optionally narrowed by grade and subject.
func (s *GradeSubjectService) FindAllFiltered(ctx context.Context, gradeID, subjectID *int64) ([]models.GradeSubject, error) {
	return s.FindAll(ctx, pairFilter("grade_id", gradeID, "subject_id", subjectID))
}

// FindByGrade lists the subjects of a grade.
func (s *GradeSubjectService) FindByGrade(ctx context.Context, gradeID int64) ([]models.GradeSubject, error) {
	return s.findByParent(ctx, s.grade, gradeID)
}

// FindBySubject lists the grades a subject is taught in.
func (s *GradeSubjectService) FindBySubject(ctx context.Context, subjectID int64) ([]models.GradeSubject, error) {
	return s.findByParent(ctx, s.subject, subjectID)
}
