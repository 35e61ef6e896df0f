package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-records-api/internal/dto"
	"github.com/noah-isme/school-records-api/internal/models"
	"github.com/noah-isme/school-records-api/internal/service"
)

// linkSide describes one foreign key of a link table: its query parameter,
// its parent route segment and the lookup scoped to one parent.
type linkSide[T any] struct {
	param  string
	route  string
	lookup func(ctx context.Context, id int64) ([]T, error)
}

// LinkHandler serves the many-to-many tables between teachers, grades and
// subjects.
type LinkHandler[T any, C any, U any] struct {
	*EntityHandler[T, C, U]
	filtered    func(ctx context.Context, left, right *int64) ([]T, error)
	left, right linkSide[T]
}

// List returns the links matching the optional foreign key query filters.
func (h *LinkHandler[T, C, U]) List(c *gin.Context) {
	left, ok := queryID(c, h.left.param)
	if !ok {
		return
	}
	right, ok := queryID(c, h.right.param)
	if !ok {
		return
	}
	items, err := h.filtered(c.Request.Context(), left, right)
	respondList(c, items, err)
}

func (h *LinkHandler[T, C, U]) byParent(side linkSide[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, side.param)
		if !ok {
			return
		}
		items, err := side.lookup(c.Request.Context(), id)
		respondList(c, items, err)
	}
}

// Register mounts the link routes on group.
func (h *LinkHandler[T, C, U]) Register(group gin.IRoutes) {
	group.GET("", h.List)
	group.GET("/"+h.left.route+"/:"+h.left.param, h.byParent(h.left))
	group.GET("/"+h.right.route+"/:"+h.right.param, h.byParent(h.right))
	h.EntityHandler.Register(group)
}

// NewTeacherSubjectHandler serves /teacher-subjects.
func NewTeacherSubjectHandler(svc *service.TeacherSubjectService) *LinkHandler[models.TeacherSubject, dto.CreateTeacherSubjectRequest, dto.UpdateTeacherSubjectRequest] {
	return &LinkHandler[models.TeacherSubject, dto.CreateTeacherSubjectRequest, dto.UpdateTeacherSubjectRequest]{
		EntityHandler: NewEntityHandler[models.TeacherSubject, dto.CreateTeacherSubjectRequest, dto.UpdateTeacherSubjectRequest](svc),
		filtered:      svc.FindAllFiltered,
		left:          linkSide[models.TeacherSubject]{param: "teacherId", route: "teacher", lookup: svc.FindByTeacher},
		right:         linkSide[models.TeacherSubject]{param: "subjectId", route: "subject", lookup: svc.FindBySubject},
	}
}

// NewTeacherGradeHandler serves /teacher-grades.
func NewTeacherGradeHandler(svc *service.TeacherGradeService) *LinkHandler[models.TeacherGrade, dto.CreateTeacherGradeRequest, dto.UpdateTeacherGradeRequest] {
	return &LinkHandler[models.TeacherGrade, dto.CreateTeacherGradeRequest, dto.UpdateTeacherGradeRequest]{
		EntityHandler: NewEntityHandler[models.TeacherGrade, dto.CreateTeacherGradeRequest, dto.UpdateTeacherGradeRequest](svc),
		filtered:      svc.FindAllFiltered,
		left:          linkSide[models.TeacherGrade]{param: "teacherId", route: "teacher", lookup: svc.FindByTeacher},
		right:         linkSide[models.TeacherGrade]{param: "gradeId", route: "grade", lookup: svc.FindByGrade},
	}
}

// NewGradeSubjectHandler serves /grade-subjects.
func NewGradeSubjectHandler(svc *service.GradeSubjectService) *LinkHandler[models.GradeSubject, dto.CreateGradeSubjectRequest, dto.UpdateGradeSubjectRequest] {
	return &LinkHandler[models.GradeSubject, dto.CreateGradeSubjectRequest, dto.UpdateGradeSubjectRequest]{
		EntityHandler: NewEntityHandler[models.GradeSubject, dto.CreateGradeSubjectRequest, dto.UpdateGradeSubjectRequest](svc),
		filtered:      svc.FindAllFiltered,
		left:          linkSide[models.GradeSubject]{param: "gradeId", route: "grade", lookup: svc.FindByGrade},
		right:         linkSide[models.GradeSubject]{param: "subjectId", route: "subject", lookup: svc.FindBySubject},
	}
}
