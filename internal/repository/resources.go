package repository

import "fmt"

type tableResource struct {
	model    Model
	includes []Include
}

func (r tableResource) Model() Model        { return r.model }
func (r tableResource) Includes() []Include { return r.includes }

var (
	roleColumns    = []string{"role_id", "role_name", "role_status", "created_at", "updated_at"}
	gradeColumns   = []string{"grade_id", "grade_level", "grade_description", "grade_status", "created_at", "updated_at"}
	subjectColumns = []string{"subject_id", "subject_name", "subject_description", "subject_status", "created_at", "updated_at"}
	// password_hash is never loaded through a relation.
	userColumns = []string{
		"user_id", "first_name", "second_name", "first_last_name", "second_last_name", "email", "ci",
		"date_of_birth", "address", "phone_number", "role_id", "user_status", "created_at", "updated_at",
	}
	studentColumns = []string{"student_id", "user_id", "grade_id", "created_at", "updated_at"}
	teacherColumns = []string{"teacher_id", "user_id", "experience_years", "license_number", "weekly_hours", "created_at", "updated_at"}
)

// relation aliases the columns of a joined table so they scan into the
// nested struct tagged prefix.
func relation(prefix, alias string, columns []string) []string {
	aliased := make([]string, len(columns))
	for i, col := range columns {
		aliased[i] = fmt.Sprintf(`%s.%s AS "%s.%s"`, alias, col, prefix, col)
	}
	return aliased
}

func join(clause, prefix, alias string, columns []string) Include {
	return Include{Join: clause, Columns: relation(prefix, alias, columns)}
}

var (
	// Roles stores access roles.
	Roles Resource = tableResource{model: Model{
		Entity: "Role", Table: "roles", PrimaryKey: "role_id",
		Columns:    []string{"role_name", "role_status"},
		Searchable: []string{"t.role_name"},
		Timestamps: true,
	}}

	// Grades stores grade levels.
	Grades Resource = tableResource{model: Model{
		Entity: "Grade", Table: "grades", PrimaryKey: "grade_id",
		Columns:    []string{"grade_level", "grade_description", "grade_status"},
		Searchable: []string{"t.grade_level"},
		Timestamps: true,
	}}

	// Subjects stores the subject catalog.
	Subjects Resource = tableResource{model: Model{
		Entity: "Subject", Table: "subjects", PrimaryKey: "subject_id",
		Columns:    []string{"subject_name", "subject_description", "subject_status"},
		Searchable: []string{"t.subject_name"},
		Timestamps: true,
	}}

	// Users stores accounts together with their role.
	Users Resource = tableResource{
		model: Model{
			Entity: "User", Table: "users", PrimaryKey: "user_id",
			Columns: []string{
				"first_name", "second_name", "first_last_name", "second_last_name", "email", "ci",
				"password_hash", "date_of_birth", "address", "phone_number", "role_id", "user_status",
			},
			Searchable: []string{"t.first_name", "t.first_last_name", "t.second_last_name", "t.email", "CAST(t.ci AS TEXT)"},
			Timestamps: true,
		},
		includes: []Include{
			join("JOIN roles r ON r.role_id = t.role_id", "role", "r", roleColumns),
		},
	}

	// Students stores student enrolments with their user and grade.
	Students Resource = tableResource{
		model: Model{
			Entity: "Student", Table: "students", PrimaryKey: "student_id",
			Columns:    []string{"user_id", "grade_id"},
			Searchable: []string{"u.first_name", "u.first_last_name", "u.email"},
			Timestamps: true,
		},
		includes: []Include{
			join("JOIN users u ON u.user_id = t.user_id", "user", "u", userColumns),
			join("JOIN grades g ON g.grade_id = t.grade_id", "grade", "g", gradeColumns),
		},
	}

	// Teachers stores teacher profiles with their user.
	Teachers Resource = tableResource{
		model: Model{
			Entity: "Teacher", Table: "teachers", PrimaryKey: "teacher_id",
			Columns:    []string{"user_id", "experience_years", "license_number", "weekly_hours"},
			Searchable: []string{"u.first_name", "u.first_last_name", "u.email", "t.license_number"},
			Timestamps: true,
		},
		includes: []Include{
			join("JOIN users u ON u.user_id = t.user_id", "user", "u", userColumns),
		},
	}

	// GradeRecords stores evaluation scores with the student, subject and
	// grade they belong to.
	GradeRecords Resource = tableResource{
		model: Model{
			Entity: "Grade record", Table: "grade_records", PrimaryKey: "grade_record_id",
			Columns: []string{
				"student_id", "subject_id", "grade_id", "score", "max_score", "grade_type",
				"evaluation_date", "academic_period", "comments", "record_status",
			},
			Timestamps: true,
		},
		includes: []Include{
			join("JOIN students s ON s.student_id = t.student_id", "student", "s", studentColumns),
			join("JOIN users su ON su.user_id = s.user_id", "student.user", "su", userColumns),
			join("JOIN subjects sub ON sub.subject_id = t.subject_id", "subject", "sub", subjectColumns),
			join("JOIN grades g ON g.grade_id = t.grade_id", "grade", "g", gradeColumns),
		},
	}

	// TeacherSubjects stores the subjects each teacher can teach.
	TeacherSubjects Resource = tableResource{
		model: Model{
			Entity: "Teacher subject", Table: "teacher_subjects", PrimaryKey: "teacher_subject_id",
			Columns:    []string{"teacher_id", "subject_id"},
			Timestamps: true,
		},
		includes: []Include{
			join("JOIN teachers te ON te.teacher_id = t.teacher_id", "teacher", "te", teacherColumns),
			join("JOIN users tu ON tu.user_id = te.user_id", "teacher.user", "tu", userColumns),
			join("JOIN subjects sub ON sub.subject_id = t.subject_id", "subject", "sub", subjectColumns),
		},
	}

	// TeacherGrades stores the grades each teacher works with.
	TeacherGrades Resource = tableResource{
		model: Model{
			Entity: "Teacher grade", Table: "teacher_grades", PrimaryKey: "teacher_grade_id",
			Columns:    []string{"teacher_id", "grade_id"},
			Timestamps: true,
		},
		includes: []Include{
			join("JOIN teachers te ON te.teacher_id = t.teacher_id", "teacher", "te", teacherColumns),
			join("JOIN users tu ON tu.user_id = te.user_id", "teacher.user", "tu", userColumns),
			join("JOIN grades g ON g.grade_id = t.grade_id", "grade", "g", gradeColumns),
		},
	}

	// GradeSubjects stores each grade's curriculum.
	GradeSubjects Resource = tableResource{
		model: Model{
			Entity: "Grade subject", Table: "grade_subjects", PrimaryKey: "grade_subject_id",
			Columns:    []string{"grade_id", "subject_id"},
			Timestamps: true,
		},
		includes: []Include{
			join("JOIN grades g ON g.grade_id = t.grade_id", "grade", "g", gradeColumns),
			join("JOIN subjects sub ON sub.subject_id = t.subject_id", "subject", "sub", subjectColumns),
		},
	}
)
