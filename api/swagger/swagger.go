package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "School Records API",
        "description": "REST API for school records: roles, grades, subjects, users, students, teachers, grade records and teaching assignments.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [
        {"BearerAuth": []}
    ],
    "tags": [
        {"name": "Auth", "description": "Login and session management"},
        {"name": "Catalogs", "description": "Roles, grades and subjects"},
        {"name": "People", "description": "Users, students and teachers"},
        {"name": "Grade Records", "description": "Evaluation scores"},
        {"name": "Links", "description": "Teacher-subject, teacher-grade and grade-subject links"},
        {"name": "Assignments", "description": "Student-teacher-subject assignments keyed by student, teacher, subject and academic period"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Login",
                "security": [],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Revoke the current token",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/{catalog}": {
            "get": {
                "tags": ["Catalogs"],
                "summary": "List roles, grades or subjects ordered by id",
                "parameters": [
                    {"name": "catalog", "in": "path", "required": true, "type": "string", "enum": ["roles", "grades", "subjects"]},
                    {"name": "status", "in": "query", "type": "string", "enum": ["active", "inactive"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Catalogs"],
                "summary": "Create a catalog entry",
                "parameters": [
                    {"name": "catalog", "in": "path", "required": true, "type": "string", "enum": ["roles", "grades", "subjects"]},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/{catalog}/{id}/toggle-status": {
            "patch": {
                "tags": ["Catalogs"],
                "summary": "Flip the status flag",
                "parameters": [
                    {"name": "catalog", "in": "path", "required": true, "type": "string", "enum": ["roles", "grades", "subjects", "users"]},
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/{resource}/{id}": {
            "get": {
                "summary": "Get an entity by id",
                "parameters": [
                    {"name": "resource", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "summary": "Update an entity",
                "parameters": [
                    {"name": "resource", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "summary": "Delete an entity and return it",
                "parameters": [
                    {"name": "resource", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/users/search": {
            "get": {
                "tags": ["People"],
                "summary": "Search users by name or email",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/grade/{gradeId}": {
            "get": {
                "tags": ["People"],
                "summary": "Students enrolled in a grade",
                "parameters": [
                    {"name": "gradeId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers/search": {
            "get": {
                "tags": ["People"],
                "summary": "Search teachers by name or license number",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grade-records": {
            "get": {
                "tags": ["Grade Records"],
                "summary": "List grade records",
                "parameters": [
                    {"name": "studentId", "in": "query", "type": "integer"},
                    {"name": "subjectId", "in": "query", "type": "integer"},
                    {"name": "gradeId", "in": "query", "type": "integer"},
                    {"name": "academicPeriod", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grade-records/batch": {
            "post": {
                "tags": ["Grade Records"],
                "summary": "Create grade records in one transaction",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "array", "items": {"type": "object"}}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Grade Records"],
                "summary": "Update grade records in one transaction",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "array", "items": {"type": "object"}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grade-records/statistics": {
            "get": {
                "tags": ["Grade Records"],
                "summary": "Score summary and per-grade distribution",
                "parameters": [
                    {"name": "academicPeriod", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grade-records/student/{studentId}/summary": {
            "get": {
                "tags": ["Grade Records"],
                "summary": "Per-subject score summary of one student",
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "integer"},
                    {"name": "academicPeriod", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grade-records/export": {
            "get": {
                "tags": ["Grade Records"],
                "summary": "Export grade records",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "studentId", "in": "query", "type": "integer"},
                    {"name": "subjectId", "in": "query", "type": "integer"},
                    {"name": "gradeId", "in": "query", "type": "integer"},
                    {"name": "academicPeriod", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/{link}/{side}/{id}": {
            "get": {
                "tags": ["Links"],
                "summary": "Links for one parent",
                "parameters": [
                    {"name": "link", "in": "path", "required": true, "type": "string", "enum": ["teacher-subjects", "teacher-grades", "grade-subjects"]},
                    {"name": "side", "in": "path", "required": true, "type": "string", "enum": ["teacher", "subject", "grade"]},
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student-teacher-subjects": {
            "get": {
                "tags": ["Assignments"],
                "summary": "List assignments",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Assignments"],
                "summary": "Create assignment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateStudentTeacherSubjectRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student-teacher-subjects/find": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Get assignment by key",
                "parameters": [
                    {"$ref": "#/parameters/studentId"},
                    {"$ref": "#/parameters/teacherId"},
                    {"$ref": "#/parameters/subjectId"},
                    {"$ref": "#/parameters/academicPeriod"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student-teacher-subjects/active": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Active assignments",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student-teacher-subjects/academic-period": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Assignments for an academic period",
                "parameters": [
                    {"name": "period", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student-teacher-subjects/{parent}/{id}": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Assignments for a student, teacher, subject or grade",
                "parameters": [
                    {"name": "parent", "in": "path", "required": true, "type": "string", "enum": ["student", "teacher", "subject", "grade"]},
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student-teacher-subjects/update": {
            "patch": {
                "tags": ["Assignments"],
                "summary": "Update assignment",
                "parameters": [
                    {"$ref": "#/parameters/studentId"},
                    {"$ref": "#/parameters/teacherId"},
                    {"$ref": "#/parameters/subjectId"},
                    {"$ref": "#/parameters/academicPeriod"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStudentTeacherSubjectRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student-teacher-subjects/toggle-active": {
            "patch": {
                "tags": ["Assignments"],
                "summary": "Flip the active flag",
                "parameters": [
                    {"$ref": "#/parameters/studentId"},
                    {"$ref": "#/parameters/teacherId"},
                    {"$ref": "#/parameters/subjectId"},
                    {"$ref": "#/parameters/academicPeriod"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student-teacher-subjects/remove": {
            "delete": {
                "tags": ["Assignments"],
                "summary": "Delete assignment and return it",
                "parameters": [
                    {"$ref": "#/parameters/studentId"},
                    {"$ref": "#/parameters/teacherId"},
                    {"$ref": "#/parameters/subjectId"},
                    {"$ref": "#/parameters/academicPeriod"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "parameters": {
        "studentId": {"name": "studentId", "in": "query", "required": true, "type": "integer"},
        "teacherId": {"name": "teacherId", "in": "query", "required": true, "type": "integer"},
        "subjectId": {"name": "subjectId", "in": "query", "required": true, "type": "integer"},
        "academicPeriod": {"name": "academicPeriod", "in": "query", "required": true, "type": "string"}
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "StudentTeacherSubject": {
            "type": "object",
            "properties": {
                "studentId": {"type": "integer"},
                "teacherId": {"type": "integer"},
                "subjectId": {"type": "integer"},
                "academicPeriod": {"type": "string"},
                "gradeId": {"type": "integer"},
                "assignmentDate": {"type": "string", "format": "date-time"},
                "isActive": {"type": "boolean"},
                "studentName": {"type": "string"},
                "teacherName": {"type": "string"},
                "subjectName": {"type": "string"},
                "gradeLevel": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "CreateStudentTeacherSubjectRequest": {
            "type": "object",
            "properties": {
                "studentId": {"type": "integer"},
                "teacherId": {"type": "integer"},
                "subjectId": {"type": "integer"},
                "gradeId": {"type": "integer"},
                "academicPeriod": {"type": "string"},
                "assignmentDate": {"type": "string", "format": "date"},
                "isActive": {"type": "boolean"}
            },
            "required": ["studentId", "teacherId", "subjectId", "gradeId", "academicPeriod"]
        },
        "UpdateStudentTeacherSubjectRequest": {
            "type": "object",
            "properties": {
                "studentId": {"type": "integer"},
                "teacherId": {"type": "integer"},
                "subjectId": {"type": "integer"},
                "gradeId": {"type": "integer"},
                "academicPeriod": {"type": "string"},
                "assignmentDate": {"type": "string", "format": "date"},
                "isActive": {"type": "boolean"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "totalCount": {"type": "integer"},
                "totalPages": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
