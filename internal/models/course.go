package models

import "time"

// Course represents a course offering whose outcomes are tracked.
type Course struct {
	ID           string    `db:"id" json:"id"`
	Code         string    `db:"code" json:"code"`
	Name         string    `db:"name" json:"name"`
	DepartmentID string    `db:"department_id" json:"department_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Absentee flags recorded on the course roster. An empty flag means the
// student sat the assessments.
const (
	AbsenteeFlagAbsent       = "AB"
	AbsenteeFlagUnregistered = "UR"
)

// CourseStudent is a roster entry for a course.
type CourseStudent struct {
	RollNo       string `db:"rollno" json:"rollno"`
	Name         string `db:"name" json:"name"`
	AbsenteeFlag string `db:"absentee_flag" json:"absentee_flag"`
}

// Absent reports whether the student is excluded from cohort figures.
func (s CourseStudent) Absent() bool {
	return s.AbsenteeFlag != ""
}
