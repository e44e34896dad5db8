package models

import (
	"fmt"
	"time"
)

// Test is a single assessment of a course (internal exam, assignment, end-sem).
type Test struct {
	ID        string    `db:"id" json:"id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	Name      string    `db:"name" json:"name"`
	FullMarks float64   `db:"full_marks" json:"full_marks"`
	PassMarks float64   `db:"pass_marks" json:"pass_marks"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Question is a single question (or sub-question) of a test, tagged with the
// course outcome it assesses. Identity within a test is (number, sub-question).
type Question struct {
	ID          string  `db:"id" json:"id"`
	TestID      string  `db:"test_id" json:"test_id"`
	Number      int     `db:"number" json:"number"`
	SubQuestion string  `db:"sub_question" json:"sub_question,omitempty"`
	CO          int     `db:"co" json:"co"`
	MaxMarks    float64 `db:"max_marks" json:"max_marks"`
	IsOptional  bool    `db:"is_optional" json:"is_optional"`
}

// Identifier renders the question identity used on mark sheets, e.g. "5" or "5a".
func (q Question) Identifier() string {
	if q.SubQuestion == "" {
		return fmt.Sprintf("%d", q.Number)
	}
	return fmt.Sprintf("%d%s", q.Number, q.SubQuestion)
}

// RawMark is a per-student score for one question of a test. Marks reference
// questions by identifier so stale rows survive question-set edits; the
// aggregator drops rows whose identifier no longer resolves.
type RawMark struct {
	StudentRollNo string  `db:"student_rollno" json:"student_rollno"`
	TestID        string  `db:"test_id" json:"test_id"`
	QuestionKey   string  `db:"question_key" json:"question_key"`
	MarksObtained float64 `db:"marks_obtained" json:"marks_obtained"`
}

// COMarkEntry is a per-student per-CO obtained total, used by the bulk marks
// import to overwrite stored aggregates.
type COMarkEntry struct {
	StudentRollNo string  `db:"student_rollno" json:"student_rollno"`
	CO            string  `db:"co" json:"co"`
	Obtained      float64 `db:"obtained" json:"obtained"`
}
