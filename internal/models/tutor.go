package models

import (
	"time"
)

// Tutor entry review states. Only approved entries are searchable.
const (
	TutorStatusPending  = "pending"
	TutorStatusApproved = "approved"
	TutorStatusRejected = "rejected"
)

// Subject is a department in the catalog, e.g. "Computer Science".
type Subject struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// Course is a class a tutor offers within a subject.
type Course struct {
	ID        int64  `db:"id"`
	SubjectID int64  `db:"subject_id"`
	ClassNum  string `db:"class_num"`
	Name      string `db:"name"`
}

// TutorEntry is one application of a user to tutor one course.
type TutorEntry struct {
	ID        int64     `db:"id"`
	TutorID   int64     `db:"tutor_id"`
	CourseID  int64     `db:"course_id"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

// TutorListing is an approved entry joined with its tutor, course and subject.
type TutorListing struct {
	EntryID     int64
	TutorID     int64
	FirstName   *string
	LastName    *string
	Email       string
	CourseName  string
	ClassNum    string
	SubjectName string
}

func (l TutorListing) TutorName() string {
	return DisplayName(l.FirstName, l.LastName, l.Email)
}
