package models

import "fmt"

// Course is a course record. CourseID never changes once assigned and
// CreatorID is taken from the authenticated principal at creation.
type Course struct {
	CourseID        int64  `json:"courseID" db:"course_id"`
	CreatorID       *int64 `json:"creator_id" db:"creator_id"`
	CourseSubject   string `json:"courseSubject" db:"course_subject"`
	Title           string `json:"title" db:"title"`
	Instructor      string `json:"instructor" db:"instructor"`
	Credits         int    `json:"credits" db:"credits"`
	Schedule        string `json:"schedule" db:"schedule"`
	Room            string `json:"room" db:"room"`
	Requirements    string `json:"requirements" db:"requirements"`
	Description     string `json:"description" db:"description"`
	InstructionMode string `json:"instruction_mode" db:"instruction_mode"`
}

// Key returns the (subject, id) pair that addresses the course and its discussion mirror.
func (c Course) Key() string {
	return fmt.Sprintf("%s/%d", c.CourseSubject, c.CourseID)
}

// CourseIDPolicy decides who assigns courseID on creation.
type CourseIDPolicy string

const (
	// CourseIDClient requires the client to supply courseID.
	CourseIDClient CourseIDPolicy = "client"
	// CourseIDStore lets the database sequence assign courseID.
	CourseIDStore CourseIDPolicy = "store"
)
