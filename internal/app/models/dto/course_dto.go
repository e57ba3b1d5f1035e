package dto

import "github.com/yigit/unisphere-courses/internal/app/models"

// CreateCourseRequest is the body of a course creation request.
// There is no creator_id field; the creator always comes from the token.
type CreateCourseRequest struct {
	CourseID        *int64 `json:"courseID" validate:"omitempty,gte=1" example:"220"`
	CourseSubject   string `json:"courseSubject" validate:"max=100" example:"COMPSCI"`
	Title           string `json:"title" validate:"required,max=200" example:"Intro to CS"`
	Instructor      string `json:"instructor" validate:"required,max=100" example:"Smith"`
	Credits         *int   `json:"credits" validate:"required" example:"3"`
	Schedule        string `json:"schedule" validate:"required,max=100" example:"MWF 10:00-10:50"`
	Room            string `json:"room" validate:"required,max=50" example:"CS101"`
	Requirements    string `json:"requirements" validate:"required" example:"None"`
	Description     string `json:"description" validate:"required" example:"Basics"`
	InstructionMode string `json:"instruction_mode" validate:"required,max=50" example:"In Person"`
}

// ToModel converts the request into a course without creator or id assignment.
func (r CreateCourseRequest) ToModel() *models.Course {
	course := &models.Course{
		CourseSubject:   r.CourseSubject,
		Title:           r.Title,
		Instructor:      r.Instructor,
		Schedule:        r.Schedule,
		Room:            r.Room,
		Requirements:    r.Requirements,
		Description:     r.Description,
		InstructionMode: r.InstructionMode,
	}
	if r.CourseID != nil {
		course.CourseID = *r.CourseID
	}
	if r.Credits != nil {
		course.Credits = *r.Credits
	}
	return course
}

// CourseListQuery carries the optional list filters from the query string.
type CourseListQuery struct {
	CourseSubject string `form:"courseSubject"`
	CourseID      string `form:"courseID"`
	Title         string `form:"title"`
	Instructor    string `form:"instructor"`
}
