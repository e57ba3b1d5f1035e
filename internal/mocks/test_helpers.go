package mocks

import "github.com/yigit/unisphere-courses/internal/app/models"

// SampleCourse returns a populated course for tests.
func SampleCourse(subject string, id int64, title, instructor string) models.Course {
	return models.Course{
		CourseID:        id,
		CourseSubject:   subject,
		Title:           title,
		Instructor:      instructor,
		Credits:         3,
		Schedule:        "MWF 10:00-11:00",
		Room:            "Room 101",
		Requirements:    "None",
		Description:     title + " course",
		InstructionMode: "In-person",
	}
}

// SampleCourses returns the two courses used across the test suites.
func SampleCourses() []models.Course {
	return []models.Course{
		SampleCourse("COMPSCI", 1, "Intro to CS", "Smith"),
		SampleCourse("BIOLOGY", 2, "Genetics", "Jones"),
	}
}
