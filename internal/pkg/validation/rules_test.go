package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Title   string `json:"title" validate:"required,max=5"`
	Credits *int   `json:"credits" validate:"required"`
	Hidden  string `json:"-" validate:"max=1"`
}

func TestStruct_Valid(t *testing.T) {
	credits := 3
	assert.Nil(t, Struct(sample{Title: "abc", Credits: &credits}))
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	fields := Struct(sample{Title: "too long title", Hidden: "xy"})

	assert.Equal(t, "title must be at most 5 characters", fields["title"])
	assert.Equal(t, "credits is required", fields["credits"])
	assert.Contains(t, fields, "Hidden")
}
