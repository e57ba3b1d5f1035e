package repositories

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/unisphere-courses/internal/app/models"
)

// CourseOrderBy is the fixed listing order. Clients page through listings
// without cursors, so this order is part of the API contract.
var CourseOrderBy = []string{"course_subject ASC", "course_id ASC"}

// CourseCriteria holds the optional list filters. Empty fields impose no constraint.
type CourseCriteria struct {
	CourseSubject string
	CourseID      string
	Title         string
	Instructor    string
}

// CoursePredicate is a conjunctive filter over courses. It renders to SQL for
// the database and can be evaluated in memory.
type CoursePredicate struct {
	subject    string
	title      string
	instructor string
	courseID   *int64
	matchNone  bool
}

// BuildFilter turns criteria into a predicate. Subject, title and instructor
// match case-insensitive substrings; courseID matches exactly. A courseID that
// is not an integer yields a predicate that matches nothing.
func BuildFilter(criteria CourseCriteria) CoursePredicate {
	p := CoursePredicate{
		subject:    criteria.CourseSubject,
		title:      criteria.Title,
		instructor: criteria.Instructor,
	}
	if criteria.CourseID != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(criteria.CourseID), 10, 64)
		if err != nil {
			p.matchNone = true
		} else {
			p.courseID = &id
		}
	}
	return p
}

// IsEmpty reports whether the predicate accepts every course.
func (p CoursePredicate) IsEmpty() bool {
	return !p.matchNone && p.courseID == nil && p.subject == "" && p.title == "" && p.instructor == ""
}

// Matches evaluates the predicate against a single course.
func (p CoursePredicate) Matches(c models.Course) bool {
	if p.matchNone {
		return false
	}
	if p.courseID != nil && c.CourseID != *p.courseID {
		return false
	}
	return containsFold(c.CourseSubject, p.subject) &&
		containsFold(c.Title, p.title) &&
		containsFold(c.Instructor, p.instructor)
}

// ToSql implements squirrel.Sqlizer.
func (p CoursePredicate) ToSql() (string, []interface{}, error) {
	if p.matchNone {
		return "1=0", nil, nil
	}

	conds := squirrel.And{}
	if p.subject != "" {
		conds = append(conds, squirrel.ILike{"course_subject": likePattern(p.subject)})
	}
	if p.courseID != nil {
		conds = append(conds, squirrel.Eq{"course_id": *p.courseID})
	}
	if p.title != "" {
		conds = append(conds, squirrel.ILike{"title": likePattern(p.title)})
	}
	if p.instructor != "" {
		conds = append(conds, squirrel.ILike{"instructor": likePattern(p.instructor)})
	}
	return conds.ToSql()
}

// CacheKey is a stable identity for the predicate, used to key cached listings.
func (p CoursePredicate) CacheKey() string {
	if p.matchNone {
		return "none"
	}
	id := ""
	if p.courseID != nil {
		id = strconv.FormatInt(*p.courseID, 10)
	}
	return fmt.Sprintf("s=%q:id=%s:t=%q:i=%q",
		strings.ToLower(p.subject), id, strings.ToLower(p.title), strings.ToLower(p.instructor))
}

// SortCourses orders courses by subject then id, ascending.
func SortCourses(courses []*models.Course) {
	sort.SliceStable(courses, func(i, j int) bool {
		if courses[i].CourseSubject != courses[j].CourseSubject {
			return courses[i].CourseSubject < courses[j].CourseSubject
		}
		return courses[i].CourseID < courses[j].CourseID
	})
}

func containsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps s for a substring ILIKE, escaping wildcard characters.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
