package models

type Course struct {
	ID    string
	Title string
}

// Membership is the sole source of authorization truth: a user with no
// membership row for a course has no access to anything under that course.
type Membership struct {
	UserID       string
	CourseID     string
	RoleInCourse string
}

// CourseWithRole is a course joined with the caller's role in it.
type CourseWithRole struct {
	ID           string
	Title        string
	RoleInCourse string
}
