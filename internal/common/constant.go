package common

// Role values carried in memberships and access tokens.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)
