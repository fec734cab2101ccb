package services

import (
	"context"
	"database/sql"

	"github.com/resonance-app/resonance/internal/server/models"
	"github.com/resonance-app/resonance/internal/server/repositories/repomanager"
)

// CourseService lists the caller's courses and resolves single courses
// through the membership gate.
type CourseService struct {
	authz
}

func NewCourseService(db *sql.DB, m repomanager.RepositoryManager) *CourseService {
	return &CourseService{authz: authz{db: db, repomanager: m}}
}

// List returns the courses for the caller's memberships with the role held
// in each.
func (s *CourseService) List(ctx context.Context, user AuthUser) ([]*models.CourseWithRole, error) {
	return s.repomanager.Courses(s.db).ListForUser(ctx, user.ID)
}

// Get returns one course, provided the caller is a member.
func (s *CourseService) Get(ctx context.Context, user AuthUser, courseID string) (*models.Course, error) {
	if _, err := s.courseRole(ctx, user.ID, courseID); err != nil {
		return nil, err
	}
	return s.repomanager.Courses(s.db).GetByID(ctx, courseID)
}
