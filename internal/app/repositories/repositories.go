package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories is a container for all application repositories
type Repositories struct {
	StudentRepository       *StudentRepository
	ClassScheduleRepository *ClassScheduleRepository
	AssignmentRepository    *AssignmentRepository
	UserRepository          *UserRepository
	TokenRepository         *TokenRepository
}

// NewRepositories creates all repositories sharing one connection pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		StudentRepository:       NewStudentRepository(db),
		ClassScheduleRepository: NewClassScheduleRepository(db),
		AssignmentRepository:    NewAssignmentRepository(db),
		UserRepository:          NewUserRepository(db),
		TokenRepository:         NewTokenRepository(db),
	}
}
