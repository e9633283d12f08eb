package repository

import "github.com/urbe-dev/urbe-backend/internal/domain/entity"

// ProjectRepository persists Project aggregates whole, like PetitionRepository.
type ProjectRepository interface {
	GetByID(id string) (*entity.Project, error)
	GetByUser(userID string) (*entity.Project, error)
	ListByRecency() ([]*entity.Project, error)
	Save(p *entity.Project) error
	Delete(id string) error
}
