package repository

import "github.com/urbe-dev/urbe-backend/internal/domain/entity"

// PetitionRepository persists Petition aggregates whole: documents are read
// whole, mutated in memory, and written back whole. Save is an upsert.
type PetitionRepository interface {
	GetByID(id string) (*entity.Petition, error)
	GetByUser(userID string) (*entity.Petition, error)
	ListByRecency() ([]*entity.Petition, error)
	Save(p *entity.Petition) error
	Delete(id string) error
}
