package repository

import "github.com/urbe-dev/urbe-backend/internal/domain/entity"

// ProfileRepository persists Profile aggregates; one profile per user.
type ProfileRepository interface {
	GetByUser(userID string) (*entity.Profile, error)
	ListAll() ([]*entity.Profile, error)
	Save(p *entity.Profile) error
	DeleteByUser(userID string) error
}
