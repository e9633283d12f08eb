package application

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/urbe-dev/urbe-backend/internal/domain/entity"
	repo "github.com/urbe-dev/urbe-backend/internal/domain/repository"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileService maintains one profile per user, with the curriculum list as
// an embedded sub-collection mutated through the aggregate.
type ProfileService struct {
	Profiles repo.ProfileRepository
	Users    repo.UserRepository
	Logger   *logrus.Logger
}

func NewProfileService(profiles repo.ProfileRepository, users repo.UserRepository, logger *logrus.Logger) *ProfileService {
	return &ProfileService{Profiles: profiles, Users: users, Logger: logger}
}

type ProfileInput struct {
	Birthdate      time.Time
	Bio            string
	Address        string
	Job            string
	JobLocation    string
	JobGovernorate string
	JobCity        string
	Skills         string // comma-separated
	LastDegree     string
	LastInstitute  string
}

// ProfileView is a profile joined with the owning user's public fields, the
// shape the read endpoints return.
type ProfileView struct {
	*entity.Profile
	User *ProfileUser `json:"userInfo,omitempty"`
}

type ProfileUser struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
}

// Upsert creates the caller's profile or updates it in place.
func (s *ProfileService) Upsert(userID string, in ProfileInput) (*entity.Profile, error) {
	p, _ := s.Profiles.GetByUser(userID)
	if p == nil {
		p = &entity.Profile{
			ID:         uuid.NewString(),
			UserID:     userID,
			Curriculum: []entity.CurriculumEntry{},
		}
	}
	p.Birthdate = in.Birthdate
	p.Bio = in.Bio
	p.Address = in.Address
	p.Job = in.Job
	p.JobLocation = in.JobLocation
	p.JobGovernorate = in.JobGovernorate
	p.JobCity = in.JobCity
	p.LastDegree = in.LastDegree
	p.LastInstitute = in.LastInstitute
	p.Skills = splitLabels(in.Skills, ",")

	if err := s.Profiles.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetByUser returns the profile with the owner's public fields attached.
func (s *ProfileService) GetByUser(userID string) (*ProfileView, error) {
	p, err := s.Profiles.GetByUser(userID)
	if err != nil || p == nil {
		return nil, ErrProfileNotFound
	}
	return s.withUser(p), nil
}

func (s *ProfileService) ListAll() ([]*ProfileView, error) {
	profiles, err := s.Profiles.ListAll()
	if err != nil {
		return nil, err
	}
	out := make([]*ProfileView, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, s.withUser(p))
	}
	return out, nil
}

// DeleteWithUser removes the profile and the account behind it.
func (s *ProfileService) DeleteWithUser(userID string) error {
	if err := s.Profiles.DeleteByUser(userID); err != nil {
		return err
	}
	return s.Users.Delete(userID)
}

// AddCurriculum prepends a degree entry.
func (s *ProfileService) AddCurriculum(userID, year, title, institute string) (*entity.Profile, error) {
	p, err := s.Profiles.GetByUser(userID)
	if err != nil || p == nil {
		return nil, ErrProfileNotFound
	}

	entry := entity.CurriculumEntry{
		ID:        uuid.NewString(),
		Year:      year,
		Title:     title,
		Institute: institute,
	}
	p.Curriculum = append([]entity.CurriculumEntry{entry}, p.Curriculum...)

	if err := s.Profiles.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// RemoveCurriculum removes the addressed entry. An unknown id falls back to
// dropping the last entry, mirroring the historical splice-at--1 behavior.
func (s *ProfileService) RemoveCurriculum(userID, entryID string) (*entity.Profile, error) {
	p, err := s.Profiles.GetByUser(userID)
	if err != nil || p == nil {
		return nil, ErrProfileNotFound
	}

	idx := -1
	for i := range p.Curriculum {
		if p.Curriculum[i].ID == entryID {
			idx = i
			break
		}
	}
	switch {
	case idx >= 0:
		p.Curriculum = append(p.Curriculum[:idx], p.Curriculum[idx+1:]...)
	case len(p.Curriculum) > 0:
		p.Curriculum = p.Curriculum[:len(p.Curriculum)-1]
	}

	if err := s.Profiles.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) withUser(p *entity.Profile) *ProfileView {
	view := &ProfileView{Profile: p}
	if u, err := s.Users.GetByID(p.UserID); err == nil && u != nil {
		view.User = &ProfileUser{
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			Avatar:    u.Avatar,
		}
	}
	return view
}
