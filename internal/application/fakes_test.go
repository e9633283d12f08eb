package application

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/urbe-dev/urbe-backend/internal/domain/entity"
)

// In-memory repositories backing the service tests. They clone aggregates on
// the way in and out so a service mutation only becomes visible after Save,
// the same contract the row-based implementations give.

var errFakeNotFound = errors.New("not found")

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func cloneUser(u *entity.User) *entity.User {
	cp := *u
	if u.TokenExpires != nil {
		t := *u.TokenExpires
		cp.TokenExpires = &t
	}
	return &cp
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, errFakeNotFound
}

func (r *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, errFakeNotFound
}

func (r *fakeUserRepo) GetByResetToken(token string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ResetPasswordToken != "" && u.ResetPasswordToken == token {
			return cloneUser(u), nil
		}
	}
	return nil, errFakeNotFound
}

func (r *fakeUserRepo) Update(u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return errFakeNotFound
	}
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *fakeUserRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

type fakePetitionRepo struct {
	mu        sync.Mutex
	petitions map[string]*entity.Petition
}

func newFakePetitionRepo() *fakePetitionRepo {
	return &fakePetitionRepo{petitions: map[string]*entity.Petition{}}
}

func clonePetition(p *entity.Petition) *entity.Petition {
	cp := *p
	cp.Categories = append([]string(nil), p.Categories...)
	cp.Supports = append([]entity.Support(nil), p.Supports...)
	cp.Comments = append([]entity.Comment(nil), p.Comments...)
	return &cp
}

func (r *fakePetitionRepo) GetByID(id string) (*entity.Petition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.petitions[id]; ok {
		return clonePetition(p), nil
	}
	return nil, errFakeNotFound
}

func (r *fakePetitionRepo) GetByUser(userID string) (*entity.Petition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.petitions {
		if p.UserID == userID {
			return clonePetition(p), nil
		}
	}
	return nil, errFakeNotFound
}

func (r *fakePetitionRepo) ListByRecency() ([]*entity.Petition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Petition, 0, len(r.petitions))
	for _, p := range r.petitions {
		out = append(out, clonePetition(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WrittenAt.After(out[j].WrittenAt) })
	return out, nil
}

func (r *fakePetitionRepo) Save(p *entity.Petition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.petitions[p.ID] = clonePetition(p)
	return nil
}

func (r *fakePetitionRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.petitions, id)
	return nil
}

type fakeProjectRepo struct {
	mu       sync.Mutex
	projects map[string]*entity.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: map[string]*entity.Project{}}
}

func cloneProject(p *entity.Project) *entity.Project {
	cp := *p
	cp.SDGs = append([]string(nil), p.SDGs...)
	cp.Tasks = make([]entity.Task, len(p.Tasks))
	for i, t := range p.Tasks {
		cp.Tasks[i] = t
		if t.IsFinished != nil {
			b := *t.IsFinished
			cp.Tasks[i].IsFinished = &b
		}
	}
	cp.Budget = append([]entity.BudgetItem(nil), p.Budget...)
	return &cp
}

func (r *fakeProjectRepo) GetByID(id string) (*entity.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.projects[id]; ok {
		return cloneProject(p), nil
	}
	return nil, errFakeNotFound
}

func (r *fakeProjectRepo) GetByUser(userID string) (*entity.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.projects {
		if p.UserID == userID {
			return cloneProject(p), nil
		}
	}
	return nil, errFakeNotFound
}

func (r *fakeProjectRepo) ListByRecency() ([]*entity.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Project, 0, len(r.projects))
	for _, p := range r.projects {
		out = append(out, cloneProject(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeProjectRepo) Save(p *entity.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[p.ID] = cloneProject(p)
	return nil
}

func (r *fakeProjectRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.projects, id)
	return nil
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*entity.Profile // keyed by user id
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]*entity.Profile{}}
}

func cloneProfile(p *entity.Profile) *entity.Profile {
	cp := *p
	cp.Skills = append([]string(nil), p.Skills...)
	cp.Curriculum = append([]entity.CurriculumEntry(nil), p.Curriculum...)
	return &cp
}

func (r *fakeProfileRepo) GetByUser(userID string) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.profiles[userID]; ok {
		return cloneProfile(p), nil
	}
	return nil, errFakeNotFound
}

func (r *fakeProfileRepo) ListAll() ([]*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, cloneProfile(p))
	}
	return out, nil
}

func (r *fakeProfileRepo) Save(p *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.UserID] = cloneProfile(p)
	return nil
}

func (r *fakeProfileRepo) DeleteByUser(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.profiles, userID)
	return nil
}

type sentMail struct {
	To      string
	Subject string
	Text    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, text, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Text: text})
	return nil
}
