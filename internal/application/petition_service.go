package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/urbe-dev/urbe-backend/internal/domain/entity"
	repo "github.com/urbe-dev/urbe-backend/internal/domain/repository"
	"github.com/urbe-dev/urbe-backend/pkg/helpers"
	"github.com/urbe-dev/urbe-backend/pkg/mailer"
)

var (
	ErrPetitionNotFound = errors.New("petition not found")
	ErrAlreadySupported = errors.New("petition already supported")
	ErrNotSupported     = errors.New("petition not supported")
	ErrEmptyText        = errors.New("empty comment text")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrForbidden        = errors.New("caller is not allowed to perform this action")
)

// PetitionService applies all mutations to Petition aggregates. Every
// operation loads the aggregate fresh, applies one change, and writes the
// whole document back. There is no locking: concurrent writers race and the
// last save wins.
type PetitionService struct {
	Petitions repo.PetitionRepository
	Users     repo.UserRepository
	Logger    *logrus.Logger
	Pub       *helpers.RabbitPublisher
	ES        *elasticsearch.Client
	ESIndex   string
}

func NewPetitionService(petitions repo.PetitionRepository, users repo.UserRepository, logger *logrus.Logger, pub *helpers.RabbitPublisher, es *elasticsearch.Client, esIndex string) *PetitionService {
	return &PetitionService{
		Petitions: petitions,
		Users:     users,
		Logger:    logger,
		Pub:       pub,
		ES:        es,
		ESIndex:   esIndex,
	}
}

type PetitionInput struct {
	Subject    string
	Categories string // newline-separated labels, as submitted by the form
	Content    string
}

// Upsert creates the caller's petition or updates it if one already exists.
// Each user has at most one petition.
func (s *PetitionService) Upsert(ctx context.Context, userID string, in PetitionInput) (*entity.Petition, error) {
	cats := splitLabels(in.Categories, "\n")

	p, _ := s.Petitions.GetByUser(userID)
	if p == nil {
		u, uerr := s.Users.GetByID(userID)
		if uerr != nil || u == nil {
			return nil, ErrUserNotFound
		}
		p = &entity.Petition{
			ID:        uuid.NewString(),
			UserID:    userID,
			Name:      u.FirstName + " " + u.LastName,
			Avatar:    u.Avatar,
			Supports:  []entity.Support{},
			Comments:  []entity.Comment{},
			WrittenAt: time.Now().UTC(),
		}
	}
	p.Subject = in.Subject
	p.Content = in.Content
	p.Categories = cats

	if err := s.Petitions.Save(p); err != nil {
		return nil, err
	}
	s.indexPetition(ctx, p)
	return p, nil
}

func (s *PetitionService) List() ([]*entity.Petition, error) {
	return s.Petitions.ListByRecency()
}

func (s *PetitionService) GetByID(id string) (*entity.Petition, error) {
	p, err := s.Petitions.GetByID(id)
	if err != nil || p == nil {
		return nil, ErrPetitionNotFound
	}
	return p, nil
}

func (s *PetitionService) GetByUser(userID string) (*entity.Petition, error) {
	p, err := s.Petitions.GetByUser(userID)
	if err != nil || p == nil {
		return nil, ErrPetitionNotFound
	}
	return p, nil
}

// Delete removes a petition; only its owner may do so.
func (s *PetitionService) Delete(id, callerID string) error {
	p, err := s.Petitions.GetByID(id)
	if err != nil || p == nil {
		return ErrPetitionNotFound
	}
	if p.UserID != callerID {
		return ErrForbidden
	}
	return s.Petitions.Delete(id)
}

// AddSupport prepends a support entry carrying a snapshot of the caller's
// display fields. A user may support a petition at most once.
func (s *PetitionService) AddSupport(ctx context.Context, petitionID, callerID string) ([]entity.Support, error) {
	u, err := s.Users.GetByID(callerID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	p, err := s.Petitions.GetByID(petitionID)
	if err != nil || p == nil {
		return nil, ErrPetitionNotFound
	}
	if p.SupportedBy(callerID) {
		return nil, ErrAlreadySupported
	}

	sup := entity.Support{
		ID:        uuid.NewString(),
		UserID:    callerID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    u.Avatar,
	}
	p.Supports = append([]entity.Support{sup}, p.Supports...)

	if err := s.Petitions.Save(p); err != nil {
		return nil, err
	}
	s.indexPetition(ctx, p)
	s.notifyOwner(ctx, p, fmt.Sprintf("%s %s supporte votre pétition « %s »", u.FirstName, u.LastName, p.Subject))
	return p.Supports, nil
}

// RemoveSupport removes the caller's support entry.
func (s *PetitionService) RemoveSupport(ctx context.Context, petitionID, callerID string) ([]entity.Support, error) {
	p, err := s.Petitions.GetByID(petitionID)
	if err != nil || p == nil {
		return nil, ErrPetitionNotFound
	}
	if !p.SupportedBy(callerID) {
		return nil, ErrNotSupported
	}

	for i := range p.Supports {
		if p.Supports[i].UserID == callerID {
			p.Supports = append(p.Supports[:i], p.Supports[i+1:]...)
			break
		}
	}

	if err := s.Petitions.Save(p); err != nil {
		return nil, err
	}
	s.indexPetition(ctx, p)
	return p.Supports, nil
}

// AddComment prepends a comment with the caller's snapshot and the current
// timestamp. Comment count per user is unbounded.
func (s *PetitionService) AddComment(ctx context.Context, petitionID, callerID, text string) ([]entity.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	u, err := s.Users.GetByID(callerID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	p, err := s.Petitions.GetByID(petitionID)
	if err != nil || p == nil {
		return nil, ErrPetitionNotFound
	}

	ct := entity.Comment{
		ID:        uuid.NewString(),
		UserID:    callerID,
		Text:      text,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    u.Avatar,
		WrittenAt: time.Now().UTC(),
	}
	p.Comments = append([]entity.Comment{ct}, p.Comments...)

	if err := s.Petitions.Save(p); err != nil {
		return nil, err
	}
	s.indexPetition(ctx, p)
	s.notifyOwner(ctx, p, fmt.Sprintf("%s %s a commenté votre pétition « %s »", u.FirstName, u.LastName, p.Subject))
	return p.Comments, nil
}

// RemoveComment checks that commentID exists and belongs to the caller, then
// removes the caller's FIRST comment, which is not necessarily commentID.
// The removal index has always been located by scanning for the caller's id;
// RemoveCommentByID is the variant that removes the addressed comment.
func (s *PetitionService) RemoveComment(ctx context.Context, petitionID, callerID, commentID string) ([]entity.Comment, error) {
	p, _, err := s.commentForRemoval(petitionID, callerID, commentID)
	if err != nil {
		return nil, err
	}

	for i := range p.Comments {
		if p.Comments[i].UserID == callerID {
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			break
		}
	}

	if err := s.Petitions.Save(p); err != nil {
		return nil, err
	}
	s.indexPetition(ctx, p)
	return p.Comments, nil
}

// RemoveCommentByID removes exactly the addressed comment.
func (s *PetitionService) RemoveCommentByID(ctx context.Context, petitionID, callerID, commentID string) ([]entity.Comment, error) {
	p, _, err := s.commentForRemoval(petitionID, callerID, commentID)
	if err != nil {
		return nil, err
	}

	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			break
		}
	}

	if err := s.Petitions.Save(p); err != nil {
		return nil, err
	}
	s.indexPetition(ctx, p)
	return p.Comments, nil
}

func (s *PetitionService) commentForRemoval(petitionID, callerID, commentID string) (*entity.Petition, *entity.Comment, error) {
	p, err := s.Petitions.GetByID(petitionID)
	if err != nil || p == nil {
		return nil, nil, ErrPetitionNotFound
	}
	ct := p.CommentByID(commentID)
	if ct == nil {
		return nil, nil, ErrCommentNotFound
	}
	if ct.UserID != callerID {
		return nil, nil, ErrForbidden
	}
	return p, ct, nil
}

// Search queries the petitions index over subject, content and categories.
func (s *PetitionService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"subject^2", "content", "categories"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// indexPetition mirrors the aggregate into Elasticsearch, best effort.
func (s *PetitionService) indexPetition(ctx context.Context, p *entity.Petition) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         p.ID,
		"user":       p.UserID,
		"subject":    p.Subject,
		"content":    p.Content,
		"categories": p.Categories,
		"supports":   len(p.Supports),
		"comments":   len(p.Comments),
		"written_at": p.WrittenAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: p.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("petition_id", p.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("petition_id", p.ID).Warn("es index response error")
	}
}

// notifyOwner enqueues an activity email to the petition owner, best effort.
// Support and comment flows never fail because of the queue.
func (s *PetitionService) notifyOwner(ctx context.Context, p *entity.Petition, text string) {
	if s.Pub == nil {
		return
	}
	owner, err := s.Users.GetByID(p.UserID)
	if err != nil || owner == nil {
		return
	}
	job := mailer.EmailJob{
		To:      owner.Email,
		Subject: "Nouvelle activité sur votre pétition",
		Text:    text,
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("petition_id", p.ID).Warn("failed to enqueue activity email")
	}
}

func splitLabels(raw, sep string) []string {
	parts := strings.Split(raw, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
