package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbe-dev/urbe-backend/internal/application"
	"github.com/urbe-dev/urbe-backend/internal/domain/entity"
	"github.com/urbe-dev/urbe-backend/pkg/helpers"
	"github.com/urbe-dev/urbe-backend/pkg/validation"
)

// Minimal in-memory repositories; the route tests only need enough storage
// for a couple of aggregates.

type memUserRepo struct{ users map[string]*entity.User }

func (r *memUserRepo) Create(u *entity.User) error { r.users[u.ID] = u; return nil }
func (r *memUserRepo) GetByID(id string) (*entity.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, errMissing
}
func (r *memUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errMissing
}
func (r *memUserRepo) GetByResetToken(string) (*entity.User, error) { return nil, errMissing }
func (r *memUserRepo) Update(u *entity.User) error                  { r.users[u.ID] = u; return nil }
func (r *memUserRepo) Delete(id string) error                       { delete(r.users, id); return nil }

type memPetitionRepo struct{ petitions map[string]*entity.Petition }

func (r *memPetitionRepo) GetByID(id string) (*entity.Petition, error) {
	if p, ok := r.petitions[id]; ok {
		return p, nil
	}
	return nil, errMissing
}
func (r *memPetitionRepo) GetByUser(userID string) (*entity.Petition, error) {
	for _, p := range r.petitions {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, errMissing
}
func (r *memPetitionRepo) ListByRecency() ([]*entity.Petition, error) {
	out := make([]*entity.Petition, 0, len(r.petitions))
	for _, p := range r.petitions {
		out = append(out, p)
	}
	return out, nil
}
func (r *memPetitionRepo) Save(p *entity.Petition) error { r.petitions[p.ID] = p; return nil }
func (r *memPetitionRepo) Delete(id string) error        { delete(r.petitions, id); return nil }

var errMissing = assert.AnError

type petitionRouteFixture struct {
	engine *gin.Engine
	owner  *entity.User
	other  *entity.User
	rep    *memPetitionRepo
}

func newPetitionRoutes(t *testing.T) *petitionRouteFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	users := &memUserRepo{users: map[string]*entity.User{}}
	petitions := &memPetitionRepo{petitions: map[string]*entity.Petition{}}

	owner := &entity.User{ID: uuid.NewString(), FirstName: "Amine", LastName: "Ben Salah", Email: "amine@example.com"}
	other := &entity.User{ID: uuid.NewString(), FirstName: "Leila", LastName: "Trabelsi", Email: "leila@example.com"}
	require.NoError(t, users.Create(owner))
	require.NoError(t, users.Create(other))

	svc := application.NewPetitionService(petitions, users, helpers.NewLogger("test", "test"), nil, nil, "")
	h := NewPetitionHandler(svc, helpers.NewLogger("test", "test"))

	r := gin.New()
	api := r.Group("/api")
	api.GET("/petitions/:id", h.GetByID)
	api.DELETE("/petitions/:id", asUser(owner.ID), h.Delete)
	api.DELETE("/petitions/other/:id", asUser(other.ID), h.Delete)
	api.PUT("/petitions/support/:id", asUser(other.ID), h.Support)
	api.POST("/petitions/comment/:id", asUser(other.ID), h.Comment)

	return &petitionRouteFixture{engine: r, owner: owner, other: other, rep: petitions}
}

// asUser stands in for the token guard.
func asUser(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uid)
		c.Next()
	}
}

func (f *petitionRouteFixture) seedPetition(t *testing.T) *entity.Petition {
	t.Helper()
	p := &entity.Petition{
		ID:       uuid.NewString(),
		UserID:   f.owner.ID,
		Subject:  "Pistes cyclables",
		Content:  "Il nous faut des pistes cyclables.",
		Supports: []entity.Support{},
		Comments: []entity.Comment{},
	}
	require.NoError(t, f.rep.Save(p))
	return p
}

func TestGetPetitionNotFoundShape(t *testing.T) {
	f := newPetitionRoutes(t)

	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/petitions/missing", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Petition Non Trouvable!...", body["msg"])
}

func TestDeletePetitionNonOwner(t *testing.T) {
	f := newPetitionRoutes(t)
	p := f.seedPetition(t)

	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/petitions/other/"+p.ID, nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Vous n'êtes pas autorisé à faire cette action!...", body["msg"])

	// Still there.
	_, err := f.rep.GetByID(p.ID)
	require.NoError(t, err)
}

func TestDeletePetitionOwner(t *testing.T) {
	f := newPetitionRoutes(t)
	p := f.seedPetition(t)

	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/petitions/"+p.ID, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Pétition Supprimée!...", body["msg"])
}

func TestSupportTwice(t *testing.T) {
	f := newPetitionRoutes(t)
	p := f.seedPetition(t)

	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/petitions/support/"+p.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var supports []entity.Support
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &supports))
	require.Len(t, supports, 1)
	assert.Equal(t, f.other.ID, supports[0].UserID)

	w = httptest.NewRecorder()
	f.engine.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/petitions/support/"+p.ID, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Petition déja supportée!...", body["msg"])
}

func TestCommentValidationShape(t *testing.T) {
	f := newPetitionRoutes(t)
	p := f.seedPetition(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/petitions/comment/"+p.ID, strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	f.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Errors []struct {
			Msg   string `json:"msg"`
			Param string `json:"param"`
		} `json:"Errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "Contenu Vide!...", body.Errors[0].Msg)
	assert.Equal(t, "text", body.Errors[0].Param)
}
