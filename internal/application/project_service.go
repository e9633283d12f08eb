package application

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/urbe-dev/urbe-backend/internal/domain/entity"
	repo "github.com/urbe-dev/urbe-backend/internal/domain/repository"
)

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrAlreadyFinished    = errors.New("task already finished")
	ErrNotYetFinished     = errors.New("task not yet finished")
	ErrBudgetItemNotFound = errors.New("budget item not found")
)

// ProjectService applies all mutations to Project aggregates and maintains
// the two derived fields: Progress (finished tasks' proportional time share,
// unclamped) and TotalBudget (sum of quantity*price over budget lines).
// Like PetitionService, every operation is one unguarded read-modify-write.
type ProjectService struct {
	Projects repo.ProjectRepository
	Users    repo.UserRepository
	Logger   *logrus.Logger
}

func NewProjectService(projects repo.ProjectRepository, users repo.UserRepository, logger *logrus.Logger) *ProjectService {
	return &ProjectService{Projects: projects, Users: users, Logger: logger}
}

type ProjectInput struct {
	Title    string
	SDGs     string // newline-separated labels
	Overview string
	Start    time.Time
	End      time.Time
}

type TaskInput struct {
	Title      string
	Desc       string
	DateStart  time.Time
	DateEnd    time.Time
	IsFinished *bool
}

type BudgetInput struct {
	Tool        string
	Quantity    float64
	Price       float64
	IsAvailable bool
}

// Upsert creates the caller's project or updates it if one already exists.
// Each user has at most one project.
func (s *ProjectService) Upsert(userID string, in ProjectInput) (*entity.Project, error) {
	p, _ := s.Projects.GetByUser(userID)
	if p == nil {
		p = &entity.Project{
			ID:        uuid.NewString(),
			UserID:    userID,
			Tasks:     []entity.Task{},
			Budget:    []entity.BudgetItem{},
			CreatedAt: time.Now().UTC(),
		}
	}
	p.Title = in.Title
	p.Overview = in.Overview
	p.Start = in.Start
	p.End = in.End
	p.SDGs = splitLabels(in.SDGs, "\n")

	if err := s.Projects.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) List() ([]*entity.Project, error) {
	return s.Projects.ListByRecency()
}

func (s *ProjectService) GetByID(id string) (*entity.Project, error) {
	p, err := s.Projects.GetByID(id)
	if err != nil || p == nil {
		return nil, ErrProjectNotFound
	}
	return p, nil
}

func (s *ProjectService) GetByUser(userID string) (*entity.Project, error) {
	p, err := s.Projects.GetByUser(userID)
	if err != nil || p == nil {
		return nil, ErrProjectNotFound
	}
	return p, nil
}

// Delete removes a project; only its owner may do so.
func (s *ProjectService) Delete(id, callerID string) error {
	p, err := s.Projects.GetByID(id)
	if err != nil || p == nil {
		return ErrProjectNotFound
	}
	if p.UserID != callerID {
		return ErrForbidden
	}
	return s.Projects.Delete(id)
}

// AddTask prepends a task. IsFinished starts however the caller sent it,
// usually unset.
func (s *ProjectService) AddTask(projectID, callerID string, in TaskInput) ([]entity.Task, error) {
	p, err := s.ownedProject(projectID, callerID)
	if err != nil {
		return nil, err
	}

	t := entity.Task{
		ID:         uuid.NewString(),
		Title:      in.Title,
		Desc:       in.Desc,
		DateStart:  in.DateStart,
		DateEnd:    in.DateEnd,
		IsFinished: in.IsFinished,
	}
	p.Tasks = append([]entity.Task{t}, p.Tasks...)

	if err := s.Projects.Save(p); err != nil {
		return nil, err
	}
	return p.Tasks, nil
}

// RemoveTask verifies the task exists and the caller owns the project, then
// removes the LAST task in the list, whatever taskID addressed. The removal
// index has always been located by a scan that never matches, so it resolves
// to the final slot. RemoveTaskByID removes the addressed task instead.
func (s *ProjectService) RemoveTask(projectID, taskID, callerID string) ([]entity.Task, error) {
	p, err := s.taskForRemoval(projectID, taskID, callerID)
	if err != nil {
		return nil, err
	}

	if n := len(p.Tasks); n > 0 {
		p.Tasks = p.Tasks[:n-1]
	}

	if err := s.Projects.Save(p); err != nil {
		return nil, err
	}
	return p.Tasks, nil
}

// RemoveTaskByID removes exactly the addressed task.
func (s *ProjectService) RemoveTaskByID(projectID, taskID, callerID string) ([]entity.Task, error) {
	p, err := s.taskForRemoval(projectID, taskID, callerID)
	if err != nil {
		return nil, err
	}

	for i := range p.Tasks {
		if p.Tasks[i].ID == taskID {
			p.Tasks = append(p.Tasks[:i], p.Tasks[i+1:]...)
			break
		}
	}

	if err := s.Projects.Save(p); err != nil {
		return nil, err
	}
	return p.Tasks, nil
}

// FinishTask marks the task finished and raises Progress by the task's time
// share. Progress is not clamped; finishing tasks whose combined share
// exceeds the project duration pushes it past 100.
func (s *ProjectService) FinishTask(projectID, taskID, callerID string) (*entity.Project, error) {
	p, err := s.Projects.GetByID(projectID)
	if err != nil || p == nil {
		return nil, ErrProjectNotFound
	}
	t := p.TaskByID(taskID)
	if t == nil {
		return nil, ErrTaskNotFound
	}
	if p.UserID != callerID {
		return nil, ErrForbidden
	}
	if t.IsFinished != nil && *t.IsFinished {
		return nil, ErrAlreadyFinished
	}

	p.Progress += p.TaskShare(t)
	finished := true
	t.IsFinished = &finished

	if err := s.Projects.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// UnfinishTask mirrors FinishTask: lowers Progress by the same share and
// flips the flag to false. Only a flag that is explicitly false is rejected;
// an unset flag passes the check and the decrement applies, exactly as the
// platform has always behaved.
func (s *ProjectService) UnfinishTask(projectID, taskID, callerID string) (*entity.Project, error) {
	p, err := s.Projects.GetByID(projectID)
	if err != nil || p == nil {
		return nil, ErrProjectNotFound
	}
	t := p.TaskByID(taskID)
	if t == nil {
		return nil, ErrTaskNotFound
	}
	if p.UserID != callerID {
		return nil, ErrForbidden
	}
	if t.IsFinished != nil && !*t.IsFinished {
		return nil, ErrNotYetFinished
	}

	p.Progress -= p.TaskShare(t)
	finished := false
	t.IsFinished = &finished

	if err := s.Projects.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// AddBudgetItem prepends a budget line and raises TotalBudget by its cost.
func (s *ProjectService) AddBudgetItem(projectID, callerID string, in BudgetInput) (*entity.Project, error) {
	p, err := s.ownedProject(projectID, callerID)
	if err != nil {
		return nil, err
	}

	item := entity.BudgetItem{
		ID:          uuid.NewString(),
		Tool:        in.Tool,
		Quantity:    in.Quantity,
		Price:       in.Price,
		IsAvailable: in.IsAvailable,
	}
	p.TotalBudget += item.Price * item.Quantity
	p.Budget = append([]entity.BudgetItem{item}, p.Budget...)

	if err := s.Projects.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// RemoveBudgetItem lowers TotalBudget by the addressed line's cost but, like
// RemoveTask, drops the LAST line. RemoveBudgetItemByID
// removes the addressed line.
func (s *ProjectService) RemoveBudgetItem(projectID, itemID, callerID string) (*entity.Project, error) {
	p, item, err := s.budgetForRemoval(projectID, itemID, callerID)
	if err != nil {
		return nil, err
	}

	p.TotalBudget -= item.Price * item.Quantity
	if n := len(p.Budget); n > 0 {
		p.Budget = p.Budget[:n-1]
	}

	if err := s.Projects.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// RemoveBudgetItemByID removes exactly the addressed budget line.
func (s *ProjectService) RemoveBudgetItemByID(projectID, itemID, callerID string) (*entity.Project, error) {
	p, item, err := s.budgetForRemoval(projectID, itemID, callerID)
	if err != nil {
		return nil, err
	}

	p.TotalBudget -= item.Price * item.Quantity
	for i := range p.Budget {
		if p.Budget[i].ID == itemID {
			p.Budget = append(p.Budget[:i], p.Budget[i+1:]...)
			break
		}
	}

	if err := s.Projects.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) ownedProject(projectID, callerID string) (*entity.Project, error) {
	p, err := s.Projects.GetByID(projectID)
	if err != nil || p == nil {
		return nil, ErrProjectNotFound
	}
	if p.UserID != callerID {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *ProjectService) taskForRemoval(projectID, taskID, callerID string) (*entity.Project, error) {
	p, err := s.Projects.GetByID(projectID)
	if err != nil || p == nil {
		return nil, ErrProjectNotFound
	}
	if p.TaskByID(taskID) == nil {
		return nil, ErrTaskNotFound
	}
	if p.UserID != callerID {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *ProjectService) budgetForRemoval(projectID, itemID, callerID string) (*entity.Project, *entity.BudgetItem, error) {
	p, err := s.Projects.GetByID(projectID)
	if err != nil || p == nil {
		return nil, nil, ErrProjectNotFound
	}
	item := p.BudgetItemByID(itemID)
	if item == nil {
		return nil, nil, ErrBudgetItemNotFound
	}
	if p.UserID != callerID {
		return nil, nil, ErrForbidden
	}
	return p, item, nil
}
