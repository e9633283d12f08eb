package entity

import "time"

// Task is a planned unit of work inside a project. IsFinished is tri-state:
// nil means never touched, false means explicitly reopened, true means done.
type Task struct {
	ID         string    `json:"_id"`
	Title      string    `json:"title"`
	Desc       string    `json:"desc"`
	DateStart  time.Time `json:"dateStart"`
	DateEnd    time.Time `json:"dateEnd"`
	IsFinished *bool     `json:"isFinished"`
}

// BudgetItem is one tool purchase line.
type BudgetItem struct {
	ID          string  `json:"_id"`
	Tool        string  `json:"tool"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
	IsAvailable bool    `json:"isAvailable"`
}

// Project is an aggregate root. TotalBudget and Progress are derived fields
// maintained incrementally by the mutation engine, never recomputed on read.
// Progress is intentionally not clamped to [0,100].
type Project struct {
	ID          string       `json:"_id"`
	UserID      string       `json:"user"`
	Title       string       `json:"title"`
	SDGs        []string     `json:"sdgs"`
	Overview    string       `json:"overview"`
	Tasks       []Task       `json:"tasks"`
	Budget      []BudgetItem `json:"budget"`
	Start       time.Time    `json:"start"`
	End         time.Time    `json:"end"`
	TotalBudget float64      `json:"totalBudget"`
	Progress    float64      `json:"progress"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// TaskByID returns the task with the given id, or nil.
func (p *Project) TaskByID(id string) *Task {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return &p.Tasks[i]
		}
	}
	return nil
}

// BudgetItemByID returns the budget line with the given id, or nil.
func (p *Project) BudgetItemByID(id string) *BudgetItem {
	for i := range p.Budget {
		if p.Budget[i].ID == id {
			return &p.Budget[i]
		}
	}
	return nil
}

// TaskShare is the percentage a task contributes to Progress: its planned
// duration relative to the whole project duration, times 100.
func (p *Project) TaskShare(t *Task) float64 {
	total := p.End.Sub(p.Start)
	if total == 0 {
		return 0
	}
	return float64(t.DateEnd.Sub(t.DateStart)) / float64(total) * 100
}
