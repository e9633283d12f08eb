package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/urbe-dev/urbe-backend/internal/domain/entity"
	"github.com/urbe-dev/urbe-backend/internal/domain/repository"
)

// ProjectRepository mirrors PetitionRepository: one row per aggregate, tasks
// and budget in JSONB, whole-row upsert, last writer wins.
type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

const projectColumns = `id, user_id, title, sdgs, overview, tasks, budget, start_at, end_at, total_budget, progress, created_at`

func (r *ProjectRepository) GetByID(id string) (*entity.Project, error) {
	return r.getWhere(`id = $1`, id)
}

func (r *ProjectRepository) GetByUser(userID string) (*entity.Project, error) {
	return r.getWhere(`user_id = $1`, userID)
}

func (r *ProjectRepository) getWhere(cond string, arg any) (*entity.Project, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE `+cond, arg)
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *ProjectRepository) ListByRecency() ([]*entity.Project, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProjectRepository) Save(p *entity.Project) error {
	ctx := context.Background()
	sdgs, err := json.Marshal(p.SDGs)
	if err != nil {
		return err
	}
	tasks, err := json.Marshal(p.Tasks)
	if err != nil {
		return err
	}
	budget, err := json.Marshal(p.Budget)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO projects (id, user_id, title, sdgs, overview, tasks, budget, start_at, end_at, total_budget, progress, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			sdgs = EXCLUDED.sdgs,
			overview = EXCLUDED.overview,
			tasks = EXCLUDED.tasks,
			budget = EXCLUDED.budget,
			start_at = EXCLUDED.start_at,
			end_at = EXCLUDED.end_at,
			total_budget = EXCLUDED.total_budget,
			progress = EXCLUDED.progress
	`, p.ID, p.UserID, p.Title, sdgs, p.Overview, tasks, budget, p.Start, p.End, p.TotalBudget, p.Progress, p.CreatedAt)
	return err
}

func (r *ProjectRepository) Delete(id string) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	return err
}

func scanProject(row pgx.Row) (*entity.Project, error) {
	p := &entity.Project{}
	var sdgs, tasks, budget []byte
	if err := row.Scan(&p.ID, &p.UserID, &p.Title, &sdgs, &p.Overview, &tasks, &budget,
		&p.Start, &p.End, &p.TotalBudget, &p.Progress, &p.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(sdgs, &p.SDGs); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tasks, &p.Tasks); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(budget, &p.Budget); err != nil {
		return nil, err
	}
	return p, nil
}

var _ repository.ProjectRepository = (*ProjectRepository)(nil)
