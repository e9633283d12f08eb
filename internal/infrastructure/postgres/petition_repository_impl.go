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

// PetitionRepository stores each petition as one row; categories, supports
// and comments live in JSONB columns so the aggregate is always read and
// written whole. Save is an upsert on id with no version check — the last
// writer wins, which is the concurrency model the mutation engine assumes.
type PetitionRepository struct {
	pool *pgxpool.Pool
}

func NewPetitionRepository(pool *pgxpool.Pool) *PetitionRepository {
	return &PetitionRepository{pool: pool}
}

const petitionColumns = `id, user_id, subject, categories, content, name, avatar, supports, comments, written_at`

func (r *PetitionRepository) GetByID(id string) (*entity.Petition, error) {
	return r.getWhere(`id = $1`, id)
}

func (r *PetitionRepository) GetByUser(userID string) (*entity.Petition, error) {
	return r.getWhere(`user_id = $1`, userID)
}

func (r *PetitionRepository) getWhere(cond string, arg any) (*entity.Petition, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `SELECT `+petitionColumns+` FROM petitions WHERE `+cond, arg)
	p, err := scanPetition(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *PetitionRepository) ListByRecency() ([]*entity.Petition, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `SELECT `+petitionColumns+` FROM petitions ORDER BY written_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Petition
	for rows.Next() {
		p, err := scanPetition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PetitionRepository) Save(p *entity.Petition) error {
	ctx := context.Background()
	categories, err := json.Marshal(p.Categories)
	if err != nil {
		return err
	}
	supports, err := json.Marshal(p.Supports)
	if err != nil {
		return err
	}
	comments, err := json.Marshal(p.Comments)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO petitions (id, user_id, subject, categories, content, name, avatar, supports, comments, written_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			subject = EXCLUDED.subject,
			categories = EXCLUDED.categories,
			content = EXCLUDED.content,
			name = EXCLUDED.name,
			avatar = EXCLUDED.avatar,
			supports = EXCLUDED.supports,
			comments = EXCLUDED.comments
	`, p.ID, p.UserID, p.Subject, categories, p.Content, p.Name, p.Avatar, supports, comments, p.WrittenAt)
	return err
}

func (r *PetitionRepository) Delete(id string) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `DELETE FROM petitions WHERE id = $1`, id)
	return err
}

func scanPetition(row pgx.Row) (*entity.Petition, error) {
	p := &entity.Petition{}
	var categories, supports, comments []byte
	if err := row.Scan(&p.ID, &p.UserID, &p.Subject, &categories, &p.Content, &p.Name, &p.Avatar,
		&supports, &comments, &p.WrittenAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(categories, &p.Categories); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(supports, &p.Supports); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(comments, &p.Comments); err != nil {
		return nil, err
	}
	return p, nil
}

var _ repository.PetitionRepository = (*PetitionRepository)(nil)
