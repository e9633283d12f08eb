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

// ProfileRepository keys profiles by owning user (unique) with skills and
// curriculum as JSONB. Upsert conflicts on user_id.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileColumns = `id, user_id, birthdate, bio, adress, job, job_location, job_governorate, job_city, skills, last_degree, last_institute, curriculum`

func (r *ProfileRepository) GetByUser(userID string) (*entity.Profile, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *ProfileRepository) ListAll() ([]*entity.Profile, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `SELECT `+profileColumns+` FROM profiles`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProfileRepository) Save(p *entity.Profile) error {
	ctx := context.Background()
	skills, err := json.Marshal(p.Skills)
	if err != nil {
		return err
	}
	curriculum, err := json.Marshal(p.Curriculum)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO profiles (id, user_id, birthdate, bio, adress, job, job_location, job_governorate, job_city, skills, last_degree, last_institute, curriculum)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id) DO UPDATE SET
			birthdate = EXCLUDED.birthdate,
			bio = EXCLUDED.bio,
			adress = EXCLUDED.adress,
			job = EXCLUDED.job,
			job_location = EXCLUDED.job_location,
			job_governorate = EXCLUDED.job_governorate,
			job_city = EXCLUDED.job_city,
			skills = EXCLUDED.skills,
			last_degree = EXCLUDED.last_degree,
			last_institute = EXCLUDED.last_institute,
			curriculum = EXCLUDED.curriculum
	`, p.ID, p.UserID, p.Birthdate, p.Bio, p.Address, p.Job, p.JobLocation, p.JobGovernorate, p.JobCity, skills, p.LastDegree, p.LastInstitute, curriculum)
	return err
}

func (r *ProfileRepository) DeleteByUser(userID string) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	return err
}

func scanProfile(row pgx.Row) (*entity.Profile, error) {
	p := &entity.Profile{}
	var skills, curriculum []byte
	if err := row.Scan(&p.ID, &p.UserID, &p.Birthdate, &p.Bio, &p.Address, &p.Job,
		&p.JobLocation, &p.JobGovernorate, &p.JobCity, &skills, &p.LastDegree,
		&p.LastInstitute, &curriculum); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(skills, &p.Skills); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(curriculum, &p.Curriculum); err != nil {
		return nil, err
	}
	return p, nil
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
