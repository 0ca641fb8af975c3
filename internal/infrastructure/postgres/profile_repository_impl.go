package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/devconnector/internal/domain/entity"
	"github.com/oksasatya/devconnector/internal/domain/repository"
)

// profileColumns selects a profile from alias p joined with its owner u.
const profileColumns = `
	p.id, p.user_id, u.name, u.avatar, p.company, p.website, p.location, p.status,
	p.skills, p.bio, p.githubusername, p.social, p.experience, p.education, p.created_at`

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func scanProfile(row pgx.Row) (*entity.Profile, error) {
	p := &entity.Profile{}
	err := row.Scan(&p.ID, &p.User.ID, &p.User.Name, &p.User.AvatarURL,
		&p.Company, &p.Website, &p.Location, &p.Status,
		&p.Skills, &p.Bio, &p.GitHubUsername, &p.Social, &p.Experience, &p.Education, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	return p, nil
}

// Upsert creates the profile or replaces the provided fields in a single statement.
func (r *ProfileRepository) Upsert(ctx context.Context, userID string, f entity.ProfileFields) (*entity.Profile, error) {
	social := f.Social
	if social == nil {
		social = map[string]string{}
	}
	socialJSON, err := json.Marshal(social)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		WITH p AS (
			INSERT INTO profiles (user_id, company, website, location, status, bio, githubusername, skills, social)
			VALUES ($1, COALESCE($2, ''), COALESCE($3, ''), COALESCE($4, ''), COALESCE($5, ''),
			        COALESCE($6, ''), COALESCE($7, ''), COALESCE($8::text[], '{}'), $9::jsonb)
			ON CONFLICT (user_id) DO UPDATE SET
				company        = COALESCE($2, profiles.company),
				website        = COALESCE($3, profiles.website),
				location       = COALESCE($4, profiles.location),
				status         = COALESCE($5, profiles.status),
				bio            = COALESCE($6, profiles.bio),
				githubusername = COALESCE($7, profiles.githubusername),
				skills         = COALESCE($8::text[], profiles.skills),
				social         = profiles.social || $9::jsonb
			RETURNING *
		)
		SELECT `+profileColumns+`
		FROM p JOIN users u ON u.id = p.user_id
	`, userID, f.Company, f.Website, f.Location, f.Status, f.Bio, f.GitHubUsername, f.Skills, socialJSON)

	p, err := scanProfile(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return p, nil
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*entity.Profile, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM profiles p JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
	`, userID)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select profile: %w", err)
	}
	return p, nil
}

func (r *ProfileRepository) List(ctx context.Context) ([]entity.Profile, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+profileColumns+`
		FROM profiles p JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	out := []entity.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *ProfileRepository) AddExperience(ctx context.Context, userID string, e entity.Experience) (*entity.Profile, error) {
	return r.prepend(ctx, "experience", userID, e)
}

func (r *ProfileRepository) RemoveExperience(ctx context.Context, userID, expID string) (*entity.Profile, error) {
	return r.remove(ctx, "experience", userID, expID)
}

func (r *ProfileRepository) AddEducation(ctx context.Context, userID string, e entity.Education) (*entity.Profile, error) {
	return r.prepend(ctx, "education", userID, e)
}

func (r *ProfileRepository) RemoveEducation(ctx context.Context, userID, eduID string) (*entity.Profile, error) {
	return r.remove(ctx, "education", userID, eduID)
}

// prepend puts entry at the head of the JSONB list in column.
// column is always one of the fixed names above.
func (r *ProfileRepository) prepend(ctx context.Context, column, userID string, entry any) (*entity.Profile, error) {
	b, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		WITH p AS (
			UPDATE profiles SET %[1]s = jsonb_build_array($2::jsonb) || %[1]s
			WHERE user_id = $1
			RETURNING *
		)
		SELECT `+profileColumns+`
		FROM p JOIN users u ON u.id = p.user_id
	`, column), userID, b)

	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("add %s: %w", column, err)
	}
	return p, nil
}

// remove drops the entry with entryID from column, keeping the order of the rest.
func (r *ProfileRepository) remove(ctx context.Context, column, userID, entryID string) (*entity.Profile, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		WITH p AS (
			UPDATE profiles SET %[1]s = COALESCE((
				SELECT jsonb_agg(e.value ORDER BY e.ord)
				FROM jsonb_array_elements(profiles.%[1]s) WITH ORDINALITY AS e(value, ord)
				WHERE e.value->>'id' <> $2
			), '[]'::jsonb)
			WHERE user_id = $1 AND %[1]s @> jsonb_build_array(jsonb_build_object('id', $2::text))
			RETURNING *
		)
		SELECT `+profileColumns+`
		FROM p JOIN users u ON u.id = p.user_id
	`, column), userID, entryID)

	p, err := scanProfile(row)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("remove %s: %w", column, err)
	}
	ok, err := exists(ctx, r.pool, `SELECT EXISTS (SELECT 1 FROM profiles WHERE user_id = $1)`, userID)
	if err != nil {
		return nil, fmt.Errorf("check profile: %w", err)
	}
	if !ok {
		return nil, repository.ErrNotFound
	}
	return nil, repository.ErrEntryNotFound
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
