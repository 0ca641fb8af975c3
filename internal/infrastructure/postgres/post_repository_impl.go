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

const postColumns = `id, user_id, text, name, avatar, likes, comments, created_at`

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

func scanPost(row pgx.Row) (*entity.Post, error) {
	p := &entity.Post{}
	if err := row.Scan(&p.ID, &p.User, &p.Text, &p.Name, &p.AvatarURL, &p.Likes, &p.Comments, &p.CreatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO posts (user_id, text, name, avatar)
		VALUES ($1, $2, $3, $4)
		RETURNING `+postColumns, p.User, p.Text, p.Name, p.AvatarURL)
	created, err := scanPost(row)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	*p = *created
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	p, err := scanPost(r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select post: %w", err)
	}
	return p, nil
}

func (r *PostRepository) List(ctx context.Context) ([]entity.Post, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	out := []entity.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PostRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.RowsAffected() > 0 {
		return nil
	}
	if err := r.mustExist(ctx, id); err != nil {
		return err
	}
	return repository.ErrNotOwner
}

func (r *PostRepository) Like(ctx context.Context, id, userID string) ([]entity.Like, error) {
	var likes []entity.Like
	err := r.pool.QueryRow(ctx, `
		UPDATE posts SET likes = jsonb_build_array(jsonb_build_object('user', $2::text)) || likes
		WHERE id = $1 AND NOT likes @> jsonb_build_array(jsonb_build_object('user', $2::text))
		RETURNING likes
	`, id, userID).Scan(&likes)
	if err == nil {
		return likes, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("like post: %w", err)
	}
	if err := r.mustExist(ctx, id); err != nil {
		return nil, err
	}
	return nil, repository.ErrAlreadyLiked
}

func (r *PostRepository) Unlike(ctx context.Context, id, userID string) ([]entity.Like, error) {
	var likes []entity.Like
	err := r.pool.QueryRow(ctx, `
		UPDATE posts SET likes = COALESCE((
			SELECT jsonb_agg(e.value ORDER BY e.ord)
			FROM jsonb_array_elements(posts.likes) WITH ORDINALITY AS e(value, ord)
			WHERE e.value->>'user' <> $2
		), '[]'::jsonb)
		WHERE id = $1 AND likes @> jsonb_build_array(jsonb_build_object('user', $2::text))
		RETURNING likes
	`, id, userID).Scan(&likes)
	if err == nil {
		return likes, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("unlike post: %w", err)
	}
	if err := r.mustExist(ctx, id); err != nil {
		return nil, err
	}
	return nil, repository.ErrNotLiked
}

func (r *PostRepository) AddComment(ctx context.Context, id string, c entity.Comment) ([]entity.Comment, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	var comments []entity.Comment
	err = r.pool.QueryRow(ctx, `
		UPDATE posts SET comments = jsonb_build_array($2::jsonb) || comments
		WHERE id = $1
		RETURNING comments
	`, id, b).Scan(&comments)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return comments, nil
}

func (r *PostRepository) RemoveComment(ctx context.Context, id, commentID, userID string) ([]entity.Comment, error) {
	var comments []entity.Comment
	err := r.pool.QueryRow(ctx, `
		UPDATE posts SET comments = COALESCE((
			SELECT jsonb_agg(e.value ORDER BY e.ord)
			FROM jsonb_array_elements(posts.comments) WITH ORDINALITY AS e(value, ord)
			WHERE e.value->>'id' <> $2
		), '[]'::jsonb)
		WHERE id = $1 AND comments @> jsonb_build_array(jsonb_build_object('id', $2::text, 'user', $3::text))
		RETURNING comments
	`, id, commentID, userID).Scan(&comments)
	if err == nil {
		return comments, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("remove comment: %w", err)
	}

	// Nothing matched; work out why.
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.FindComment(commentID) == nil {
		return nil, repository.ErrEntryNotFound
	}
	return nil, repository.ErrNotOwner
}

func (r *PostRepository) mustExist(ctx context.Context, id string) error {
	ok, err := exists(ctx, r.pool, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, id)
	if err != nil {
		return fmt.Errorf("check post: %w", err)
	}
	if !ok {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
