package repository

import (
	"context"

	"github.com/oksasatya/devconnector/internal/domain/entity"
)

// PostRepository stores Post aggregates. Like, Unlike, AddComment and
// RemoveComment are single atomic updates on the stored document.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	// List returns all posts, newest first.
	List(ctx context.Context) ([]entity.Post, error)
	// Delete fails with ErrNotOwner if userID does not own the post.
	Delete(ctx context.Context, id, userID string) error

	Like(ctx context.Context, id, userID string) ([]entity.Like, error)
	Unlike(ctx context.Context, id, userID string) ([]entity.Like, error)
	AddComment(ctx context.Context, id string, c entity.Comment) ([]entity.Comment, error)
	// RemoveComment returns ErrEntryNotFound for an unknown comment and
	// ErrNotOwner when userID did not write it.
	RemoveComment(ctx context.Context, id, commentID, userID string) ([]entity.Comment, error)
}
