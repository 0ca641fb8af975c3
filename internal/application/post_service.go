package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector/internal/domain/entity"
	repo "github.com/oksasatya/devconnector/internal/domain/repository"
)

type PostService struct {
	Posts  repo.PostRepository
	Users  repo.UserRepository
	Logger *logrus.Logger
	now    func() time.Time
}

func NewPostService(posts repo.PostRepository, users repo.UserRepository, logger *logrus.Logger) *PostService {
	return &PostService{Posts: posts, Users: users, Logger: logger, now: time.Now}
}

// author loads the caller so name and avatar can be snapshotted.
func (s *PostService) author(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *PostService) Create(ctx context.Context, userID, text string) (*entity.Post, error) {
	u, err := s.author(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := &entity.Post{
		User:      u.ID,
		Text:      strings.TrimSpace(text),
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}
	if err := s.Posts.Create(ctx, p); err != nil {
		return nil, err
	}
	postActionsTotal.WithLabelValues("create").Inc()
	return p, nil
}

func (s *PostService) List(ctx context.Context) ([]entity.Post, error) {
	return s.Posts.List(ctx)
}

func (s *PostService) Get(ctx context.Context, id string) (*entity.Post, error) {
	if !validID(id) {
		return nil, ErrPostNotFound
	}
	p, err := s.Posts.GetByID(ctx, id)
	return p, postErr(err)
}

// Delete removes the post if userID owns it.
func (s *PostService) Delete(ctx context.Context, id, userID string) error {
	if !validID(id) {
		return ErrPostNotFound
	}
	if err := postErr(s.Posts.Delete(ctx, id, userID)); err != nil {
		return err
	}
	postActionsTotal.WithLabelValues("delete").Inc()
	return nil
}

func (s *PostService) Like(ctx context.Context, id, userID string) ([]entity.Like, error) {
	if !validID(id) {
		return nil, ErrPostNotFound
	}
	likes, err := s.Posts.Like(ctx, id, userID)
	if err != nil {
		return nil, postErr(err)
	}
	postActionsTotal.WithLabelValues("like").Inc()
	return likes, nil
}

func (s *PostService) Unlike(ctx context.Context, id, userID string) ([]entity.Like, error) {
	if !validID(id) {
		return nil, ErrPostNotFound
	}
	likes, err := s.Posts.Unlike(ctx, id, userID)
	if err != nil {
		return nil, postErr(err)
	}
	postActionsTotal.WithLabelValues("unlike").Inc()
	return likes, nil
}

func (s *PostService) Comment(ctx context.Context, id, userID, text string) ([]entity.Comment, error) {
	if !validID(id) {
		return nil, ErrPostNotFound
	}
	u, err := s.author(ctx, userID)
	if err != nil {
		return nil, err
	}
	c := entity.Comment{
		ID:        uuid.NewString(),
		User:      u.ID,
		Text:      strings.TrimSpace(text),
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		CreatedAt: s.now().UTC(),
	}
	comments, err := s.Posts.AddComment(ctx, id, c)
	if err != nil {
		return nil, postErr(err)
	}
	postActionsTotal.WithLabelValues("comment").Inc()
	return comments, nil
}

func (s *PostService) DeleteComment(ctx context.Context, id, commentID, userID string) ([]entity.Comment, error) {
	if !validID(id) {
		return nil, ErrPostNotFound
	}
	comments, err := s.Posts.RemoveComment(ctx, id, commentID, userID)
	if err != nil {
		return nil, postErr(err)
	}
	postActionsTotal.WithLabelValues("uncomment").Inc()
	return comments, nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func postErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrNotFound):
		return ErrPostNotFound
	case errors.Is(err, repo.ErrEntryNotFound):
		return ErrCommentNotFound
	case errors.Is(err, repo.ErrNotOwner):
		return ErrNotAuthorized
	case errors.Is(err, repo.ErrAlreadyLiked):
		return ErrAlreadyLiked
	case errors.Is(err, repo.ErrNotLiked):
		return ErrNotLiked
	default:
		return err
	}
}
