package memory

import (
	"context"

	"github.com/oksasatya/devconnector/internal/domain/entity"
	"github.com/oksasatya/devconnector/internal/domain/repository"
)

type PostRepository struct {
	s *Store
}

func clonePost(p *entity.Post) *entity.Post {
	cp := *p
	cp.Likes = append([]entity.Like{}, p.Likes...)
	cp.Comments = append([]entity.Comment{}, p.Comments...)
	return &cp
}

func (r *PostRepository) Create(_ context.Context, p *entity.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = newID()
	p.CreatedAt = r.s.timestamp()
	p.Likes = []entity.Like{}
	p.Comments = []entity.Comment{}
	r.s.posts[p.ID] = clonePost(p)
	r.s.postOrder = append(r.s.postOrder, p.ID)
	return nil
}

func (r *PostRepository) GetByID(_ context.Context, id string) (*entity.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clonePost(p), nil
}

func (r *PostRepository) List(_ context.Context) ([]entity.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.Post, 0, len(r.s.postOrder))
	for i := len(r.s.postOrder) - 1; i >= 0; i-- {
		out = append(out, *clonePost(r.s.posts[r.s.postOrder[i]]))
	}
	return out, nil
}

func (r *PostRepository) Delete(_ context.Context, id, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return repository.ErrNotFound
	}
	if p.User != userID {
		return repository.ErrNotOwner
	}
	delete(r.s.posts, id)
	r.s.postOrder = without(r.s.postOrder, id)
	return nil
}

func (r *PostRepository) Like(_ context.Context, id, userID string) ([]entity.Like, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.HasLike(userID) {
		return nil, repository.ErrAlreadyLiked
	}
	p.Likes = append([]entity.Like{{User: userID}}, p.Likes...)
	return append([]entity.Like{}, p.Likes...), nil
}

func (r *PostRepository) Unlike(_ context.Context, id, userID string) ([]entity.Like, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for i, l := range p.Likes {
		if l.User == userID {
			p.Likes = append(p.Likes[:i:i], p.Likes[i+1:]...)
			return append([]entity.Like{}, p.Likes...), nil
		}
	}
	return nil, repository.ErrNotLiked
}

func (r *PostRepository) AddComment(_ context.Context, id string, c entity.Comment) ([]entity.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.Comments = append([]entity.Comment{c}, p.Comments...)
	return append([]entity.Comment{}, p.Comments...), nil
}

func (r *PostRepository) RemoveComment(_ context.Context, id, commentID, userID string) ([]entity.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for i, c := range p.Comments {
		if c.ID != commentID {
			continue
		}
		if c.User != userID {
			return nil, repository.ErrNotOwner
		}
		p.Comments = append(p.Comments[:i:i], p.Comments[i+1:]...)
		return append([]entity.Comment{}, p.Comments...), nil
	}
	return nil, repository.ErrEntryNotFound
}

var _ repository.PostRepository = (*PostRepository)(nil)
