package memory

import (
	"context"

	"github.com/oksasatya/devconnector/internal/domain/entity"
	"github.com/oksasatya/devconnector/internal/domain/repository"
)

type ProfileRepository struct {
	s *Store
}

// view copies p and joins the owner's current name and avatar. Caller holds the lock.
func (r *ProfileRepository) view(p *entity.Profile) *entity.Profile {
	cp := *p
	cp.Skills = append([]string{}, p.Skills...)
	cp.Experience = append([]entity.Experience{}, p.Experience...)
	cp.Education = append([]entity.Education{}, p.Education...)
	if u, ok := r.s.users[p.User.ID]; ok {
		cp.User.Name = u.Name
		cp.User.AvatarURL = u.AvatarURL
	}
	return &cp
}

func (r *ProfileRepository) Upsert(_ context.Context, userID string, f entity.ProfileFields) (*entity.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[userID]; !ok {
		return nil, repository.ErrNotFound
	}
	p, ok := r.s.profiles[userID]
	if !ok {
		p = &entity.Profile{
			ID:         newID(),
			User:       entity.UserRef{ID: userID},
			Skills:     []string{},
			Experience: []entity.Experience{},
			Education:  []entity.Education{},
			CreatedAt:  r.s.timestamp(),
		}
		r.s.profiles[userID] = p
		r.s.profileOrder = append(r.s.profileOrder, userID)
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&p.Company, f.Company)
	set(&p.Website, f.Website)
	set(&p.Location, f.Location)
	set(&p.Status, f.Status)
	set(&p.Bio, f.Bio)
	set(&p.GitHubUsername, f.GitHubUsername)
	if f.Skills != nil {
		p.Skills = append([]string{}, f.Skills...)
	}
	for k, v := range f.Social {
		switch k {
		case "youtube":
			p.Social.YouTube = v
		case "twitter":
			p.Social.Twitter = v
		case "facebook":
			p.Social.Facebook = v
		case "linkedin":
			p.Social.LinkedIn = v
		case "instagram":
			p.Social.Instagram = v
		}
	}
	return r.view(p), nil
}

func (r *ProfileRepository) GetByUserID(_ context.Context, userID string) (*entity.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.view(p), nil
}

func (r *ProfileRepository) List(_ context.Context) ([]entity.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.Profile, 0, len(r.s.profileOrder))
	for i := len(r.s.profileOrder) - 1; i >= 0; i-- {
		out = append(out, *r.view(r.s.profiles[r.s.profileOrder[i]]))
	}
	return out, nil
}

func (r *ProfileRepository) AddExperience(_ context.Context, userID string, e entity.Experience) (*entity.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.Experience = append([]entity.Experience{e}, p.Experience...)
	return r.view(p), nil
}

func (r *ProfileRepository) RemoveExperience(_ context.Context, userID, expID string) (*entity.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for i, e := range p.Experience {
		if e.ID == expID {
			p.Experience = append(p.Experience[:i:i], p.Experience[i+1:]...)
			return r.view(p), nil
		}
	}
	return nil, repository.ErrEntryNotFound
}

func (r *ProfileRepository) AddEducation(_ context.Context, userID string, e entity.Education) (*entity.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.Education = append([]entity.Education{e}, p.Education...)
	return r.view(p), nil
}

func (r *ProfileRepository) RemoveEducation(_ context.Context, userID, eduID string) (*entity.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for i, e := range p.Education {
		if e.ID == eduID {
			p.Education = append(p.Education[:i:i], p.Education[i+1:]...)
			return r.view(p), nil
		}
	}
	return nil, repository.ErrEntryNotFound
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
