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
	"github.com/oksasatya/devconnector/pkg/helpers"
	"github.com/oksasatya/devconnector/pkg/mailer"
)

// ProfileIndex is the full-text index over profiles. Implementations must
// tolerate Remove on an id that was never indexed.
type ProfileIndex interface {
	Index(ctx context.Context, p *entity.Profile) error
	Remove(ctx context.Context, userID string) error
	// Search returns matching owner ids, best match first.
	Search(ctx context.Context, q string, size int) ([]string, error)
}

type ProfileService struct {
	Profiles repo.ProfileRepository
	Users    repo.UserRepository
	Index    ProfileIndex          // optional
	Mail     helpers.JSONPublisher // optional
	Logger   *logrus.Logger
	AppName  string
}

func NewProfileService(profiles repo.ProfileRepository, users repo.UserRepository, index ProfileIndex, mail helpers.JSONPublisher, logger *logrus.Logger, appName string) *ProfileService {
	return &ProfileService{Profiles: profiles, Users: users, Index: index, Mail: mail, Logger: logger, AppName: appName}
}

// SocialNetworks lists the accepted social link keys.
var SocialNetworks = []string{"youtube", "twitter", "facebook", "linkedin", "instagram"}

// ProfileInput is a profile submission. Nil optional fields are left as stored.
type ProfileInput struct {
	Company        *string
	Website        *string
	Location       *string
	Status         string
	Bio            *string
	GitHubUsername *string
	Skills         string // comma separated
	Social         map[string]*string
}

type ExperienceInput struct {
	Title       string
	Company     string
	Location    string
	From        time.Time
	To          *time.Time
	Current     bool
	Description string
}

type EducationInput struct {
	School       string
	Degree       string
	FieldOfStudy string
	From         time.Time
	To           *time.Time
	Current      bool
	Description  string
}

// SplitSkills turns "go, sql,,k8s " into [go sql k8s].
func SplitSkills(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

func normalized(p *string) *string {
	if p == nil {
		return nil
	}
	v := helpers.NormalizeURL(*p)
	return &v
}

func (s *ProfileService) Me(ctx context.Context, userID string) (*entity.Profile, error) {
	return s.get(ctx, userID)
}

// GetByUserID looks up a public profile; a malformed id is reported as not found.
func (s *ProfileService) GetByUserID(ctx context.Context, userID string) (*entity.Profile, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrProfileNotFound
	}
	return s.get(ctx, userID)
}

func (s *ProfileService) get(ctx context.Context, userID string) (*entity.Profile, error) {
	p, err := s.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) List(ctx context.Context) ([]entity.Profile, error) {
	return s.Profiles.List(ctx)
}

// Upsert creates the caller's profile or updates the submitted fields in place.
func (s *ProfileService) Upsert(ctx context.Context, userID string, in ProfileInput) (*entity.Profile, error) {
	status := strings.TrimSpace(in.Status)
	f := entity.ProfileFields{
		Company:        trimmed(in.Company),
		Website:        normalized(in.Website),
		Location:       trimmed(in.Location),
		Status:         &status,
		Bio:            trimmed(in.Bio),
		GitHubUsername: trimmed(in.GitHubUsername),
		Skills:         SplitSkills(in.Skills),
		Social:         map[string]string{},
	}
	for _, network := range SocialNetworks {
		if v, ok := in.Social[network]; ok && v != nil {
			f.Social[network] = helpers.NormalizeURL(*v)
		}
	}

	p, err := s.Profiles.Upsert(ctx, userID, f)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if s.Index != nil {
		if err := s.Index.Index(ctx, p); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("profile index failed")
		}
	}
	return p, nil
}

func (s *ProfileService) AddExperience(ctx context.Context, userID string, in ExperienceInput) (*entity.Profile, error) {
	e := entity.Experience{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Location:    strings.TrimSpace(in.Location),
		From:        in.From,
		To:          in.To,
		Current:     in.Current,
		Description: in.Description,
	}
	p, err := s.Profiles.AddExperience(ctx, userID, e)
	return p, s.entryErr(err, ErrExperienceNotFound)
}

func (s *ProfileService) RemoveExperience(ctx context.Context, userID, expID string) (*entity.Profile, error) {
	if !validID(expID) {
		return nil, ErrExperienceNotFound
	}
	p, err := s.Profiles.RemoveExperience(ctx, userID, expID)
	return p, s.entryErr(err, ErrExperienceNotFound)
}

func (s *ProfileService) AddEducation(ctx context.Context, userID string, in EducationInput) (*entity.Profile, error) {
	e := entity.Education{
		ID:           uuid.NewString(),
		School:       strings.TrimSpace(in.School),
		Degree:       strings.TrimSpace(in.Degree),
		FieldOfStudy: strings.TrimSpace(in.FieldOfStudy),
		From:         in.From,
		To:           in.To,
		Current:      in.Current,
		Description:  in.Description,
	}
	p, err := s.Profiles.AddEducation(ctx, userID, e)
	return p, s.entryErr(err, ErrEducationNotFound)
}

func (s *ProfileService) RemoveEducation(ctx context.Context, userID, eduID string) (*entity.Profile, error) {
	if !validID(eduID) {
		return nil, ErrEducationNotFound
	}
	p, err := s.Profiles.RemoveEducation(ctx, userID, eduID)
	return p, s.entryErr(err, ErrEducationNotFound)
}

func (s *ProfileService) entryErr(err error, missing error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrNotFound):
		return ErrProfileNotFound
	case errors.Is(err, repo.ErrEntryNotFound):
		return missing
	default:
		return err
	}
}

// DeleteAccount removes the caller's posts, profile and identity.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID string) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := s.Users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, userID); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("profile unindex failed")
		}
	}
	enqueueEmail(ctx, s.Mail, s.Logger, mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateAccountDeleted,
		Data:     map[string]any{"Name": u.Name, "AppName": s.AppName},
	})
	return nil
}

const searchLimit = 20

// Search matches profiles against q. Without an index it scans the full list.
func (s *ProfileService) Search(ctx context.Context, q string) ([]entity.Profile, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []entity.Profile{}, nil
	}
	if s.Index == nil {
		return s.scan(ctx, q)
	}

	ids, err := s.Index.Search(ctx, q, searchLimit)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("profile search failed, scanning instead")
		}
		return s.scan(ctx, q)
	}
	out := make([]entity.Profile, 0, len(ids))
	for _, id := range ids {
		p, err := s.Profiles.GetByUserID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			continue // index lagging behind a deletion
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *ProfileService) scan(ctx context.Context, q string) ([]entity.Profile, error) {
	all, err := s.Profiles.List(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(q)
	out := []entity.Profile{}
	for _, p := range all {
		hay := strings.ToLower(strings.Join(append([]string{p.User.Name, p.Status, p.Location, p.Company}, p.Skills...), " "))
		if strings.Contains(hay, needle) {
			out = append(out, p)
		}
		if len(out) == searchLimit {
			break
		}
	}
	return out, nil
}
