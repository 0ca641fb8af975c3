package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector/internal/domain/entity"
	repo "github.com/oksasatya/devconnector/internal/domain/repository"
	"github.com/oksasatya/devconnector/pkg/helpers"
	"github.com/oksasatya/devconnector/pkg/mailer"
)

// AuthService owns registration, login and identity lookup.
type AuthService struct {
	Users   repo.UserRepository
	JWT     *helpers.JWTManager
	Mail    helpers.JSONPublisher // optional
	Logger  *logrus.Logger
	AppName string
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, mail helpers.JSONPublisher, logger *logrus.Logger, appName string) *AuthService {
	return &AuthService{Users: users, JWT: jwt, Mail: mail, Logger: logger, AppName: appName}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// NormalizeEmail is applied on every write and lookup so uniqueness ignores case.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates the identity and returns a signed token for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, error) {
	if len(in.Password) > helpers.MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	email := NormalizeEmail(in.Email)
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return "", ErrUserExists
	} else if !errors.Is(err, repo.ErrNotFound) {
		return "", err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return "", err
	}
	u := &entity.User{
		Name:      strings.TrimSpace(in.Name),
		Email:     email,
		Password:  hash,
		AvatarURL: helpers.GravatarURL(email),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return "", ErrUserExists
		}
		return "", err
	}
	usersRegisteredTotal.Inc()

	enqueueEmail(ctx, s.Mail, s.Logger, mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateWelcome,
		Data:     map[string]any{"Name": u.Name, "AppName": s.AppName},
	})
	return s.issue(u)
}

// Login verifies credentials. Unknown email and wrong password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.Users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			loginsTotal.WithLabelValues("rejected").Inc()
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		loginsTotal.WithLabelValues("rejected").Inc()
		return "", ErrInvalidCredentials
	}
	loginsTotal.WithLabelValues("ok").Inc()
	return s.issue(u)
}

// Me returns the identity behind a verified token.
func (s *AuthService) Me(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *AuthService) issue(u *entity.User) (string, error) {
	token, _, err := s.JWT.Issue(u.ID, u.Email)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("issue token failed")
		}
		return "", err
	}
	return token, nil
}
