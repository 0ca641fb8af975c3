package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/oksasatya/devconnector/internal/domain/entity"
	"github.com/oksasatya/devconnector/internal/domain/repository"
	"github.com/oksasatya/devconnector/pkg/helpers"
)

// testPool is nil when no container runtime is available.
var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	ctx := context.Background()
	pg, err := startPostgres(ctx)
	if err != nil {
		fmt.Printf("postgres container unavailable, skipping integration tests: %v\n", err)
		os.Exit(m.Run())
	}
	code := m.Run()
	testPool.Close()
	_ = pg.Terminate(ctx)
	os.Exit(code)
}

func startPostgres(ctx context.Context) (c testcontainers.Container, err error) {
	defer func() {
		// the provider panics when no docker socket is present
		if r := recover(); r != nil {
			err = fmt.Errorf("start container: %v", r)
		}
	}()
	c, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "dev",
				"POSTGRES_PASSWORD": "dev",
				"POSTGRES_DB":       "devconnector",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, err
	}
	host, err := c.Host(ctx)
	if err != nil {
		return nil, err
	}
	port, err := c.MappedPort(ctx, "5432")
	if err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("postgres://dev:dev@%s:%s/devconnector?sslmode=disable", host, port.Port())
	if err := RunMigrations(dsn, "../../../db/migrations", helpers.NewNopLogger()); err != nil {
		return nil, err
	}
	testPool, err = NewPool(ctx, dsn, 4, 1, time.Minute)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func requireDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testPool == nil {
		t.Skip("postgres container not available")
	}
	_, err := testPool.Exec(context.Background(), `TRUNCATE users CASCADE`)
	require.NoError(t, err)
	return testPool
}

func newUser(t *testing.T, users *UserRepository, name string) *entity.User {
	t.Helper()
	u := &entity.User{
		Name:      name,
		Email:     name + "@example.com",
		Password:  "hash",
		AvatarURL: helpers.GravatarURL(name + "@example.com"),
	}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func ptr(s string) *string { return &s }

func TestUserRepository(t *testing.T) {
	pool := requireDB(t)
	users := NewUserRepository(pool)
	ctx := context.Background()

	u := newUser(t, users, "ann")
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	err := users.Create(ctx, &entity.User{Name: "dup", Email: "ann@example.com", Password: "x"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	got, err := users.GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.Password)

	require.NoError(t, users.UpdateAvatar(ctx, u.ID, "https://cdn/x.png"))
	got, err = users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/x.png", got.AvatarURL)

	missing := uuid.NewString()
	_, err = users.GetByID(ctx, missing)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, users.UpdateAvatar(ctx, missing, "x"), repository.ErrNotFound)
	assert.ErrorIs(t, users.Delete(ctx, missing), repository.ErrNotFound)
}

func TestProfileRepository(t *testing.T) {
	pool := requireDB(t)
	users := NewUserRepository(pool)
	profiles := NewProfileRepository(pool)
	ctx := context.Background()
	ann := newUser(t, users, "ann")
	bob := newUser(t, users, "bob")

	_, err := profiles.GetByUserID(ctx, ann.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	p, err := profiles.Upsert(ctx, ann.ID, entity.ProfileFields{
		Company: ptr("Acme"),
		Status:  ptr("Dev"),
		Skills:  []string{"go", "sql"},
		Social:  map[string]string{"twitter": "https://twitter.com/ann"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ann", p.User.Name)
	assert.Equal(t, ann.AvatarURL, p.User.AvatarURL)
	assert.Equal(t, []string{"go", "sql"}, p.Skills)
	assert.Equal(t, "https://twitter.com/ann", p.Social.Twitter)
	assert.Empty(t, p.Experience)

	again, err := profiles.Upsert(ctx, ann.ID, entity.ProfileFields{
		Status: ptr("Lead"),
		Skills: []string{"go"},
		Social: map[string]string{"youtube": "https://youtube.com/ann"},
	})
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)
	assert.Equal(t, "Lead", again.Status)
	assert.Equal(t, "Acme", again.Company)
	assert.Equal(t, "https://twitter.com/ann", again.Social.Twitter)
	assert.Equal(t, "https://youtube.com/ann", again.Social.YouTube)

	_, err = profiles.Upsert(ctx, uuid.NewString(), entity.ProfileFields{Status: ptr("x"), Skills: []string{}})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = profiles.Upsert(ctx, bob.ID, entity.ProfileFields{Status: ptr("Ops"), Skills: []string{"k8s"}})
	require.NoError(t, err)
	list, err := profiles.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, bob.ID, list[0].User.ID)

	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	e1 := entity.Experience{ID: uuid.NewString(), Title: "Junior", Company: "Acme", From: from}
	e2 := entity.Experience{ID: uuid.NewString(), Title: "Senior", Company: "Acme", From: from, Current: true}
	_, err = profiles.AddExperience(ctx, ann.ID, e1)
	require.NoError(t, err)
	p, err = profiles.AddExperience(ctx, ann.ID, e2)
	require.NoError(t, err)
	require.Len(t, p.Experience, 2)
	assert.Equal(t, "Senior", p.Experience[0].Title)

	p, err = profiles.RemoveExperience(ctx, ann.ID, e2.ID)
	require.NoError(t, err)
	require.Len(t, p.Experience, 1)
	assert.Equal(t, e1.ID, p.Experience[0].ID)
	assert.True(t, from.Equal(p.Experience[0].From))

	_, err = profiles.RemoveExperience(ctx, ann.ID, e2.ID)
	assert.ErrorIs(t, err, repository.ErrEntryNotFound)
	_, err = profiles.RemoveEducation(ctx, uuid.NewString(), "x")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = profiles.AddEducation(ctx, uuid.NewString(), entity.Education{ID: uuid.NewString()})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	ed := entity.Education{ID: uuid.NewString(), School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: from}
	p, err = profiles.AddEducation(ctx, ann.ID, ed)
	require.NoError(t, err)
	require.Len(t, p.Education, 1)
	p, err = profiles.RemoveEducation(ctx, ann.ID, ed.ID)
	require.NoError(t, err)
	assert.Empty(t, p.Education)
}

func TestPostRepository(t *testing.T) {
	pool := requireDB(t)
	users := NewUserRepository(pool)
	posts := NewPostRepository(pool)
	ctx := context.Background()
	ann := newUser(t, users, "ann")
	bob := newUser(t, users, "bob")

	p := &entity.Post{User: ann.ID, Text: "hello", Name: ann.Name, AvatarURL: ann.AvatarURL}
	require.NoError(t, posts.Create(ctx, p))
	assert.NotEmpty(t, p.ID)
	assert.Empty(t, p.Likes)
	second := &entity.Post{User: bob.ID, Text: "second", Name: bob.Name}
	require.NoError(t, posts.Create(ctx, second))

	list, err := posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	likes, err := posts.Like(ctx, p.ID, ann.ID)
	require.NoError(t, err)
	likes, err = posts.Like(ctx, p.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []entity.Like{{User: bob.ID}, {User: ann.ID}}, likes)
	_, err = posts.Like(ctx, p.ID, bob.ID)
	assert.ErrorIs(t, err, repository.ErrAlreadyLiked)

	likes, err = posts.Unlike(ctx, p.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []entity.Like{{User: ann.ID}}, likes)
	_, err = posts.Unlike(ctx, p.ID, bob.ID)
	assert.ErrorIs(t, err, repository.ErrNotLiked)
	likes, err = posts.Unlike(ctx, p.ID, ann.ID)
	require.NoError(t, err)
	assert.Empty(t, likes)

	missing := uuid.NewString()
	_, err = posts.Like(ctx, missing, ann.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = posts.Unlike(ctx, missing, ann.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	c := entity.Comment{ID: uuid.NewString(), User: bob.ID, Text: "nice", Name: bob.Name, CreatedAt: time.Now().UTC()}
	comments, err := posts.AddComment(ctx, p.ID, c)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "nice", comments[0].Text)
	_, err = posts.AddComment(ctx, missing, c)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = posts.RemoveComment(ctx, p.ID, c.ID, ann.ID)
	assert.ErrorIs(t, err, repository.ErrNotOwner)
	_, err = posts.RemoveComment(ctx, p.ID, uuid.NewString(), bob.ID)
	assert.ErrorIs(t, err, repository.ErrEntryNotFound)
	comments, err = posts.RemoveComment(ctx, p.ID, c.ID, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	assert.ErrorIs(t, posts.Delete(ctx, p.ID, bob.ID), repository.ErrNotOwner)
	require.NoError(t, posts.Delete(ctx, p.ID, ann.ID))
	assert.ErrorIs(t, posts.Delete(ctx, p.ID, ann.ID), repository.ErrNotFound)
}

func TestUserDeleteCascades(t *testing.T) {
	pool := requireDB(t)
	users := NewUserRepository(pool)
	profiles := NewProfileRepository(pool)
	posts := NewPostRepository(pool)
	ctx := context.Background()
	ann := newUser(t, users, "ann")

	_, err := profiles.Upsert(ctx, ann.ID, entity.ProfileFields{Status: ptr("Dev"), Skills: []string{"go"}})
	require.NoError(t, err)
	p := &entity.Post{User: ann.ID, Text: "bye", Name: ann.Name}
	require.NoError(t, posts.Create(ctx, p))

	require.NoError(t, users.Delete(ctx, ann.ID))

	_, err = profiles.GetByUserID(ctx, ann.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = posts.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
