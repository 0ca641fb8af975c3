package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/devconnector/internal/domain/entity"
	"github.com/oksasatya/devconnector/internal/domain/repository"
)

func seedUser(t *testing.T, s *Store, email string) *entity.User {
	t.Helper()
	u := &entity.User{Name: email, Email: email, Password: "hash", AvatarURL: "a"}
	require.NoError(t, s.Users().Create(context.Background(), u))
	return u
}

func TestUsers(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	u := seedUser(t, s, "ann@example.com")
	assert.NotEmpty(t, u.ID)

	err := s.Users().Create(ctx, &entity.User{Email: "ann@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	got, err := s.Users().GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	got.Name = "mutated"
	again, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", again.Name, "callers get copies")
}

func TestProfileViewFollowsOwner(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	u := seedUser(t, s, "ann@example.com")
	status := "Dev"
	_, err := s.Profiles().Upsert(ctx, u.ID, entity.ProfileFields{Status: &status, Skills: []string{"go"}})
	require.NoError(t, err)

	require.NoError(t, s.Users().UpdateAvatar(ctx, u.ID, "https://cdn/new.png"))
	p, err := s.Profiles().GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/new.png", p.User.AvatarURL)

	p.Skills[0] = "mutated"
	p, err = s.Profiles().GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, p.Skills)
}

func TestDeleteUserCascades(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	ann := seedUser(t, s, "ann@example.com")
	bob := seedUser(t, s, "bob@example.com")
	status := "Dev"
	for _, u := range []*entity.User{ann, bob} {
		_, err := s.Profiles().Upsert(ctx, u.ID, entity.ProfileFields{Status: &status})
		require.NoError(t, err)
		require.NoError(t, s.Posts().Create(ctx, &entity.Post{User: u.ID, Text: "hi"}))
	}

	require.NoError(t, s.Users().Delete(ctx, ann.ID))

	profiles, err := s.Profiles().List(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, bob.ID, profiles[0].User.ID)

	posts, err := s.Posts().List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, bob.ID, posts[0].User)

	_, err = s.Profiles().Upsert(ctx, ann.ID, entity.ProfileFields{Status: &status})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestConcurrentLikesAreDeduplicated(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	u := seedUser(t, s, "ann@example.com")
	p := &entity.Post{User: u.ID, Text: "hi"}
	require.NoError(t, s.Posts().Create(ctx, p))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		already int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Posts().Like(ctx, p.ID, u.ID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if assert.ErrorIs(t, err, repository.ErrAlreadyLiked) {
				already++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, 49, already)
	got, err := s.Posts().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, got.Likes, 1)
}
