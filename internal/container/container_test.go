package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/devconnector/config"
	"github.com/oksasatya/devconnector/pkg/helpers"
)

func TestBuild_Memory(t *testing.T) {
	cfg := &config.Config{StoreDriver: "memory", JWTSecret: "s", ESProfilesIndex: "profiles"}
	c, err := Build(context.Background(), cfg, helpers.NewNopLogger())
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.Users)
	assert.NotNil(t, c.Profiles)
	assert.NotNil(t, c.Posts)
	// absent backends come back as untyped nil interfaces
	assert.True(t, c.Mail() == nil)
	assert.True(t, c.ProfileIndex() == nil)
	assert.Nil(t, c.AvatarStore)
}

func TestBuild_UnknownDriver(t *testing.T) {
	_, err := Build(context.Background(), &config.Config{StoreDriver: "mongo"}, helpers.NewNopLogger())
	assert.ErrorContains(t, err, "mongo")
}
