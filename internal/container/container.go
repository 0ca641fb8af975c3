package container

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector/config"
	app "github.com/oksasatya/devconnector/internal/application"
	repo "github.com/oksasatya/devconnector/internal/domain/repository"
	"github.com/oksasatya/devconnector/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/devconnector/internal/infrastructure/postgres"
	"github.com/oksasatya/devconnector/internal/infrastructure/search"
	"github.com/oksasatya/devconnector/pkg/helpers"
)

// Container carries the constructed infrastructure; the router wires modules from it.
// Optional clients are nil when their configuration is absent.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	JWT    *helpers.JWTManager

	PGPool    *pgxpool.Pool
	Redis     *redis.Client
	GCS       *storage.Client
	ES        *elasticsearch.Client
	RabbitPub *helpers.RabbitPublisher

	// AvatarStore is the GCS bucket uploader when GCS_BUCKET is set.
	AvatarStore helpers.ObjectUploader

	Users    repo.UserRepository
	Profiles repo.ProfileRepository
	Posts    repo.PostRepository

	closers []func()
}

// Build connects the store and every configured optional backend. Optional
// backends that fail to connect are logged and left disabled.
func Build(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
		JWT:    helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL),
	}

	switch cfg.StoreDriver {
	case "memory":
		c.useMemory()
		logger.Warn("using in-memory store; data is lost on exit")
	case "postgres":
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		c.closers = append(c.closers, pool.Close)
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			c.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		c.PGPool = pool
		c.Users = pginfra.NewUserRepository(pool)
		c.Profiles = pginfra.NewProfileRepository(pool)
		c.Posts = pginfra.NewPostRepository(pool)
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.RedisAddr != "" {
		rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.WithError(err).Warn("redis unavailable; github cache disabled")
		} else {
			c.Redis = rdb
			c.closers = append(c.closers, func() { _ = rdb.Close() })
		}
	}

	if cfg.GCSBucket != "" {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.WithError(err).Warn("gcs unavailable; avatar upload disabled")
		} else {
			c.GCS = gcs
			c.AvatarStore = &helpers.GCSUploader{Client: gcs, Bucket: cfg.GCSBucket}
			c.closers = append(c.closers, func() { _ = gcs.Close() })
		}
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := search.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable; profile search scans instead")
		} else {
			c.ES = es
		}
	}

	if cfg.MailSendEnabled && cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; emails will not be queued")
		} else {
			c.RabbitPub = pub
			c.closers = append(c.closers, pub.Close)
		}
	}

	return c, nil
}

// NewInMemory builds a container backed only by the in-memory store.
func NewInMemory(cfg *config.Config, logger *logrus.Logger) *Container {
	c := &Container{
		Config: cfg,
		Logger: logger,
		JWT:    helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL),
	}
	c.useMemory()
	return c
}

func (c *Container) useMemory() {
	store := memory.NewStore()
	c.Users = store.Users()
	c.Profiles = store.Profiles()
	c.Posts = store.Posts()
}

// Mail returns the email job publisher, or nil when queuing is disabled.
func (c *Container) Mail() helpers.JSONPublisher {
	if c.RabbitPub == nil {
		return nil
	}
	return c.RabbitPub
}

// ProfileIndex returns the search index, or nil when Elasticsearch is not configured.
func (c *Container) ProfileIndex() app.ProfileIndex {
	if c.ES == nil {
		return nil
	}
	return search.NewProfileIndex(c.ES, c.Config.ESProfilesIndex)
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
