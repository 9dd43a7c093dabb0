// Package container builds the application graph once at startup and hands
// it to the router and commands explicitly.
package container

import (
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	mongodrv "go.mongodb.org/mongo-driver/mongo"

	"github.com/oksasatya/bookshelf-api/config"
	"github.com/oksasatya/bookshelf-api/internal/application"
	repo "github.com/oksasatya/bookshelf-api/internal/domain/repository"
	esinfra "github.com/oksasatya/bookshelf-api/internal/infrastructure/elasticsearch"
	"github.com/oksasatya/bookshelf-api/internal/infrastructure/memory"
	mongoinfra "github.com/oksasatya/bookshelf-api/internal/infrastructure/mongo"
	pginfra "github.com/oksasatya/bookshelf-api/internal/infrastructure/postgres"
	"github.com/oksasatya/bookshelf-api/pkg/helpers"
	"github.com/oksasatya/bookshelf-api/pkg/mailer"
)

type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	Redis     *redis.Client
	ES        *elasticsearch.Client
	RabbitPub *helpers.RabbitPublisher
	JWT       *helpers.JWTManager

	UserRepo repo.UserRepository
	BookRepo repo.BookRepository

	Auth    *application.AuthService
	Users   *application.UserService
	Catalog *application.CatalogService
	Lists   *application.ListService

	closers []func()
}

// Stores pairs the two repositories of one backend.
type Stores struct {
	Users repo.UserRepository
	Books repo.BookRepository
}

// MemoryStores returns a fresh in-process backend.
func MemoryStores() Stores {
	s := memory.NewStore()
	return Stores{Users: s.Users(), Books: s.Books()}
}

// New connects every configured backend and wires the services. Optional
// collaborators (Redis, Elasticsearch, RabbitMQ) stay nil when unconfigured.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	stores, err := c.openStores(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}

	c.Redis = helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if c.Redis != nil {
		c.onClose(func() { _ = c.Redis.Close() })
	}

	c.ES, err = helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("elasticsearch: %w", err)
	}

	if cfg.MailSendEnabled && cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			// signup must keep working without the mail queue
			logger.WithError(err).Warn("rabbitmq unavailable; welcome emails disabled")
		} else {
			c.RabbitPub = pub
			c.onClose(pub.Close)
		}
	}

	c.wire(stores)
	return c, nil
}

// NewWithStores wires the services over caller-provided repositories and no
// optional collaborators. Used by tests and the memory driver.
func NewWithStores(cfg *config.Config, logger *logrus.Logger, stores Stores) *Container {
	c := &Container{Config: cfg, Logger: logger}
	c.wire(stores)
	return c
}

func (c *Container) openStores(ctx context.Context) (Stores, error) {
	switch c.Config.StoreDriver {
	case config.StoreDriverMemory:
		c.Logger.Warn("using in-memory store; data is lost on restart")
		return MemoryStores(), nil

	case config.StoreDriverMongo:
		client, db, err := mongoinfra.Connect(ctx, c.Config.MongoURI, c.Config.MongoDatabase)
		if err != nil {
			return Stores{}, fmt.Errorf("mongo: %w", err)
		}
		c.onClose(func() { _ = client.Disconnect(context.Background()) })
		return mongoStores(db), nil

	case config.StoreDriverPostgres, "":
		pool, err := pginfra.NewPool(ctx, c.Config)
		if err != nil {
			return Stores{}, fmt.Errorf("postgres: %w", err)
		}
		c.onClose(pool.Close)
		if err := pginfra.RunMigrations(c.Config.DatabaseURL, c.Config.MigrationsDir, c.Logger); err != nil {
			return Stores{}, fmt.Errorf("migrations: %w", err)
		}
		return postgresStores(pool), nil
	}
	return Stores{}, fmt.Errorf("unknown STORE_DRIVER %q", c.Config.StoreDriver)
}

func postgresStores(pool *pgxpool.Pool) Stores {
	return Stores{Users: pginfra.NewUserRepository(pool), Books: pginfra.NewBookRepository(pool)}
}

func mongoStores(db *mongodrv.Database) Stores {
	return Stores{Users: mongoinfra.NewUserRepository(db), Books: mongoinfra.NewBookRepository(db)}
}

func (c *Container) wire(stores Stores) {
	cfg := c.Config
	c.UserRepo, c.BookRepo = stores.Users, stores.Books
	c.JWT = helpers.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	var indexer application.BookIndexer
	if c.ES != nil {
		indexer = esinfra.NewBookIndex(c.ES, cfg.ESBooksIndex)
	}
	var notifier application.Notifier
	if c.RabbitPub != nil {
		notifier = mailer.NewQueueNotifier(c.RabbitPub, cfg.AppName)
	}

	c.Auth = application.NewAuthService(c.UserRepo, c.JWT, cfg.BcryptCost, notifier, c.Logger)
	c.Users = application.NewUserService(c.UserRepo, c.Logger)
	c.Catalog = application.NewCatalogService(c.BookRepo, indexer, c.Logger)
	c.Lists = application.NewListService(c.UserRepo, c.Catalog, c.Logger)
}

func (c *Container) onClose(fn func()) { c.closers = append(c.closers, fn) }

// Close releases connections in reverse order of opening.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
