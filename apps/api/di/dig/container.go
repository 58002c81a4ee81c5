package dig_container

import (
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	echoapi "github.com/Renato2024Valente/Buscativa2026/apps/api/echo"
	"github.com/Renato2024Valente/Buscativa2026/apps/shared"
	"github.com/Renato2024Valente/Buscativa2026/core"
	"github.com/Renato2024Valente/Buscativa2026/core/access"
	"github.com/Renato2024Valente/Buscativa2026/core/attendance"
	logsvc "github.com/Renato2024Valente/Buscativa2026/services/logger"
	rediscache "github.com/Renato2024Valente/Buscativa2026/storage/cache/redis"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newRollbarLogger(conf *core.Config, prefix string) *logsvc.RollbarLogger {
	stdLogger := log.New(os.Stdout, prefix, log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	if conf.Debug {
		logger.Enable(false)
	}
	return logger
}

func newLogger(conf *core.Config) core.Logger {
	return newRollbarLogger(conf, "API : ")
}

func newDBLogger(conf *core.Config) core.Logger {
	return newRollbarLogger(conf, "DB : ")
}

func newStorage(conf *core.Config, loggerParam DBLoggerParam) *shared.Storage {
	storage, err := shared.OpenStorage(conf)
	if err != nil {
		loggerParam.Logger.Fatal("setting up database", err)
	}
	return storage
}

func newStore(storage *shared.Storage) attendance.Store {
	return storage.Store
}

// Cache holds the optional Redis class cache. Both fields are nil without Redis.
type Cache struct {
	Classes attendance.ClassCache
	client  *redis.Client
}

// Enabled reports whether a Redis server is configured.
func (c *Cache) Enabled() bool { return c.client != nil }

func (c *Cache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func newCache(conf *core.Config, logger core.Logger) *Cache {
	if conf.Redis.URL == "" {
		return &Cache{}
	}
	classes, client, err := rediscache.New(conf.Redis.URL, conf.Redis.ClassesTTL)
	if err != nil {
		logger.Error("setting up class cache, continuing without it", err)
		return &Cache{}
	}
	return &Cache{Classes: classes, client: client}
}

func newClassCache(cache *Cache) attendance.ClassCache {
	return cache.Classes
}

func newValidate(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	return validate
}

func newGate(conf *core.Config) (*access.Gate, error) {
	return access.NewGate(conf.AdminPassword, conf.AdminPasswordHash)
}

func newServer(conf *core.Config, logger core.Logger, svc *attendance.Service, gate *access.Gate) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:          conf,
		Logger:        logger,
		AttendanceSvc: svc,
		Gate:          gate,
	})
}

// New returns a new dependency injection dig.Container
func New(newConfig func() *core.Config) *dig.Container {
	c := dig.New()

	must(c.Provide(newConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStorage))
	must(c.Provide(newStore))
	must(c.Provide(newCache))
	must(c.Provide(newClassCache))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidate))
	must(c.Provide(newGate))
	must(c.Provide(attendance.NewService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
