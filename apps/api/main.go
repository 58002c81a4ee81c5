package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof" // /debug/pprof on the default mux

	dig_container "github.com/Renato2024Valente/Buscativa2026/apps/api/di/dig"
	echoapi "github.com/Renato2024Valente/Buscativa2026/apps/api/echo"
	"github.com/Renato2024Valente/Buscativa2026/apps/shared"
	"github.com/Renato2024Valente/Buscativa2026/core"
)

func main() {
	c := dig_container.New(core.NewConfig)

	must(c.Invoke(func(
		conf *core.Config,
		apiLogger core.Logger,
		dbLoggerParam dig_container.DBLoggerParam,
		storage *shared.Storage,
		cache *dig_container.Cache,
		server *echoapi.Server,
	) {
		cacheMode := "off"
		if cache.Enabled() {
			cacheMode = "redis"
		}
		apiLogger.Info(fmt.Sprintf("Buscativa %s starting : storage %q, class cache %q, listening on %s",
			conf.Build, storage.Engine, cacheMode, conf.Server.Address()))

		defer closeResources(apiLogger, dbLoggerParam.Logger, storage, cache)
		defer apiLogger.Info("Buscativa stopped")

		publishVars(conf, storage.Engine, cacheMode)
		go serveDebug(conf.Server.DebugHost, apiLogger)
		go server.Start()

		if err := waitForShutdown(conf, apiLogger, server); err != nil {
			apiLogger.Error("shutting down", err)
		}
	}))
}

// publishVars exposes the running configuration under /debug/vars.
func publishVars(conf *core.Config, engine, cacheMode string) {
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("storage").Set(engine)
	expvar.NewString("class_cache").Set(cacheMode)
}

func serveDebug(addr string, logger core.Logger) {
	if addr == "" {
		return
	}
	if err := http.ListenAndServe(addr, http.DefaultServeMux); err != nil {
		logger.Error(fmt.Sprintf("debug server on %s closed", addr), err)
	}
}

// waitForShutdown blocks until the server fails or a stop signal arrives, then drains
// in-flight requests within the configured timeout.
func waitForShutdown(conf *core.Config, logger core.Logger, server *echoapi.Server) error {
	select {
	case err := <-server.Errors():
		return err

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v received, draining requests for up to %s", sig, conf.Server.ShutdownTimeout))

		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Warn("graceful shutdown failed, closing connections", err)
			return server.Close()
		}
		return nil
	}
}

func closeResources(apiLogger, dbLogger core.Logger, storage *shared.Storage, cache *dig_container.Cache) {
	if err := cache.Close(); err != nil {
		apiLogger.Error("closing class cache", err)
	}
	if err := storage.Close(); err != nil {
		dbLogger.Error("closing storage", err)
	}
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
