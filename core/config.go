package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EngineAuto     = ""
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite3"
	EngineMemory   = "memory"
)

type (
	Config struct {
		Env               string `mapstructure:"env"`
		Debug             bool   `mapstructure:"debug"`
		TestMode          bool   `mapstructure:"testmode"`
		AppName           string `mapstructure:"appname"`
		Build             string `mapstructure:"build"`
		SecretKey         string `mapstructure:"secretkey"`
		AdminPassword     string `mapstructure:"adminpassword"`
		AdminPasswordHash string `mapstructure:"adminpasswordhash"`
		RollbarToken      string `mapstructure:"rollbartoken"`

		Server   ServerConfig   `mapstructure:"server"`
		Database DatabaseConfig `mapstructure:"database"`
		Redis    RedisConfig    `mapstructure:"redis"`
	}

	ServerConfig struct {
		Host            string        `mapstructure:"host"`
		Port            string        `mapstructure:"port"`
		DebugHost       string        `mapstructure:"debughost"`
		DisableReqLogs  bool          `mapstructure:"disablereqlogs"`
		SessionTTL      time.Duration `mapstructure:"sessionttl"`
		ShutdownTimeout time.Duration `mapstructure:"shutdowntimeout"`
	}

	DatabaseConfig struct {
		URL             string        `mapstructure:"url"`
		Engine          string        `mapstructure:"engine"`
		MaxOpenConns    int           `mapstructure:"maxopenconns"`
		ConnMaxLifetime time.Duration `mapstructure:"connmaxlifetime"`
	}

	RedisConfig struct {
		URL        string        `mapstructure:"url"`
		ClassesTTL time.Duration `mapstructure:"classesttl"`
	}
)

// Address returns the address the API server listens on.
func (s ServerConfig) Address() string {
	return s.Host + ":" + s.Port
}

// NewConfig loads the application configuration.
// Precedence: environment > config/.env.<env> > defaults.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("env", "DEV")
	v.SetDefault("debug", false)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Buscativa")
	v.SetDefault("build", "develop")
	v.SetDefault("secretKey", "dev-secret-change-me")
	v.SetDefault("adminPassword", "admin123##")
	v.SetDefault("adminPasswordHash", "")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.debugHost", "127.0.0.1:5001")
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("server.sessionTTL", 12*time.Hour)
	v.SetDefault("server.shutdownTimeout", 10*time.Second)
	v.SetDefault("database.url", "")
	v.SetDefault("database.engine", EngineAuto)
	v.SetDefault("database.maxOpenConns", 10)
	v.SetDefault("database.connMaxLifetime", 30*time.Minute)
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.classesTTL", 10*time.Minute)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetDefault("env", env)

	// load .env if it exists (ignore if it does not)
	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("config.os.Getwd(): %v", err)
	}
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}

	// well-known variable names used by hosting providers
	bindEnv(v, "debug", "DEBUG")
	bindEnv(v, "build", "BUILD")
	bindEnv(v, "secretKey", "SECRET_KEY")
	bindEnv(v, "adminPassword", "ADMIN_PASSWORD")
	bindEnv(v, "adminPasswordHash", "ADMIN_PASSWORD_HASH")
	bindEnv(v, "rollbarToken", "ROLLBAR_TOKEN")
	bindEnv(v, "server.port", "PORT")
	bindEnv(v, "server.sessionTTL", "SESSION_TTL")
	bindEnv(v, "server.shutdownTimeout", "SHUTDOWN_TIMEOUT")
	bindEnv(v, "database.url", "DATABASE_URL")
	bindEnv(v, "database.engine", "DATABASE_ENGINE")
	bindEnv(v, "redis.url", "REDIS_URL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	conf := new(Config)
	if err := v.Unmarshal(conf); err != nil {
		log.Fatalf("config.Unmarshal(): %v", err)
	}
	conf.Env = env
	conf.Database.URL = strings.TrimSpace(conf.Database.URL)
	return conf
}

func bindEnv(v *viper.Viper, key, env string) {
	if err := v.BindEnv(key, env); err != nil {
		log.Fatalf("config.BindEnv(%s): %v", key, err)
	}
}
