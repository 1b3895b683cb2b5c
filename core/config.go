package core

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env          string
		Build        string
		AppName      string
		Debug        bool
		TestMode     bool
		RollbarToken string
		Location     *time.Location // school time zone: used for "today" & "current month"

		Server   ServerConfig
		Database DatabaseConfig
		Cache    CacheConfig
	}

	ServerConfig struct {
		Host            string
		DebugHost       string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	DatabaseConfig struct {
		Engine        string // postgres | sqlite
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
		Path          string // sqlite only
		MaxOpenConns  int
	}

	CacheConfig struct {
		RedisAddr string // cache disabled when empty
		RedisDB   int
		TTL       time.Duration
	}
)

const (
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

func (dbc DatabaseConfig) Address() string {
	return net.JoinHostPort(dbc.Host, strconv.Itoa(dbc.Port))
}

func (dbc DatabaseConfig) IsSQLite() bool {
	return dbc.Engine == EngineSQLite
}

// NewConfig reads the configuration from the environment.
// ENV (DEV by default, TEST, QA, PROD) is used as the env prefix: e.g. DEV_DATABASE_HOST.
// config/.env.<env> is loaded beforehand if it exists.
func NewConfig() *Config {
	v := viper.New()

	env := strings.ToUpper(CleanString(os.Getenv("ENV")))
	if env == "" {
		env = "DEV"
	}

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("build", "develop")
	v.SetDefault("appName", "Register")
	v.SetDefault("debug", env == "DEV")
	v.SetDefault("testMode", env == "TEST")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("location", "UTC")
	v.SetDefault("server.host", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("database.engine", EnginePostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "register")
	v.SetDefault("database.user", "register")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "postgres")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", env == "DEV" || env == "TEST")
	v.SetDefault("database.path", "register.db")
	v.SetDefault("database.maxOpenConns", 10)
	v.SetDefault("cache.redisAddr", "")
	v.SetDefault("cache.redisDB", 0)
	v.SetDefault("cache.ttl", 10*time.Minute)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}

	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	loc, err := time.LoadLocation(v.GetString("location"))
	if err != nil {
		log.Printf("config: unknown location %q, falling back to UTC", v.GetString("location"))
		loc = time.UTC
	}

	return &Config{
		Env:          env,
		Build:        v.GetString("build"),
		AppName:      v.GetString("appName"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		RollbarToken: v.GetString("rollbarToken"),
		Location:     loc,
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			DebugHost:       v.GetString("server.debugHost"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
		},
		Database: DatabaseConfig{
			Engine:        strings.ToLower(v.GetString("database.engine")),
			Host:          v.GetString("database.host"),
			Port:          v.GetInt("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
			Path:          v.GetString("database.path"),
			MaxOpenConns:  v.GetInt("database.maxOpenConns"),
		},
		Cache: CacheConfig{
			RedisAddr: v.GetString("cache.redisAddr"),
			RedisDB:   v.GetInt("cache.redisDB"),
			TTL:       v.GetDuration("cache.ttl"),
		},
	}
}

// Today returns the current calendar date in the school's time zone.
func (c *Config) Today() Date {
	return DateOf(time.Now().In(c.location()))
}

// CurrentMonth returns the current month in the school's time zone.
func (c *Config) CurrentMonth() MonthYear {
	return MonthOf(c.Today())
}

func (c *Config) location() *time.Location {
	if c == nil || c.Location == nil {
		return time.UTC
	}
	return c.Location
}
