package config // package config loads application configuration from environment variables

import (
	"log"  // log is used to report configuration errors and halt execution
	"os"   // os provides access to environment variables
	"time" // time typing for pool lifetime settings
)

// DBConfig holds the connection and pool settings for one MySQL
// endpoint.  The server and the partition maintenance daemon both load
// it; the daemon needs nothing else.
type DBConfig struct {
	User string // database username
	Pass string // database password (optional)
	Host string // database host address
	Port string // database port number
	Name string // database name

	MaxOpenConns    int           // pool cap for open connections
	MaxIdleConns    int           // pool cap for idle connections
	ConnMaxLifetime time.Duration // recycle connections after this age
}

// Config holds the full runtime configuration of the API server.  Each
// field corresponds to an environment variable.  The primary database
// is mandatory; the replica is optional and, when absent, every read is
// served from the primary.  Token issuance happens outside this
// service, so only the verification secret is configured here.
type Config struct {
	Env       string // application environment (e.g. "dev", "prod")
	Port      string // HTTP port to listen on
	JWTSecret string // secret used to verify externally issued JWTs

	DB DBConfig // primary database settings

	ReplicaHost string // replica host; empty disables the replica
	ReplicaPort string // replica port; defaults to the primary port
}

// Load reads the server configuration from environment variables.
// Required variables are enforced by must() and missing values cause
// the program to exit with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:       must("APP_ENV"),    // environment (dev/test/prod)
		Port:      must("APP_PORT"),   // port to bind the HTTP server
		JWTSecret: must("JWT_SECRET"), // secret for verifying access tokens
		DB:        LoadDB(),

		ReplicaHost: os.Getenv("DB_REPLICA_HOST"), // replica host (optional)
		ReplicaPort: os.Getenv("DB_REPLICA_PORT"), // replica port (optional)
	}
	if cfg.ReplicaHost != "" && cfg.ReplicaPort == "" {
		cfg.ReplicaPort = cfg.DB.Port
	}
	return cfg
}

// LoadDB reads only the primary database settings.  Processes that
// never serve HTTP (the partition daemon) call this directly so they do
// not have to carry port or JWT configuration.
func LoadDB() DBConfig {
	return DBConfig{
		User: must("DB_USER"),      // database user
		Pass: os.Getenv("DB_PASS"), // database password (empty allowed)
		Host: must("DB_HOST"),      // database host
		Port: must("DB_PORT"),      // database port
		Name: must("DB_NAME"),      // database name

		MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 25),
		ConnMaxLifetime: envDur("DB_CONN_MAX_LIFETIME", 30*time.Minute),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
