package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	pkgcfg "github.com/Skotchmaster/thinai_hub/pkg/config"
)

const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	SinkAPI       = "api"
	SinkFirestore = "firestore"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	StoreDriver string
	DBFile      string
	DBSlot      string
	DatabaseURL string

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	JWTSecret []byte

	FirestoreProjectID   string
	FirestoreCredentials string

	APIURL    string
	CartDir   string
	CartKey   string
	CartDB    string
	OrderSink string

	SheetsWebhookURL string
}

// LoadConfig reads .env (if present) and then the process environment.
func LoadConfig(envFiles ...string) *Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	return &Config{
		ServiceName: pkgcfg.EnvDefault("SERVICE_NAME", "thinai-hub"),
		ServerPort:  pkgcfg.EnvIntDefault("SERVER_PORT", 3000),
		LogLevel:    os.Getenv("LOG_LEVEL"),

		StoreDriver: pkgcfg.EnvDefault("STORE_DRIVER", DriverFile),
		DBFile:      pkgcfg.EnvDefault("DB_FILE", "db.json"),
		DBSlot:      pkgcfg.EnvDefault("DB_SLOT", "db"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		KafkaBrokers: pkgcfg.CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    pkgcfg.EnvDefault("ES_INDEX", "products"),

		JWTSecret: []byte(os.Getenv("JWT_SECRET")),

		FirestoreProjectID:   os.Getenv("FIRESTORE_PROJECT_ID"),
		FirestoreCredentials: os.Getenv("FIRESTORE_CREDENTIALS"),

		APIURL:    pkgcfg.EnvDefault("API_URL", "http://localhost:3000"),
		CartDir:   pkgcfg.EnvDefault("CART_DIR", ".thinai"),
		CartKey:   pkgcfg.EnvDefault("CART_KEY", "thinaiHubCart"),
		CartDB:    os.Getenv("CART_DB"),
		OrderSink: pkgcfg.EnvDefault("ORDER_SINK", SinkAPI),

		SheetsWebhookURL: os.Getenv("SHEETS_WEBHOOK_URL"),
	}
}

// Validate checks combinations that cannot work at startup.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverFile:
		return pkgcfg.RequireNonEmpty(c.DBFile, "DB_FILE")
	case DriverSQLite, DriverPostgres:
		return pkgcfg.RequireNonEmpty(c.DatabaseURL, "DATABASE_URL")
	}
	return &UnknownDriverError{Driver: c.StoreDriver}
}

type UnknownDriverError struct {
	Driver string
}

func (e *UnknownDriverError) Error() string {
	return "unknown STORE_DRIVER " + e.Driver
}
