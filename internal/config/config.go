package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Repository backend identifiers accepted in the repositoryType setting.
const (
	TypeInMemory   = "inmemory"
	TypeTextFile   = "textfile"
	TypeBinaryFile = "binaryfile"
	TypeDatabase   = "database"
	TypeJSON       = "json"
	TypeXML        = "xml"
)

// DefaultSettingsPath is read when CLINIC_SETTINGS is not set.
const DefaultSettingsPath = "settings.properties"

// RepositoryConfig selects the storage backend and where each entity type lives.
// Locations are file paths for file backends and a connection string for the database backend.
type RepositoryConfig struct {
	Type                 string
	PatientsLocation     string
	AppointmentsLocation string
}

// DatabaseConfig holds connection pool settings for the database backend.
type DatabaseConfig struct {
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string
	Format string
}

// AppConfig is the centralized configuration struct for the application.
type AppConfig struct {
	Repository     RepositoryConfig
	Database       DatabaseConfig
	Log            LogConfig
	TracingEnabled bool
	SeedSampleData bool
}

// Load reads the settings file at path (key=value lines) and overlays environment variables.
// A missing settings file is not an error; the environment and defaults are used instead.
// Unquoted and double-quoted values expand $VAR references; single-quote values that contain
// a literal $, such as a database password.
func Load(path string) (*AppConfig, error) {
	settings, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read settings %s: %w", path, err)
		}
		settings = map[string]string{}
	}

	cfg := &AppConfig{
		Repository: RepositoryConfig{
			Type:                 getEnv("REPOSITORY_TYPE", getSetting(settings, "repositoryType", TypeInMemory)),
			PatientsLocation:     getEnv("REPOSITORY_PATIENTS_LOCATION", getSetting(settings, "repositoryPatientsLocation", "")),
			AppointmentsLocation: getEnv("REPOSITORY_APPOINTMENTS_LOCATION", getSetting(settings, "repositoryAppointmentsLocation", "")),
		},
		Database: DatabaseConfig{
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 5),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
		SeedSampleData: getEnvBool("SEED_SAMPLE_DATA", true),
	}

	if err := cfg.Repository.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SettingsPath returns the settings file location, honoring CLINIC_SETTINGS.
func SettingsPath() string {
	return getEnv("CLINIC_SETTINGS", DefaultSettingsPath)
}

// Validate checks the backend type and that durable backends have both locations.
// The database backend keeps both tables in one database, joined by a foreign key, so
// both locations must be the same connection string.
func (c RepositoryConfig) Validate() error {
	switch c.Type {
	case TypeInMemory:
		return nil
	case TypeTextFile, TypeBinaryFile, TypeDatabase, TypeJSON, TypeXML:
	default:
		return fmt.Errorf("invalid repository config: unknown repositoryType %q", c.Type)
	}

	var missing []string
	if c.PatientsLocation == "" {
		missing = append(missing, "repositoryPatientsLocation")
	}
	if c.AppointmentsLocation == "" {
		missing = append(missing, "repositoryAppointmentsLocation")
	}
	if len(missing) > 0 {
		return fmt.Errorf("invalid repository config: %s required for %s", strings.Join(missing, " and "), c.Type)
	}
	if c.Type == TypeDatabase && c.PatientsLocation != c.AppointmentsLocation {
		return errors.New("invalid repository config: repositoryPatientsLocation and repositoryAppointmentsLocation must name the same database")
	}
	return nil
}

func getSetting(settings map[string]string, key, def string) string {
	if v := strings.TrimSpace(settings[key]); v != "" {
		return v
	}
	return def
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
