package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	defaultPort         = "3000"
	defaultUploadDir    = "./uploads"
	defaultDatabaseURL  = "./data/sessions.db"
	defaultSessionsFile = "./data/sessions.json"
)

// Backend selects the session record store. The choice is explicit per
// deployment; the server never silently falls back from one store to the
// other, since blended modes made devices diverge in the past.
type Backend string

const (
	BackendDB   Backend = "db"   // relational table via gorm
	BackendFile Backend = "file" // single JSON document with an advisory lock
)

type Config struct {
	Port         string
	UploadDir    string
	StoreBackend Backend
	DatabaseURL  string
	SessionsFile string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:         getenv("PORT", defaultPort),
		UploadDir:    getenv("UPLOAD_DIR", defaultUploadDir),
		DatabaseURL:  getenv("DATABASE_URL", defaultDatabaseURL),
		SessionsFile: getenv("SESSIONS_FILE", defaultSessionsFile),
	}

	backend := Backend(strings.ToLower(getenv("STORE_BACKEND", string(BackendDB))))
	switch backend {
	case BackendDB, BackendFile:
		cfg.StoreBackend = backend
	default:
		return nil, fmt.Errorf(`STORE_BACKEND must be "db" or "file", got %q`, backend)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
