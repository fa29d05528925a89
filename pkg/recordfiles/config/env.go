package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// WithEnv applies environment variable overrides using the provided prefix.
//
// Environment variable mapping:
//
//	PORT - Server port (default: "8080")
//	ENVIRONMENT - Runtime environment (default: "development")
//	DATABASE_URL - Connection string. A "postgres://" or
//	               "postgresql://" prefix selects the postgres
//	               repository; empty or "memory" selects in-memory.
//	PID_TYPE - Persistent-identifier type for the routes (default: "recid")
//	HIDE_FORBIDDEN_FILES - "true" maps permission denials to 404
//	PREVIEW_EXTENSIONS - Comma-separated previewable extensions
//	STORAGE_URL - Storage connection string (one of):
//	              - "memory://" - In-memory storage (default)
//	              - "file:///path/to/data" - Filesystem storage
//	              - "s3://bucket?region=us-east-1&endpoint=..." - S3 storage
func WithEnv(prefix string) Option {
	return func(c *ServerConfig) error {
		if v, ok := lookupEnv(prefix, "PORT"); ok && v != "" {
			c.Port = v
		}
		if v, ok := lookupEnv(prefix, "ENVIRONMENT"); ok && v != "" {
			c.Environment = v
		}
		if v, ok := lookupEnv(prefix, "PID_TYPE"); ok && v != "" {
			c.PIDType = v
		}
		if v, ok := lookupEnv(prefix, "HIDE_FORBIDDEN_FILES"); ok && v != "" {
			hide, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid HIDE_FORBIDDEN_FILES value %q: %w", v, err)
			}
			c.HideForbiddenFiles = hide
		}
		if v, ok := lookupEnv(prefix, "PREVIEW_EXTENSIONS"); ok && v != "" {
			c.PreviewExtensions = splitCommaList(v)
		}

		if err := applyDatabaseEnv(prefix, c); err != nil {
			return err
		}

		return applyStorageEnv(prefix, c)
	}
}

func applyDatabaseEnv(prefix string, c *ServerConfig) error {
	dbURL, hasURL := lookupEnv(prefix, "DATABASE_URL")

	if !hasURL || dbURL == "" || dbURL == "memory" {
		c.DatabaseType = "memory"
		c.DatabaseURL = ""
		return nil
	}

	if strings.HasPrefix(dbURL, "postgres://") || strings.HasPrefix(dbURL, "postgresql://") {
		c.DatabaseType = "postgres"
		c.DatabaseURL = dbURL
		return nil
	}

	return fmt.Errorf("unsupported DATABASE_URL scheme in %q", dbURL)
}

func applyStorageEnv(prefix string, c *ServerConfig) error {
	storageURL, ok := lookupEnv(prefix, "STORAGE_URL")
	if !ok || storageURL == "" || storageURL == "memory://" {
		return nil
	}

	backend, err := parseStorageURL(storageURL)
	if err != nil {
		return err
	}

	c.StorageBackends = []StorageBackendConfig{backend}
	c.DefaultStorageBackend = backend.Name
	return nil
}

func parseStorageURL(storageURL string) (StorageBackendConfig, error) {
	switch {
	case strings.HasPrefix(storageURL, "file://"):
		return StorageBackendConfig{
			Name: "fs",
			Type: "fs",
			Config: map[string]interface{}{
				"base_dir": strings.TrimPrefix(storageURL, "file://"),
			},
		}, nil

	case strings.HasPrefix(storageURL, "s3://"):
		rest := strings.TrimPrefix(storageURL, "s3://")
		bucket := rest
		params := map[string]string{}
		if idx := strings.Index(rest, "?"); idx >= 0 {
			bucket = rest[:idx]
			for _, pair := range strings.Split(rest[idx+1:], "&") {
				if k, v, found := strings.Cut(pair, "="); found {
					params[k] = v
				}
			}
		}
		if bucket == "" {
			return StorageBackendConfig{}, fmt.Errorf("missing bucket in STORAGE_URL %q", storageURL)
		}
		cfg := map[string]interface{}{"bucket": bucket}
		if v := params["region"]; v != "" {
			cfg["region"] = v
		}
		if v := params["endpoint"]; v != "" {
			cfg["endpoint"] = v
		}
		if v := params["use_path_style"]; v != "" {
			cfg["use_path_style"] = v == "true"
		}
		return StorageBackendConfig{Name: "s3", Type: "s3", Config: cfg}, nil

	default:
		return StorageBackendConfig{}, fmt.Errorf("unsupported STORAGE_URL scheme in %q", storageURL)
	}
}

func splitCommaList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}

func lookupEnv(prefix, key string) (string, bool) {
	if prefix != "" {
		if v, ok := os.LookupEnv(prefix + key); ok {
			return v, ok
		}
	}
	return os.LookupEnv(key)
}
