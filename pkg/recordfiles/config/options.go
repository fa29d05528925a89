package config

// WithPort sets the HTTP listen port.
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the runtime environment name.
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		c.Environment = env
		return nil
	}
}

// WithDatabase configures the record repository backend.
func WithDatabase(databaseType, databaseURL string) Option {
	return func(c *ServerConfig) error {
		c.DatabaseType = databaseType
		c.DatabaseURL = databaseURL
		return nil
	}
}

// WithPIDType sets the persistent-identifier type served by the routes.
func WithPIDType(pidType string) Option {
	return func(c *ServerConfig) error {
		c.PIDType = pidType
		return nil
	}
}

// WithHideForbiddenFiles surfaces permission denials as 404.
func WithHideForbiddenFiles(hide bool) Option {
	return func(c *ServerConfig) error {
		c.HideForbiddenFiles = hide
		return nil
	}
}

// WithPreviewExtensions replaces the previewable extension set.
func WithPreviewExtensions(extensions ...string) Option {
	return func(c *ServerConfig) error {
		c.PreviewExtensions = extensions
		return nil
	}
}

// WithStorageBackend adds a storage backend; the first added backend
// replaces the built-in memory default and becomes the default
// backend.
func WithStorageBackend(backend StorageBackendConfig) Option {
	return func(c *ServerConfig) error {
		if len(c.StorageBackends) == 1 && c.StorageBackends[0].Name == "memory" && c.DefaultStorageBackend == "memory" {
			c.StorageBackends = []StorageBackendConfig{backend}
			c.DefaultStorageBackend = backend.Name
			return nil
		}
		c.StorageBackends = append(c.StorageBackends, backend)
		return nil
	}
}

// WithDefaultStorageBackend names the backend used when a file entry
// does not name one.
func WithDefaultStorageBackend(name string) Option {
	return func(c *ServerConfig) error {
		c.DefaultStorageBackend = name
		return nil
	}
}
