package config

// StoreConfig selects and configures the durable key-value backend.
type StoreConfig struct {
	Backend    string      `yaml:"backend"`
	FSDir      string      `yaml:"fs_dir"`
	SQLitePath string      `yaml:"sqlite_path"`
	Redis      RedisConfig `yaml:"redis"`
}

// RedisConfig addresses the Redis backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

func defaultStore() StoreConfig {
	return StoreConfig{
		Backend:    defaultKVBackend,
		FSDir:      defaultKVFSDir,
		SQLitePath: defaultSQLitePath,
	}
}

func (s *StoreConfig) applyEnv() {
	s.Backend = envOrDefault(envKVBackend, s.Backend)
	s.FSDir = envOrDefault(envKVFSDir, s.FSDir)
	s.SQLitePath = envOrDefault(envSQLitePath, s.SQLitePath)
	s.Redis.Addr = envOrDefault(envRedisAddr, s.Redis.Addr)
	s.Redis.Password = envOrDefault(envRedisPassword, s.Redis.Password)
	s.Redis.DB = intEnvOrDefault(envRedisDB, s.Redis.DB)
	s.Redis.Prefix = envOrDefault(envRedisPrefix, s.Redis.Prefix)
}
