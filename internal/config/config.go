package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Session   SessionConfig   `yaml:"session"`
	Upload    UploadConfig    `yaml:"upload"`
	Bootstrap BootstrapConfig `yaml:"bootstrap"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // sqlite, postgres
	Path     string `yaml:"path"`   // sqlite database file
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type SessionConfig struct {
	Secret     string `yaml:"secret"`
	CookieName string `yaml:"cookie_name"`
	MaxAge     int    `yaml:"max_age"` // seconds
}

type UploadConfig struct {
	ImageDir          string   `yaml:"image_dir"`
	MaxFileSize       int64    `yaml:"max_file_size"` // bytes
	AllowedExtensions []string `yaml:"allowed_extensions"`
}

// BootstrapConfig seeds the first root admin when the admins table is empty.
type BootstrapConfig struct {
	RootAdminUsername string `yaml:"root_admin_username"`
	RootAdminPassword string `yaml:"root_admin_password"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // json, text
	Output     string `yaml:"output"` // stdout, file, both
	FilePath   string `yaml:"file_path"`
	MaxSize    int    `yaml:"max_size"` // MB
	MaxAge     int    `yaml:"max_age"`  // days
	MaxBackups int    `yaml:"max_backups"`
	Compress   bool   `yaml:"compress"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

func Load() *Config {
	config := GetDefaultConfig()
	if err := viper.Unmarshal(config); err != nil {
		panic(err)
	}
	return config
}

// GetDefaultConfig returns the configuration used when config.yml is absent.
func GetDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			Path:   "./wayfinder.db",
			Host:   "localhost",
			Port:   5432,
			User:   "postgres",
			Name:   "wayfinder",
		},
		Session: SessionConfig{
			Secret:     "change-me-in-production",
			CookieName: "wayfinder_session",
			MaxAge:     86400 * 7,
		},
		Upload: UploadConfig{
			ImageDir:          "./static/images",
			MaxFileSize:       16 << 20,
			AllowedExtensions: []string{"png", "jpg", "jpeg", "gif"},
		},
		Bootstrap: BootstrapConfig{
			RootAdminUsername: "root",
			RootAdminPassword: "change-me",
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "json",
			Output:     "stdout",
			FilePath:   "./logs/wayfinder.log",
			MaxSize:    100,
			MaxAge:     7,
			MaxBackups: 3,
			Compress:   true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}
