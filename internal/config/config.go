package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "KETCHUP"
	configName     = ".ketchup"
	minSecretBytes = 32
)

var insecureSecrets = map[string]bool{
	"change_me_in_production":                    true,
	"replace_with_at_least_32_random_characters": true,
}

var (
	ErrSecretKeyMissing     = errors.New("secret_key is required")
	ErrSecretKeyPlaceholder = errors.New("secret_key uses an insecure placeholder")
	ErrSecretKeyTooShort    = errors.New("secret_key must be at least 32 characters")
	ErrInvalidPort          = errors.New("server.port must be between 1 and 65535")
	ErrInvalidCycleStart    = errors.New("patient.cycle_start must be YYYY-MM-DD")
)

type Config struct {
	Port            string
	CookieSecure    bool
	SecretKey       string
	DBPath          string
	Location        *time.Location
	DefaultLanguage string
	LogLevel        string
	Patient         PatientConfig
	DoseCooldown    time.Duration
	Sheet           SheetConfig
}

type PatientConfig struct {
	Name       string
	Password   string
	CycleStart *time.Time
}

type SheetConfig struct {
	URL      string
	Token    string
	RetryMax int
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.cookie_secure", false)
	v.SetDefault("secret_key", "")
	v.SetDefault("db_path", filepath.Join("data", "ketchup.db"))
	v.SetDefault("timezone", "UTC")
	v.SetDefault("default_language", "sv")
	v.SetDefault("log_level", "info")
	v.SetDefault("patient.name", "")
	v.SetDefault("patient.password", "")
	v.SetDefault("patient.cycle_start", "")
	v.SetDefault("dose.cooldown", "500ms")
	v.SetDefault("sheet.url", "")
	v.SetDefault("sheet.token", "")
	v.SetDefault("sheet.retry_max", 3)
}

// BindEnv maps server.port to KETCHUP_SERVER_PORT and so on.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// ReadConfigFile reads path, or $HOME/.ketchup.yaml when path is empty. A missing
// default file is not an error.
func ReadConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}

	home, err := homedir.Dir()
	if err != nil {
		return fmt.Errorf("resolve home dir: %w", err)
	}
	v.AddConfigPath(home)
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load reads the full server configuration. secret_key must be set.
func Load(v *viper.Viper, logger logrus.FieldLogger) (Config, error) {
	return load(v, logger, true)
}

// LoadOffline is Load for commands that never sign sessions; secret_key is not checked.
func LoadOffline(v *viper.Viper, logger logrus.FieldLogger) (Config, error) {
	return load(v, logger, false)
}

func load(v *viper.Viper, logger logrus.FieldLogger, requireSecret bool) (Config, error) {
	port, err := resolvePort(v.GetString("server.port"))
	if err != nil {
		return Config{}, err
	}
	secret := strings.TrimSpace(v.GetString("secret_key"))
	if requireSecret {
		if secret, err = resolveSecretKey(secret); err != nil {
			return Config{}, err
		}
	}

	cycleStart, err := resolveCycleStart(v.GetString("patient.cycle_start"))
	if err != nil {
		return Config{}, err
	}

	cooldown := v.GetDuration("dose.cooldown")
	if cooldown <= 0 {
		cooldown = 500 * time.Millisecond
	}
	retryMax := v.GetInt("sheet.retry_max")
	if retryMax < 0 {
		retryMax = 0
	}

	return Config{
		Port:            port,
		CookieSecure:    v.GetBool("server.cookie_secure"),
		SecretKey:       secret,
		DBPath:          strings.TrimSpace(v.GetString("db_path")),
		Location:        loadLocation(v.GetString("timezone"), logger),
		DefaultLanguage: strings.TrimSpace(v.GetString("default_language")),
		LogLevel:        strings.TrimSpace(v.GetString("log_level")),
		Patient: PatientConfig{
			Name:       strings.TrimSpace(v.GetString("patient.name")),
			Password:   v.GetString("patient.password"),
			CycleStart: cycleStart,
		},
		DoseCooldown: cooldown,
		Sheet: SheetConfig{
			URL:      strings.TrimSpace(v.GetString("sheet.url")),
			Token:    strings.TrimSpace(v.GetString("sheet.token")),
			RetryMax: retryMax,
		},
	}, nil
}

func resolveSecretKey(raw string) (string, error) {
	secret := strings.TrimSpace(raw)
	switch {
	case secret == "":
		return "", ErrSecretKeyMissing
	case insecureSecrets[strings.ToLower(secret)]:
		return "", ErrSecretKeyPlaceholder
	case len(secret) < minSecretBytes:
		return "", ErrSecretKeyTooShort
	}
	return secret, nil
}

func resolvePort(raw string) (string, error) {
	port := strings.TrimSpace(raw)
	if port == "" {
		return "8080", nil
	}
	parsed, err := strconv.Atoi(port)
	if err != nil || parsed < 1 || parsed > 65535 {
		return "", ErrInvalidPort
	}
	return strconv.Itoa(parsed), nil
}

func resolveCycleStart(raw string) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return nil, ErrInvalidCycleStart
	}
	return &parsed, nil
}

func loadLocation(name string, logger logrus.FieldLogger) *time.Location {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return time.UTC
	}
	location, err := time.LoadLocation(trimmed)
	if err != nil {
		if logger != nil {
			logger.WithField("timezone", trimmed).Warn("invalid timezone, falling back to UTC")
		}
		return time.UTC
	}
	return location
}
