// Package config loads homebase settings from defaults, an optional YAML
// file and HOMEBASE_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dukerupert/homebase/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

const envPrefix = "HOMEBASE_"

type Config struct {
	Port           string   `yaml:"port"`
	DBPath         string   `yaml:"db_path"`
	LogLevel       string   `yaml:"log_level"`
	PIN            string   `yaml:"pin"`
	PINHash        string   `yaml:"pin_hash"`
	SessionSecret  string   `yaml:"session_secret"`
	Members        Members  `yaml:"members"`
	RetentionDays  int      `yaml:"retention_days"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	Push           Push     `yaml:"push"`
	Backup         Backup   `yaml:"backup"`
}

// Members holds the display names of the two household members.
type Members struct {
	A string `yaml:"a"`
	B string `yaml:"b"`
}

type Push struct {
	VAPIDPublicKey  string `yaml:"vapid_public_key"`
	VAPIDPrivateKey string `yaml:"vapid_private_key"`
	Subscriber      string `yaml:"subscriber"`
}

type S3 struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

type Backup struct {
	S3            S3     `yaml:"s3"`
	Passphrase    string `yaml:"passphrase"`
	Hour          int    `yaml:"hour"`
	RetentionDays int    `yaml:"retention_days"`
}

// Defaults returns the settings used when nothing else is configured.
func Defaults() Config {
	return Config{
		Port:          "8080",
		DBPath:        "./data/homebase.db",
		LogLevel:      "info",
		Members:       Members{A: "Member A", B: "Member B"},
		RetentionDays: 2,
		Push:          Push{Subscriber: "mailto:admin@homebase.local"},
		Backup:        Backup{Hour: 3, RetentionDays: 30},
	}
}

// Load reads the YAML file at path (skipped when path is empty), applies
// environment overrides, hashes the PIN and validates the result.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.PINHash == "" && cfg.PIN != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.PIN), bcrypt.DefaultCost)
		if err != nil {
			return Config{}, fmt.Errorf("hash pin: %w", err)
		}
		cfg.PINHash = string(hash)
	}
	cfg.PIN = ""

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"PORT":              &cfg.Port,
		"DB_PATH":           &cfg.DBPath,
		"LOG_LEVEL":         &cfg.LogLevel,
		"PIN":               &cfg.PIN,
		"PIN_HASH":          &cfg.PINHash,
		"SESSION_SECRET":    &cfg.SessionSecret,
		"MEMBER_A":          &cfg.Members.A,
		"MEMBER_B":          &cfg.Members.B,
		"VAPID_PUBLIC_KEY":  &cfg.Push.VAPIDPublicKey,
		"VAPID_PRIVATE_KEY": &cfg.Push.VAPIDPrivateKey,
		"VAPID_SUBSCRIBER":  &cfg.Push.Subscriber,
		"S3_ENDPOINT":       &cfg.Backup.S3.Endpoint,
		"S3_BUCKET":         &cfg.Backup.S3.Bucket,
		"S3_REGION":         &cfg.Backup.S3.Region,
		"S3_ACCESS_KEY":     &cfg.Backup.S3.AccessKey,
		"S3_SECRET_KEY":     &cfg.Backup.S3.SecretKey,
		"BACKUP_PASSPHRASE": &cfg.Backup.Passphrase,
	}
	for key, dst := range strs {
		*dst = envOrDefault(envPrefix+key, *dst)
	}

	ints := map[string]*int{
		"RETENTION_DAYS":        &cfg.RetentionDays,
		"BACKUP_HOUR":           &cfg.Backup.Hour,
		"BACKUP_RETENTION_DAYS": &cfg.Backup.RetentionDays,
	}
	for key, dst := range ints {
		v := os.Getenv(envPrefix + key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, key, err)
		}
		*dst = n
	}

	if v := os.Getenv(envPrefix + "ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}
	return nil
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []error
	if c.PINHash == "" {
		errs = append(errs, errors.New("pin is required"))
	} else if _, err := bcrypt.Cost([]byte(c.PINHash)); err != nil {
		errs = append(errs, fmt.Errorf("pin_hash: %w", err))
	}
	if len(c.SessionSecret) < 16 {
		errs = append(errs, errors.New("session_secret must be at least 16 characters"))
	}
	if strings.TrimSpace(c.Members.A) == "" || strings.TrimSpace(c.Members.B) == "" {
		errs = append(errs, errors.New("members.a and members.b are required"))
	} else if c.Members.A == c.Members.B {
		errs = append(errs, errors.New("members.a and members.b must differ"))
	}
	if c.RetentionDays < 1 {
		errs = append(errs, errors.New("retention_days must be at least 1"))
	}
	if c.Backup.Hour < 0 || c.Backup.Hour > 23 {
		errs = append(errs, errors.New("backup.hour must be between 0 and 23"))
	}
	if c.Backup.RetentionDays < 1 {
		errs = append(errs, errors.New("backup.retention_days must be at least 1"))
	}
	if (c.Push.VAPIDPublicKey == "") != (c.Push.VAPIDPrivateKey == "") {
		errs = append(errs, errors.New("push: both vapid keys must be set together"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// CheckPIN reports whether pin matches the configured hash.
func (c Config) CheckPIN(pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.PINHash), []byte(pin)) == nil
}

// MemberName returns the display name for m.
func (c Config) MemberName(m model.Member) string {
	switch m {
	case model.MemberA:
		return c.Members.A
	case model.MemberB:
		return c.Members.B
	}
	return ""
}

// PushEnabled reports whether VAPID keys are configured.
func (c Config) PushEnabled() bool {
	return c.Push.VAPIDPublicKey != "" && c.Push.VAPIDPrivateKey != ""
}

func (c Config) Addr() string {
	return ":" + c.Port
}
