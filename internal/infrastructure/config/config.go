// Package config provides configuration loading for the legal-tools application.
// It handles loading the language fallback settings and other application
// settings from environment variables, a local settings file and HashiCorp Vault.
package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/MyCarrier-DevOps/goLibMyCarrier/vault"
	"gopkg.in/yaml.v3"

	"github.com/MyCarrier-DevOps/legal-tools/internal/adapters/locale"
	"github.com/MyCarrier-DevOps/legal-tools/internal/domain"
	"github.com/MyCarrier-DevOps/legal-tools/internal/i18n"
)

// Environment variable names.
const (
	// EnvSettingsFile is the path to a YAML or JSON language settings file.
	EnvSettingsFile = "LEGAL_TOOLS_SETTINGS"

	// EnvVaultSettingsPath is the path in Vault KV where the language settings are stored.
	// An optional "#key" suffix selects the key holding the settings document.
	EnvVaultSettingsPath = "VAULT_SETTINGS_PATH"

	// EnvVaultSettingsMount is the Vault KV mount point (defaults to "secret").
	EnvVaultSettingsMount = "VAULT_SETTINGS_MOUNT"

	// EnvDatabaseURL is the translation branch database: a postgres:// URL or a SQLite path.
	EnvDatabaseURL = "DATABASE_URL"

	// EnvDataRepositoryDir is the path to the legal-tools data repository checkout.
	EnvDataRepositoryDir = "DATA_REPOSITORY_DIR"

	// EnvLocaleDir is the deeds and UX locale directory used when the settings
	// do not name one.
	EnvLocaleDir = "DEEDS_UX_LOCALE_PATH"

	// EnvHTTPAddr is the listen address of the serve command.
	EnvHTTPAddr = "HTTP_ADDR"

	// EnvLogLevel is the log level (debug, info, error).
	EnvLogLevel = "LOG_LEVEL"

	// EnvLogAppName is the application name for log context.
	EnvLogAppName = "LOG_APP_NAME"
)

// Default values.
const (
	DefaultLogLevel             = "info"
	DefaultLogAppName           = "legal-tools"
	DefaultVaultSettingsMount   = "secret"
	DefaultSecretKey            = "config"
	DefaultDatabaseURL          = "legal-tools.db"
	DefaultDataRepositoryDir    = "../cc-legal-tools-data"
	DefaultHTTPAddr             = ":8080"
	DefaultOfficialGitBranch    = "main"
	DefaultTranslationThreshold = 80.0
)

// Settings sources, reported in Config.SettingsSource.
const (
	SourceVault    = "vault"
	SourceFile     = "file"
	SourceDefaults = "defaults"
)

// Configuration errors.
var (
	// ErrSettingsNotFound indicates the settings file does not exist.
	ErrSettingsNotFound = errors.New("language settings file not found")

	// ErrSettingsInvalid indicates the settings could not be parsed or failed validation.
	ErrSettingsInvalid = errors.New("language settings are invalid")

	// ErrVaultClientFailed indicates failure to create or authenticate with Vault.
	ErrVaultClientFailed = errors.New("failed to create Vault client")

	// ErrVaultSecretNotFound indicates the secret was not found in Vault.
	ErrVaultSecretNotFound = errors.New("language settings not found in Vault")
)

// VaultClient defines the interface for Vault operations.
// This interface allows for dependency injection and testing.
type VaultClient interface {
	// GetKVSecret retrieves a secret from Vault's KV v2 secrets engine.
	GetKVSecret(ctx context.Context, path, mount string) (map[string]interface{}, error)
}

// VaultClientFactory creates a VaultClient using AppRole authentication.
// This is the default factory used in production.
type VaultClientFactory func(ctx context.Context) (VaultClient, error)

// DefaultVaultClientFactory creates a VaultClient using goLibMyCarrier/vault with AppRole auth.
func DefaultVaultClientFactory(ctx context.Context) (VaultClient, error) {
	// Uses: VAULT_ADDRESS, VAULT_ROLE_ID, VAULT_SECRET_ID
	vaultConfig, err := vault.VaultLoadConfig()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVaultClientFailed, err)
	}

	client, err := vault.CreateVaultClient(ctx, vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVaultClientFailed, err)
	}

	return client, nil
}

// Config holds all application configuration.
type Config struct {
	// Settings holds the language fallback settings.
	Settings domain.LanguageSettings

	// SettingsSource is where Settings came from: vault, file or defaults.
	SettingsSource string

	// SettingsFile is the settings file path when SettingsSource is file.
	SettingsFile string

	// DatabaseURL locates the translation branch store.
	DatabaseURL string

	// DataRepositoryDir is the data repository checkout.
	DataRepositoryDir string

	// HTTPAddr is the listen address of the JSON API.
	HTTPAddr string

	// LogLevel is the logging level (debug, info, error).
	LogLevel string

	// LogAppName is the application name for log context.
	LogAppName string
}

// Load loads the application configuration from environment variables.
// Language settings are loaded from Vault (preferred), a local file, or the
// built-in defaults, in that order.
//
// For Vault loading, requires:
//   - VAULT_ADDRESS: Vault server address
//   - VAULT_ROLE_ID: AppRole role ID
//   - VAULT_SECRET_ID: AppRole secret ID
//   - VAULT_SETTINGS_PATH: Path to the secret in Vault, optionally "path#key"
//   - VAULT_SETTINGS_MOUNT: KV mount point (optional, defaults to "secret")
//
// For file loading:
//   - LEGAL_TOOLS_SETTINGS: Path to local YAML or JSON file
func Load() (*Config, error) {
	return LoadWithVaultClient(context.Background(), nil)
}

// LoadWithVaultClient loads configuration using the provided VaultClient factory.
// If vaultClientFactory is nil, DefaultVaultClientFactory is used.
// This function enables dependency injection for testing.
func LoadWithVaultClient(ctx context.Context, vaultClientFactory VaultClientFactory) (*Config, error) {
	cfg := &Config{
		DatabaseURL:       getenv(EnvDatabaseURL, DefaultDatabaseURL),
		DataRepositoryDir: getenv(EnvDataRepositoryDir, DefaultDataRepositoryDir),
		HTTPAddr:          getenv(EnvHTTPAddr, DefaultHTTPAddr),
		LogLevel:          getenv(EnvLogLevel, DefaultLogLevel),
		LogAppName:        getenv(EnvLogAppName, DefaultLogAppName),
	}

	var err error
	switch {
	case os.Getenv(EnvVaultSettingsPath) != "":
		cfg.SettingsSource = SourceVault
		cfg.Settings, err = loadSettingsFromVault(ctx, vaultClientFactory, os.Getenv(EnvVaultSettingsPath))
	case os.Getenv(EnvSettingsFile) != "":
		cfg.SettingsSource = SourceFile
		cfg.SettingsFile = os.Getenv(EnvSettingsFile)
		cfg.Settings, err = LoadSettingsFile(cfg.SettingsFile)
	default:
		cfg.SettingsSource = SourceDefaults
		cfg.Settings, err = normalizeSettings(domain.LanguageSettings{
			LocaleDir: os.Getenv(EnvLocaleDir),
		})
	}
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultSettings returns the built-in language settings. They never read a
// locale directory.
func DefaultSettings() domain.LanguageSettings {
	settings, _ := normalizeSettings(domain.LanguageSettings{})
	return settings
}

// LoadSettingsFile reads and validates a YAML or JSON settings file.
func LoadSettingsFile(path string) (domain.LanguageSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.LanguageSettings{}, fmt.Errorf("%w: %s", ErrSettingsNotFound, path)
		}
		return domain.LanguageSettings{}, fmt.Errorf("failed to read language settings: %w", err)
	}
	return parseSettings(data)
}

// loadSettingsFromVault loads the language settings from Vault KV v2.
func loadSettingsFromVault(
	ctx context.Context,
	vaultClientFactory VaultClientFactory,
	fullPath string,
) (domain.LanguageSettings, error) {
	if vaultClientFactory == nil {
		vaultClientFactory = DefaultVaultClientFactory
	}

	client, err := vaultClientFactory(ctx)
	if err != nil {
		return domain.LanguageSettings{}, err
	}

	mount := getenv(EnvVaultSettingsMount, DefaultVaultSettingsMount)
	path, key := parseVaultPath(fullPath)

	secretData, err := client.GetKVSecret(ctx, path, mount)
	if err != nil {
		return domain.LanguageSettings{}, fmt.Errorf("%w at path %s: %w", ErrVaultSecretNotFound, path, err)
	}

	return parseSettingsFromVault(secretData, key)
}

// parseVaultPath splits "path#key" at the last '#'. Without a '#', the key
// is DefaultSecretKey.
func parseVaultPath(fullPath string) (string, string) {
	i := strings.LastIndex(fullPath, "#")
	if i < 0 {
		return fullPath, DefaultSecretKey
	}
	return fullPath[:i], fullPath[i+1:]
}

// parseSettingsFromVault parses settings from Vault secret data.
// Supports two formats:
// 1. key holding a YAML or JSON document
// 2. Direct mapping of settings fields in the secret
func parseSettingsFromVault(secretData map[string]interface{}, key string) (domain.LanguageSettings, error) {
	if doc, ok := secretData[key].(string); ok && key != "" {
		return parseSettings([]byte(doc))
	}

	data, err := yaml.Marshal(secretData)
	if err != nil {
		return domain.LanguageSettings{}, fmt.Errorf("%w: failed to marshal secret data: %w", ErrSettingsInvalid, err)
	}
	return parseSettings(data)
}

// parseSettings decodes a YAML (or JSON) settings document. Unknown fields
// are rejected. A document without locale_dir uses DEEDS_UX_LOCALE_PATH.
func parseSettings(data []byte) (domain.LanguageSettings, error) {
	var settings domain.LanguageSettings

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&settings); err != nil {
		return domain.LanguageSettings{}, fmt.Errorf("%w: %w", ErrSettingsInvalid, err)
	}
	if settings.LocaleDir == "" {
		settings.LocaleDir = os.Getenv(EnvLocaleDir)
	}

	return normalizeSettings(settings)
}

// normalizeSettings fills unset fields with defaults and validates the result.
// Translation percentages come from the settings, else from the catalogs in
// the locale directory. When present, the mostly translated languages are
// derived from them.
func normalizeSettings(s domain.LanguageSettings) (domain.LanguageSettings, error) {
	s.DefaultLanguage = strings.TrimSpace(s.DefaultLanguage)
	if s.DefaultLanguage == "" {
		s.DefaultLanguage = i18n.DefaultLanguage
	}
	if s.OfficialGitBranch == "" {
		s.OfficialGitBranch = DefaultOfficialGitBranch
	}
	if s.TranslationThreshold == 0 {
		s.TranslationThreshold = DefaultTranslationThreshold
	}
	if s.TranslationThreshold < 0 || s.TranslationThreshold > 100 {
		return domain.LanguageSettings{}, fmt.Errorf(
			"%w: translation_threshold %v is outside 0-100", ErrSettingsInvalid, s.TranslationThreshold)
	}
	if s.JurisdictionLanguages == nil {
		s.JurisdictionLanguages = make(map[string]string, len(i18n.DefaultJurisdictionLanguages))
		for jurisdiction, code := range i18n.DefaultJurisdictionLanguages {
			s.JurisdictionLanguages[jurisdiction] = code
		}
	}

	if len(s.TranslationPercentages) == 0 && s.LocaleDir != "" {
		stats, err := locale.ReadStats(s.LocaleDir)
		if err != nil {
			return domain.LanguageSettings{}, fmt.Errorf("%w: %w", ErrSettingsInvalid, err)
		}
		s.TranslationPercentages = locale.Percentages(stats)
	}

	switch {
	case len(s.TranslationPercentages) > 0:
		for code, percent := range s.TranslationPercentages {
			if percent < 0 || percent > 100 {
				return domain.LanguageSettings{}, fmt.Errorf(
					"%w: translation percentage %v for %q is outside 0-100", ErrSettingsInvalid, percent, code)
			}
		}
		s.LanguagesMostlyTranslated = i18n.MostlyTranslated(
			s.TranslationPercentages, s.TranslationThreshold, s.DefaultLanguage)
	case s.LanguagesMostlyTranslated == nil:
		s.LanguagesMostlyTranslated = []string{s.DefaultLanguage}
	}

	return s, nil
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
