package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/spiffcs/statcard/internal/constants"
	"github.com/spiffcs/statcard/internal/document"
	"github.com/spiffcs/statcard/internal/duration"
	"github.com/spiffcs/statcard/internal/publish"
)

// README write modes.
const (
	ReadmeOverwrite = "overwrite"
	ReadmeInject    = "inject"
)

// Config represents the application configuration
type Config struct {
	Username         string `yaml:"username,omitempty" json:"username,omitempty"`
	OutputDir        string `yaml:"output_dir,omitempty" json:"output_dir,omitempty"`
	ReadmePath       string `yaml:"readme_path,omitempty" json:"readme_path,omitempty"`
	IndexPath        string `yaml:"index_path,omitempty" json:"index_path,omitempty"`
	ContributionDays int    `yaml:"contribution_days,omitempty" json:"contribution_days,omitempty"`
	ActivityDays     int    `yaml:"activity_days,omitempty" json:"activity_days,omitempty"`
	RepoLimit        int    `yaml:"repo_limit,omitempty" json:"repo_limit,omitempty"`
	Workers          int    `yaml:"workers,omitempty" json:"workers,omitempty"`

	Readme  *ReadmeConfig     `yaml:"readme,omitempty" json:"readme,omitempty"`
	Profile *document.Profile `yaml:"profile,omitempty" json:"profile,omitempty"`
	Cache   *CacheConfig      `yaml:"cache,omitempty" json:"cache,omitempty"`
	Publish *PublishConfig    `yaml:"publish,omitempty" json:"publish,omitempty"`

	// Token is only ever read from the environment.
	Token string `yaml:"-" json:"-"`
}

// ReadmeConfig controls how the README is written.
type ReadmeConfig struct {
	Mode string `yaml:"mode,omitempty" json:"mode,omitempty"`
}

// CacheConfig controls the on-disk language cache.
type CacheConfig struct {
	TTL string `yaml:"ttl,omitempty" json:"ttl,omitempty"`
}

// PublishConfig describes the S3-compatible bucket the generated files are
// uploaded to. Credentials come from the environment.
type PublishConfig struct {
	Enabled  bool   `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	Bucket   string `yaml:"bucket,omitempty" json:"bucket,omitempty"`
	Region   string `yaml:"region,omitempty" json:"region,omitempty"`
	Prefix   string `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	UseSSL   *bool  `yaml:"use_ssl,omitempty" json:"use_ssl,omitempty"`
}

// Environment variables read by Load.
const (
	EnvToken      = "GITHUB_TOKEN"
	EnvUsername   = "GITHUB_USERNAME"
	EnvOutputDir  = "STATCARD_OUTPUT_DIR"
	EnvReadmePath = "STATCARD_README_PATH"
	EnvIndexPath  = "STATCARD_INDEX_PATH"
	EnvAccessKey  = "STATCARD_S3_ACCESS_KEY"
	EnvSecretKey  = "STATCARD_S3_SECRET_KEY"
)

// ConfigError is a configuration problem that stops a run before any
// network call is made.
type ConfigError struct {
	Msg     string
	Context map[string]string
	// Hint is an optional second line shown to the user.
	Hint string
}

func (e *ConfigError) Error() string {
	return e.Msg
}

// MissingTokenError reports an unset GITHUB_TOKEN.
func MissingTokenError(username string) *ConfigError {
	return &ConfigError{
		Msg:     "GITHUB_TOKEN is not set in environment variables. Please create a .env file with your GitHub Personal Access Token.",
		Context: map[string]string{"username": username},
		Hint:    "Example: GITHUB_TOKEN=ghp_xxxxxxxxxxxx",
	}
}

// DefaultConfigDir returns the default config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".statcard"
	}
	return filepath.Join(configDir, "statcard")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory
func LocalConfigPath() string {
	return ".statcard.yaml"
}

// Load loads the configuration. A .env file in the working directory is
// loaded first without overriding variables that are already set. The
// global config is then merged with any local .statcard.yaml (local values
// take precedence), environment overrides are applied, and remaining
// fields get their defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFrom(ConfigPath(), LocalConfigPath())
}

// LoadFrom is Load with explicit config file paths. Missing files are skipped.
func LoadFrom(globalPath, localPath string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(globalPath); err == nil {
		global, err := LoadFile(globalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load global config file: %w", err)
		}
		cfg = global
	}

	if _, err := os.Stat(localPath); err == nil {
		local, err := LoadFile(localPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load local config file: %w", err)
		}
		cfg = mergeConfig(cfg, local)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

// LoadFile parses a single config file without defaults or env overrides.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Token = os.Getenv(EnvToken)
	envOverride(&c.Username, EnvUsername)
	envOverride(&c.OutputDir, EnvOutputDir)
	envOverride(&c.ReadmePath, EnvReadmePath)
	envOverride(&c.IndexPath, EnvIndexPath)
}

func envOverride(field *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*field = v
	}
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.Username == "" {
		c.Username = def.Username
	}
	if c.OutputDir == "" {
		c.OutputDir = def.OutputDir
	}
	if c.ReadmePath == "" {
		c.ReadmePath = def.ReadmePath
	}
	if c.IndexPath == "" {
		c.IndexPath = def.IndexPath
	}
	if c.ContributionDays == 0 {
		c.ContributionDays = def.ContributionDays
	}
	if c.ActivityDays == 0 {
		c.ActivityDays = def.ActivityDays
	}
	if c.RepoLimit == 0 {
		c.RepoLimit = def.RepoLimit
	}
	if c.Workers == 0 {
		c.Workers = def.Workers
	}
	if c.Readme == nil || c.Readme.Mode == "" {
		c.Readme = def.Readme
	}
	if c.Profile == nil {
		c.Profile = def.Profile
	}
	if c.Cache == nil || c.Cache.TTL == "" {
		c.Cache = def.Cache
	}
	if c.Publish == nil {
		c.Publish = &PublishConfig{}
	}
}

// mergeConfig merges local config on top of global config.
// Local values take precedence; unset local values preserve global values.
func mergeConfig(global, local *Config) *Config {
	result := &Config{
		Username:         pick(local.Username, global.Username),
		OutputDir:        pick(local.OutputDir, global.OutputDir),
		ReadmePath:       pick(local.ReadmePath, global.ReadmePath),
		IndexPath:        pick(local.IndexPath, global.IndexPath),
		ContributionDays: pick(local.ContributionDays, global.ContributionDays),
		ActivityDays:     pick(local.ActivityDays, global.ActivityDays),
		RepoLimit:        pick(local.RepoLimit, global.RepoLimit),
		Workers:          pick(local.Workers, global.Workers),
	}

	// The profile is replaced as a whole so link lists never interleave.
	result.Profile = global.Profile
	if local.Profile != nil {
		result.Profile = local.Profile
	}

	if global.Readme != nil || local.Readme != nil {
		g, l := deref(global.Readme), deref(local.Readme)
		result.Readme = &ReadmeConfig{Mode: pick(l.Mode, g.Mode)}
	}

	if global.Cache != nil || local.Cache != nil {
		g, l := deref(global.Cache), deref(local.Cache)
		result.Cache = &CacheConfig{TTL: pick(l.TTL, g.TTL)}
	}

	result.Publish = mergePublish(global.Publish, local.Publish)

	return result
}

func mergePublish(global, local *PublishConfig) *PublishConfig {
	if global == nil && local == nil {
		return nil
	}
	g, l := deref(global), deref(local)

	result := &PublishConfig{
		Enabled:  l.Enabled || g.Enabled,
		Endpoint: pick(l.Endpoint, g.Endpoint),
		Bucket:   pick(l.Bucket, g.Bucket),
		Region:   pick(l.Region, g.Region),
		Prefix:   pick(l.Prefix, g.Prefix),
		UseSSL:   g.UseSSL,
	}
	if l.UseSSL != nil {
		result.UseSSL = l.UseSSL
	}
	return result
}

func pick[T comparable](local, global T) T {
	var zero T
	if local != zero {
		return local
	}
	return global
}

func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Validate checks the loaded configuration. A missing token is reported
// as a *ConfigError.
func (c *Config) Validate() error {
	if c.Token == "" {
		return MissingTokenError(c.Username)
	}
	if c.Username == "" {
		return &ConfigError{Msg: "username must not be empty"}
	}

	positive := []struct {
		key string
		val int
	}{
		{"contribution_days", c.ContributionDays},
		{"activity_days", c.ActivityDays},
		{"repo_limit", c.RepoLimit},
		{"workers", c.Workers},
	}
	for _, p := range positive {
		if p.val <= 0 {
			return &ConfigError{
				Msg:     fmt.Sprintf("%s must be positive, got %d", p.key, p.val),
				Context: map[string]string{"key": p.key},
			}
		}
	}

	if c.ContributionDays > constants.MaxContributionDays {
		return &ConfigError{
			Msg:     fmt.Sprintf("contribution_days must be at most %d, got %d", constants.MaxContributionDays, c.ContributionDays),
			Context: map[string]string{"key": "contribution_days"},
			Hint:    "GitHub returns at most one year of contributions per query.",
		}
	}

	if mode := c.ReadmeMode(); mode != ReadmeOverwrite && mode != ReadmeInject {
		return &ConfigError{
			Msg:     fmt.Sprintf("invalid readme.mode %q (must be %s or %s)", mode, ReadmeOverwrite, ReadmeInject),
			Context: map[string]string{"key": "readme.mode"},
		}
	}

	if c.Cache != nil && c.Cache.TTL != "" {
		if _, err := duration.Parse(c.Cache.TTL); err != nil {
			return &ConfigError{
				Msg:     fmt.Sprintf("invalid cache.ttl: %v", err),
				Context: map[string]string{"key": "cache.ttl"},
			}
		}
	}

	if c.PublishEnabled() {
		if err := c.PublishSettings().Validate(); err != nil {
			return &ConfigError{
				Msg:     fmt.Sprintf("invalid publish settings: %v", err),
				Context: map[string]string{"key": "publish"},
			}
		}
	}

	return nil
}

// GetGitHubToken returns the GitHub token from the GITHUB_TOKEN environment variable.
// Tokens are only read from the environment.
func (c *Config) GetGitHubToken() string {
	if c.Token != "" {
		return c.Token
	}
	return os.Getenv(EnvToken)
}

// ReadmeMode returns the configured README mode, defaulting to overwrite.
func (c *Config) ReadmeMode() string {
	if c.Readme == nil || c.Readme.Mode == "" {
		return ReadmeOverwrite
	}
	return c.Readme.Mode
}

// CacheTTL returns the parsed language cache TTL.
func (c *Config) CacheTTL() time.Duration {
	if c.Cache == nil || c.Cache.TTL == "" {
		return constants.LanguageCacheTTL
	}
	d, err := duration.Parse(c.Cache.TTL)
	if err != nil || d == 0 {
		return constants.LanguageCacheTTL
	}
	return d
}

// PublishEnabled reports whether generated files should be uploaded.
func (c *Config) PublishEnabled() bool {
	return c.Publish != nil && c.Publish.Enabled
}

// PublishSettings combines the publish section with credentials from the
// environment.
func (c *Config) PublishSettings() publish.Settings {
	p := deref(c.Publish)
	useSSL := true
	if p.UseSSL != nil {
		useSSL = *p.UseSSL
	}
	return publish.Settings{
		Endpoint:  p.Endpoint,
		Bucket:    p.Bucket,
		Region:    p.Region,
		Prefix:    p.Prefix,
		AccessKey: os.Getenv(EnvAccessKey),
		SecretKey: os.Getenv(EnvSecretKey),
		UseSSL:    useSSL,
	}
}

// DocumentProfile returns the profile used for README and HTML rendering,
// with cards referenced relative to the README location.
func (c *Config) DocumentProfile() document.Profile {
	p := DefaultProfile()
	if c.Profile != nil {
		p = *c.Profile
	}

	cardsDir, err := filepath.Rel(filepath.Dir(c.ReadmePath), c.OutputDir)
	if err != nil {
		cardsDir = c.OutputDir
	}
	p.CardsDir = filepath.ToSlash(cardsDir)
	return p
}

// SaveFile writes the configuration to path, usually ConfigPath().
func (c *Config) SaveFile(path string) error {
	data, err := c.ToYAML()
	if err != nil {
		return err
	}
	return SaveTo(path, data)
}

// settableKeys maps the keys accepted by Set to a short description.
var settableKeys = map[string]string{
	"username":          "GitHub user to generate stats for",
	"output_dir":        "Directory for generated SVG cards",
	"readme_path":       "Path of the generated README",
	"index_path":        "Path of the generated HTML page",
	"contribution_days": "Days covered by the contribution calendar",
	"activity_days":     "Days covered by recent activity",
	"repo_limit":        "Repositories scanned for commits",
	"workers":           "Concurrent per-repository requests",
	"readme.mode":       "overwrite or inject",
	"cache.ttl":         "Language cache TTL (e.g. 24h, 7d)",
	"publish.enabled":   "Upload generated files (true, false)",
	"publish.endpoint":  "S3-compatible endpoint host",
	"publish.bucket":    "Bucket name",
	"publish.region":    "Bucket region",
	"publish.prefix":    "Object key prefix",
	"publish.use_ssl":   "Use HTTPS for the endpoint (true, false)",
}

// SettableKeys returns the keys accepted by Set with their descriptions,
// sorted by key.
func SettableKeys() [][2]string {
	keys := make([]string, 0, len(settableKeys))
	for k := range settableKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([][2]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, [2]string{k, settableKeys[k]})
	}
	return out
}

// Set updates a single key. Tokens are refused; they belong in the
// environment.
func (c *Config) Set(key, value string) error {
	switch strings.ToLower(key) {
	case "token", "github_token":
		return fmt.Errorf("tokens are not stored in config files; set %s in the environment or a .env file", EnvToken)
	case "username":
		c.Username = value
	case "output_dir":
		c.OutputDir = value
	case "readme_path":
		c.ReadmePath = value
	case "index_path":
		c.IndexPath = value
	case "contribution_days":
		return setInt(&c.ContributionDays, key, value)
	case "activity_days":
		return setInt(&c.ActivityDays, key, value)
	case "repo_limit":
		return setInt(&c.RepoLimit, key, value)
	case "workers":
		return setInt(&c.Workers, key, value)
	case "readme.mode":
		if value != ReadmeOverwrite && value != ReadmeInject {
			return fmt.Errorf("invalid readme.mode %q (must be %s or %s)", value, ReadmeOverwrite, ReadmeInject)
		}
		c.Readme = &ReadmeConfig{Mode: value}
	case "cache.ttl":
		if _, err := duration.Parse(value); err != nil {
			return fmt.Errorf("invalid cache.ttl: %w", err)
		}
		c.Cache = &CacheConfig{TTL: value}
	case "publish.enabled", "publish.use_ssl":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %q (must be true or false)", key, value)
		}
		c.ensurePublish()
		if key == "publish.enabled" {
			c.Publish.Enabled = b
		} else {
			c.Publish.UseSSL = &b
		}
	case "publish.endpoint":
		c.ensurePublish()
		c.Publish.Endpoint = value
	case "publish.bucket":
		c.ensurePublish()
		c.Publish.Bucket = value
	case "publish.region":
		c.ensurePublish()
		c.Publish.Region = value
	case "publish.prefix":
		c.ensurePublish()
		c.Publish.Prefix = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func (c *Config) ensurePublish() {
	if c.Publish == nil {
		c.Publish = &PublishConfig{}
	}
}

func setInt(field *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fmt.Errorf("invalid value for %s: %q (must be a positive integer)", key, value)
	}
	*field = n
	return nil
}

// DefaultProfile returns the built-in profile used when none is configured.
func DefaultProfile() document.Profile {
	const icons = "https://raw.githubusercontent.com/rahuldkjain/github-profile-readme-generator/master/src/images/icons/Social/"
	return document.Profile{
		Name:    "Petar Zarkov",
		Tagline: "A passionate software developer",
		SocialLinks: []document.SocialLink{
			{Name: "LinkedIn", URL: "https://linkedin.com/in/☕-petar-zarkov-7989a670", Icon: icons + "linked-in-alt.svg", Height: 30, Width: 40},
			{Name: "Twitter", URL: "https://twitter.com/flaeryw", Icon: icons + "twitter.svg", Height: 30, Width: 40},
			{Name: "YouTube", URL: "https://www.youtube.com/@RustBeats", Icon: icons + "youtube.svg", Height: 30, Width: 40},
			{Name: "Portfolio", URL: "http://petarzarkov.com/", Icon: "https://img.shields.io/badge/Portfolio-255E63?style=for-the-badge&logo=react&logoColor=white", Height: 30},
			{Name: "Email", URL: "mailto:pzarko1@gmail.com", Icon: "https://img.shields.io/badge/Email-D14836?style=for-the-badge&logo=gmail&logoColor=white", Height: 30},
			{Name: "GitHub", URL: "https://github.com/petarzarkov", Icon: icons + "github.svg", Height: 30},
		},
	}
}

// DefaultConfig returns a fully populated config with all default values.
// This is useful for generating a complete config file template.
func DefaultConfig() *Config {
	profile := DefaultProfile()
	useSSL := true

	return &Config{
		Username:         constants.DefaultUsername,
		OutputDir:        constants.DefaultOutputDir,
		ReadmePath:       constants.DefaultReadmePath,
		IndexPath:        constants.DefaultIndexPath,
		ContributionDays: constants.ContributionDays,
		ActivityDays:     constants.ActivityDays,
		RepoLimit:        constants.RepoCommitLimit,
		Workers:          constants.DefaultWorkers,
		Readme:           &ReadmeConfig{Mode: ReadmeOverwrite},
		Profile:          &profile,
		Cache:            &CacheConfig{TTL: "24h"},
		Publish:          &PublishConfig{UseSSL: &useSSL},
	}
}

// ToYAML returns the config as a YAML string
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// ConfigPathInfo contains information about config file paths
type ConfigPathInfo struct {
	GlobalPath   string
	GlobalExists bool
	LocalPath    string
	LocalExists  bool
}

// GetConfigPaths returns path info for both global and local configs
func GetConfigPaths() ConfigPathInfo {
	globalPath := ConfigPath()
	localPath := LocalConfigPath()

	absLocalPath, err := filepath.Abs(localPath)
	if err != nil {
		absLocalPath = localPath
	}

	_, globalErr := os.Stat(globalPath)
	_, localErr := os.Stat(localPath)

	return ConfigPathInfo{
		GlobalPath:   globalPath,
		GlobalExists: globalErr == nil,
		LocalPath:    absLocalPath,
		LocalExists:  localErr == nil,
	}
}

// MinimalConfig returns a minimal config template with comments
func MinimalConfig() string {
	return `# statcard configuration file
# See: statcard config defaults  (for all available options)
# GITHUB_TOKEN is read from the environment or a .env file, never from here.

# GitHub user to generate stats for
username: petarzarkov

# Where the SVG cards are written
output_dir: generated

# overwrite regenerates the whole README, inject only updates the stats block
# readme:
#   mode: inject

# Upload the generated files to an S3-compatible bucket (optional)
# Credentials: STATCARD_S3_ACCESS_KEY and STATCARD_S3_SECRET_KEY
# publish:
#   enabled: true
#   endpoint: s3.amazonaws.com
#   bucket: my-profile
#   prefix: stats
`
}

// SaveTo writes content to a specific path, creating directories as needed
func SaveTo(path string, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}
