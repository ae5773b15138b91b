// Package config provides configuration management for IntentGate.
// Configuration is loaded from (highest to lowest priority):
// 1. Command-line flags
// 2. Environment variables (INTENTGATE_*)
// 3. Project config (.intentgate/config.yaml in cwd)
// 4. Home config (~/.intentgate/config.yaml)
// 5. Defaults
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/intentgate/cli/internal/classify"
)

// Config holds all IntentGate configuration.
type Config struct {
	// Output controls the default output format (table, json, yaml).
	Output string `yaml:"output" json:"output"`

	// BaseDir is the sidecar data directory (default: .agents/ig).
	BaseDir string `yaml:"base_dir" json:"base_dir"`

	// Verbose enables verbose output.
	Verbose bool `yaml:"verbose" json:"verbose"`

	// Policy controls gate behavior.
	Policy PolicyConfig `yaml:"policy" json:"policy"`

	// Classifier holds the mutation-classifier decision constants.
	Classifier classify.Thresholds `yaml:"classifier" json:"classifier"`
}

// PolicyConfig holds gate-specific settings.
type PolicyConfig struct {
	// FreshnessWindow bounds how long a staleness observation stays
	// authoritative (Go duration string). Default: "15m". "0" never expires.
	FreshnessWindow string `yaml:"freshness_window" json:"freshness_window"`

	// UnknownPath decides how the gate treats a file with no observation.
	// Values: "allow" (default), "deny".
	UnknownPath string `yaml:"unknown_path" json:"unknown_path"`

	// RecentTraceLimit bounds the history attached to a context bundle.
	// Default: 10.
	RecentTraceLimit int `yaml:"recent_trace_limit" json:"recent_trace_limit"`

	// RequirePlanning enables the upstream-artifact prerequisites.
	RequirePlanning bool `yaml:"require_planning" json:"require_planning"`

	// ArchitectureDoc is the artifact checked when RequirePlanning is on.
	// Default: "ARCHITECTURE.md".
	ArchitectureDoc string `yaml:"architecture_doc" json:"architecture_doc"`
}

// Default config values (used in resolution and validation).
const (
	defaultOutput          = "table"
	defaultBaseDir         = ".agents/ig"
	defaultFreshnessWindow = "15m"
	defaultUnknownPath     = "allow"
	defaultTraceLimit      = 10
	defaultArchitecture    = "ARCHITECTURE.md"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Output:  defaultOutput,
		BaseDir: defaultBaseDir,
		Verbose: false,
		Policy: PolicyConfig{
			FreshnessWindow:  defaultFreshnessWindow,
			UnknownPath:      defaultUnknownPath,
			RecentTraceLimit: defaultTraceLimit,
			RequirePlanning:  false,
			ArchitectureDoc:  defaultArchitecture,
		},
		Classifier: classify.DefaultThresholds(),
	}
}

// FreshnessWindowDuration parses the configured window, falling back to the
// default on a malformed value.
func (c *Config) FreshnessWindowDuration() time.Duration {
	d, err := time.ParseDuration(c.Policy.FreshnessWindow)
	if err != nil || d < 0 {
		def, _ := time.ParseDuration(defaultFreshnessWindow)
		return def
	}
	return d
}

// Load loads configuration with proper precedence.
// Priority: flags > env > project > home > defaults
func Load(flagOverrides *Config) (*Config, error) {
	cfg := Default()

	// Load home config
	homeConfig, _ := loadFromPath(homeConfigPath())
	if homeConfig != nil {
		cfg = merge(cfg, homeConfig)
	}

	// Load project config
	projectConfig, _ := loadFromPath(projectConfigPath())
	if projectConfig != nil {
		cfg = merge(cfg, projectConfig)
	}

	// Apply environment variables
	cfg = applyEnv(cfg)

	// Apply flag overrides
	if flagOverrides != nil {
		cfg = merge(cfg, flagOverrides)
	}

	return cfg, nil
}

// homeConfigPath returns the home config path.
func homeConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".intentgate", "config.yaml")
}

// projectConfigPath returns the project config path.
func projectConfigPath() string {
	if override := strings.TrimSpace(os.Getenv("INTENTGATE_CONFIG")); override != "" {
		return override
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, ".intentgate", "config.yaml")
}

// loadFromPath loads config from a YAML file.
func loadFromPath(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnv applies environment variable overrides.
func applyEnv(cfg *Config) *Config {
	if v := os.Getenv("INTENTGATE_OUTPUT"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("INTENTGATE_BASE_DIR"); v != "" {
		cfg.BaseDir = v
	}
	if v := os.Getenv("INTENTGATE_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	if v := os.Getenv("INTENTGATE_FRESHNESS_WINDOW"); v != "" {
		cfg.Policy.FreshnessWindow = v
	}
	if v := os.Getenv("INTENTGATE_UNKNOWN_PATH"); v != "" {
		cfg.Policy.UnknownPath = v
	}
	if v := os.Getenv("INTENTGATE_RECENT_TRACE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Policy.RecentTraceLimit = n
		}
	}
	if v := os.Getenv("INTENTGATE_REQUIRE_PLANNING"); v == "true" || v == "1" {
		cfg.Policy.RequirePlanning = true
	}
	if v := os.Getenv("INTENTGATE_ARCHITECTURE_DOC"); v != "" {
		cfg.Policy.ArchitectureDoc = v
	}
	return cfg
}

// mergeStr overwrites dst with src when src is non-empty.
func mergeStr(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

// mergeInt overwrites dst with src when src is non-zero.
func mergeInt(dst *int, src int) {
	if src != 0 {
		*dst = src
	}
}

// mergeFloat overwrites dst with src when src is non-zero.
func mergeFloat(dst *float64, src float64) {
	if src != 0 {
		*dst = src
	}
}

// merge merges src into dst, with src values taking precedence.
// Booleans only merge upward: an explicit false in src cannot be told apart
// from an unset field, so false never overrides true.
func merge(dst, src *Config) *Config {
	mergeStr(&dst.Output, src.Output)
	mergeStr(&dst.BaseDir, src.BaseDir)
	if src.Verbose {
		dst.Verbose = true
	}

	mergePolicy(&dst.Policy, &src.Policy)
	mergeClassifier(&dst.Classifier, &src.Classifier)

	return dst
}

// mergePolicy merges gate-specific config fields.
func mergePolicy(dst, src *PolicyConfig) {
	mergeStr(&dst.FreshnessWindow, src.FreshnessWindow)
	mergeStr(&dst.UnknownPath, src.UnknownPath)
	mergeInt(&dst.RecentTraceLimit, src.RecentTraceLimit)
	if src.RequirePlanning {
		dst.RequirePlanning = true
	}
	mergeStr(&dst.ArchitectureDoc, src.ArchitectureDoc)
}

// mergeClassifier merges the classifier decision constants.
func mergeClassifier(dst, src *classify.Thresholds) {
	mergeFloat(&dst.HighSimilarity, src.HighSimilarity)
	mergeFloat(&dst.VeryHighSimilarity, src.VeryHighSimilarity)
	mergeFloat(&dst.LineCountRatio, src.LineCountRatio)
	mergeFloat(&dst.GrowthRatio, src.GrowthRatio)
	mergeFloat(&dst.LowSimilarity, src.LowSimilarity)
	mergeInt(&dst.MaxInputBytes, src.MaxInputBytes)
}

// Source represents where a config value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceHome    Source = "~/.intentgate/config.yaml"
	SourceProject Source = ".intentgate/config.yaml"
	SourceEnv     Source = "environment"
	SourceFlag    Source = "flag"
)

// getEnvString returns the value and whether the env var was set.
func getEnvString(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

// getEnvBool returns the boolean value and whether it was truthy.
func getEnvBool(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "true" || v == "1" {
		return true, true
	}
	return false, false
}

// resolveStringField resolves a string through the precedence chain.
// Returns the resolved value and its source.
func resolveStringField(home, project, env, flag, def string) resolved {
	result := resolved{Value: def, Source: SourceDefault}
	if home != "" {
		result = resolved{Value: home, Source: SourceHome}
	}
	if project != "" {
		result = resolved{Value: project, Source: SourceProject}
	}
	if env != "" {
		result = resolved{Value: env, Source: SourceEnv}
	}
	if flag != "" {
		result = resolved{Value: flag, Source: SourceFlag}
	}
	return result
}

// ResolvedConfig shows config values with their sources.
type ResolvedConfig struct {
	Output          resolved `json:"output"`
	BaseDir         resolved `json:"base_dir"`
	Verbose         resolved `json:"verbose"`
	FreshnessWindow resolved `json:"freshness_window"`
	UnknownPath     resolved `json:"unknown_path"`
	ArchitectureDoc resolved `json:"architecture_doc"`
}

type resolved struct {
	Value  interface{} `json:"value"`
	Source Source      `json:"source"`
}

// Resolve returns configuration with source tracking.
// Uses precedence chain: flags > env > project > home > defaults.
func Resolve(flagOutput, flagBaseDir string, flagVerbose bool) *ResolvedConfig {
	homeConfig, _ := loadFromPath(homeConfigPath())
	projectConfig, _ := loadFromPath(projectConfigPath())

	var homeOutput, homeBaseDir, homeWindow, homeUnknown, homeArch string
	var homeVerbose bool
	if homeConfig != nil {
		homeOutput = homeConfig.Output
		homeBaseDir = homeConfig.BaseDir
		homeVerbose = homeConfig.Verbose
		homeWindow = homeConfig.Policy.FreshnessWindow
		homeUnknown = homeConfig.Policy.UnknownPath
		homeArch = homeConfig.Policy.ArchitectureDoc
	}

	var projectOutput, projectBaseDir, projectWindow, projectUnknown, projectArch string
	var projectVerbose bool
	if projectConfig != nil {
		projectOutput = projectConfig.Output
		projectBaseDir = projectConfig.BaseDir
		projectVerbose = projectConfig.Verbose
		projectWindow = projectConfig.Policy.FreshnessWindow
		projectUnknown = projectConfig.Policy.UnknownPath
		projectArch = projectConfig.Policy.ArchitectureDoc
	}

	envOutput, _ := getEnvString("INTENTGATE_OUTPUT")
	envBaseDir, _ := getEnvString("INTENTGATE_BASE_DIR")
	envVerbose, envVerboseSet := getEnvBool("INTENTGATE_VERBOSE")
	envWindow, _ := getEnvString("INTENTGATE_FRESHNESS_WINDOW")
	envUnknown, _ := getEnvString("INTENTGATE_UNKNOWN_PATH")
	envArch, _ := getEnvString("INTENTGATE_ARCHITECTURE_DOC")

	rc := &ResolvedConfig{
		Output:          resolveStringField(homeOutput, projectOutput, envOutput, flagOutput, defaultOutput),
		BaseDir:         resolveStringField(homeBaseDir, projectBaseDir, envBaseDir, flagBaseDir, defaultBaseDir),
		Verbose:         resolved{Value: false, Source: SourceDefault},
		FreshnessWindow: resolveStringField(homeWindow, projectWindow, envWindow, "", defaultFreshnessWindow),
		UnknownPath:     resolveStringField(homeUnknown, projectUnknown, envUnknown, "", defaultUnknownPath),
		ArchitectureDoc: resolveStringField(homeArch, projectArch, envArch, "", defaultArchitecture),
	}

	if homeVerbose {
		rc.Verbose = resolved{Value: true, Source: SourceHome}
	}
	if projectVerbose {
		rc.Verbose = resolved{Value: true, Source: SourceProject}
	}
	if envVerboseSet && envVerbose {
		rc.Verbose = resolved{Value: true, Source: SourceEnv}
	}
	if flagVerbose {
		rc.Verbose = resolved{Value: true, Source: SourceFlag}
	}

	return rc
}
