package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"INTENTGATE_CONFIG", "INTENTGATE_OUTPUT", "INTENTGATE_BASE_DIR",
		"INTENTGATE_VERBOSE", "INTENTGATE_FRESHNESS_WINDOW",
		"INTENTGATE_UNKNOWN_PATH", "INTENTGATE_RECENT_TRACE_LIMIT",
		"INTENTGATE_REQUIRE_PLANNING", "INTENTGATE_ARCHITECTURE_DOC",
	} {
		t.Setenv(key, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Output != "table" {
		t.Errorf("Default Output = %q, want %q", cfg.Output, "table")
	}
	if cfg.BaseDir != ".agents/ig" {
		t.Errorf("Default BaseDir = %q, want %q", cfg.BaseDir, ".agents/ig")
	}
	if cfg.Verbose {
		t.Error("Default Verbose = true, want false")
	}
	if cfg.Policy.FreshnessWindow != "15m" {
		t.Errorf("Default Policy.FreshnessWindow = %q, want %q", cfg.Policy.FreshnessWindow, "15m")
	}
	if cfg.Policy.UnknownPath != "allow" {
		t.Errorf("Default Policy.UnknownPath = %q, want %q", cfg.Policy.UnknownPath, "allow")
	}
	if cfg.Policy.RecentTraceLimit != 10 {
		t.Errorf("Default Policy.RecentTraceLimit = %d, want 10", cfg.Policy.RecentTraceLimit)
	}
	if cfg.Policy.RequirePlanning {
		t.Error("Default Policy.RequirePlanning = true, want false")
	}
	if cfg.Policy.ArchitectureDoc != "ARCHITECTURE.md" {
		t.Errorf("Default Policy.ArchitectureDoc = %q, want %q", cfg.Policy.ArchitectureDoc, "ARCHITECTURE.md")
	}
	if cfg.Classifier.HighSimilarity != 0.8 {
		t.Errorf("Default Classifier.HighSimilarity = %v, want 0.8", cfg.Classifier.HighSimilarity)
	}
}

func TestFreshnessWindowDuration(t *testing.T) {
	cfg := Default()
	if got := cfg.FreshnessWindowDuration(); got != 15*time.Minute {
		t.Errorf("FreshnessWindowDuration() = %v, want 15m", got)
	}

	cfg.Policy.FreshnessWindow = "1h"
	if got := cfg.FreshnessWindowDuration(); got != time.Hour {
		t.Errorf("FreshnessWindowDuration() = %v, want 1h", got)
	}

	// Malformed values fall back to the default rather than failing.
	cfg.Policy.FreshnessWindow = "soon"
	if got := cfg.FreshnessWindowDuration(); got != 15*time.Minute {
		t.Errorf("FreshnessWindowDuration() malformed = %v, want 15m", got)
	}
}

func TestMerge(t *testing.T) {
	dst := Default()
	src := &Config{
		Output:  "json",
		BaseDir: "/custom/path",
	}

	result := merge(dst, src)

	if result.Output != "json" {
		t.Errorf("merge Output = %q, want %q", result.Output, "json")
	}
	if result.BaseDir != "/custom/path" {
		t.Errorf("merge BaseDir = %q, want %q", result.BaseDir, "/custom/path")
	}
	// Defaults should be preserved when not overridden
	if result.Policy.RecentTraceLimit != 10 {
		t.Errorf("merge preserved RecentTraceLimit = %d, want 10", result.Policy.RecentTraceLimit)
	}
	if result.Policy.UnknownPath != "allow" {
		t.Errorf("merge preserved UnknownPath = %q, want %q", result.Policy.UnknownPath, "allow")
	}
}

func TestMerge_Policy(t *testing.T) {
	dst := Default()
	src := &Config{
		Policy: PolicyConfig{
			FreshnessWindow:  "30m",
			UnknownPath:      "deny",
			RecentTraceLimit: 5,
			RequirePlanning:  true,
			ArchitectureDoc:  "docs/design.md",
		},
	}

	result := merge(dst, src)

	if result.Policy.FreshnessWindow != "30m" {
		t.Errorf("merge FreshnessWindow = %q, want %q", result.Policy.FreshnessWindow, "30m")
	}
	if result.Policy.UnknownPath != "deny" {
		t.Errorf("merge UnknownPath = %q, want %q", result.Policy.UnknownPath, "deny")
	}
	if result.Policy.RecentTraceLimit != 5 {
		t.Errorf("merge RecentTraceLimit = %d, want 5", result.Policy.RecentTraceLimit)
	}
	if !result.Policy.RequirePlanning {
		t.Error("merge RequirePlanning = false, want true")
	}
	if result.Policy.ArchitectureDoc != "docs/design.md" {
		t.Errorf("merge ArchitectureDoc = %q, want %q", result.Policy.ArchitectureDoc, "docs/design.md")
	}
}

func TestMerge_Classifier(t *testing.T) {
	dst := Default()
	src := Default()
	src.Classifier.HighSimilarity = 0.85
	src.Classifier.MaxInputBytes = 1 << 15

	result := merge(dst, src)

	if result.Classifier.HighSimilarity != 0.85 {
		t.Errorf("merge Classifier.HighSimilarity = %v, want 0.85", result.Classifier.HighSimilarity)
	}
	if result.Classifier.MaxInputBytes != 1<<15 {
		t.Errorf("merge Classifier.MaxInputBytes = %d, want %d", result.Classifier.MaxInputBytes, 1<<15)
	}
}

func TestMerge_VerboseOverride(t *testing.T) {
	dst := Default()
	src := &Config{Verbose: true}

	result := merge(dst, src)

	if !result.Verbose {
		t.Error("merge Verbose = false, want true")
	}
}

func TestApplyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("INTENTGATE_OUTPUT", "yaml")
	t.Setenv("INTENTGATE_VERBOSE", "true")
	t.Setenv("INTENTGATE_UNKNOWN_PATH", "deny")
	t.Setenv("INTENTGATE_RECENT_TRACE_LIMIT", "25")
	t.Setenv("INTENTGATE_REQUIRE_PLANNING", "1")

	cfg := Default()
	cfg = applyEnv(cfg)

	if cfg.Output != "yaml" {
		t.Errorf("applyEnv Output = %q, want %q", cfg.Output, "yaml")
	}
	if !cfg.Verbose {
		t.Error("applyEnv Verbose = false, want true")
	}
	if cfg.Policy.UnknownPath != "deny" {
		t.Errorf("applyEnv UnknownPath = %q, want %q", cfg.Policy.UnknownPath, "deny")
	}
	if cfg.Policy.RecentTraceLimit != 25 {
		t.Errorf("applyEnv RecentTraceLimit = %d, want 25", cfg.Policy.RecentTraceLimit)
	}
	if !cfg.Policy.RequirePlanning {
		t.Error("applyEnv RequirePlanning = false, want true")
	}
}

func TestApplyEnv_BadTraceLimitIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("INTENTGATE_RECENT_TRACE_LIMIT", "many")

	cfg := Default()
	cfg = applyEnv(cfg)

	if cfg.Policy.RecentTraceLimit != 10 {
		t.Errorf("applyEnv bad limit = %d, want default 10", cfg.Policy.RecentTraceLimit)
	}
}

func TestApplyEnv_VerboseVariants(t *testing.T) {
	tests := []struct {
		name    string
		envVal  string
		wantVer bool
	}{
		{name: "true", envVal: "true", wantVer: true},
		{name: "1", envVal: "1", wantVer: true},
		{name: "false", envVal: "false", wantVer: false},
		{name: "empty", envVal: "", wantVer: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("INTENTGATE_VERBOSE", tt.envVal)

			cfg := Default()
			cfg = applyEnv(cfg)

			if cfg.Verbose != tt.wantVer {
				t.Errorf("applyEnv Verbose = %v, want %v for INTENTGATE_VERBOSE=%q", cfg.Verbose, tt.wantVer, tt.envVal)
			}
		})
	}
}

func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
output: json
base_dir: /custom/ig
verbose: true
policy:
  freshness_window: 45m
  unknown_path: deny
  recent_trace_limit: 3
classifier:
  high_similarity: 0.75
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadFromPath(configPath)
	if err != nil {
		t.Fatalf("loadFromPath() error = %v", err)
	}

	if cfg.Output != "json" {
		t.Errorf("loadFromPath Output = %q, want %q", cfg.Output, "json")
	}
	if cfg.BaseDir != "/custom/ig" {
		t.Errorf("loadFromPath BaseDir = %q, want %q", cfg.BaseDir, "/custom/ig")
	}
	if !cfg.Verbose {
		t.Error("loadFromPath Verbose = false, want true")
	}
	if cfg.Policy.FreshnessWindow != "45m" {
		t.Errorf("loadFromPath FreshnessWindow = %q, want %q", cfg.Policy.FreshnessWindow, "45m")
	}
	if cfg.Policy.UnknownPath != "deny" {
		t.Errorf("loadFromPath UnknownPath = %q, want %q", cfg.Policy.UnknownPath, "deny")
	}
	if cfg.Policy.RecentTraceLimit != 3 {
		t.Errorf("loadFromPath RecentTraceLimit = %d, want 3", cfg.Policy.RecentTraceLimit)
	}
	if cfg.Classifier.HighSimilarity != 0.75 {
		t.Errorf("loadFromPath Classifier.HighSimilarity = %v, want 0.75", cfg.Classifier.HighSimilarity)
	}
}

func TestLoadFromPath_NotExists(t *testing.T) {
	cfg, err := loadFromPath("/nonexistent/config.yaml")
	if cfg != nil {
		t.Errorf("loadFromPath for nonexistent file should return nil config")
	}
	if err == nil {
		t.Errorf("loadFromPath for nonexistent file should return error")
	}
}

func TestLoadFromPath_Empty(t *testing.T) {
	cfg, err := loadFromPath("")
	if cfg != nil || err != nil {
		t.Errorf("loadFromPath(\"\") = %v, %v; want nil, nil", cfg, err)
	}
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `{{{invalid yaml`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadFromPath(configPath)
	if err == nil {
		t.Error("loadFromPath for invalid YAML should return error")
	}
	if cfg != nil {
		t.Error("loadFromPath for invalid YAML should return nil config")
	}
}

func TestLoad_WithFlagOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("INTENTGATE_CONFIG", "/nonexistent/project.yaml")

	overrides := &Config{
		Output:  "json",
		BaseDir: "/flag/base",
		Verbose: true,
	}

	cfg, err := Load(overrides)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Output != "json" {
		t.Errorf("Load Output = %q, want %q", cfg.Output, "json")
	}
	if cfg.BaseDir != "/flag/base" {
		t.Errorf("Load BaseDir = %q, want %q", cfg.BaseDir, "/flag/base")
	}
	if !cfg.Verbose {
		t.Error("Load Verbose = false, want true")
	}
}

func TestLoad_NilOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("INTENTGATE_CONFIG", "/nonexistent/project.yaml")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Output != "table" {
		t.Errorf("Load nil Output = %q, want %q", cfg.Output, "table")
	}
	if cfg.BaseDir != ".agents/ig" {
		t.Errorf("Load nil BaseDir = %q, want %q", cfg.BaseDir, ".agents/ig")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("INTENTGATE_CONFIG", "/nonexistent/project.yaml")
	t.Setenv("INTENTGATE_OUTPUT", "yaml")
	t.Setenv("INTENTGATE_BASE_DIR", "/env/dir")
	t.Setenv("INTENTGATE_VERBOSE", "1")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Output != "yaml" {
		t.Errorf("Load env Output = %q, want %q", cfg.Output, "yaml")
	}
	if cfg.BaseDir != "/env/dir" {
		t.Errorf("Load env BaseDir = %q, want %q", cfg.BaseDir, "/env/dir")
	}
	if !cfg.Verbose {
		t.Error("Load env Verbose = false, want true")
	}
}

func TestLoad_WithProjectConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	content := `
output: yaml
base_dir: /project/ig
policy:
  unknown_path: deny
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	clearEnv(t)
	t.Setenv("INTENTGATE_CONFIG", configPath)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Output != "yaml" {
		t.Errorf("Load with project config Output = %q, want %q", cfg.Output, "yaml")
	}
	if cfg.BaseDir != "/project/ig" {
		t.Errorf("Load with project config BaseDir = %q, want %q", cfg.BaseDir, "/project/ig")
	}
	if cfg.Policy.UnknownPath != "deny" {
		t.Errorf("Load with project config UnknownPath = %q, want %q", cfg.Policy.UnknownPath, "deny")
	}
}

func TestProjectConfigPath_UsesConfigEnv(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "custom.yaml")
	t.Setenv("INTENTGATE_CONFIG", configPath)

	got := projectConfigPath()
	if got != configPath {
		t.Fatalf("projectConfigPath() = %q, want %q", got, configPath)
	}
}

func TestProjectConfigPath_DefaultFromCwd(t *testing.T) {
	t.Setenv("INTENTGATE_CONFIG", "")
	got := projectConfigPath()
	cwd, _ := os.Getwd()
	expected := filepath.Join(cwd, ".intentgate", "config.yaml")
	if got != expected {
		t.Errorf("projectConfigPath() = %q, want %q", got, expected)
	}
}

func TestProjectConfigPath_WhitespaceOnlyConfig(t *testing.T) {
	t.Setenv("INTENTGATE_CONFIG", "  \t  ")
	got := projectConfigPath()
	cwd, _ := os.Getwd()
	expected := filepath.Join(cwd, ".intentgate", "config.yaml")
	if got != expected {
		t.Errorf("projectConfigPath() with whitespace = %q, want %q", got, expected)
	}
}

func TestResolve(t *testing.T) {
	clearEnv(t)
	t.Setenv("INTENTGATE_CONFIG", "/nonexistent/project.yaml")
	rc := Resolve("json", "/flag/path", true)

	if rc.Output.Value != "json" {
		t.Errorf("Resolve Output.Value = %v, want %q", rc.Output.Value, "json")
	}
	if rc.Output.Source != SourceFlag {
		t.Errorf("Resolve Output.Source = %v, want %v", rc.Output.Source, SourceFlag)
	}
	if rc.BaseDir.Value != "/flag/path" {
		t.Errorf("Resolve BaseDir.Value = %v, want %q", rc.BaseDir.Value, "/flag/path")
	}
	if rc.Verbose.Value != true {
		t.Errorf("Resolve Verbose.Value = %v, want true", rc.Verbose.Value)
	}
}

func TestResolve_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("INTENTGATE_CONFIG", "/nonexistent/project.yaml")

	rc := Resolve("", "", false)

	if rc.Output.Value != "table" {
		t.Errorf("Resolve default Output.Value = %v, want %q", rc.Output.Value, "table")
	}
	if rc.Verbose.Value != false {
		t.Errorf("Resolve default Verbose.Value = %v, want false", rc.Verbose.Value)
	}
	if rc.FreshnessWindow.Value != "15m" || rc.FreshnessWindow.Source != SourceDefault {
		t.Errorf("Resolve FreshnessWindow = (%v, %v)", rc.FreshnessWindow.Value, rc.FreshnessWindow.Source)
	}
	if rc.UnknownPath.Value != "allow" {
		t.Errorf("Resolve UnknownPath.Value = %v, want allow", rc.UnknownPath.Value)
	}
}

func TestResolve_EnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("INTENTGATE_CONFIG", "/nonexistent/project.yaml")
	t.Setenv("INTENTGATE_OUTPUT", "yaml")
	t.Setenv("INTENTGATE_BASE_DIR", "/env/path")
	t.Setenv("INTENTGATE_VERBOSE", "1")
	t.Setenv("INTENTGATE_UNKNOWN_PATH", "deny")

	rc := Resolve("", "", false)

	if rc.Output.Value != "yaml" || rc.Output.Source != SourceEnv {
		t.Errorf("Resolve env Output = (%v, %v)", rc.Output.Value, rc.Output.Source)
	}
	if rc.BaseDir.Value != "/env/path" || rc.BaseDir.Source != SourceEnv {
		t.Errorf("Resolve env BaseDir = (%v, %v)", rc.BaseDir.Value, rc.BaseDir.Source)
	}
	if rc.Verbose.Value != true || rc.Verbose.Source != SourceEnv {
		t.Errorf("Resolve env Verbose = (%v, %v)", rc.Verbose.Value, rc.Verbose.Source)
	}
	if rc.UnknownPath.Value != "deny" || rc.UnknownPath.Source != SourceEnv {
		t.Errorf("Resolve env UnknownPath = (%v, %v)", rc.UnknownPath.Value, rc.UnknownPath.Source)
	}
}

func TestResolve_WithProjectConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	content := `
output: yaml
base_dir: /project/base
verbose: true
policy:
  freshness_window: 20m
  architecture_doc: docs/arch.md
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	clearEnv(t)
	t.Setenv("INTENTGATE_CONFIG", configPath)

	rc := Resolve("", "", false)

	if rc.Output.Value != "yaml" || rc.Output.Source != SourceProject {
		t.Errorf("Output = (%v, %v), want (yaml, %v)", rc.Output.Value, rc.Output.Source, SourceProject)
	}
	if rc.BaseDir.Value != "/project/base" || rc.BaseDir.Source != SourceProject {
		t.Errorf("BaseDir = (%v, %v), want (/project/base, %v)", rc.BaseDir.Value, rc.BaseDir.Source, SourceProject)
	}
	if rc.Verbose.Value != true || rc.Verbose.Source != SourceProject {
		t.Errorf("Verbose = (%v, %v), want (true, %v)", rc.Verbose.Value, rc.Verbose.Source, SourceProject)
	}
	if rc.FreshnessWindow.Value != "20m" || rc.FreshnessWindow.Source != SourceProject {
		t.Errorf("FreshnessWindow = (%v, %v), want (20m, %v)", rc.FreshnessWindow.Value, rc.FreshnessWindow.Source, SourceProject)
	}
	if rc.ArchitectureDoc.Value != "docs/arch.md" || rc.ArchitectureDoc.Source != SourceProject {
		t.Errorf("ArchitectureDoc = (%v, %v), want (docs/arch.md, %v)", rc.ArchitectureDoc.Value, rc.ArchitectureDoc.Source, SourceProject)
	}
}

func TestResolve_FlagOverridesProjectConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	content := `
output: yaml
base_dir: /project/base
verbose: true
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	clearEnv(t)
	t.Setenv("INTENTGATE_CONFIG", configPath)

	rc := Resolve("json", "/flag/dir", true)

	if rc.Output.Value != "json" || rc.Output.Source != SourceFlag {
		t.Errorf("Flag should override project: Output = (%v, %v)", rc.Output.Value, rc.Output.Source)
	}
	if rc.BaseDir.Value != "/flag/dir" || rc.BaseDir.Source != SourceFlag {
		t.Errorf("Flag should override project: BaseDir = (%v, %v)", rc.BaseDir.Value, rc.BaseDir.Source)
	}
	if rc.Verbose.Value != true || rc.Verbose.Source != SourceFlag {
		t.Errorf("Flag should override project: Verbose = (%v, %v)", rc.Verbose.Value, rc.Verbose.Source)
	}
}

func TestResolveStringField(t *testing.T) {
	tests := []struct {
		name       string
		home       string
		project    string
		env        string
		flag       string
		def        string
		wantValue  string
		wantSource Source
	}{
		{
			name:       "default only",
			def:        "table",
			wantValue:  "table",
			wantSource: SourceDefault,
		},
		{
			name:       "home overrides default",
			home:       "json",
			def:        "table",
			wantValue:  "json",
			wantSource: SourceHome,
		},
		{
			name:       "project overrides home",
			home:       "json",
			project:    "yaml",
			def:        "table",
			wantValue:  "yaml",
			wantSource: SourceProject,
		},
		{
			name:       "env overrides project",
			home:       "json",
			project:    "yaml",
			env:        "csv",
			def:        "table",
			wantValue:  "csv",
			wantSource: SourceEnv,
		},
		{
			name:       "flag overrides everything",
			home:       "json",
			project:    "yaml",
			env:        "csv",
			flag:       "text",
			def:        "table",
			wantValue:  "text",
			wantSource: SourceFlag,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveStringField(tt.home, tt.project, tt.env, tt.flag, tt.def)
			if got.Value != tt.wantValue {
				t.Errorf("resolveStringField() Value = %v, want %v", got.Value, tt.wantValue)
			}
			if got.Source != tt.wantSource {
				t.Errorf("resolveStringField() Source = %v, want %v", got.Source, tt.wantSource)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name     string
		envVal   string
		wantBool bool
		wantSet  bool
	}{
		{name: "true string", envVal: "true", wantBool: true, wantSet: true},
		{name: "1 string", envVal: "1", wantBool: true, wantSet: true},
		{name: "false string", envVal: "false", wantBool: false, wantSet: false},
		{name: "empty string", envVal: "", wantBool: false, wantSet: false},
		{name: "random string", envVal: "yes", wantBool: false, wantSet: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL_KEY", tt.envVal)
			gotBool, gotSet := getEnvBool("TEST_BOOL_KEY")
			if gotBool != tt.wantBool {
				t.Errorf("getEnvBool() bool = %v, want %v", gotBool, tt.wantBool)
			}
			if gotSet != tt.wantSet {
				t.Errorf("getEnvBool() set = %v, want %v", gotSet, tt.wantSet)
			}
		})
	}
}

func TestGetEnvString(t *testing.T) {
	tests := []struct {
		name    string
		envVal  string
		wantVal string
		wantSet bool
	}{
		{name: "set value", envVal: "hello", wantVal: "hello", wantSet: true},
		{name: "empty value", envVal: "", wantVal: "", wantSet: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_STR_KEY", tt.envVal)
			gotVal, gotSet := getEnvString("TEST_STR_KEY")
			if gotVal != tt.wantVal {
				t.Errorf("getEnvString() val = %q, want %q", gotVal, tt.wantVal)
			}
			if gotSet != tt.wantSet {
				t.Errorf("getEnvString() set = %v, want %v", gotSet, tt.wantSet)
			}
		})
	}
}

// --- Benchmarks ---

func BenchmarkDefault(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Default()
	}
}

func BenchmarkMerge(b *testing.B) {
	base := Default()
	overlay := &Config{
		Output:  "json",
		BaseDir: "/tmp/bench",
		Verbose: true,
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		dst := *base // copy
		merge(&dst, overlay)
	}
}
