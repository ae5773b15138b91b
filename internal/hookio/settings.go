package hookio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// HookEntry is a single hook command (e.g., {"type": "command", "command": "..."}).
type HookEntry struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Timeout int    `json:"timeout,omitempty"`
}

// HookGroup is a hook group with an optional tool matcher.
// Host format: {"matcher": "Write|Edit", "hooks": [{"type": "command", "command": "..."}]}
type HookGroup struct {
	Matcher string      `json:"matcher,omitempty"`
	Hooks   []HookEntry `json:"hooks"`
}

// mutatingToolMatcher names the host tools the gate intercepts.
const mutatingToolMatcher = "Write|Edit|MultiEdit|NotebookEdit|Patch|ApplyPatch|Bash"

// DefaultHookTimeout bounds each hook invocation in seconds.
const DefaultHookTimeout = 30

// GateHooks returns the PreToolUse/PostToolUse wiring for the given binary
// path (usually just "ig").
func GateHooks(binary string) map[string][]HookGroup {
	return map[string][]HookGroup{
		EventPreToolUse: {{
			Matcher: mutatingToolMatcher,
			Hooks: []HookEntry{{
				Type:    "command",
				Command: binary + " hook pre",
				Timeout: DefaultHookTimeout,
			}},
		}},
		EventPostToolUse: {{
			Matcher: mutatingToolMatcher,
			Hooks: []HookEntry{{
				Type:    "command",
				Command: binary + " hook post",
				Timeout: DefaultHookTimeout,
			}},
		}},
	}
}

// SettingsPath is the host settings file the hooks install into.
func SettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".claude", "settings.json"), nil
}

// LoadSettings reads settings.json as a raw map so unrelated keys survive a
// round-trip untouched. A missing file yields an empty map.
func LoadSettings(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// InstallGateHooks merges the gate's hook groups into the raw settings map,
// replacing prior entries for the same command so reinstall is idempotent.
func InstallGateHooks(raw map[string]any, binary string) {
	hooksAny, _ := raw["hooks"].(map[string]any)
	if hooksAny == nil {
		hooksAny = map[string]any{}
	}

	for event, groups := range GateHooks(binary) {
		existing := decodeGroups(hooksAny[event])
		merged := make([]HookGroup, 0, len(existing)+len(groups))
		for _, g := range existing {
			if !isGateGroup(g, binary) {
				merged = append(merged, g)
			}
		}
		merged = append(merged, groups...)
		hooksAny[event] = encodeGroups(merged)
	}

	raw["hooks"] = hooksAny
}

// isGateGroup reports whether a group was installed by this binary.
func isGateGroup(g HookGroup, binary string) bool {
	for _, h := range g.Hooks {
		if h.Command == binary+" hook pre" || h.Command == binary+" hook post" {
			return true
		}
	}
	return false
}

// decodeGroups converts the raw JSON shape back into typed groups, dropping
// anything malformed rather than failing the install.
func decodeGroups(v any) []HookGroup {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var groups []HookGroup
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil
	}
	return groups
}

// encodeGroups converts typed groups to the generic shape the raw settings
// map holds.
func encodeGroups(groups []HookGroup) any {
	data, err := json.Marshal(groups)
	if err != nil {
		return groups
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return groups
	}
	return v
}

// SaveSettings backs up the existing file, then writes the updated settings.
func SaveSettings(path string, raw map[string]any) error {
	if _, err := os.Stat(path); err == nil {
		backup := fmt.Sprintf("%s.backup.%s", path, time.Now().Format("20060102-150405"))
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read settings for backup: %w", err)
		}
		if err := os.WriteFile(backup, data, 0644); err != nil {
			return fmt.Errorf("create backup: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
