package hookio

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/intentgate/cli/internal/types"
)

func TestParsePayload(t *testing.T) {
	in := `{
		"session_id": "sess-42",
		"hook_event_name": "PreToolUse",
		"tool_name": "Edit",
		"tool_input": {"file_path": "src/auth/session.go"}
	}`

	p, err := ParsePayload(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	if p.SessionID != "sess-42" {
		t.Errorf("SessionID = %q", p.SessionID)
	}
	if p.Operation() != types.OpEdit {
		t.Errorf("Operation() = %s, want %s", p.Operation(), types.OpEdit)
	}
	if p.Target() != "src/auth/session.go" {
		t.Errorf("Target() = %q", p.Target())
	}
}

func TestParsePayloadMissingSession(t *testing.T) {
	if _, err := ParsePayload(strings.NewReader(`{"tool_name":"Write"}`)); err == nil {
		t.Error("expected error for missing session_id")
	}
}

func TestOperationMapping(t *testing.T) {
	tests := []struct {
		tool string
		want types.OperationKind
	}{
		{"Write", types.OpWrite},
		{"NotebookEdit", types.OpWrite},
		{"Edit", types.OpEdit},
		{"MultiEdit", types.OpEdit},
		{"Patch", types.OpPatch},
		{"Bash", types.OpExec},
		{"Read", types.OpRead},
		{"Glob", types.OpList},
		{"Grep", types.OpSearch},
		{"SomeFutureTool", types.OpRead},
	}
	for _, tt := range tests {
		p := &Payload{SessionID: "s", ToolName: tt.tool}
		if got := p.Operation(); got != tt.want {
			t.Errorf("Operation(%s) = %s, want %s", tt.tool, got, tt.want)
		}
	}
}

func TestSucceeded(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     bool
	}{
		{name: "no response", response: "", want: true},
		{name: "explicit success", response: `{"success": true}`, want: true},
		{name: "explicit failure", response: `{"success": false}`, want: false},
		{name: "error message", response: `{"error": "permission denied"}`, want: false},
		{name: "clean response", response: `{"output": "done"}`, want: true},
		{name: "non-object response", response: `"ok"`, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Payload{SessionID: "s", ToolResponse: json.RawMessage(tt.response)}
			if got := p.Succeeded(); got != tt.want {
				t.Errorf("Succeeded() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWriteAllow(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAllow(&buf); err != nil {
		t.Fatalf("WriteAllow: %v", err)
	}

	var resp hookResponse
	if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.HookSpecificOutput.PermissionDecision != "allow" {
		t.Errorf("decision = %q, want allow", resp.HookSpecificOutput.PermissionDecision)
	}
	if resp.HookSpecificOutput.HookEventName != EventPreToolUse {
		t.Errorf("event = %q", resp.HookSpecificOutput.HookEventName)
	}
}

func TestWriteDenyCarriesStructuredError(t *testing.T) {
	var buf bytes.Buffer
	deny := types.NewStaleFile("src/a.go", "sha256:aaa", "sha256:bbb")
	if err := WriteDeny(&buf, deny); err != nil {
		t.Fatalf("WriteDeny: %v", err)
	}

	var resp hookResponse
	if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out := resp.HookSpecificOutput
	if out.PermissionDecision != "deny" {
		t.Errorf("decision = %q, want deny", out.PermissionDecision)
	}
	// The reason embeds the machine-readable denial so the agent can parse
	// the kind and digests out of the hook output.
	if !strings.Contains(out.PermissionDecisionReason, string(types.KindStaleFile)) {
		t.Errorf("reason missing kind: %q", out.PermissionDecisionReason)
	}
	if !strings.Contains(out.PermissionDecisionReason, "sha256:bbb") {
		t.Errorf("reason missing digest detail: %q", out.PermissionDecisionReason)
	}
}
