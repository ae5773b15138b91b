// Package hookio adapts the governance engine to agent-host hook protocols.
// The host invokes a fresh process per hook event and speaks JSON over
// stdin/stdout, so this package owns payload parsing, tool-name mapping,
// response encoding, and the persisted per-session state that bridges
// invocations.
package hookio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/intentgate/cli/internal/types"
)

// Hook event names this adapter handles.
const (
	EventPreToolUse  = "PreToolUse"
	EventPostToolUse = "PostToolUse"
)

// Payload is the hook event body the host writes to stdin. Fields beyond
// what the gate needs are ignored.
type Payload struct {
	SessionID     string          `json:"session_id"`
	HookEventName string          `json:"hook_event_name"`
	ToolName      string          `json:"tool_name"`
	ToolInput     ToolInput       `json:"tool_input"`
	ToolResponse  json.RawMessage `json:"tool_response,omitempty"`
}

// ToolInput carries the tool arguments relevant to gating.
type ToolInput struct {
	FilePath string `json:"file_path,omitempty"`
	Command  string `json:"command,omitempty"`
}

// ParsePayload decodes one hook event from r.
func ParsePayload(r io.Reader) (*Payload, error) {
	var p Payload
	dec := json.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode hook payload: %w", err)
	}
	if p.SessionID == "" {
		return nil, fmt.Errorf("hook payload missing session_id")
	}
	return &p, nil
}

// Operation maps the host tool name to an operation kind. Unknown tools map
// to read: the gate only intercepts tools it can positively identify as
// mutating.
func (p *Payload) Operation() types.OperationKind {
	switch p.ToolName {
	case "Write", "NotebookEdit":
		return types.OpWrite
	case "Edit", "MultiEdit":
		return types.OpEdit
	case "Patch", "ApplyPatch":
		return types.OpPatch
	case "Bash", "BashOutput":
		return types.OpExec
	case "Read":
		return types.OpRead
	case "Glob", "LS":
		return types.OpList
	case "Grep", "WebSearch":
		return types.OpSearch
	}
	return types.OpRead
}

// Target returns the file path the operation names, "" when none.
func (p *Payload) Target() string {
	return p.ToolInput.FilePath
}

// Succeeded interprets the tool response for PostToolUse events. A missing
// response counts as success; hosts only attach structured errors.
func (p *Payload) Succeeded() bool {
	if len(p.ToolResponse) == 0 {
		return true
	}
	var resp struct {
		Success *bool  `json:"success,omitempty"`
		Error   string `json:"error,omitempty"`
	}
	if err := json.Unmarshal(p.ToolResponse, &resp); err != nil {
		return true
	}
	if resp.Success != nil {
		return *resp.Success
	}
	return resp.Error == ""
}

// preToolUseOutput is the host's permission-decision envelope.
type preToolUseOutput struct {
	HookEventName            string `json:"hookEventName"`
	PermissionDecision       string `json:"permissionDecision"`
	PermissionDecisionReason string `json:"permissionDecisionReason,omitempty"`
}

type hookResponse struct {
	HookSpecificOutput preToolUseOutput `json:"hookSpecificOutput"`
}

// WriteAllow emits the allow decision for a PreToolUse event.
func WriteAllow(w io.Writer) error {
	return writeDecision(w, "allow", "")
}

// WriteDeny emits the deny decision with the structured denial as the
// reason, so the calling agent can self-correct from the hook output alone.
func WriteDeny(w io.Writer, deny *types.GovernanceError) error {
	reason := deny.Error()
	if detail, err := json.Marshal(deny); err == nil {
		reason = fmt.Sprintf("%s %s", deny.Error(), detail)
	}
	return writeDecision(w, "deny", reason)
}

func writeDecision(w io.Writer, decision, reason string) error {
	resp := hookResponse{
		HookSpecificOutput: preToolUseOutput{
			HookEventName:            EventPreToolUse,
			PermissionDecision:       decision,
			PermissionDecisionReason: reason,
		},
	}
	enc := json.NewEncoder(w)
	return enc.Encode(resp)
}
