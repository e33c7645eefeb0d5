package tool

import (
	"encoding/json"
	"fmt"
)

// TransferToolName is the function name models use to signal an agent
// handoff. The orchestrator intercepts calls to this name instead of routing
// them through a registered Tool, so the signal stays machine-checkable and
// is never inferred from prose.
const TransferToolName = "transfer_to_agent"

// TransferDescription explains the handoff signal to the model.
const TransferDescription = "Request transfer of control to another agent by name. Use when another agent is better suited to answer."

// TransferParameters builds the JSON schema for the transfer signal,
// restricting the target to the caller's allowed handoff set.
func TransferParameters(allowedTargets []string) map[string]any {
	target := map[string]any{"type": "string", "description": "Target agent name"}
	if len(allowedTargets) > 0 {
		enum := make([]any, len(allowedTargets))
		for i, name := range allowedTargets {
			enum[i] = name
		}
		target["enum"] = enum
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"agent": target,
		},
		"required": []string{"agent"},
	}
}

// ParseTransferTarget extracts the target agent name from a transfer call's
// JSON arguments.
func ParseTransferTarget(arguments json.RawMessage) (string, error) {
	var payload struct {
		Agent string `json:"agent"`
	}
	if err := json.Unmarshal(arguments, &payload); err != nil {
		return "", fmt.Errorf("malformed transfer arguments: %w", err)
	}
	if payload.Agent == "" {
		return "", fmt.Errorf("field 'agent' must be non-empty string")
	}
	return payload.Agent, nil
}
