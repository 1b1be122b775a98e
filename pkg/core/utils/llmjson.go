package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
)

// DecodeLoose unmarshals model output into v, repairing common LLM JSON
// defects first when strict decoding fails: single quotes, trailing commas,
// unquoted keys, wrapping code fences.
func DecodeLoose(raw string, v interface{}) error {
	trimmed := stripFence(raw)

	if err := json.Unmarshal([]byte(trimmed), v); err == nil {
		return nil
	}

	repaired, err := jsonrepair.RepairJSON(trimmed)
	if err != nil {
		return fmt.Errorf("JSON repair failed: %v", err)
	}
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("repaired JSON still invalid: %v", err)
	}
	return nil
}

func stripFence(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}
