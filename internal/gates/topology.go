// Package gates holds the onboarding gate topology and the pure logic that
// derives gate status, validates progression and applies completion or
// blocking transitions. Nothing in this package performs I/O; callers load
// and persist entities around it.
package gates

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

// GateConfig describes one gate: its identifier, display name and the
// questionnaire ids that must pass before the gate counts as passed.
type GateConfig struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Questionnaires []string `json:"questionnaires"`
}

//go:embed gates.json
var gatesJSON []byte

// sequence is the fixed gate order. Gate order is static configuration, not
// runtime data.
var sequence []GateConfig

var indexByID map[string]int

func init() {
	if err := json.Unmarshal(gatesJSON, &sequence); err != nil {
		panic(fmt.Sprintf("gates: invalid embedded config: %v", err))
	}
	indexByID = make(map[string]int, len(sequence))
	for i, g := range sequence {
		indexByID[g.ID] = i
	}
}

// All returns the gates in topological order.
func All() []GateConfig {
	out := make([]GateConfig, len(sequence))
	copy(out, sequence)
	return out
}

// First returns the id of the entry gate.
func First() string { return sequence[0].ID }

// Get returns the config for a gate id.
func Get(id string) (GateConfig, bool) {
	i, ok := indexByID[id]
	if !ok {
		return GateConfig{}, false
	}
	return sequence[i], true
}

// Index returns the topological position of a gate id, or -1 if unknown.
func Index(id string) int {
	i, ok := indexByID[id]
	if !ok {
		return -1
	}
	return i
}

// Next returns the gate after id, or "" at the end of the sequence.
func Next(id string) string {
	i, ok := indexByID[id]
	if !ok || i+1 >= len(sequence) {
		return ""
	}
	return sequence[i+1].ID
}

// Prev returns the gate before id, or "" at the start of the sequence.
func Prev(id string) string {
	i, ok := indexByID[id]
	if !ok || i == 0 {
		return ""
	}
	return sequence[i-1].ID
}

// DisplayName returns the human-readable name, falling back to the id.
func DisplayName(id string) string {
	if g, ok := Get(id); ok {
		return g.Name
	}
	return id
}

// Required returns the questionnaire ids a gate needs.
func Required(id string) []string {
	g, ok := Get(id)
	if !ok {
		return nil
	}
	return append([]string(nil), g.Questionnaires...)
}

// GateForQuestionnaire returns the gate that requires the questionnaire.
func GateForQuestionnaire(questionnaireID string) (string, bool) {
	for _, g := range sequence {
		for _, q := range g.Questionnaires {
			if q == questionnaireID {
				return g.ID, true
			}
		}
	}
	return "", false
}
