package training

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/invoices-tracker/internal/document"
)

// ScriptedPrompter answers prompts from a fixed map keyed by Prompt.Key.
// Missing keys are skipped, so a script only lists what it wants to set.
type ScriptedPrompter struct {
	Answers map[string]string
	Asked   []string
	Shown   []string
	Tables  [][]document.Table
}

func NewScriptedPrompter(answers map[string]string) *ScriptedPrompter {
	return &ScriptedPrompter{Answers: answers}
}

// LoadScript reads answers from a YAML mapping of prompt keys to values.
func LoadScript(path string) (*ScriptedPrompter, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read training script: %w", err)
	}
	answers := map[string]string{}
	if err := yaml.Unmarshal(raw, &answers); err != nil {
		return nil, fmt.Errorf("decode training script %s: %w", path, err)
	}
	return NewScriptedPrompter(answers), nil
}

func (s *ScriptedPrompter) Ask(ctx context.Context, p Prompt) (Answer, error) {
	if err := ctx.Err(); err != nil {
		return Answer{}, err
	}
	s.Asked = append(s.Asked, p.Key())
	v, ok := s.Answers[p.Key()]
	if !ok {
		return Answer{Skipped: true}, nil
	}
	return Answer{Value: v}, nil
}

func (s *ScriptedPrompter) Show(text string) {
	s.Shown = append(s.Shown, text)
}

func (s *ScriptedPrompter) ShowTables(tables []document.Table) {
	s.Tables = append(s.Tables, tables)
}
