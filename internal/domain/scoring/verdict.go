package scoring

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"gopkg.in/yaml.v3"

	"github.com/okian/tasting/internal/domain/model"
)

// DefaultFallback is the verdict when no rule matches.
const DefaultFallback = "Vin décevant 😞"

// Rule maps a boolean CEL expression over `score` to a verdict label.
type Rule struct {
	When    string `yaml:"when" koanf:"when" json:"when"`
	Label   string `yaml:"label" koanf:"label" json:"label"`
	program cel.Program
}

func (r *Rule) init(env *cel.Env) error {
	ast, iss := env.Parse(r.When)
	if iss.Err() != nil {
		return iss.Err()
	}
	checked, iss := env.Check(ast)
	if iss.Err() != nil {
		return iss.Err()
	}
	if !checked.OutputType().IsExactType(cel.BoolType) {
		return fmt.Errorf("rule %q yields %s, want bool", r.When, checked.OutputType())
	}
	var err error
	r.program, err = env.Program(checked)
	return err
}

func (r *Rule) matches(score float64) (bool, error) {
	out, _, err := r.program.Eval(map[string]any{"score": score})
	if err != nil {
		return false, err
	}
	b, ok := out.Value().(bool)
	return ok && b, nil
}

// DefaultRules returns the verdict thresholds, highest first.
func DefaultRules() []Rule {
	return []Rule{
		{When: "score >= 18.0", Label: "Vin exceptionnel ! 🌟"},
		{When: "score >= 16.0", Label: "Très bon vin ! 🍷"},
		{When: "score >= 14.0", Label: "Bon vin ✨"},
		{When: "score >= 12.0", Label: "Vin correct 👍"},
		{When: "score >= 10.0", Label: "Vin moyen 😐"},
	}
}

// ParseRules reads a YAML list of rules.
func ParseRules(data []byte) ([]Rule, error) {
	var rules []Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("%w: verdict rules: %v", model.ErrValidation, err)
	}
	return rules, nil
}

// Table picks the label of the first matching rule.
type Table struct {
	rules    []Rule
	fallback string
}

// NewTable compiles rules in order. An empty fallback uses DefaultFallback.
func NewTable(rules []Rule, fallback string) (*Table, error) {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	if fallback == "" {
		fallback = DefaultFallback
	}
	env, err := cel.NewEnv(cel.Variable("score", cel.DoubleType))
	if err != nil {
		return nil, fmt.Errorf("create rule environment: %w", err)
	}
	t := &Table{rules: make([]Rule, len(rules)), fallback: fallback}
	for i, r := range rules {
		if r.Label == "" {
			return nil, fmt.Errorf("%w: verdict rule %d has no label", model.ErrValidation, i)
		}
		r.program = nil
		if err := r.init(env); err != nil {
			return nil, fmt.Errorf("%w: verdict rule %d: %v", model.ErrValidation, i, err)
		}
		t.rules[i] = r
	}
	return t, nil
}

// Describe returns the verdict for score. Rules that fail to evaluate are skipped.
func (t *Table) Describe(score float64) string {
	for i := range t.rules {
		ok, err := t.rules[i].matches(score)
		if err != nil {
			continue
		}
		if ok {
			return t.rules[i].Label
		}
	}
	return t.fallback
}

// Labels lists every label the table can return, fallback last.
func (t *Table) Labels() []string {
	out := make([]string, 0, len(t.rules)+1)
	for _, r := range t.rules {
		out = append(out, r.Label)
	}
	return append(out, t.fallback)
}
