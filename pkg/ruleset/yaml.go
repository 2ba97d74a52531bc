package ruleset

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/gffrules/pkg/diagnostics"
	"github.com/arthur-debert/gffrules/pkg/rules"
	"gopkg.in/yaml.v3"
)

type yamlSource struct {
	Aliases yaml.Node   `yaml:"aliases"`
	Rules   []yaml.Node `yaml:"rules"`
}

type yamlRule struct {
	Pattern string `yaml:"pattern"`
	Kind    string `yaml:"kind"`
	Action  string `yaml:"action"`
}

// ParseYAML reads the YAML format. Aliases come first, in document order,
// followed by the rules. A rule is either a mapping or a string in the line
// format.
func ParseYAML(r io.Reader, opts Options) ([]rules.Definition, error) {
	opts = opts.withDefaults()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	raw := new(yamlSource)
	if err := dec.Decode(raw); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}

	var defs []rules.Definition

	if raw.Aliases.Kind != 0 {
		if raw.Aliases.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("line %d: aliases must be a mapping", raw.Aliases.Line)
		}
		content := raw.Aliases.Content
		for i := 0; i+1 < len(content); i += 2 {
			name, value := content[i], content[i+1]
			var fragment string
			if err := value.Decode(&fragment); err != nil {
				return nil, fmt.Errorf("line %d: alias %s: %w", value.Line, name.Value, err)
			}
			aliasName := name.Value
			if !strings.HasPrefix(aliasName, opts.AliasMarker) {
				aliasName = opts.AliasMarker + aliasName
			}
			defs = append(defs, rules.NewDefinition(aliasName, "alias", []string{fragment}, name.Line))
		}
	}

	for _, node := range raw.Rules {
		def, ok, err := parseRuleNode(node)
		if err != nil {
			return nil, err
		}
		if !ok {
			opts.Diagnostics.Addf(diagnostics.SeverityWarning, diagnostics.CodeMalformedLine,
				"", node.Value, []int{node.Line}, "rule at line %d has no pattern or kind", node.Line)
			continue
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func parseRuleNode(node yaml.Node) (rules.Definition, bool, error) {
	// Simplest case: - gene VALID
	var line string
	if node.Kind == yaml.ScalarNode && node.Decode(&line) == nil {
		def, ok := parseLine(strings.TrimSpace(line), node.Line)
		return def, ok, nil
	}

	var entry yamlRule
	if err := node.Decode(&entry); err != nil {
		return rules.Definition{}, false, fmt.Errorf("line %d: %w", node.Line, err)
	}
	if strings.TrimSpace(entry.Pattern) == "" || strings.TrimSpace(entry.Kind) == "" {
		return rules.Definition{}, false, nil
	}

	var actions []string
	if a := strings.TrimSpace(entry.Action); a != "" {
		actions = []string{a}
	}
	return rules.NewDefinition(entry.Pattern, entry.Kind, actions, node.Line), true, nil
}
