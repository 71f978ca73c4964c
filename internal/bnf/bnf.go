// Package bnf renders W3C-style BNF grammar descriptions as HTML. It is a
// pure text transform with no tie to the RDF data model.
package bnf

import (
	"fmt"
	"regexp"
	"strings"
)

// Production is one numbered grammar rule: [N] name ::= expression.
// Expressions may continue over following indented lines.
type Production struct {
	Label      string
	Name       string
	Expression string
}

// Item is one block of the grammar document in source order.
type Item struct {
	Production *Production // nil for prose
	Prose      string      // '#' comment text with the marker stripped
}

// Grammar is a parsed grammar description.
type Grammar struct {
	Items []Item
}

var productionRe = regexp.MustCompile(`^\[([0-9]+[a-z]*)\]\s+(\S+)\s*::=\s*(.*)$`)

// Parse reads a grammar description: productions, '#' prose lines, and
// blank lines. Indented lines continue the preceding production.
func Parse(input string) (*Grammar, error) {
	g := &Grammar{}
	var current *Production

	for i, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			current = nil
			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			current = nil
			g.Items = append(g.Items, Item{Prose: strings.TrimSpace(trimmed[1:])})
			continue
		}

		if m := productionRe.FindStringSubmatch(trimmed); m != nil {
			p := &Production{Label: m[1], Name: m[2], Expression: m[3]}
			g.Items = append(g.Items, Item{Production: p})
			current = p
			continue
		}

		// Continuation of the previous production's expression.
		if current != nil && line != trimmed {
			current.Expression = strings.TrimSpace(current.Expression + " " + trimmed)
			continue
		}

		return nil, fmt.Errorf("line %d: not a production, comment, or continuation: %q", i+1, trimmed)
	}

	return g, nil
}

// Names returns the set of production names, for cross-linking.
func (g *Grammar) Names() map[string]bool {
	names := make(map[string]bool)
	for _, item := range g.Items {
		if item.Production != nil {
			names[item.Production.Name] = true
		}
	}
	return names
}
