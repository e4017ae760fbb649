// Package ownership maps managed-tree paths to ownership classes.
//
// Classification is an ordered, first-match-wins walk over glob rules:
// operator data namespaces first, then fixed infrastructure, then
// regenerated outputs, then the customizable allowlist. Anything that
// matches nothing is DistributorOnly. Every path resolves to exactly one
// class; there is no "unknown".
package ownership

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/canonhq/canon/pkg/errors"
	"github.com/canonhq/canon/pkg/types"
)

// Rule binds one doublestar pattern to an ownership class
type Rule struct {
	Pattern string               `json:"pattern"`
	Class   types.OwnershipClass `json:"class"`
}

// Classifier evaluates ownership rules in order
type Classifier struct {
	rules []Rule
}

// defaultRules is the built-in rule table. Order is the contract: the
// first matching rule wins, so the operator namespaces sit above
// everything else and the customizable allowlist sits below the
// regenerated patterns.
var defaultRules = []Rule{
	{Pattern: "memory/**", Class: types.OperatorOwned},
	{Pattern: "decisions/**", Class: types.OperatorOwned},

	{Pattern: "ledger", Class: types.DistributorOnly},
	{Pattern: "hooks/**", Class: types.DistributorOnly},

	{Pattern: "agents/**", Class: types.RegeneratedOutput},
	{Pattern: "commands/**", Class: types.RegeneratedOutput},
	{Pattern: "standards/**", Class: types.RegeneratedOutput},
	{Pattern: "references/**", Class: types.RegeneratedOutput},
	{Pattern: "playbooks/**", Class: types.RegeneratedOutput},

	{Pattern: "config.yml", Class: types.OperatorCustomizable},
	{Pattern: "denylist.yml", Class: types.OperatorCustomizable},
	{Pattern: "editor/permissions.xml", Class: types.OperatorCustomizable},
}

// NewClassifier builds a classifier from the built-in rule table plus any
// extra customizable-allowlist patterns (from the release manifest or tool
// configuration). Extra patterns are appended after the built-in allowlist
// so they can widen it but never shadow the operator namespaces.
func NewClassifier(extraCustomizable ...string) (*Classifier, error) {
	rules := make([]Rule, 0, len(defaultRules)+len(extraCustomizable))
	rules = append(rules, defaultRules...)

	for _, pattern := range extraCustomizable {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Newf(errors.ErrInvalidInput, "invalid ownership pattern %q", pattern)
		}
		rules = append(rules, Rule{Pattern: pattern, Class: types.OperatorCustomizable})
	}

	return &Classifier{rules: rules}, nil
}

// MustClassifier is NewClassifier for the built-in table only, which is
// statically valid.
func MustClassifier() *Classifier {
	c, err := NewClassifier()
	if err != nil {
		panic(err)
	}
	return c
}

// Classify resolves one tree-relative path to its ownership class. Pure;
// never errors and never returns an empty class.
func (c *Classifier) Classify(relPath string) types.OwnershipClass {
	normalized := normalize(relPath)

	for _, rule := range c.rules {
		if matched, err := doublestar.Match(rule.Pattern, normalized); err == nil && matched {
			return rule.Class
		}
	}

	return types.DistributorOnly
}

// Rules returns a copy of the active rule table, for status display.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// normalize converts a path to the slash-separated, relative form the rule
// table is written against.
func normalize(relPath string) string {
	p := strings.ReplaceAll(relPath, "\\", "/")
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}
