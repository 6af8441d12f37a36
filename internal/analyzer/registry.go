package analyzer

// RuleRegistry holds the set of rules the analyzer evaluates
type RuleRegistry struct {
	rules []Rule
}

// redFlagRuleNames lists the rules whose violations signal that a function is
// fundamentally hard to test rather than merely inconvenient
var redFlagRuleNames = map[string]bool{
	"Constructor Side Effects":      true,
	"Global State Mutation":         true,
	"Non-Deterministic Time Usage":  true,
	"Mixed I/O and Logic":           true,
	"Exception-Driven Control Flow": true,
}

// NewRuleRegistry creates a registry populated with the default rule set
func NewRuleRegistry() *RuleRegistry {
	return &RuleRegistry{
		rules: []Rule{
			NewFileIORule(),
			NewTimeUsageRule(),
			NewRandomnessRule(),
			NewGlobalStateRule(),
			NewMixedIOLogicRule(),
			NewBranchExplosionRule(),
			NewExceptionControlFlowRule(),
			NewConstructorSideEffectsRule(),
			NewHiddenImportsRule(),
			NewParameterCountRule(),
			NewObservabilityRule(),
		},
	}
}

// NewRuleRegistryExcluding creates the default registry without the named rules
func NewRuleRegistryExcluding(excluded []string) *RuleRegistry {
	skip := make(map[string]bool, len(excluded))
	for _, name := range excluded {
		skip[name] = true
	}

	full := NewRuleRegistry()
	kept := make([]Rule, 0, len(full.rules))
	for _, rule := range full.rules {
		if !skip[rule.Name()] {
			kept = append(kept, rule)
		}
	}
	return &RuleRegistry{rules: kept}
}

// AllRules returns every registered rule in evaluation order
func (r *RuleRegistry) AllRules() []Rule {
	return r.rules
}

// RuleByName returns the registered rule with the given name, or nil
func (r *RuleRegistry) RuleByName(name string) Rule {
	for _, rule := range r.rules {
		if rule.Name() == name {
			return rule
		}
	}
	return nil
}

// RedFlagRules returns the registered rules whose violations are red flags
func (r *RuleRegistry) RedFlagRules() []Rule {
	var flagged []Rule
	for _, rule := range r.rules {
		if redFlagRuleNames[rule.Name()] {
			flagged = append(flagged, rule)
		}
	}
	return flagged
}
