// internal/assessment/rules/rule.go
package rules

// Operator is a leaf comparison.
type Operator string

const (
	OpEq         Operator = "eq"
	OpNe         Operator = "ne"
	OpGt         Operator = "gt"
	OpGte        Operator = "gte"
	OpLt         Operator = "lt"
	OpLte        Operator = "lte"
	OpIn         Operator = "in"
	OpNotIn      Operator = "not_in"
	OpContains   Operator = "contains"
	OpStartsWith Operator = "starts_with"
	OpEndsWith   Operator = "ends_with"
)

var knownOperators = map[Operator]bool{
	OpEq: true, OpNe: true, OpGt: true, OpGte: true, OpLt: true, OpLte: true,
	OpIn: true, OpNotIn: true, OpContains: true, OpStartsWith: true, OpEndsWith: true,
}

func (o Operator) Known() bool { return knownOperators[o] }

// Logical group keys.
const (
	KeyAnd = "and"
	KeyOr  = "or"
	KeyNot = "not"
)

// Rule is a predicate over a profile context: All, Any, Not or Condition.
type Rule interface {
	isRule()
}

// All holds when every sub-rule holds. An empty All holds.
type All struct {
	Rules []Rule
}

// Any holds when at least one sub-rule holds. An empty Any does not.
type Any struct {
	Rules []Rule
}

type Not struct {
	Rule Rule
}

// Condition compares one context field against an expected value.
type Condition struct {
	Field string
	Op    Operator
	Value interface{}
}

func (All) isRule()       {}
func (Any) isRule()       {}
func (Not) isRule()       {}
func (Condition) isRule() {}

// Context is the flattened profile a rule is evaluated against.
type Context map[string]interface{}

// Evaluate reports whether rule holds for ctx. A nil rule holds.
func Evaluate(rule Rule, ctx Context) bool {
	switch r := rule.(type) {
	case nil:
		return true
	case All:
		for _, sub := range r.Rules {
			if !Evaluate(sub, ctx) {
				return false
			}
		}
		return true
	case Any:
		for _, sub := range r.Rules {
			if Evaluate(sub, ctx) {
				return true
			}
		}
		return false
	case Not:
		return !Evaluate(r.Rule, ctx)
	case Condition:
		actual, ok := ctx[r.Field]
		if !ok || actual == nil {
			return false
		}
		return apply(r.Op, actual, r.Value)
	default:
		return false
	}
}
