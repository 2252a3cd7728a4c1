package rules

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ParseError describes a structurally malformed rule.
type ParseError struct {
	Path   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return "invalid rule: " + e.Reason
	}
	return fmt.Sprintf("invalid rule at %s: %s", e.Path, e.Reason)
}

// ParseJSON decodes and parses a JSON rule document. Empty input and JSON
// null yield a nil rule, which always holds.
func ParseJSON(data []byte) (Rule, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}
	return Parse(raw)
}

// Parse builds a Rule from a decoded JSON value. Unknown operators are kept
// and evaluate to false.
func Parse(raw interface{}) (Rule, error) {
	if raw == nil {
		return nil, nil
	}
	return parseNode(raw, "$")
}

func parseNode(raw interface{}, path string) (Rule, error) {
	node, ok := raw.(map[string]interface{})
	if !ok {
		return nil, &ParseError{Path: path, Reason: fmt.Sprintf("expected object, got %T", raw)}
	}

	if v, ok := node[KeyAnd]; ok {
		subs, err := parseList(v, path+"."+KeyAnd)
		if err != nil {
			return nil, err
		}
		return All{Rules: subs}, nil
	}
	if v, ok := node[KeyOr]; ok {
		subs, err := parseList(v, path+"."+KeyOr)
		if err != nil {
			return nil, err
		}
		return Any{Rules: subs}, nil
	}
	if v, ok := node[KeyNot]; ok {
		sub, err := parseNode(v, path+"."+KeyNot)
		if err != nil {
			return nil, err
		}
		return Not{Rule: sub}, nil
	}

	fields := make([]string, 0, len(node))
	for f := range node {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	conds := make([]Rule, 0, len(fields))
	for _, field := range fields {
		fieldConds, err := parseField(field, node[field], path+"."+field)
		if err != nil {
			return nil, err
		}
		conds = append(conds, fieldConds...)
	}
	if len(conds) == 1 {
		return conds[0], nil
	}
	return All{Rules: conds}, nil
}

func parseList(raw interface{}, path string) ([]Rule, error) {
	items, ok := raw.([]interface{})
	if !ok {
		return nil, &ParseError{Path: path, Reason: "expected a list"}
	}
	out := make([]Rule, 0, len(items))
	for i, item := range items {
		r, err := parseNode(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func parseField(field string, raw interface{}, path string) ([]Rule, error) {
	switch v := raw.(type) {
	case map[string]interface{}:
		ops := make([]string, 0, len(v))
		for op := range v {
			ops = append(ops, op)
		}
		sort.Strings(ops)
		out := make([]Rule, 0, len(ops))
		for _, op := range ops {
			out = append(out, Condition{Field: field, Op: Operator(op), Value: v[op]})
		}
		return out, nil
	case string, bool, float64, json.Number:
		return []Rule{Condition{Field: field, Op: OpEq, Value: v}}, nil
	default:
		return nil, &ParseError{Path: path, Reason: fmt.Sprintf("unsupported condition of type %T", raw)}
	}
}

// Matches parses and evaluates raw, failing closed on malformed rules.
func Matches(raw interface{}, ctx Context) bool {
	r, err := Parse(raw)
	if err != nil {
		return false
	}
	return Evaluate(r, ctx)
}
