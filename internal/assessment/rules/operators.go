package rules

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

func apply(op Operator, actual, expected interface{}) bool {
	switch op {
	case OpEq:
		return equal(actual, expected)
	case OpNe:
		return !equal(actual, expected)
	case OpGt:
		c, ok := compare(actual, expected)
		return ok && c > 0
	case OpGte:
		c, ok := compare(actual, expected)
		return ok && c >= 0
	case OpLt:
		c, ok := compare(actual, expected)
		return ok && c < 0
	case OpLte:
		c, ok := compare(actual, expected)
		return ok && c <= 0
	case OpIn:
		list, ok := expected.([]interface{})
		if !ok {
			return false
		}
		return member(actual, list)
	case OpNotIn:
		list, ok := expected.([]interface{})
		if !ok {
			return true
		}
		return !member(actual, list)
	case OpContains:
		if items, ok := actual.([]interface{}); ok {
			return member(expected, items)
		}
		return strings.Contains(stringify(actual), stringify(expected))
	case OpStartsWith:
		return strings.HasPrefix(stringify(actual), stringify(expected))
	case OpEndsWith:
		return strings.HasSuffix(stringify(actual), stringify(expected))
	default:
		return false
	}
}

func member(v interface{}, list []interface{}) bool {
	for _, item := range list {
		if equal(v, item) {
			return true
		}
	}
	return false
}

func equal(a, b interface{}) bool {
	if fa, ok := number(a); ok {
		if fb, ok := number(b); ok {
			return fa == fb
		}
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		return false
	}
}

// compare orders two numbers, or two strings lexically. Mixed types do not
// compare.
func compare(a, b interface{}) (int, bool) {
	if fa, ok := number(a); ok {
		if fb, ok := number(b); ok {
			switch {
			case fa < fb:
				return -1, true
			case fa > fb:
				return 1, true
			default:
				return 0, true
			}
		}
		return 0, false
	}
	sa, ok := a.(string)
	if !ok {
		return 0, false
	}
	sb, ok := b.(string)
	if !ok {
		return 0, false
	}
	return strings.Compare(sa, sb), true
}

// number converts numeric values, including numeric strings, to float64.
func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func stringify(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
