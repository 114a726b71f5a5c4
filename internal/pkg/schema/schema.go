// Package schema provides declarative validation contracts for API input.
// A schema is a tree of typed nodes interpreted by a single recursive
// validator: values sourced from query strings are coerced (e.g. "25" -> 25),
// declared defaults are filled in for absent fields, and every violation is
// reported with a dotted/indexed path (e.g. articles[0].title).
package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind is the primitive type of a schema node.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindInt
	KindBool
	KindObject
	KindArray
)

// FieldError locates a single violation inside the validated value.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// FieldErrors is ordered by field declaration order; non-empty iff
// validation failed.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "valid"
	}
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Path + " " + fe.Message
	}
	return strings.Join(parts, "; ")
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type field struct {
	name string
	node *Node
}

// Node is one schema tree node. Nodes are built once at process start
// through the builder methods and are immutable afterwards.
type Node struct {
	kind       Kind
	required   bool
	def        interface{}
	hasDefault bool

	// string constraints
	minLen     *int
	maxLen     *int
	pattern    *regexp.Regexp
	patternMsg string
	enum       []string
	email      bool
	datetime   bool

	// numeric constraints
	minNum   *float64
	maxNum   *float64
	positive bool

	// object / array
	fields   []field
	elem     *Node
	minItems *int
}

// String declares a string field.
func String() *Node { return &Node{kind: KindString} }

// Number declares a numeric field. String input is coerced.
func Number() *Node { return &Node{kind: KindNumber} }

// Int declares an integer field. String input is coerced.
func Int() *Node { return &Node{kind: KindInt} }

// Bool declares a boolean field. "true"/"false" strings are coerced.
func Bool() *Node { return &Node{kind: KindBool} }

// Enum declares a string field restricted to the given values.
func Enum(values ...string) *Node { return &Node{kind: KindString, enum: values} }

// Object declares an object with ordered fields. Unknown input keys are
// ignored (non-strict).
func Object(fields ...ObjectField) *Node {
	n := &Node{kind: KindObject}
	for _, f := range fields {
		n.fields = append(n.fields, field{name: f.Name, node: f.Node})
	}
	return n
}

// Array declares an array whose elements all validate against elem.
func Array(elem *Node) *Node { return &Node{kind: KindArray, elem: elem} }

// ObjectField pairs a field name with its schema node.
type ObjectField struct {
	Name string
	Node *Node
}

// Field is the declaration helper for Object.
func Field(name string, node *Node) ObjectField { return ObjectField{Name: name, Node: node} }

// Required marks the field mandatory.
func (n *Node) Required() *Node { n.required = true; return n }

// Default sets the value used when the field is absent.
func (n *Node) Default(v interface{}) *Node { n.def = v; n.hasDefault = true; return n }

// MinLen sets the minimum string length in characters.
func (n *Node) MinLen(min int) *Node { n.minLen = &min; return n }

// MaxLen sets the maximum string length in characters.
func (n *Node) MaxLen(max int) *Node { n.maxLen = &max; return n }

// Min sets the minimum numeric value (inclusive).
func (n *Node) Min(min float64) *Node { n.minNum = &min; return n }

// Max sets the maximum numeric value (inclusive).
func (n *Node) Max(max float64) *Node { n.maxNum = &max; return n }

// Positive requires the value to be strictly greater than zero.
func (n *Node) Positive() *Node { n.positive = true; return n }

// Pattern constrains the string to the regexp; msg is the reported message.
func (n *Node) Pattern(re *regexp.Regexp, msg string) *Node {
	n.pattern = re
	n.patternMsg = msg
	return n
}

// Email requires a structurally valid email address.
func (n *Node) Email() *Node { n.email = true; return n }

// Datetime requires an RFC 3339 / ISO 8601 datetime string.
func (n *Node) Datetime() *Node { n.datetime = true; return n }

// MinItems sets the minimum array length.
func (n *Node) MinItems(min int) *Node { n.minItems = &min; return n }

// NonEmpty is MinItems(1).
func (n *Node) NonEmpty() *Node { return n.MinItems(1) }

// Validate applies the schema to raw input. On success it returns the
// normalized value (defaults filled in, coercions applied) and a nil error
// list; on failure it returns every violation found, in declaration order.
// Validate is a pure function over its input.
func (n *Node) Validate(raw interface{}) (interface{}, FieldErrors) {
	var errs FieldErrors
	out := validateNode(n, raw, "", &errs)
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

func validateNode(n *Node, raw interface{}, path string, errs *FieldErrors) interface{} {
	switch n.kind {
	case KindObject:
		return validateObject(n, raw, path, errs)
	case KindArray:
		return validateArray(n, raw, path, errs)
	case KindString:
		return validateString(n, raw, path, errs)
	case KindNumber:
		return validateNumber(n, raw, path, errs, false)
	case KindInt:
		return validateNumber(n, raw, path, errs, true)
	case KindBool:
		return validateBool(n, raw, path, errs)
	}
	return raw
}

func validateObject(n *Node, raw interface{}, path string, errs *FieldErrors) interface{} {
	m, ok := raw.(map[string]interface{})
	if !ok {
		addError(errs, path, "must be an object")
		return nil
	}
	out := make(map[string]interface{}, len(n.fields))
	for _, f := range n.fields {
		childPath := joinPath(path, f.name)
		v, present := m[f.name]
		if !present || v == nil {
			if f.node.hasDefault {
				out[f.name] = f.node.def
				continue
			}
			if f.node.required {
				addError(errs, childPath, "is required")
			}
			continue
		}
		out[f.name] = validateNode(f.node, v, childPath, errs)
	}
	return out
}

func validateArray(n *Node, raw interface{}, path string, errs *FieldErrors) interface{} {
	items, ok := raw.([]interface{})
	if !ok {
		addError(errs, path, "must be an array")
		return nil
	}
	if n.minItems != nil && len(items) < *n.minItems {
		if *n.minItems == 1 {
			addError(errs, path, "must be a non-empty array")
		} else {
			addError(errs, path, fmt.Sprintf("must contain at least %d items", *n.minItems))
		}
		return items
	}
	out := make([]interface{}, len(items))
	for i, item := range items {
		out[i] = validateNode(n.elem, item, fmt.Sprintf("%s[%d]", path, i), errs)
	}
	return out
}

func validateString(n *Node, raw interface{}, path string, errs *FieldErrors) interface{} {
	s, ok := raw.(string)
	if !ok {
		addError(errs, path, "must be a string")
		return raw
	}
	if len(n.enum) > 0 {
		for _, v := range n.enum {
			if s == v {
				return s
			}
		}
		addError(errs, path, "must be one of: "+strings.Join(n.enum, ", "))
		return s
	}
	if n.minLen != nil && len(s) < *n.minLen {
		addError(errs, path, fmt.Sprintf("must be at least %d characters", *n.minLen))
		return s
	}
	if n.maxLen != nil && len(s) > *n.maxLen {
		addError(errs, path, fmt.Sprintf("must be at most %d characters", *n.maxLen))
		return s
	}
	if n.email && !emailRe.MatchString(s) {
		addError(errs, path, "must be a valid email address")
		return s
	}
	if n.datetime {
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			addError(errs, path, "must be a valid ISO 8601 datetime")
			return s
		}
	}
	if n.pattern != nil && !n.pattern.MatchString(s) {
		msg := n.patternMsg
		if msg == "" {
			msg = "has an invalid format"
		}
		addError(errs, path, msg)
	}
	return s
}

// validateNumber accepts native numbers and coerces numeric strings so the
// same schema serves JSON bodies and query parameters. Coercion is
// idempotent: re-validating an already-coerced value yields the same result.
func validateNumber(n *Node, raw interface{}, path string, errs *FieldErrors, integral bool) interface{} {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			if integral {
				addError(errs, path, "must be an integer")
			} else {
				addError(errs, path, "must be a number")
			}
			return raw
		}
		f = parsed
	default:
		if integral {
			addError(errs, path, "must be an integer")
		} else {
			addError(errs, path, "must be a number")
		}
		return raw
	}
	if integral {
		if f != float64(int64(f)) {
			addError(errs, path, "must be an integer")
			return raw
		}
	}
	if n.positive && f <= 0 {
		addError(errs, path, "must be a positive number")
		return raw
	}
	if n.minNum != nil && f < *n.minNum {
		addError(errs, path, fmt.Sprintf("must be at least %s", trimFloat(*n.minNum)))
		return raw
	}
	if n.maxNum != nil && f > *n.maxNum {
		addError(errs, path, fmt.Sprintf("must be at most %s", trimFloat(*n.maxNum)))
		return raw
	}
	if integral {
		return int(f)
	}
	return f
}

func validateBool(n *Node, raw interface{}, path string, errs *FieldErrors) interface{} {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		if v == "true" {
			return true
		}
		if v == "false" {
			return false
		}
	}
	addError(errs, path, "must be a boolean")
	return raw
}

func addError(errs *FieldErrors, path, msg string) {
	if path == "" {
		path = "value"
	}
	*errs = append(*errs, FieldError{Path: path, Message: msg})
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
