// Package form turns entity fields into editable YAML documents and back.
//
// A document is a flat YAML mapping. Every key is preceded by a comment
// naming the field, whether it is required and which values it accepts.
// Decode coerces the edited values to the field kinds and validates them,
// collecting every failure rather than stopping at the first.
package form

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind is the value type of a field.
type Kind int

const (
	Text Kind = iota
	LongText
	Int
	Enum
	List
	Bool
)

// Field describes one key of a document.
type Field struct {
	Key      string
	Label    string
	Kind     Kind
	Required bool
	// Options restricts Enum values and List items. Empty allows anything.
	Options []string
	// Min and Max bound Int values. Max of 0 means no upper bound.
	Min int
	Max int
}

// Check validates relations between fields. It returns the offending key
// and a message, or two empty strings.
type Check func(values map[string]any) (key, msg string)

// Schema is the ordered field list of one entity form.
type Schema struct {
	Name   string
	Fields []Field
	Checks []Check
}

// Field returns the field with the given key.
func (s Schema) Field(key string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// ValidationError lists the fields that failed validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return strings.Join(parts, "; ")
}

// Encode writes values as a commented YAML document in schema order.
// Missing values are written as empty.
func Encode(s Schema, values map[string]any) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.DocumentNode}
	root := &yaml.Node{Kind: yaml.MappingNode}
	doc.Content = []*yaml.Node{root}
	if s.Name != "" {
		doc.HeadComment = s.Name + ". Save and quit to submit; leave the file unchanged to cancel."
	}

	for _, f := range s.Fields {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: f.Key, HeadComment: f.comment()}
		valueNode, err := valueNode(f, values[f.Key])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Key, err)
		}
		root.Content = append(root.Content, keyNode, valueNode)
	}

	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func (f Field) comment() string {
	label := f.Label
	if label == "" {
		label = f.Key
	}
	if f.Required {
		label += " (required)"
	}
	switch {
	case len(f.Options) > 0 && f.Kind == List:
		label += "\nAny of: " + strings.Join(f.Options, ", ")
	case len(f.Options) > 0:
		label += "\nOne of: " + strings.Join(f.Options, ", ")
	case f.Kind == Int && f.Max > 0:
		label += fmt.Sprintf("\nA number from %d to %d", f.Min, f.Max)
	case f.Kind == Int:
		label += fmt.Sprintf("\nA number, at least %d", f.Min)
	}
	return label
}

func valueNode(f Field, v any) (*yaml.Node, error) {
	switch f.Kind {
	case List:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, item := range toStrings(v) {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: item})
		}
		return seq, nil
	case Int:
		if v == nil {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: ""}, nil
		}
		n, err := toInt(v)
		if err != nil {
			return nil, err
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(n)}, nil
	case Bool:
		b, _ := v.(bool)
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}, nil
	}

	s := toString(v)
	node := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	if f.Kind == LongText && (s == "" || strings.Contains(s, "\n")) {
		node.Style = yaml.LiteralStyle
	}
	return node, nil
}

// Decode parses an edited document and returns the coerced values keyed
// by field. Validation failures are reported as a *ValidationError.
func Decode(s Schema, data []byte) (map[string]any, error) {
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}

	values := make(map[string]any, len(s.Fields))
	failed := map[string]string{}
	for key := range raw {
		if _, ok := s.Field(key); !ok {
			failed[key] = "not a field of this form"
		}
	}

	for _, f := range s.Fields {
		v, msg := coerce(f, raw[f.Key])
		if msg != "" {
			failed[f.Key] = msg
			continue
		}
		values[f.Key] = v
	}

	for _, check := range s.Checks {
		if key, msg := check(values); msg != "" {
			if _, ok := failed[key]; !ok {
				failed[key] = msg
			}
		}
	}

	if len(failed) > 0 {
		return nil, &ValidationError{Fields: failed}
	}
	return values, nil
}

func coerce(f Field, v any) (any, string) {
	switch f.Kind {
	case Int:
		if v == nil || toString(v) == "" {
			if f.Required {
				return nil, "is required"
			}
			return f.Min, ""
		}
		n, err := toInt(v)
		if err != nil {
			return nil, "must be a whole number"
		}
		if n < f.Min {
			return nil, fmt.Sprintf("must be at least %d", f.Min)
		}
		if f.Max > 0 && n > f.Max {
			return nil, fmt.Sprintf("must be at most %d", f.Max)
		}
		return n, ""

	case Bool:
		switch b := v.(type) {
		case nil:
			return false, ""
		case bool:
			return b, ""
		}
		return nil, "must be true or false"

	case List:
		items := toStrings(v)
		if f.Required && len(items) == 0 {
			return nil, "select at least one value"
		}
		for _, item := range items {
			if len(f.Options) > 0 && !slices.Contains(f.Options, item) {
				return nil, fmt.Sprintf("%q is not one of: %s", item, strings.Join(f.Options, ", "))
			}
		}
		return items, ""
	}

	s := strings.TrimSpace(toString(v))
	if f.Kind == LongText {
		s = strings.TrimRight(toString(v), "\n")
	}
	if strings.TrimSpace(s) == "" {
		if f.Required {
			return nil, "is required"
		}
		return "", ""
	}
	if f.Kind == Enum && len(f.Options) > 0 && !slices.Contains(f.Options, s) {
		return nil, "must be one of: " + strings.Join(f.Options, ", ")
	}
	return s, ""
}

func toString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	}
	return fmt.Sprint(v)
}

// toStrings accepts any slice or a comma-separated string.
func toStrings(v any) []string {
	var items []string
	switch v := v.(type) {
	case nil:
		return []string{}
	case []string:
		items = v
	case []any:
		for _, item := range v {
			items = append(items, toString(item))
		}
	default:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice {
			for i := 0; i < rv.Len(); i++ {
				items = append(items, toString(rv.Index(i).Interface()))
			}
		} else {
			items = strings.Split(toString(v), ",")
		}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" && !slices.Contains(out, item) {
			out = append(out, item)
		}
	}
	return out
}

func toInt(v any) (int, error) {
	switch v := v.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%v is not a whole number", v)
		}
		return int(v), nil
	}
	return strconv.Atoi(strings.TrimSpace(toString(v)))
}
