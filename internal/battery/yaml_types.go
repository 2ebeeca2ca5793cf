package battery

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// StringOrArray is a list that may be written as a single string.
type StringOrArray []string

// UnmarshalYAML implements custom YAML unmarshaling for StringOrArray.
// Accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string
		if err := node.Decode(&str); err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string
		if err := node.Decode(&arr); err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("line %d: expected string or array", node.Line)
	}
}

// MarshalYAML outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// UnmarshalYAML reads a mapping of probe name to true, false or null,
// keeping the order the keys appear in.
func (e *Expectations) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expect must be a mapping of probe name to true/false", node.Line)
	}

	out := make(Expectations, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]

		var name string
		if err := key.Decode(&name); err != nil {
			return err
		}

		exp := Expectation{Probe: name}
		if val.ShortTag() != "!!null" {
			var want bool
			if err := val.Decode(&want); err != nil {
				return fmt.Errorf("line %d: expectation for %s must be true, false or null", val.Line, name)
			}
			exp.Want = &want
		}

		out = append(out, exp)
	}

	*e = out
	return nil
}

// MarshalYAML writes the expectations back as an ordered mapping.
func (e Expectations) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, exp := range e {
		val := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "~"}
		if exp.Want != nil {
			val = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprint(*exp.Want)}
		}

		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: exp.Probe},
			val,
		)
	}

	return node, nil
}
