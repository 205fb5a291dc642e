package core

import (
	"bytes"
	"fmt"

	"go.yaml.in/yaml/v3"

	"github.com/azhar-beg/backstage/internal/object"
)

// ManagedFieldsKey is the metadata attribute recording which manager
// last set each field of an object.
const ManagedFieldsKey = "managedFields"

// ToYAML renders v as a YAML document with two-space indentation.
// Mapping keys keep the order of v. When includeManagedFields is false
// every "managedFields" key is dropped, wherever it appears.
func ToYAML(v object.Value, includeManagedFields bool) (string, error) {
	node, err := toNode(v, includeManagedFields)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}
	return buf.String(), nil
}

func toNode(v object.Value, includeManagedFields bool) (*yaml.Node, error) {
	switch v.Kind() {
	case object.KindScalar:
		n := &yaml.Node{}
		if err := n.Encode(v.Scalar()); err != nil {
			return nil, fmt.Errorf("encode scalar %q: %w", v.String(), err)
		}
		return n, nil

	case object.KindSequence:
		items := v.Items()
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: make([]*yaml.Node, 0, len(items))}
		for _, item := range items {
			c, err := toNode(item, includeManagedFields)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, c)
		}
		return n, nil

	case object.KindMapping:
		fields := v.Fields()
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: make([]*yaml.Node, 0, 2*len(fields))}
		for _, f := range fields {
			if !includeManagedFields && f.Key == ManagedFieldsKey {
				continue
			}
			k := &yaml.Node{}
			if err := k.Encode(f.Key); err != nil {
				return nil, fmt.Errorf("encode key %q: %w", f.Key, err)
			}
			c, err := toNode(f.Value, includeManagedFields)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.Key, err)
			}
			n.Content = append(n.Content, k, c)
		}
		return n, nil

	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
}
