package export

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLExporter renders datasets as a YAML document with rows in header order.
type YAMLExporter struct{}

// NewYAMLExporter constructs a YAML exporter.
func NewYAMLExporter() *YAMLExporter {
	return &YAMLExporter{}
}

// Extension implements Renderer.
func (e *YAMLExporter) Extension() string { return FormatYAML }

// Render builds the document through yaml.Node so keys keep the header order.
func (e *YAMLExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("yaml requires at least one header")
	}
	rows := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range data.Rows {
		item := &yaml.Node{Kind: yaml.MappingNode}
		for _, header := range data.Headers {
			item.Content = append(item.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: header},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: row[header]},
			)
		}
		rows.Content = append(rows.Content, item)
	}

	doc := &yaml.Node{Kind: yaml.MappingNode}
	if data.Title != "" {
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: "title"},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: data.Title},
		)
	}
	doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: "rows"}, rows)

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("render yaml: %w", err)
	}
	return out, nil
}
