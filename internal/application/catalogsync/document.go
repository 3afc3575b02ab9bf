package catalogsync

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// CatalogDocument is the wire format for supplier catalog exchange.
// Categories carry document-local numeric ids that goods entries
// reference; they have no meaning outside one document.
type CatalogDocument struct {
	Shop       string          `yaml:"shop"`
	Categories []CategoryEntry `yaml:"categories"`
	Goods      []GoodsEntry    `yaml:"goods"`
}

// CategoryEntry is a category inside a catalog document
type CategoryEntry struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
}

// GoodsEntry is a single product inside a catalog document
type GoodsEntry struct {
	ID         FlexibleID     `yaml:"id,omitempty"`
	Name       string         `yaml:"name"`
	Price      *float64       `yaml:"price,omitempty"`
	Category   *int           `yaml:"category,omitempty"`
	Quantity   int            `yaml:"quantity"`
	Parameters map[string]any `yaml:"parameters,omitempty"`
}

// FlexibleID accepts both numeric and string scalars for goods ids
type FlexibleID string

// UnmarshalYAML implements yaml.Unmarshaler
func (f *FlexibleID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("goods id must be a scalar, got %s", node.Tag)
	}
	*f = FlexibleID(node.Value)
	return nil
}

// String returns the id as a string
func (f FlexibleID) String() string {
	return string(f)
}

// ParseDocument decodes a catalog document, rejecting unknown fields.
// A document that does not match the schema is a hard error, never a
// silent skip.
func ParseDocument(data []byte) (*CatalogDocument, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc CatalogDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid catalog document: %w", err)
	}
	return &doc, nil
}

// Marshal encodes the document as YAML
func (d *CatalogDocument) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog document: %w", err)
	}
	return out, nil
}

// CategoryName resolves a goods entry's category reference to a name.
// The second return value is false when the reference points nowhere.
func (d *CatalogDocument) CategoryName(ref int) (string, bool) {
	for _, c := range d.Categories {
		if c.ID == ref {
			return c.Name, true
		}
	}
	return "", false
}
