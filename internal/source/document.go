package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Errors returned while reading a settings document.
var (
	ErrDocumentRead  = errors.New("failed to read settings document")
	ErrDocumentParse = errors.New("failed to parse settings document")
	ErrNestedValue   = errors.New("nested values are not supported in a flat settings section")
)

// Document is a YAML settings document with two flat sections:
//
//	app_settings:
//	  Port: 8080
//	  Hosts: [a, b, c]
//	connection_strings:
//	  Orders: postgres://app@db/orders
//
// Keys keep their case. Scalars keep their YAML source text, so 1234.56 is
// stored as "1234.56" and 010 as "010". Sequences of scalars are joined with
// ListSeparator. Null values are present but empty.
type Document struct {
	AppSettings       Map
	ConnectionStrings Map
}

type documentFile struct {
	AppSettings       map[string]yaml.Node `yaml:"app_settings"`
	ConnectionStrings map[string]yaml.Node `yaml:"connection_strings"`
}

// LoadDocument reads and parses the settings document at path.
func LoadDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrDocumentRead, path, err)
	}
	defer func() { _ = f.Close() }()

	doc, err := ReadDocument(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ReadDocument parses a settings document from r. An empty document yields
// two empty sections.
func ReadDocument(r io.Reader) (*Document, error) {
	var file documentFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrDocumentParse, err)
	}

	app, err := flatten("app_settings", file.AppSettings)
	if err != nil {
		return nil, err
	}
	conns, err := flatten("connection_strings", file.ConnectionStrings)
	if err != nil {
		return nil, err
	}
	return &Document{AppSettings: app, ConnectionStrings: conns}, nil
}

// flatten renders every entry of a section to its raw string form. Errors
// name the offending section, key and source line so a broken document can
// be fixed without guessing which entry was rejected.
func flatten(section string, nodes map[string]yaml.Node) (Map, error) {
	out := make(Map, len(nodes))
	for key, node := range nodes {
		v, err := scalarText(&node)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s at line %d", err, section, key, node.Line)
		}
		out[key] = v
	}
	return out, nil
}

// scalarText returns the text of a scalar node as written in the document.
//
// node.Value is used rather than decoding into a Go value, so YAML's own
// typing never reinterprets a setting: 010 stays "010" instead of becoming 8,
// and 1234.56 is not round-tripped through float64. A sequence of scalars is
// joined with ListSeparator to match the list syntax SplitAndGet expects.
// Mappings, and sequences containing anything but scalars, are rejected.
func scalarText(node *yaml.Node) (string, error) {
	// Anchored values (&a / *a) resolve to the anchor's node.
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}

	switch node.Kind {
	case yaml.ScalarNode:
		// "~", "null" and an empty value are all tagged !!null.
		if node.ShortTag() == "!!null" {
			return "", nil
		}
		return node.Value, nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			v, err := scalarText(item)
			if err != nil {
				return "", err
			}
			if item.Kind != yaml.ScalarNode && item.Kind != yaml.AliasNode {
				return "", ErrNestedValue
			}
			items = append(items, v)
		}
		return strings.Join(items, ListSeparator), nil
	default:
		return "", ErrNestedValue
	}
}
