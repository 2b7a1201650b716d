package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

// canonicalSchema is the built-in FIR schema template. Every leaf path a
// record can hold is present, with null values. Instances are always
// created as deep copies of this template, so every schema path exists in
// a fresh instance.
//
//go:embed schema.json
var canonicalSchema []byte

// Template returns a fresh deep copy of the built-in FIR schema template.
func Template() Tree {
	tree, err := parseTemplate(canonicalSchema)
	if err != nil {
		// The embedded template is validated by tests; a parse failure
		// here means a broken build, not a runtime condition.
		panic(fmt.Sprintf("embedded schema template: %v", err))
	}
	return tree
}

// LoadTemplate reads a schema template from an external JSON file. Used
// when a deployment overrides the built-in field tree.
func LoadTemplate(path string) (Tree, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema template %s: %w", path, err)
	}
	tree, err := parseTemplate(b)
	if err != nil {
		return nil, fmt.Errorf("parsing schema template %s: %w", path, err)
	}
	return tree, nil
}

func parseTemplate(b []byte) (Tree, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	var tree Tree
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, fmt.Errorf("template is not a JSON object")
	}
	return tree, nil
}

// TemplateJSON returns the template as pretty-printed JSON, for inclusion
// in extraction prompts.
func TemplateJSON(tree Tree) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tree); err != nil {
		return "{}"
	}
	return string(bytes.TrimSpace(buf.Bytes()))
}
