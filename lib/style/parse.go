// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package style

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// Parse strips JSONC comments and trailing commas from data, then
// reads the result into a Sheet. The root must be an object; rule
// order is preserved because it breaks specificity ties, which is why
// this walks the decoder instead of unmarshalling into a map.
func Parse(data []byte) (*Sheet, error) {
	stripped := jsonc.ToJSON(data)

	decoder := json.NewDecoder(bytes.NewReader(stripped))
	opening, err := decoder.Token()
	if err != nil {
		return nil, fmt.Errorf("style: parsing stylesheet: %w", err)
	}
	if delim, ok := opening.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("style: stylesheet root must be an object")
	}

	var rules []rule
	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("style: parsing stylesheet: %w", err)
		}
		raw, ok := keyToken.(string)
		if !ok {
			return nil, fmt.Errorf("style: unexpected token %v", keyToken)
		}
		sel, err := parseSelector(raw)
		if err != nil {
			return nil, err
		}

		var properties map[string]any
		if err := decoder.Decode(&properties); err != nil {
			return nil, fmt.Errorf("style: rule %q: %w", raw, err)
		}
		rules = append(rules, rule{selector: sel, properties: properties, order: len(rules)})
	}

	return &Sheet{rules: rules}, nil
}

// ReadFile reads and parses the JSONC stylesheet at path.
func ReadFile(path string) (*Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("style: reading %s: %w", path, err)
	}
	sheet, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sheet, nil
}
