package classhash

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// decodeOrdered parses raw JSON preserving the authored key order of every
// object. Objects decode to *orderedmap.OrderedMap[string, any], arrays to
// []any, and numbers to json.Number so their source text survives untouched.
func decodeOrdered(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	value, err := decodeOrderedValue(dec)
	if err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected trailing data after JSON value")
	}
	return value, nil
}

func decodeOrderedValue(dec *json.Decoder) (any, error) {
	token, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := token.(json.Delim)
	if !ok {
		// string, json.Number, bool or nil
		return token, nil
	}

	switch delim {
	case '{':
		object := orderedmap.New[string, any]()
		for dec.More() {
			keyToken, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyToken.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key token %v", keyToken)
			}
			value, err := decodeOrderedValue(dec)
			if err != nil {
				return nil, err
			}
			object.Set(key, value)
		}
		if _, err := dec.Token(); err != nil { // consume '}'
			return nil, err
		}
		return object, nil
	case '[':
		array := []any{}
		for dec.More() {
			value, err := decodeOrderedValue(dec)
			if err != nil {
				return nil, err
			}
			array = append(array, value)
		}
		if _, err := dec.Token(); err != nil { // consume ']'
			return nil, err
		}
		return array, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}

// nullSkipReplacer is a custom JSON replacer that handles specific keys and null values
func nullSkipReplacer(key string, value any) any {
	switch key {
	case "attributes", "accessible_scopes":
		if arr, ok := value.([]any); ok && len(arr) == 0 {
			return nil
		}
	case "debug_info":
		return nil
	}

	return value
}

func identifiersNullSkipReplacer(key string, value any) any {
	switch key {
	case "cairo_type":
		if str, ok := value.(string); ok {
			return strings.Replace(str, ": ", " : ", -1)
		}
	case "attributes", "accessible_scopes":
		if arr, ok := value.([]any); ok && len(arr) == 0 {
			return nil
		}
	case "debug_info":
		return nil
	}

	return value
}

// applyReplacer recursively applies the replacer function to the JSON data.
// Keys whose replaced value is nil are dropped, except debug_info which must
// stay in the output as an explicit null.
func applyReplacer(data any, replacer func(string, any) any) any {
	switch v := data.(type) {
	case *orderedmap.OrderedMap[string, any]:
		for pair := v.Oldest(); pair != nil; {
			next := pair.Next()
			val := applyReplacer(replacer(pair.Key, pair.Value), replacer)
			if val == nil && pair.Key != "debug_info" {
				v.Delete(pair.Key)
			} else {
				v.Set(pair.Key, val)
			}
			pair = next
		}
		return v
	case map[string]any:
		for key, val := range v {
			v[key] = applyReplacer(replacer(key, val), replacer)
			if v[key] == nil && key != "debug_info" {
				delete(v, key)
			}
		}
		return v
	case []any:
		for i, val := range v {
			v[i] = applyReplacer(replacer("", val), replacer)
		}
		return v
	default:
		return replacer("", v)
	}
}

// stringify converts raw JSON to its canonical compact form, applying the
// replacer function to every key along the way.
func stringify(raw json.RawMessage, replacer func(string, any) any) (string, error) {
	data, err := decodeOrdered(raw)
	if err != nil {
		return "", err
	}

	modified := applyReplacer(data, replacer)

	canonical, err := encodeCanonical(modified)
	if err != nil {
		return "", err
	}
	return string(canonical), nil
}

// encodeCanonical serialises decoded JSON back to compact text, emitting
// object keys in their stored order and numbers as their original literals.
func encodeCanonical(value any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, value any) error {
	switch v := value.(type) {
	case *orderedmap.OrderedMap[string, any]:
		buf.WriteByte('{')
		for pair := v.Oldest(); pair != nil; pair = pair.Next() {
			if pair != v.Oldest() {
				buf.WriteByte(',')
			}
			if err := writeCanonicalString(buf, pair.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeCanonical(buf, pair.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, key := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonicalString(buf, key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeCanonical(buf, v[key]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case []any:
		buf.WriteByte('[')
		for i, elem := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case []string:
		buf.WriteByte('[')
		for i, elem := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonicalString(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case json.Number:
		buf.WriteString(v.String())
		return nil
	case string:
		return writeCanonicalString(buf, v)
	case bool:
		if v {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case nil:
		buf.WriteString("null")
		return nil
	default:
		return marshalCompact(buf, v)
	}
}

// writeCanonicalString escapes the way Python's json module does: no HTML
// escaping, so <, > and & appear verbatim.
func writeCanonicalString(buf *bytes.Buffer, s string) error {
	return marshalCompact(buf, s)
}

func marshalCompact(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates the value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
