package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// NormalizeResult renders a remote tool result as text. Strings pass through
// unchanged, structured values become indented JSON and other scalars are
// formatted with fmt.
func NormalizeResult(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case json.RawMessage:
		if len(x) == 0 {
			return "", nil
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, x, "", "  "); err != nil {
			return string(x), nil
		}
		return buf.String(), nil
	case []byte:
		return string(x), nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return encodeJSON(v)
	default:
		return fmt.Sprint(rv.Interface()), nil
	}
}

func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
