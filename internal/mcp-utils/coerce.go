package mcputils

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// ArgumentGetter is satisfied by mcp.CallToolRequest.
type ArgumentGetter interface {
	GetArguments() map[string]any
}

// CoerceBindArguments decodes tool arguments into target using its json tags.
// Clients frequently send every value as a string, so numbers, booleans and
// JSON-encoded arrays are accepted in string form too.
func CoerceBindArguments[T any](request ArgumentGetter, target *T) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringArgumentHook,
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		Result:  target,
		TagName: "json",
	})
	if err != nil {
		return fmt.Errorf("failed to create argument decoder: %w", err)
	}

	if err := decoder.Decode(request.GetArguments()); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// stringArgumentHook unwraps JSON carried inside string arguments. Strings
// that do not parse are passed through for the weak decoder to handle.
func stringArgumentHook(from, to reflect.Type, data any) (any, error) {
	raw, ok := data.(string)
	if !ok || from.Kind() != reflect.String {
		return data, nil
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || to == durationType {
		return data, nil
	}

	switch to.Kind() {
	case reflect.Slice:
		if !looksLike(trimmed, '[', ']') {
			return data, nil
		}
		out := reflect.New(to)
		if err := json.Unmarshal([]byte(trimmed), out.Interface()); err == nil {
			return out.Elem().Interface(), nil
		}

	case reflect.Map, reflect.Struct:
		if !looksLike(trimmed, '{', '}') {
			return data, nil
		}
		var out map[string]any
		if err := json.Unmarshal([]byte(trimmed), &out); err == nil {
			return out, nil
		}

	case reflect.Bool:
		switch trimmed {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		var n json.Number
		if err := json.Unmarshal([]byte(trimmed), &n); err == nil {
			return n, nil
		}
	}

	return data, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

func looksLike(s string, open, close byte) bool {
	return len(s) >= 2 && s[0] == open && s[len(s)-1] == close
}
