package registry

import (
	"encoding/json"
	"testing"
)

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func TestNormalizeResult(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "nil", in: nil, want: ""},
		{name: "string", in: "plain text", want: "plain text"},
		{name: "bytes", in: []byte("raw"), want: "raw"},
		{name: "int", in: 5, want: "5"},
		{name: "float", in: 2.5, want: "2.5"},
		{name: "bool", in: true, want: "true"},
		{name: "map", in: map[string]any{"b": 1, "a": "x"}, want: "{\n  \"a\": \"x\",\n  \"b\": 1\n}"},
		{name: "slice", in: []any{1, "two"}, want: "[\n  1,\n  \"two\"\n]"},
		{name: "struct", in: point{X: 1, Y: 2}, want: "{\n  \"x\": 1,\n  \"y\": 2\n}"},
		{name: "struct pointer", in: &point{X: 3}, want: "{\n  \"x\": 3,\n  \"y\": 0\n}"},
		{name: "nil pointer", in: (*point)(nil), want: ""},
		{name: "int pointer", in: func() *int { v := 7; return &v }(), want: "7"},
		{name: "raw json", in: json.RawMessage(`{"a":[1,2]}`), want: "{\n  \"a\": [\n    1,\n    2\n  ]\n}"},
		{name: "invalid raw json", in: json.RawMessage(`not json`), want: "not json"},
		{name: "unicode", in: map[string]any{"city": "北京 & <Paris>"}, want: "{\n  \"city\": \"北京 & <Paris>\"\n}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeResult(tt.in)
			if err != nil {
				t.Fatalf("NormalizeResult failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("NormalizeResult = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeResult_Unencodable(t *testing.T) {
	if _, err := NormalizeResult(map[string]any{"ch": make(chan int)}); err == nil {
		t.Error("expected an error for a value JSON cannot encode")
	}
}
