package httpclient

import (
	"net/url"
	"testing"
)

func TestEncodeFormNested(t *testing.T) {
	body, err := encodeForm(map[string]any{
		"user": map[string]any{"name": "ann", "admin": true},
		"tags": []any{"a", "b"},
		"skip": nil,
		"n":    1.5,
	})
	if err != nil {
		t.Fatalf("encodeForm: %v", err)
	}
	want := url.Values{
		"n":           {"1.5"},
		"tags[0]":     {"a"},
		"tags[1]":     {"b"},
		"user[admin]": {"1"},
		"user[name]":  {"ann"},
	}.Encode()
	if string(body) != want {
		t.Fatalf("body = %q, want %q", body, want)
	}
}

func TestEncodeFormTypedNestedValues(t *testing.T) {
	type point struct {
		X int `json:"x"`
	}
	body, err := encodeForm(map[string]any{
		"ids":    []int{1, 2},
		"m":      map[string]int{"a": 1},
		"ratios": []float64{0.5},
		"pt":     point{X: 3},
		"big":    []int64{9007199254740993},
	})
	if err != nil {
		t.Fatalf("encodeForm: %v", err)
	}
	want := url.Values{
		"big[0]":    {"9007199254740993"},
		"ids[0]":    {"1"},
		"ids[1]":    {"2"},
		"m[a]":      {"1"},
		"pt[x]":     {"3"},
		"ratios[0]": {"0.5"},
	}.Encode()
	if string(body) != want {
		t.Fatalf("body = %q, want %q", body, want)
	}
}

func TestEncodeFormStruct(t *testing.T) {
	type payload struct {
		A string `json:"a"`
		B int    `json:"b"`
	}
	body, err := encodeForm(payload{A: "x y", B: 2})
	if err != nil {
		t.Fatalf("encodeForm: %v", err)
	}
	if string(body) != "a=x+y&b=2" {
		t.Fatalf("body = %q", body)
	}
}

func TestEncodeFormRejectsScalars(t *testing.T) {
	if _, err := encodeForm(42); err == nil {
		t.Fatalf("expected error for scalar form body")
	}
}

func TestEncodeJSONNilIsEmptyObject(t *testing.T) {
	body, err := encodeJSON(nil)
	if err != nil || string(body) != "{}" {
		t.Fatalf("encodeJSON(nil) = %q, %v", body, err)
	}
}

func TestFormFieldsRejectsNested(t *testing.T) {
	if _, err := formFields(map[string]any{"a": map[string]any{"b": "c"}}); err == nil {
		t.Fatalf("expected error for nested multipart field")
	}
	if _, err := formFields("raw"); err == nil {
		t.Fatalf("expected error for non-map multipart body")
	}
}

func TestMediaType(t *testing.T) {
	cases := map[string]string{
		"application/json":                 "application/json",
		"Application/JSON; charset=utf-8":  "application/json",
		"multipart/form-data; boundary=xx": "multipart/form-data",
		"":                                 "",
	}
	for in, want := range cases {
		if got := mediaType(in); got != want {
			t.Fatalf("mediaType(%q) = %q, want %q", in, got, want)
		}
	}
}
