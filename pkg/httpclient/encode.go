package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

const (
	mimeJSON      = "application/json"
	mimeMultipart = "multipart/form-data"
	mimeForm      = "application/x-www-form-urlencoded"
)

// mediaType returns the lower-cased media type of a Content-Type value without parameters.
func mediaType(contentType string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

func encodeJSON(data any) ([]byte, error) {
	if data == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(data)
}

// encodeForm builds an application/x-www-form-urlencoded body. Nested maps
// become a[b]=c and slices a[0]=x; keys are sorted.
func encodeForm(data any) ([]byte, error) {
	switch v := data.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case url.Values:
		return []byte(v.Encode()), nil
	case map[string][]string:
		return []byte(url.Values(v).Encode()), nil
	}

	vals := url.Values{}
	switch v := data.(type) {
	case map[string]string:
		for k, s := range v {
			vals.Set(k, s)
		}
	case map[string]any:
		if err := flattenForm("", v, vals); err != nil {
			return nil, err
		}
	default:
		m, err := toMap(data)
		if err != nil {
			return nil, err
		}
		if err := flattenForm("", m, vals); err != nil {
			return nil, err
		}
	}
	return []byte(vals.Encode()), nil
}

func flattenForm(prefix string, v any, vals url.Values) error {
	switch t := v.(type) {
	case nil:
	case map[string]any:
		for k, sub := range t {
			if err := flattenForm(formKey(prefix, k), sub, vals); err != nil {
				return err
			}
		}
	case map[string]string:
		for k, sub := range t {
			vals.Set(formKey(prefix, k), sub)
		}
	case []any:
		for i, sub := range t {
			if err := flattenForm(formKey(prefix, strconv.Itoa(i)), sub, vals); err != nil {
				return err
			}
		}
	case []string:
		for i, sub := range t {
			vals.Set(formKey(prefix, strconv.Itoa(i)), sub)
		}
	case []byte:
		vals.Set(prefix, string(t))
	default:
		switch reflect.ValueOf(t).Kind() {
		case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
			// Typed containers ([]int, map[string]int, structs) go through their
			// JSON form so they flatten like the generic ones.
			generic, err := toGeneric(t)
			if err != nil {
				return err
			}
			return flattenForm(prefix, generic, vals)
		}
		vals.Set(prefix, scalarString(t))
	}
	return nil
}

func formKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "[" + key + "]"
}

// scalarString renders form values; booleans follow the 1/0 convention of form encoders.
func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "1"
		}
		return "0"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// formFields converts data into the flat field map a multipart transport expects.
func formFields(data any) (map[string]string, error) {
	out := make(map[string]string)
	switch v := data.(type) {
	case nil:
	case map[string]string:
		for k, s := range v {
			out[k] = s
		}
	case url.Values:
		for k := range v {
			out[k] = v.Get(k)
		}
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			switch v[k].(type) {
			case map[string]any, []any, map[string]string, []string:
				return nil, fmt.Errorf("multipart field %q must be a scalar", k)
			case nil:
				continue
			}
			out[k] = scalarString(v[k])
		}
	default:
		return nil, fmt.Errorf("multipart body requires a field map, got %T", data)
	}
	return out, nil
}

// toMap turns an arbitrary value (usually a struct) into a generic map via its JSON form.
func toMap(data any) (map[string]any, error) {
	generic, err := toGeneric(data)
	if err != nil {
		return nil, err
	}
	m, ok := generic.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("form body requires a map or struct, got %T", data)
	}
	return m, nil
}

// toGeneric decodes the JSON form of data into maps, slices and scalars.
// Numbers stay json.Number so large integers keep their digits.
func toGeneric(data any) (any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", data, err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode %T: %w", data, err)
	}
	return out, nil
}
