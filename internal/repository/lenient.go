package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	nullLiteral     = []byte("null")
	nonFiniteTokens = [][]byte{[]byte("-Infinity"), []byte("Infinity"), []byte("NaN")}
	unmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
)

// decodeSnapshot decodes b into dst. Python writers emit NaN and Infinity
// as bare tokens, so those become null first. When a value inside a well
// formed document cannot be decoded, decoding falls back to a field by
// field pass that zeroes the bad values and keeps everything else. The
// returned problems list each value that was dropped.
func decodeSnapshot(b []byte, dst any) (problems []string, err error) {
	b = nullNonFinite(b)
	err = json.Unmarshal(b, dst)
	if err == nil {
		return nil, nil
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return nil, err
	}

	v := reflect.ValueOf(dst).Elem()
	v.Set(reflect.Zero(v.Type()))
	if !decodeLenient(json.RawMessage(b), v, "", &problems) {
		return nil, err
	}
	return problems, nil
}

// decodeLenient fills v from raw. It reports false when raw could not be
// used for v at all; v is then left zero.
func decodeLenient(raw json.RawMessage, v reflect.Value, path string, problems *[]string) bool {
	if bytes.Equal(bytes.TrimSpace(raw), nullLiteral) {
		return true
	}
	if v.CanAddr() && reflect.PointerTo(v.Type()).Implements(unmarshalerType) {
		return decodeValue(raw, v, path, problems)
	}

	switch v.Kind() {
	case reflect.Pointer:
		elem := reflect.New(v.Type().Elem())
		if !decodeLenient(raw, elem.Elem(), path, problems) {
			return false
		}
		v.Set(elem)
		return true

	case reflect.Struct:
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			*problems = append(*problems, fmt.Sprintf("%s: %v", pathOr(path), err))
			return false
		}
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			if f.Anonymous && f.Type.Kind() == reflect.Struct {
				decodeLenient(raw, v.Field(i), path, problems)
				continue
			}
			name := jsonName(f)
			if name == "" {
				continue
			}
			fr, ok := lookupField(fields, name)
			if !ok {
				continue
			}
			decodeLenient(fr, v.Field(i), joinPath(path, name), problems)
		}
		return true

	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return decodeValue(raw, v, path, problems)
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			*problems = append(*problems, fmt.Sprintf("%s: %v", pathOr(path), err))
			return false
		}
		out := reflect.MakeSlice(v.Type(), 0, len(items))
		for i, item := range items {
			elem := reflect.New(v.Type().Elem()).Elem()
			if decodeLenient(item, elem, fmt.Sprintf("%s[%d]", path, i), problems) {
				out = reflect.Append(out, elem)
			}
		}
		v.Set(out)
		return true

	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return decodeValue(raw, v, path, problems)
		}
		var items map[string]json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			*problems = append(*problems, fmt.Sprintf("%s: %v", pathOr(path), err))
			return false
		}
		out := reflect.MakeMapWithSize(v.Type(), len(items))
		for k, item := range items {
			elem := reflect.New(v.Type().Elem()).Elem()
			if decodeLenient(item, elem, joinPath(path, k), problems) {
				out.SetMapIndex(reflect.ValueOf(k).Convert(v.Type().Key()), elem)
			}
		}
		v.Set(out)
		return true
	}
	return decodeValue(raw, v, path, problems)
}

func decodeValue(raw json.RawMessage, v reflect.Value, path string, problems *[]string) bool {
	tmp := reflect.New(v.Type())
	if err := json.Unmarshal(raw, tmp.Interface()); err != nil {
		*problems = append(*problems, fmt.Sprintf("%s: %v", pathOr(path), err))
		return false
	}
	v.Set(tmp.Elem())
	return true
}

func jsonName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name
	}
	return f.Name
}

func lookupField(fields map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	if raw, ok := fields[name]; ok {
		return raw, true
	}
	for k, raw := range fields {
		if strings.EqualFold(k, name) {
			return raw, true
		}
	}
	return nil, false
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func pathOr(path string) string {
	if path == "" {
		return "document"
	}
	return path
}

// nullNonFinite rewrites bare NaN, Infinity and -Infinity tokens outside
// string literals to null.
func nullNonFinite(b []byte) []byte {
	if !bytes.Contains(b, []byte("NaN")) && !bytes.Contains(b, []byte("Infinity")) {
		return b
	}
	out := make([]byte, 0, len(b))
	inString, escaped := false, false
	for i := 0; i < len(b); i++ {
		c := b[i]
		if inString {
			out = append(out, c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			out = append(out, c)
			continue
		}
		replaced := false
		for _, tok := range nonFiniteTokens {
			if bytes.HasPrefix(b[i:], tok) {
				out = append(out, nullLiteral...)
				i += len(tok) - 1
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, c)
		}
	}
	return out
}
