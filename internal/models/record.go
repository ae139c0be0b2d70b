package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Extras carries fields a client submitted that the typed record does not declare.
// They are persisted and echoed back unchanged.
type Extras map[string]json.RawMessage

// Patch is a partial update: field name to raw JSON value.
type Patch map[string]json.RawMessage

// Has reports whether the patch sets field.
func (p Patch) Has(field string) bool {
	_, ok := p[field]
	return ok
}

// Take removes field from the patch and decodes it into dest. It reports whether the
// field was present.
func (p Patch) Take(field string, dest interface{}) (bool, error) {
	raw, ok := p[field]
	if !ok {
		return false, nil
	}
	delete(p, field)
	if err := json.Unmarshal(raw, dest); err != nil {
		return true, &FieldError{Field: field, Err: err}
	}
	return true, nil
}

// FieldError reports a patch value that does not fit the record's field type.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return "invalid request body: " + e.Err.Error()
	}
	return "invalid value for " + e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error { return e.Err }

// ApplyPatch overlays patch on current and decodes the result back into the record
// type. Fields listed in immutable are ignored.
func ApplyPatch[T any](current T, patch Patch, immutable ...string) (T, error) {
	var out T
	raw, err := json.Marshal(current)
	if err != nil {
		return out, err
	}
	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &merged); err != nil {
		return out, err
	}

	skip := make(map[string]struct{}, len(immutable))
	for _, field := range immutable {
		skip[field] = struct{}{}
	}
	for field, value := range patch {
		if _, ok := skip[field]; ok {
			continue
		}
		merged[field] = value
	}

	raw, err = json.Marshal(merged)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, &FieldError{Field: typeErrorField(err), Err: err}
	}
	return out, nil
}

func typeErrorField(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return typeErr.Field
	}
	return ""
}

var fieldCache sync.Map // reflect.Type -> map[string]struct{}

// jsonFields lists the JSON names of the exported fields of t.
func jsonFields(t reflect.Type) map[string]struct{} {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.(map[string]struct{})
	}
	fields := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		if name == "" {
			name = f.Name
		}
		fields[name] = struct{}{}
	}
	fieldCache.Store(t, fields)
	return fields
}

// encodeRecord marshals the declared fields of v (which must not implement
// json.Marshaler itself) followed by the extras in key order.
func encodeRecord(v interface{}, extras Extras) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(extras) == 0 {
		return raw, nil
	}

	known := jsonFields(reflect.TypeOf(v))
	keys := make([]string, 0, len(extras))
	for key := range extras {
		if _, ok := known[key]; !ok {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return raw, nil
	}
	sort.Strings(keys)

	buf := bytes.NewBuffer(raw[:len(raw)-1])
	for i, key := range keys {
		if i > 0 || len(raw) > 2 {
			buf.WriteByte(',')
		}
		name, _ := json.Marshal(key)
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(extras[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodeRecord fills dest (a pointer to a struct without its own UnmarshalJSON) and
// returns the fields dest does not declare.
func decodeRecord(data []byte, dest interface{}) (Extras, error) {
	if err := json.Unmarshal(data, dest); err != nil {
		return nil, err
	}
	all := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	known := jsonFields(reflect.TypeOf(dest).Elem())
	var extras Extras
	for key, value := range all {
		if _, ok := known[key]; ok {
			continue
		}
		if extras == nil {
			extras = Extras{}
		}
		extras[key] = value
	}
	return extras, nil
}

// overlay marshals v and sets or replaces top-level fields. A nil value removes the field.
func overlay(v interface{}, fields map[string]interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &merged); err != nil {
		return nil, err
	}
	for key, value := range fields {
		if value == nil {
			delete(merged, key)
			continue
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		merged[key] = encoded
	}
	return json.Marshal(merged)
}

// Record is anything stored in a collection.
type Record interface {
	RecordID() ID
}
