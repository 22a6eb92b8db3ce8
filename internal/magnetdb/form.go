package magnetdb

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultUploadContentType = "application/octet-stream"

// Values holds form fields for create and update calls, keyed by the server's
// field name. Falsy values are left out of the submitted form: nil, "", zero
// numbers, NaN, false, nil pointers and uploads without a reader.
type Values map[string]any

// Upload is a file submitted as a multipart file part.
type Upload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// Float returns a pointer to v, for the optional numeric fields of link calls.
func Float(v float64) *float64 {
	return &v
}

type formField struct {
	name  string
	value any
}

// fields returns the values sorted by name so requests are reproducible.
func (v Values) fields() []formField {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]formField, 0, len(names))
	for _, name := range names {
		out = append(out, formField{name: name, value: v[name]})
	}
	return out
}

// keepFunc decides whether a field is submitted.
type keepFunc func(any) bool

// omitFalsy drops every falsy value. Used by create and update.
func omitFalsy(v any) bool {
	return truthy(v)
}

// omitUnset drops only absent values, so an explicit zero is still sent.
// Used by the link endpoints.
func omitUnset(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return !rv.IsNil()
	}
	return true
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case time.Time:
		return !val.IsZero()
	case Upload:
		return val.Reader != nil
	case *Upload:
		return val != nil && val.Reader != nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.Len() != 0
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return false
		}
		return truthy(rv.Elem().Interface())
	case reflect.Map, reflect.Slice:
		return !rv.IsNil()
	}
	return true
}

func buildForm(fields []formField, keep keepFunc) ([]*resty.MultipartField, error) {
	form := make([]*resty.MultipartField, 0, len(fields))
	for _, f := range fields {
		if !keep(f.value) {
			continue
		}
		part, err := formPart(f.name, f.value)
		if err != nil {
			return nil, err
		}
		form = append(form, part)
	}
	return form, nil
}

func formPart(name string, v any) (*resty.MultipartField, error) {
	switch val := v.(type) {
	case Upload:
		return uploadPart(name, val), nil
	case *Upload:
		return uploadPart(name, *val), nil
	}
	text, err := formString(v)
	if err != nil {
		return nil, fmt.Errorf("form field %q: %w", name, err)
	}
	return &resty.MultipartField{Param: name, Reader: strings.NewReader(text)}, nil
}

func uploadPart(name string, up Upload) *resty.MultipartField {
	filename := up.Filename
	if filename == "" {
		filename = name
	}
	contentType := up.ContentType
	if contentType == "" {
		contentType = defaultUploadContentType
	}
	return &resty.MultipartField{
		Param:       name,
		FileName:    filename,
		ContentType: contentType,
		Reader:      up.Reader,
	}
}

// formString renders a value the way the server's form parser expects it.
func formString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case time.Time:
		return val.Format(time.RFC3339), nil
	case json.RawMessage:
		return string(val), nil
	case fmt.Stringer:
		return val.String(), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	case reflect.Pointer, reflect.Interface:
		return formString(rv.Elem().Interface())
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		data, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return fmt.Sprint(v), nil
}
