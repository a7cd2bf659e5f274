package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding rules used by request
// structs. It must run before the first request is bound.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		if err := v.RegisterValidation("notblank", notBlank); err != nil {
			panic(err)
		}
	})
}

func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(field.String()) != ""
}

// bindErrorMessage turns a binding failure into a single client-facing
// sentence. body is the raw request, used to locate type errors.
func bindErrorMessage(err error, body []byte) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := fieldPath(fe.Namespace())
		switch fe.Tag() {
		case "required", "notblank":
			return fmt.Sprintf("%s is required", field)
		case "min":
			if fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
				return fmt.Sprintf("%s must contain at least %s items", field, fe.Param())
			}
			return fmt.Sprintf("%s must be at least %s", field, fe.Param())
		default:
			return fmt.Sprintf("%s is invalid", field)
		}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := valuePathAt(body, typeErr.Offset)
		if field == "" {
			field = typeErr.Field
		}
		if field != "" {
			return fmt.Sprintf("%s has the wrong type", field)
		}
	}
	return "Invalid request body"
}

type jsonFrame struct {
	array   bool
	index   int
	key     string
	wantKey bool
}

// valuePathAt walks body and returns the path, in validator notation, of the
// value that ends at offset. encoding/json reports type errors with the
// offset just past the offending value (or its opening delimiter) but drops
// slice indexes from UnmarshalTypeError.Field.
func valuePathAt(body []byte, offset int64) string {
	dec := json.NewDecoder(bytes.NewReader(body))
	var stack []jsonFrame

	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}
		n := len(stack)

		if n > 0 && stack[n-1].wantKey {
			if key, ok := tok.(string); ok {
				stack[n-1].key = key
				stack[n-1].wantKey = false
				continue
			}
		}

		delim, isDelim := tok.(json.Delim)
		if isDelim && (delim == '}' || delim == ']') {
			stack = stack[:n-1]
			valueDone(stack)
			continue
		}

		if dec.InputOffset() >= offset-1 {
			return framePath(stack)
		}
		if isDelim {
			stack = append(stack, jsonFrame{array: delim == '[', wantKey: delim == '{'})
			continue
		}
		valueDone(stack)
	}
}

func valueDone(stack []jsonFrame) {
	if len(stack) == 0 {
		return
	}
	top := &stack[len(stack)-1]
	if top.array {
		top.index++
	} else {
		top.wantKey = true
	}
}

func framePath(stack []jsonFrame) string {
	var b strings.Builder
	for _, f := range stack {
		if f.array {
			fmt.Fprintf(&b, "[%d]", f.index)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(f.key)
	}
	return b.String()
}

// fieldPath drops the struct name from a validator namespace,
// e.g. "CreateQuizRequest.questions[0].text" becomes "questions[0].text".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
