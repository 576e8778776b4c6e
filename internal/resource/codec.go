package resource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"spaceapp/internal/shared/errors"
)

// Field-level validation messages.
const (
	MsgRequired  = "This field is required."
	MsgNull      = "This field may not be null."
	MsgBlank     = "This field may not be blank."
	MsgNumber    = "A valid number is required."
	MsgNotString = "Not a valid string."
	MsgNullChars = "Null characters are not allowed."
	msgMaxLength = "Ensure this field has no more than %d characters."

	// NonFieldErrors is the key for errors about the payload as a whole.
	NonFieldErrors = "non_field_errors"
)

// Record is the wire form of a row: a JSON object with id first and then
// every schema field in declaration order.
type Record struct {
	names  []string
	values []any
}

// Get returns the value of a wire field.
func (r Record) Get(name string) (any, bool) {
	for i, n := range r.names {
		if n == name {
			return r.values[i], true
		}
	}
	return nil, false
}

// Names returns the wire field names in order.
func (r Record) Names() []string {
	return append([]string(nil), r.names...)
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, fmt.Errorf("failed to encode field %s: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Encode converts a stored row into its wire record.
func (s *Schema[T]) Encode(row *T) Record {
	rec := Record{
		names:  make([]string, 0, len(s.Fields)+1),
		values: make([]any, 0, len(s.Fields)+1),
	}
	rec.names = append(rec.names, "id")
	rec.values = append(rec.values, *s.ID(row))
	for _, f := range s.Fields {
		rec.names = append(rec.names, f.Name)
		switch f.Kind {
		case KindFloat:
			rec.values = append(rec.values, *f.Float(row))
		case KindString:
			rec.values = append(rec.values, *f.String(row))
		}
	}
	return rec
}

// Decode validates a JSON payload and writes the accepted values into row.
// With partial set, absent fields keep the values already in row. On error
// row may be partly written, so callers decode into a copy. The id and any
// unknown keys in the payload are ignored.
func (s *Schema[T]) Decode(body []byte, row *T, partial bool) error {
	payload, err := parseObject(body, s.Entity)
	if err != nil {
		return err
	}

	fieldErrs := errors.FieldErrors{}
	for _, f := range s.Fields {
		raw, ok := payload[f.Name]
		if !ok {
			if !partial {
				fieldErrs.Add(f.Name, MsgRequired)
			}
			continue
		}

		if msg := f.decode(raw, row); msg != "" {
			fieldErrs.Add(f.Name, msg)
		}
	}

	if len(fieldErrs) > 0 {
		return errors.ValidationFields(fmt.Sprintf("invalid %s payload", s.Entity), fieldErrs)
	}
	return nil
}

func parseObject(body []byte, entity string) (map[string]any, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, errors.WrapValidation("JSON parse error", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.Validation("JSON parse error: unexpected data after top-level value")
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return nil, errors.ValidationFields(fmt.Sprintf("invalid %s payload", entity), errors.FieldErrors{
			NonFieldErrors: {fmt.Sprintf("Invalid data. Expected a dictionary, but got %s.", jsonKind(value))},
		})
	}
	return obj, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "list"
	case string:
		return "str"
	case bool:
		return "bool"
	case json.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func (f Field[T]) decode(raw any, row *T) string {
	switch f.Kind {
	case KindFloat:
		v, msg := decodeFloat(raw)
		if msg == "" {
			*f.Float(row) = v
		}
		return msg
	case KindString:
		v, msg := decodeString(raw, f.MaxLength)
		if msg == "" {
			*f.String(row) = v
		}
		return msg
	}
	return fmt.Sprintf("unsupported field kind %s", f.Kind)
}

// decodeFloat accepts numbers, numeric strings, and booleans (as 1 and 0).
func decodeFloat(raw any) (float64, string) {
	var (
		v   float64
		err error
	)

	switch x := raw.(type) {
	case nil:
		return 0, MsgNull
	case json.Number:
		v, err = strconv.ParseFloat(x.String(), 64)
	case string:
		v, err = strconv.ParseFloat(strings.TrimSpace(x), 64)
	case bool:
		if x {
			v = 1
		}
	default:
		return 0, MsgNumber
	}

	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, MsgNumber
	}
	return v, ""
}

// decodeString accepts strings and numbers, trims surrounding whitespace,
// and rejects blank, over-long or NUL-carrying values.
func decodeString(raw any, maxLength int) (string, string) {
	var s string

	switch x := raw.(type) {
	case nil:
		return "", MsgNull
	case string:
		s = x
	case json.Number:
		s = numberText(x)
	default:
		return "", MsgNotString
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return "", MsgBlank
	}
	if maxLength > 0 && utf8.RuneCountInString(s) > maxLength {
		return "", fmt.Sprintf(msgMaxLength, maxLength)
	}
	// Postgres text columns cannot hold NUL.
	if strings.ContainsRune(s, 0) {
		return "", MsgNullChars
	}
	return s, ""
}

// numberText renders a JSON number stored in a text field. Integers keep
// their digits; anything with a fraction or exponent is normalized to the
// shortest float form, always with a decimal point or exponent, so 6.0e2
// becomes "600.0" and 1e16 becomes "1e+16".
func numberText(n json.Number) string {
	lit := n.String()
	if !strings.ContainsAny(lit, ".eE") {
		if lit == "-0" {
			return "0"
		}
		return lit
	}

	// Out-of-range literals come back as ±Inf or ±0 alongside ErrRange,
	// which is the value wanted here.
	v, _ := strconv.ParseFloat(lit, 64)
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	sci := strconv.FormatFloat(v, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if v != 0 && (exp < -4 || exp >= 16) {
		return sci
	}
	text := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(text, ".") {
		text += ".0"
	}
	return text
}
