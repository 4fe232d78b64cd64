package fitness

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var ErrInvalidLogValue = errors.New("log value must be a number or a string")

type valueKind uint8

const (
	kindNumeric valueKind = iota + 1
	kindText
)

// LogValue is what was logged for one exercise in a workout:
// either a lifted weight, or free text for time/rep based exercises.
type LogValue struct {
	kind valueKind
	num  float64
	text string
}

func Numeric(v float64) LogValue {
	return LogValue{kind: kindNumeric, num: v}
}

func Text(s string) LogValue {
	return LogValue{kind: kindText, text: s}
}

// Number returns the weight and true only for numeric values.
func (v LogValue) Number() (float64, bool) {
	return v.num, v.kind == kindNumeric
}

func (v LogValue) Text() (string, bool) {
	return v.text, v.kind == kindText
}

func (v LogValue) IsZero() bool {
	return v.kind == 0
}

func (v LogValue) String() string {
	switch v.kind {
	case kindNumeric:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case kindText:
		return v.text
	default:
		return ""
	}
}

func (v LogValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindNumeric:
		return json.Marshal(v.num)
	case kindText:
		return json.Marshal(v.text)
	default:
		return nil, ErrInvalidLogValue
	}
}

func (v *LogValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ErrInvalidLogValue
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("text log value: %w", err)
		}
		*v = Text(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("numeric log value: %w", err)
		}
		*v = Numeric(f)
	default:
		return fmt.Errorf("%w, got %s", ErrInvalidLogValue, data)
	}

	return nil
}
