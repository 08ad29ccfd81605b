package plate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/platecut/pkg/errors"
)

// Field names one side of a plate.
type Field string

const (
	FieldWidth  Field = "width"
	FieldHeight Field = "height"
)

// Constraint bounds one side of a plate in centimeters.
type Constraint struct {
	Min     float64
	Max     float64
	Default float64
	Unit    string
}

// Constraints are the manufacturable plate sizes.
var Constraints = map[Field]Constraint{
	FieldWidth:  {Min: 20, Max: 300, Default: 200, Unit: "cm"},
	FieldHeight: {Min: 30, Max: 128, Default: 100, Unit: "cm"},
}

// MinPlates is the number of plates a project must keep.
const MinPlates = 1

// IsValidNumber reports whether s parses as a finite decimal.
func IsValidNumber(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	v, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ValidateValue checks one side against its constraint.
func ValidateValue(value string, field Field) error {
	if !IsValidNumber(value) {
		return errors.New(errors.ErrCodeInvalidDimension, "Please enter a valid number")
	}
	v := ParseValue(value)
	c := Constraints[field]
	if v < c.Min {
		return errors.New(errors.ErrCodeInvalidDimension, "Minimum %s is %s%s", field, FormatValue(c.Min), c.Unit)
	}
	if v > c.Max {
		return errors.New(errors.ErrCodeInvalidDimension, "Maximum %s is %s%s", field, FormatValue(c.Max), c.Unit)
	}
	return nil
}

// Validate checks both sides of a raw dimension. The width error wins when
// both sides are invalid.
func Validate(r Raw) error {
	if err := ValidateValue(r.Width, FieldWidth); err != nil {
		return err
	}
	return ValidateValue(r.Height, FieldHeight)
}

// ValidateAll checks every dimension and the plate count. The returned error
// names the first offending plate (1-based, as users count them).
func ValidateAll(raws []Raw) error {
	if err := ValidateCount(len(raws)); err != nil {
		return err
	}
	for i, r := range raws {
		if err := Validate(r); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDimension, err, "plate #%d: %s", i+1, errors.UserMessage(err))
		}
	}
	return nil
}

// ValidateCount checks that at least MinPlates remain.
func ValidateCount(n int) error {
	if n < MinPlates {
		return errors.New(errors.ErrCodeInvalidDimension, "Minimum %d plate(s) required", MinPlates)
	}
	return nil
}

// CanDelete reports whether a plate may be removed from a list of n.
func CanDelete(n int) bool { return n > MinPlates }

// Clamped is the outcome of clamping one side.
type Clamped struct {
	Value      float64
	WasClamped bool
	Original   float64
}

// ClampValue forces a side into its constraint. Non-numeric input falls back
// to the field's default.
func ClampValue(value string, field Field) Clamped {
	c := Constraints[field]
	if !IsValidNumber(value) {
		return Clamped{Value: c.Default, WasClamped: true, Original: math.NaN()}
	}
	v := ParseValue(value)
	cv := math.Max(c.Min, math.Min(c.Max, v))
	return Clamped{Value: cv, WasClamped: cv != v, Original: v}
}

// Clamp forces both sides of a raw dimension into range.
func Clamp(r Raw) Raw {
	return Raw{
		Width:  FormatValue(ClampValue(r.Width, FieldWidth).Value),
		Height: FormatValue(ClampValue(r.Height, FieldHeight).Value),
	}
}

// Default returns a plate at the default size.
func Default() Raw {
	return Raw{
		Width:  FormatValue(Constraints[FieldWidth].Default),
		Height: FormatValue(Constraints[FieldHeight].Default),
	}
}

// Sanitize strips everything except digits, one decimal point, and a leading
// minus sign from free-form numeric input.
func Sanitize(value string) string {
	var b strings.Builder
	for _, r := range value {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	s := b.String()

	if parts := strings.Split(s, "."); len(parts) > 2 {
		s = parts[0] + "." + strings.Join(parts[1:], "")
	}

	if strings.Contains(s, "-") {
		neg := strings.HasPrefix(s, "-")
		s = strings.ReplaceAll(s, "-", "")
		if neg {
			s = "-" + s
		}
	}
	return s
}

// FormatDecimals re-renders a numeric string with a fixed number of decimals.
// Non-numeric input is returned unchanged.
func FormatDecimals(value string, decimals int) string {
	if !IsValidNumber(value) {
		return value
	}
	return fmt.Sprintf("%.*f", decimals, ParseValue(value))
}
