package plate

import (
	"math"
	"testing"

	"github.com/matzehuels/platecut/pkg/errors"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"151.5", 151.5},
		{" 40 ", 40},
		{"0", 0},
		{"-12", -12},
		{"", 0},
		{"abc", 0},
		{"12abc", 0},
		{"40cm", 0},
		{"40 cm", 0},
		{"NaN", 0},
		{"Inf", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseValue(tt.in); got != tt.want {
				t.Errorf("ParseValue(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTrailingUnitIsInvalid(t *testing.T) {
	for _, in := range []string{"40cm", "151.5 cm"} {
		if IsValidNumber(in) {
			t.Errorf("IsValidNumber(%q) = true", in)
		}
		if err := ValidateValue(in, FieldHeight); err == nil {
			t.Errorf("ValidateValue(%q) accepted a value ParseValue reads as 0", in)
		}
		if got := Parse(Raw{Width: in, Height: in}); !got.IsZero() {
			t.Errorf("Parse(%q) = %+v, want a zero-sized plate", in, got)
		}
	}
}

func TestParseAll(t *testing.T) {
	got := ParseAll([]Raw{Initial, {Width: "x", Height: "30"}})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0] != (Dimension{WidthCm: 151.5, HeightCm: 40}) {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].WidthCm != 0 || got[1].HeightCm != 30 {
		t.Errorf("got[1] = %+v", got[1])
	}
	if !got[1].IsZero() {
		t.Error("plate with zero width should report IsZero")
	}
}

func TestFormatRoundTrip(t *testing.T) {
	d := Dimension{WidthCm: 151.5, HeightCm: 40}
	r := Format(d)
	if r.Width != "151.5" || r.Height != "40" {
		t.Errorf("Format = %+v", r)
	}
	if Parse(r) != d {
		t.Errorf("Parse(Format(d)) = %+v, want %+v", Parse(r), d)
	}
}

func TestFootprint(t *testing.T) {
	f := Dimension{WidthCm: -5, HeightCm: 10}.Footprint()
	if f.WidthCm != 0 || f.HeightCm != 10 {
		t.Errorf("Footprint = %+v", f)
	}
}

func TestLabel(t *testing.T) {
	if got := (Dimension{WidthCm: 151.5, HeightCm: 40}).Label(); got != "151.5 × 40 cm" {
		t.Errorf("Label = %q", got)
	}
}

func TestValidateValue(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		field   Field
		wantMsg string
	}{
		{"width ok", "151.5", FieldWidth, ""},
		{"width min boundary", "20", FieldWidth, ""},
		{"width max boundary", "300", FieldWidth, ""},
		{"width too small", "19.9", FieldWidth, "Minimum width is 20cm"},
		{"width too large", "301", FieldWidth, "Maximum width is 300cm"},
		{"height too small", "10", FieldHeight, "Minimum height is 30cm"},
		{"height too large", "129", FieldHeight, "Maximum height is 128cm"},
		{"not a number", "abc", FieldHeight, "Please enter a valid number"},
		{"empty", "", FieldWidth, "Please enter a valid number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateValue(tt.value, tt.field)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidDimension) {
				t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidDimension)
			}
			if got := errors.UserMessage(err); got != tt.wantMsg {
				t.Errorf("message = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestValidateAll(t *testing.T) {
	if err := ValidateAll([]Raw{Initial}); err != nil {
		t.Errorf("initial plate should validate: %v", err)
	}
	if err := ValidateAll(nil); err == nil {
		t.Error("empty plate list should fail")
	}
	err := ValidateAll([]Raw{Initial, {Width: "10", Height: "40"}})
	if err == nil {
		t.Fatal("expected error for second plate")
	}
	if !errors.Is(err, errors.ErrCodeInvalidDimension) {
		t.Errorf("code = %s", errors.GetCode(err))
	}
}

func TestCanDelete(t *testing.T) {
	if CanDelete(1) {
		t.Error("last plate must not be deletable")
	}
	if !CanDelete(2) {
		t.Error("second plate should be deletable")
	}
}

func TestClampValue(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		field       Field
		want        float64
		wantClamped bool
	}{
		{"in range", "100", FieldWidth, 100, false},
		{"below", "5", FieldWidth, 20, true},
		{"above", "500", FieldWidth, 300, true},
		{"height above", "200", FieldHeight, 128, true},
		{"invalid uses default", "x", FieldHeight, 100, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampValue(tt.value, tt.field)
			if got.Value != tt.want || got.WasClamped != tt.wantClamped {
				t.Errorf("ClampValue(%q) = %+v, want value %v clamped %v", tt.value, got, tt.want, tt.wantClamped)
			}
		})
	}
	if !math.IsNaN(ClampValue("x", FieldWidth).Original) {
		t.Error("Original should be NaN for non-numeric input")
	}
}

func TestClamp(t *testing.T) {
	got := Clamp(Raw{Width: "1000", Height: "1"})
	if got.Width != "300" || got.Height != "30" {
		t.Errorf("Clamp = %+v", got)
	}
	if Default() != (Raw{Width: "200", Height: "100"}) {
		t.Errorf("Default = %+v", Default())
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"151.5", "151.5"},
		{"15a1.5cm", "151.5"},
		{"1.2.3", "1.23"},
		{"-12", "-12"},
		{"1-2", "12"},
		{"--5", "-5"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatDecimals(t *testing.T) {
	if got := FormatDecimals("40", 1); got != "40.0" {
		t.Errorf("FormatDecimals = %q", got)
	}
	if got := FormatDecimals("abc", 1); got != "abc" {
		t.Errorf("FormatDecimals(non-numeric) = %q", got)
	}
}
