package placement

import (
	"testing"

	"github.com/matzehuels/platecut/pkg/errors"
	"github.com/matzehuels/platecut/pkg/socket"
)

func single(x, y float64) Candidate {
	return Candidate{AnchorXCm: x, AnchorYCm: y, Count: 1, Orientation: socket.Horizontal}
}

func TestEdgeClearance(t *testing.T) {
	const w, h = 100.0, 50.0
	half := socket.SizeCm / 2
	min := EdgeClearanceCm + half // anchor position that puts the box exactly on the threshold

	tests := []struct {
		name     string
		c        Candidate
		wantOK   bool
		wantEdge Edge
	}{
		{"centered", single(50, 25), true, ""},
		{"exactly at left threshold", single(min, 25), true, ""},
		{"just inside left", single(min-0.01, 25), false, EdgeLeft},
		{"exactly at right threshold", single(w-min, 25), true, ""},
		{"just inside right", single(w-min+0.01, 25), false, EdgeRight},
		{"exactly at top threshold", single(50, h-min), true, ""},
		{"just inside top", single(50, h-min+0.01), false, EdgeTop},
		{"exactly at bottom threshold", single(50, min), true, ""},
		{"just inside bottom", single(50, min-0.01), false, EdgeBottom},
		{"left wins over bottom", single(1, 1), false, EdgeLeft},
		{"right wins over top", single(99, 49), false, EdgeRight},
		{
			"vertical group top edge",
			Candidate{AnchorXCm: 50, AnchorYCm: 20, Count: 5, Orientation: socket.Vertical},
			false, EdgeTop,
		},
		{
			"horizontal group right edge",
			Candidate{AnchorXCm: 70, AnchorYCm: 25, Count: 5, Orientation: socket.Horizontal},
			false, EdgeRight,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Validate(tt.c, w, h, nil, "", Options{})
			if r.Valid != tt.wantOK {
				t.Fatalf("Valid = %v, want %v (reason %+v)", r.Valid, tt.wantOK, r.Reason)
			}
			if tt.wantOK {
				if r.Reason != nil {
					t.Error("valid result should carry no reason")
				}
				return
			}
			if r.Reason.Kind != KindEdge || r.Reason.Edge != tt.wantEdge {
				t.Errorf("reason = %+v, want edge %s", r.Reason, tt.wantEdge)
			}
			if r.Reason.RequiredCm != EdgeClearanceCm {
				t.Errorf("required = %v", r.Reason.RequiredCm)
			}
		})
	}
}

func TestInterGroupClearance(t *testing.T) {
	const w, h = 151.5, 40.0
	existing := socket.Group{ID: "a", PlateIndex: 0, Count: 1, Orientation: socket.Horizontal, AnchorXCm: 20, AnchorYCm: 20}
	step := socket.SizeCm + InterGroupClearanceCm // anchor distance that leaves exactly the clearance

	tests := []struct {
		name   string
		c      Candidate
		wantOK bool
	}{
		{"far away", single(100, 20), true},
		{"exactly the clearance to the right", single(20+step, 20), true},
		{"just under the clearance", single(20+step-0.01, 20), false},
		{"exactly the clearance above", single(20, 20+step), true},
		{"overlapping", single(22, 20), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Validate(tt.c, w, h, []socket.Group{existing}, "", Options{})
			if r.Valid != tt.wantOK {
				t.Fatalf("Valid = %v, want %v (reason %+v)", r.Valid, tt.wantOK, r.Reason)
			}
		})
	}

	r := Validate(single(22, 20), w, h, []socket.Group{existing}, "", Options{})
	if r.Reason.Kind != KindInterGroup || r.Reason.ConflictID != "a" {
		t.Errorf("reason = %+v", r.Reason)
	}
}

func TestInterGroupClearanceTallPlate(t *testing.T) {
	existing := socket.Group{ID: "a", Count: 2, Orientation: socket.Vertical, AnchorXCm: 30, AnchorYCm: 20}
	top := existing.BoundingBox().MaxY
	y := top + InterGroupClearanceCm + socket.SizeCm/2

	if r := Validate(single(30, y), 100, 100, []socket.Group{existing}, "", Options{}); !r.Valid {
		t.Errorf("exactly the clearance above a vertical group should pass: %+v", r.Reason)
	}
	if r := Validate(single(30, y-0.001), 100, 100, []socket.Group{existing}, "", Options{}); r.Valid {
		t.Error("less than the clearance should fail")
	}
}

func TestExcludeSelf(t *testing.T) {
	g := socket.Group{ID: "self", Count: 1, Orientation: socket.Horizontal, AnchorXCm: 20, AnchorYCm: 20}
	moved := CandidateOf(g)
	moved.AnchorXCm += 1
	if r := Validate(moved, 100, 50, []socket.Group{g}, "self", Options{}); !r.Valid {
		t.Errorf("moving a group must ignore its own old position: %+v", r.Reason)
	}
	if r := Validate(moved, 100, 50, []socket.Group{g}, "", Options{}); r.Valid {
		t.Error("without exclusion the old position should conflict")
	}
}

func TestScenarioDefaultPlate(t *testing.T) {
	existing := socket.Group{ID: "v", PlateIndex: 0, Count: 1, Orientation: socket.Vertical, AnchorXCm: 10, AnchorYCm: 10}
	r := Validate(single(3, 3), 151.5, 40, []socket.Group{existing}, "", Options{})
	if r.Valid {
		t.Fatal("candidate at (3,3) should be rejected")
	}
	if r.Reason.Kind != KindEdge || (r.Reason.Edge != EdgeLeft && r.Reason.Edge != EdgeBottom) {
		t.Errorf("reason = %+v, want left or bottom edge", r.Reason)
	}
	if r := Validate(CandidateOf(existing), 151.5, 40, nil, "", Options{}); !r.Valid {
		t.Errorf("existing group should itself be valid: %+v", r.Reason)
	}
}

func TestOptions(t *testing.T) {
	c := single(5, 5)
	if r := Validate(c, 100, 50, nil, "", Options{EdgeClearanceCm: 1}); !r.Valid {
		t.Errorf("1cm edge clearance should accept: %+v", r.Reason)
	}
	if r := Validate(single(-10, 5), 100, 50, nil, "", Options{EdgeClearanceCm: -1}); !r.Valid {
		t.Error("negative clearance disables the edge check")
	}
	other := socket.Group{ID: "o", Count: 1, Orientation: socket.Horizontal, AnchorXCm: 50, AnchorYCm: 25}
	if r := Validate(single(58, 25), 100, 50, []socket.Group{other}, "", Options{InterGroupClearanceCm: 1}); !r.Valid {
		t.Errorf("1cm inter-group clearance should accept: %+v", r.Reason)
	}
}

func TestExactZero(t *testing.T) {
	flush := single(socket.SizeCm/2, 25)
	if r := Validate(flush, 100, 50, nil, "", Options{}); r.Valid {
		t.Error("zero Options should apply the default edge clearance")
	}
	if r := Validate(flush, 100, 50, nil, "", Exact(0, 0)); !r.Valid {
		t.Errorf("Exact(0, 0) should accept a flush group: %+v", r.Reason)
	}
	touching := socket.Group{ID: "o", Count: 1, Orientation: socket.Horizontal, AnchorXCm: 50 + socket.SizeCm, AnchorYCm: 25}
	if r := Validate(single(50, 25), 100, 50, []socket.Group{touching}, "", Exact(0, 0)); !r.Valid {
		t.Errorf("Exact(0, 0) should accept touching groups: %+v", r.Reason)
	}
	if r := Validate(single(50, 25), 100, 50, []socket.Group{touching}, "", Exact(0, 1)); r.Valid {
		t.Error("1cm inter-group clearance should reject touching groups")
	}
}

func TestResultErr(t *testing.T) {
	if (Result{Valid: true}).Err() != nil {
		t.Error("valid result should have no error")
	}
	r := Validate(single(0, 25), 100, 50, nil, "", Options{})
	err := r.Err()
	if !errors.Is(err, errors.ErrCodePlacement) {
		t.Fatalf("code = %s", errors.GetCode(err))
	}
	if got := errors.UserMessage(err); got != "Too close to the left edge: keep at least 3.0cm (is -3.5cm)" {
		t.Errorf("message = %q", got)
	}
}

func TestValidateGroup(t *testing.T) {
	all := []socket.Group{
		{ID: "a", PlateIndex: 0, Count: 1, Orientation: socket.Horizontal, AnchorXCm: 20, AnchorYCm: 20},
		{ID: "b", PlateIndex: 1, Count: 1, Orientation: socket.Horizontal, AnchorXCm: 20, AnchorYCm: 20},
	}
	if r := ValidateGroup(all[0], 100, 50, all, Options{}); !r.Valid {
		t.Errorf("groups on different plates must not conflict: %+v", r.Reason)
	}
}
