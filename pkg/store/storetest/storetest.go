// Package storetest holds the behaviour every store.Repository must share.
// Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"reflect"
	"testing"

	"github.com/matzehuels/platecut/pkg/plate"
	"github.com/matzehuels/platecut/pkg/socket"
	"github.com/matzehuels/platecut/pkg/store"
)

// Run exercises a fresh, empty repository returned by open.
func Run(t *testing.T, open func(t *testing.T) store.Repository) {
	t.Helper()

	t.Run("EmptyDefaults", func(t *testing.T) {
		r := open(t)
		ctx := context.Background()

		dims, err := r.LoadDimensions(ctx)
		if err != nil {
			t.Fatalf("LoadDimensions: %v", err)
		}
		if len(dims) != 1 || dims[0] != (plate.Dimension{WidthCm: 151.5, HeightCm: 40}) {
			t.Errorf("empty store dimensions = %+v, want the initial plate", dims)
		}
		groups, err := r.LoadGroups(ctx)
		if err != nil {
			t.Fatalf("LoadGroups: %v", err)
		}
		if len(groups) != 0 {
			t.Errorf("empty store groups = %+v", groups)
		}
		idx, err := r.LoadActiveIndex(ctx)
		if err != nil || idx != 0 {
			t.Errorf("LoadActiveIndex = %d, %v", idx, err)
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		r := open(t)
		ctx := context.Background()

		dims := []plate.Dimension{{WidthCm: 151.5, HeightCm: 40}, {WidthCm: 60.25, HeightCm: 128}}
		groups := []socket.Group{
			{ID: "a", PlateIndex: 0, Count: 2, Orientation: socket.Horizontal, AnchorXCm: 20, AnchorYCm: 12.5},
			{ID: "b", PlateIndex: 1, Count: 5, Orientation: socket.Vertical, AnchorXCm: 30.125, AnchorYCm: 10},
		}
		if err := r.SaveDimensions(ctx, dims); err != nil {
			t.Fatalf("SaveDimensions: %v", err)
		}
		if err := r.SaveGroups(ctx, groups); err != nil {
			t.Fatalf("SaveGroups: %v", err)
		}
		if err := r.SaveActiveIndex(ctx, 1); err != nil {
			t.Fatalf("SaveActiveIndex: %v", err)
		}

		gotDims, err := r.LoadDimensions(ctx)
		if err != nil || !reflect.DeepEqual(gotDims, dims) {
			t.Errorf("LoadDimensions = %+v, %v", gotDims, err)
		}
		gotGroups, err := r.LoadGroups(ctx)
		if err != nil || !reflect.DeepEqual(gotGroups, groups) {
			t.Errorf("LoadGroups = %+v, %v", gotGroups, err)
		}
		idx, err := r.LoadActiveIndex(ctx)
		if err != nil || idx != 1 {
			t.Errorf("LoadActiveIndex = %d, %v", idx, err)
		}
	})

	t.Run("SaveReplacesWholeCollection", func(t *testing.T) {
		r := open(t)
		ctx := context.Background()

		first := []socket.Group{
			{ID: "a", Count: 1, Orientation: socket.Horizontal, AnchorXCm: 10, AnchorYCm: 10},
			{ID: "b", Count: 1, Orientation: socket.Horizontal, AnchorXCm: 30, AnchorYCm: 10},
		}
		second := []socket.Group{{ID: "c", Count: 3, Orientation: socket.Vertical, AnchorXCm: 50, AnchorYCm: 10}}
		if err := r.SaveGroups(ctx, first); err != nil {
			t.Fatal(err)
		}
		if err := r.SaveGroups(ctx, second); err != nil {
			t.Fatal(err)
		}
		got, err := r.LoadGroups(ctx)
		if err != nil || !reflect.DeepEqual(got, second) {
			t.Errorf("LoadGroups = %+v, %v; want %+v", got, err, second)
		}

		if err := r.SaveGroups(ctx, nil); err != nil {
			t.Fatal(err)
		}
		if got, _ := r.LoadGroups(ctx); len(got) != 0 {
			t.Errorf("groups after clearing = %+v", got)
		}
	})
}
