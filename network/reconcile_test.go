package network

import (
	"testing"

	dmath "github.com/yohamta/donburi/features/math"
)

func TestReconcilerResolve(t *testing.T) {
	r := NewReconciler()
	predicted := dmath.Vec2{X: 100, Y: 100}

	tests := []struct {
		name          string
		authoritative dmath.Vec2
		want          dmath.Vec2
		corrected     bool
	}{
		{"identical", dmath.Vec2{X: 100, Y: 100}, predicted, false},
		{"small divergence keeps prediction", dmath.Vec2{X: 130, Y: 100}, predicted, false},
		{"exactly at threshold keeps prediction", dmath.Vec2{X: 130, Y: 140}, predicted, false},
		{"large divergence snaps", dmath.Vec2{X: 200, Y: 100}, dmath.Vec2{X: 200, Y: 100}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, corrected := r.Resolve(predicted, tt.authoritative)
			if corrected != tt.corrected {
				t.Fatalf("expected corrected=%v, got %v", tt.corrected, corrected)
			}
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestPredictionError(t *testing.T) {
	got := PredictionError(dmath.Vec2{X: 0, Y: 0}, dmath.Vec2{X: 3, Y: 4})
	if got != 5 {
		t.Fatalf("expected 5, got %v", got)
	}
}
