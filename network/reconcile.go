package network

import (
	"math"

	"github.com/chenmins/mmo-demo/shared/netconfig"
	dmath "github.com/yohamta/donburi/features/math"
)

// Reconciler decides whether an authoritative position overrides the
// predicted position of the local entity. Remote entities never go through it.
type Reconciler struct {
	// Threshold is the largest divergence absorbed without a snap.
	Threshold float64
}

// NewReconciler returns a Reconciler using netconfig.ReconcileThreshold.
func NewReconciler() Reconciler {
	return Reconciler{Threshold: netconfig.ReconcileThreshold}
}

// Resolve returns the position the local entity should have and whether it
// differs from the prediction. Divergence up to Threshold is normal
// prediction/confirmation skew and keeps the predicted value.
func (r Reconciler) Resolve(predicted, authoritative dmath.Vec2) (dmath.Vec2, bool) {
	if PredictionError(predicted, authoritative) <= r.Threshold {
		return predicted, false
	}
	return authoritative, true
}

// PredictionError is the Euclidean distance between the predicted and the
// authoritative position.
func PredictionError(predicted, authoritative dmath.Vec2) float64 {
	return math.Hypot(predicted.X-authoritative.X, predicted.Y-authoritative.Y)
}
