// Package cluster groups vehicles by maintenance-need profile using
// centroid-based clustering over standardized fault, age and priority
// features.
package cluster

import (
	"errors"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/atvfleet/maintsched/core/model"
	"github.com/atvfleet/maintsched/core/stats"
)

// ErrTooFewVehicles is returned when the fleet is smaller than the requested
// number of clusters. The clusterer never silently reduces k.
var ErrTooFewVehicles = errors.New("cluster: fewer vehicles than clusters")

const featureCount = 4

// KMeans implements Lloyd's algorithm with deterministic seeding. The same
// fleet and seed always produce the same cluster assignment.
type KMeans struct {
	K             int
	MaxIterations int
	Seed          int64
}

// New returns a KMeans clusterer for k clusters with the given seed and the
// default iteration cap.
func New(k int, seed int64) KMeans {
	return KMeans{K: k, MaxIterations: 300, Seed: seed}
}

// Assign partitions the fleet into K clusters and sets ClusterID on every
// vehicle. Features are z-scored per column before clustering so that the
// raw counter ranges do not dominate the distance metric.
func (km KMeans) Assign(fleet []model.Vehicle) ([]model.Vehicle, error) {
	if km.K <= 0 {
		return nil, fmt.Errorf("cluster: k must be positive, got %d", km.K)
	}
	if len(fleet) < km.K {
		return nil, fmt.Errorf("%w: %d vehicles, k=%d", ErrTooFewVehicles, len(fleet), km.K)
	}

	features := km.featureMatrix(fleet)
	labels := km.lloyd(features, len(fleet))
	for i := range fleet {
		fleet[i].ClusterID = labels[i]
	}
	return fleet, nil
}

// featureMatrix builds the n x 4 standardized feature matrix.
func (km KMeans) featureMatrix(fleet []model.Vehicle) *mat.Dense {
	n := len(fleet)
	cols := make([][]float64, featureCount)
	for c := range cols {
		cols[c] = make([]float64, n)
	}
	for i, v := range fleet {
		cols[0][i] = float64(v.TotalFaults)
		cols[1][i] = float64(v.DaysSinceService)
		cols[2][i] = float64(v.CriticalFaults)
		cols[3][i] = v.PriorityScore
	}
	m := mat.NewDense(n, featureCount, nil)
	for c, col := range cols {
		m.SetCol(c, stats.ZScore(col))
	}
	return m
}

// lloyd iterates assignment and centroid recomputation until the labels stop
// changing or the iteration cap is hit. Ties on the nearest centroid go to
// the lowest cluster index. An empty cluster keeps its previous centroid.
func (km KMeans) lloyd(features *mat.Dense, n int) []int {
	rng := rand.New(rand.NewSource(km.Seed))
	centroids := make([][]float64, km.K)
	for c, idx := range rng.Perm(n)[:km.K] {
		centroids[c] = mat.Row(nil, idx, features)
	}

	labels := make([]int, n)
	maxIter := km.MaxIterations
	if maxIter <= 0 {
		maxIter = 300
	}
	row := make([]float64, featureCount)
	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i := 0; i < n; i++ {
			mat.Row(row, i, features)
			best := 0
			bestDist := floats.Distance(row, centroids[0], 2)
			for c := 1; c < km.K; c++ {
				if d := floats.Distance(row, centroids[c], 2); d < bestDist {
					best = c
					bestDist = d
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		counts := make([]int, km.K)
		sums := make([][]float64, km.K)
		for c := range sums {
			sums[c] = make([]float64, featureCount)
		}
		for i := 0; i < n; i++ {
			mat.Row(row, i, features)
			floats.Add(sums[labels[i]], row)
			counts[labels[i]]++
		}
		for c := 0; c < km.K; c++ {
			if counts[c] == 0 {
				continue
			}
			floats.Scale(1/float64(counts[c]), sums[c])
			centroids[c] = sums[c]
		}
	}
	return labels
}
