package game

import (
	"math"
	"math/rand"
)

// SpawnConfig controls the initial flock.
type SpawnConfig struct {
	Count  int
	Center Vec3
	Radius float64
}

// DefaultSpawnConfig returns the stock flock layout.
func DefaultSpawnConfig() SpawnConfig {
	return SpawnConfig{Count: 50, Radius: 20}
}

// ScatterInDisc returns n positions spread uniformly over a disc on the
// ground plane, each with a random yaw.
func ScatterInDisc(rng *rand.Rand, center Vec3, radius float64, n int) ([]Vec3, []float64) {
	pos := make([]Vec3, 0, n)
	yaw := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		r := radius * math.Sqrt(rng.Float64())
		a := rng.Float64() * 2 * math.Pi
		pos = append(pos, center.Add(Vec3{X: r * math.Cos(a), Z: r * math.Sin(a)}))
		yaw = append(yaw, rng.Float64()*2*math.Pi)
	}
	return pos, yaw
}
