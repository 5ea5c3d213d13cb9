package material

import "github.com/df07/go-batch-raytracer/pkg/core"

// constantSampler returns the same value for every dimension
type constantSampler float64

func (s constantSampler) Get1D() float64 { return float64(s) }
func (s constantSampler) Get2D() core.Vec2 {
	return core.NewVec2(float64(s), float64(s))
}
func (s constantSampler) Get3D() core.Vec3 {
	return core.NewVec3(float64(s), float64(s), float64(s))
}

// sequenceSampler replays a fixed list of values, cycling when exhausted
type sequenceSampler struct {
	values []float64
	next   int
}

func (s *sequenceSampler) Get1D() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func (s *sequenceSampler) Get2D() core.Vec2 {
	return core.NewVec2(s.Get1D(), s.Get1D())
}

func (s *sequenceSampler) Get3D() core.Vec3 {
	return core.NewVec3(s.Get1D(), s.Get1D(), s.Get1D())
}

// unitSamplesFor returns the three [0,1) draws that make RandomVec3(-1, 1) produce v
func unitSamplesFor(v core.Vec3) []float64 {
	return []float64{(v.X + 1) / 2, (v.Y + 1) / 2, (v.Z + 1) / 2}
}
