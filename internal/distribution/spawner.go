package distribution

// Spawner derives a sequence of independent child seeds from a run number.
// Building a model spawns one seed per distribution in a fixed order, so
// two models with the same run number get identical streams, while
// consecutive run numbers get unrelated ones.
type Spawner struct {
	base uint64
	n    uint64
}

// NewSpawner returns a Spawner rooted at the given run number.
func NewSpawner(runNumber int) *Spawner {
	return &Spawner{base: splitmix64(uint64(runNumber))}
}

// Next returns the next child seed.
func (s *Spawner) Next() uint64 {
	s.n++
	return splitmix64(s.base + s.n*0x9e3779b97f4a7c15)
}

// splitmix64 is the finalizer from the SplitMix64 generator. It spreads
// small, correlated inputs (run numbers, child indices) across the full
// 64-bit space.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
