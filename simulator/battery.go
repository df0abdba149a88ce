package main

import "sync"

// Battery tracks state of charge as power is drawn or regenerated.
type Battery struct {
	CapacityKWh float64
	Soc         float64 // [0,1]
	mu          sync.Mutex
}

// Apply updates the SoC for powerKW drawn over dt hours. Negative power
// charges the pack (regen). SoC is clamped to [0.02, 1].
func (b *Battery) Apply(powerKW, hours float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.CapacityKWh <= 0 || hours <= 0 {
		return
	}
	b.Soc -= powerKW * hours / b.CapacityKWh
	if b.Soc > 1 {
		b.Soc = 1
	}
	if b.Soc < 0.02 {
		b.Soc = 0.02
	}
}

// SocPercent returns the state of charge in percent.
func (b *Battery) SocPercent() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Soc * 100
}
