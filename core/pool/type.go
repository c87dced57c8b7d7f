package pool

import (
	"math"

	"github.com/chainreactors/intruder/core/marker"
	"github.com/chainreactors/intruder/pkg"
)

// Unit is one attack iteration.
type Unit struct {
	number  int
	target  int // marker occurrence to substitute, ignored in battering ram mode
	payload string
}

// Progress is published after every finished request.
type Progress struct {
	Current    int `json:"current"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

func NewProgress(current, total int) Progress {
	p := Progress{Current: current, Total: total}
	if total > 0 {
		p.Percentage = int(math.Round(float64(current) / float64(total) * 100))
	}
	return p
}

// Total is the request count of an attack.
func Total(mode pkg.AttackMode, positions, payloads int) int {
	if mode == pkg.BatteringRam {
		return payloads
	}
	return positions * payloads
}

// generateUnits lists the iterations in dispatch order.
func generateUnits(mode pkg.AttackMode, positions marker.Positions, payloads []string) []*Unit {
	units := make([]*Unit, 0, Total(mode, len(positions), len(payloads)))
	if mode == pkg.BatteringRam {
		for _, p := range payloads {
			units = append(units, &Unit{number: len(units) + 1, target: -1, payload: p})
		}
		return units
	}
	for _, pos := range positions.Sorted() {
		for _, p := range payloads {
			units = append(units, &Unit{number: len(units) + 1, target: pos.SequenceIndex, payload: p})
		}
	}
	return units
}
