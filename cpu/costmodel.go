package cpu

import "github.com/sarchlab/cachesim/isa"

// A CostModel assigns a fixed number of cycles to every instruction class.
type CostModel struct {
	LoadHit   int `json:"load_hit"`
	LoadMiss  int `json:"load_miss"`
	StoreHit  int `json:"store_hit"`
	StoreMiss int `json:"store_miss"`
	Add       int `json:"add"`
	Sub       int `json:"sub"`
}

// DefaultCostModel returns the cost table of the teaching machine.
func DefaultCostModel() CostModel {
	return CostModel{
		LoadHit:   5,
		LoadMiss:  10,
		StoreHit:  5,
		StoreMiss: 10,
		Add:       2,
		Sub:       2,
	}
}

// Cost returns the cycles charged for an instruction of the given kind. hit
// is ignored for kinds that do not access memory.
func (m CostModel) Cost(kind isa.Kind, hit bool) int {
	switch kind {
	case isa.KindLoad:
		if hit {
			return m.LoadHit
		}

		return m.LoadMiss
	case isa.KindStore:
		if hit {
			return m.StoreHit
		}

		return m.StoreMiss
	case isa.KindAdd:
		return m.Add
	case isa.KindSub:
		return m.Sub
	default:
		return 0
	}
}

// negativeEntry returns the name of the first entry with a negative cost.
func (m CostModel) negativeEntry() (string, bool) {
	entries := []struct {
		name string
		cost int
	}{
		{"load hit", m.LoadHit},
		{"load miss", m.LoadMiss},
		{"store hit", m.StoreHit},
		{"store miss", m.StoreMiss},
		{"add", m.Add},
		{"sub", m.Sub},
	}

	for _, e := range entries {
		if e.cost < 0 {
			return e.name, true
		}
	}

	return "", false
}
