package model

import (
	"fmt"
	"sort"
)

// PreferenceSet captures the user's preferred ships, months, and ports.
// An empty set means "no preference": that factor is neutral for every
// candidate. Build with NewPreferenceSet; the zero value is all-neutral.
type PreferenceSet struct {
	ships  map[string]struct{}
	months map[int]struct{}
	ports  map[string]struct{}
}

// NewPreferenceSet builds a PreferenceSet from raw selections. Months must
// be in 1-12; duplicates are collapsed.
func NewPreferenceSet(ships []string, months []int, ports []string) (PreferenceSet, error) {
	p := PreferenceSet{}
	if len(ships) > 0 {
		p.ships = make(map[string]struct{}, len(ships))
		for _, s := range ships {
			p.ships[s] = struct{}{}
		}
	}
	if len(months) > 0 {
		p.months = make(map[int]struct{}, len(months))
		for _, m := range months {
			if m < 1 || m > 12 {
				return PreferenceSet{}, fmt.Errorf("month %d out of range 1-12", m)
			}
			p.months[m] = struct{}{}
		}
	}
	if len(ports) > 0 {
		p.ports = make(map[string]struct{}, len(ports))
		for _, pt := range ports {
			p.ports[pt] = struct{}{}
		}
	}
	return p, nil
}

// HasShipPrefs reports whether any ship preference was specified.
func (p PreferenceSet) HasShipPrefs() bool { return len(p.ships) > 0 }

// HasMonthPrefs reports whether any month preference was specified.
func (p PreferenceSet) HasMonthPrefs() bool { return len(p.months) > 0 }

// HasPortPrefs reports whether any port preference was specified.
func (p PreferenceSet) HasPortPrefs() bool { return len(p.ports) > 0 }

// WantsShip reports membership of ship in the preference set.
func (p PreferenceSet) WantsShip(ship string) bool {
	_, ok := p.ships[ship]
	return ok
}

// WantsMonth reports membership of month in the preference set.
func (p PreferenceSet) WantsMonth(month int) bool {
	_, ok := p.months[month]
	return ok
}

// WantsPort reports membership of port in the preference set.
func (p PreferenceSet) WantsPort(port string) bool {
	_, ok := p.ports[port]
	return ok
}

// Ships returns the preferred ship codes in sorted order.
func (p PreferenceSet) Ships() []string { return sortedKeys(p.ships) }

// Months returns the preferred months in ascending order.
func (p PreferenceSet) Months() []int {
	out := make([]int, 0, len(p.months))
	for m := range p.months {
		out = append(out, m)
	}
	sort.Ints(out)
	return out
}

// Ports returns the preferred port codes in sorted order.
func (p PreferenceSet) Ports() []string { return sortedKeys(p.ports) }

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
