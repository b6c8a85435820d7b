package hooks

// InRange reports whether addr falls in the half-open range [min, max).
func InRange(addr, min, max uint32) bool {
	return addr >= min && addr < max
}

// Overlaps reports whether the transfer [base, base+length) intersects [min, max).
// The end of the transfer is computed in 64 bits so it cannot wrap.
func Overlaps(base, length, min, max uint32) bool {
	return base < max && uint64(base)+uint64(length) > uint64(min)
}

// matches applies the single-address or transfer rule for a ranged kind.
func (r *rangeEntry) matches(ev Event) bool {
	switch ev.Kind {
	case CartRead, CartWrite:
		return Overlaps(ev.Base(), ev.Len(), r.min, r.max)
	}
	return InRange(ev.Addr, r.min, r.max)
}
