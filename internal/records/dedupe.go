package records

// DedupePatents drops records whose business key was already seen, keeping
// the first occurrence and the original order. Keyless records are dropped.
func DedupePatents(in []PatentRecord) []PatentRecord {
	seen := make(map[string]bool, len(in))
	out := make([]PatentRecord, 0, len(in))
	for _, r := range in {
		key := r.Key()
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// DedupeTrademarks is the trademark counterpart of DedupePatents.
func DedupeTrademarks(in []TrademarkRecord) []TrademarkRecord {
	seen := make(map[string]bool, len(in))
	out := make([]TrademarkRecord, 0, len(in))
	for _, r := range in {
		key := r.Key()
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}
