package cohort

import "github.com/jmehdipour/churnctl/internal/model"

// Dedupe keeps the first record seen for every customer ID, preserving input order.
func Dedupe(records []model.CustomerRecord) []model.CustomerRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]model.CustomerRecord, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.CustomerID]; ok {
			continue
		}
		seen[r.CustomerID] = struct{}{}
		out = append(out, r)
	}
	return out
}
