package cohort

import (
	"sort"

	"github.com/jmehdipour/churnctl/internal/model"
)

// CanceledCustomers lists the email and cancellation time of every canceled
// customer, sorted by cancellation time. Records are deduplicated by customer
// ID first; identical (email, canceled_at) pairs appear once.
func CanceledCustomers(records []model.CustomerRecord) []model.CanceledCustomer {
	type key struct {
		email string
		at    int64
	}
	seen := make(map[key]struct{})
	out := make([]model.CanceledCustomer, 0)
	for _, r := range Dedupe(records) {
		if !r.Canceled() {
			continue
		}
		k := key{email: r.Email, at: r.CanceledAt.UnixNano()}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, model.CanceledCustomer{Email: r.Email, CanceledAt: r.CanceledAt})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CanceledAt.Before(out[j].CanceledAt)
	})
	return out
}
