package bank

import (
	"math/rand/v2"
	"slices"

	"github.com/abhisek/prepmate/internal/assessment"
)

// Request describes one sampling pass over a catalog.
type Request struct {
	// Categories is the caller-supplied category order. The result
	// concatenates per-category selections in this order.
	Categories []string

	// Quota is the requested item count per category.
	Quota map[string]int

	// Subtopics optionally restricts eligibility to a subset of
	// subcategories. Nil means every subcategory is eligible.
	Subtopics []string

	// Tier filters the catalog to one access tier, e.g. "free". Empty
	// admits every tier.
	Tier string

	// Rand is the shuffle source. Nil uses the shared global source;
	// tests inject a seeded generator for a fixed permutation.
	Rand *rand.Rand
}

// Fill reports requested vs actually selected counts for one category.
type Fill struct {
	Requested int
	Selected  int
}

// Short is the per-category shortfall, zero when the quota was met.
func (f Fill) Short() int { return f.Requested - f.Selected }

// Result is a sampling outcome. Under-fill is not an error: when a
// category has fewer eligible items than its quota, everything available
// is returned and the shortfall is reported here.
type Result struct {
	Items     []assessment.Item
	Requested int
	Selected  int
	Fills     map[string]Fill
}

// Underfilled reports whether any category fell short of its quota.
func (r Result) Underfilled() bool {
	return r.Selected < r.Requested
}

// Sample selects items from the catalog without replacement: per category,
// the eligible candidates are uniformly shuffled and truncated to the
// quota. The catalog itself is never mutated. Within a category the
// post-shuffle order is kept; there is no seed contract across calls.
func Sample(catalog *Catalog, req Request) Result {
	res := Result{Fills: make(map[string]Fill, len(req.Categories))}

	shuffle := rand.Shuffle
	if req.Rand != nil {
		shuffle = req.Rand.Shuffle
	}

	for _, cat := range req.Categories {
		quota := req.Quota[cat]
		if quota <= 0 {
			continue
		}

		var eligible []assessment.Item
		for _, it := range catalog.Items {
			if it.Category != cat {
				continue
			}
			if req.Tier != "" && it.Tier != req.Tier {
				continue
			}
			if req.Subtopics != nil && !slices.Contains(req.Subtopics, it.Subcategory) {
				continue
			}
			eligible = append(eligible, it)
		}

		shuffle(len(eligible), func(i, j int) {
			eligible[i], eligible[j] = eligible[j], eligible[i]
		})
		n := min(quota, len(eligible))
		res.Items = append(res.Items, eligible[:n]...)

		res.Fills[cat] = Fill{Requested: quota, Selected: n}
		res.Requested += quota
		res.Selected += n
	}

	return res
}
