package listing

import "sort"

// SortForDisplay orders a batch for any consumer-facing surface:
// platform rank first (PC, Xbox, Nintendo Switch, Android, rest last),
// then storefront name, then title, all ascending.
func SortForDisplay(ls []Listing) {
	sort.SliceStable(ls, func(i, j int) bool {
		a, b := ls[i], ls[j]
		if a.Platform.Rank() != b.Platform.Rank() {
			return a.Platform.Rank() < b.Platform.Rank()
		}
		if a.Storefront != b.Storefront {
			return a.Storefront < b.Storefront
		}
		return a.Title < b.Title
	})
}
