package pricing

import "github.com/bwmarrin/snowflake"

// SelectDefault picks the tax rates preselected for a product, given the
// distinct rate IDs resolved from its tax rate profile and the rates
// available to the organization. The result preserves the order of
// available and skips IDs that resolve to nothing. Callers editing an
// existing line must not call this: stored taxes are authoritative there.
func SelectDefault(resolved []snowflake.ID, available []TaxRateInput) []TaxRateInput {
	if len(resolved) == 0 || len(available) == 0 {
		return nil
	}

	wanted := make(map[snowflake.ID]struct{}, len(resolved))
	for _, id := range resolved {
		wanted[id] = struct{}{}
	}

	selected := make([]TaxRateInput, 0, len(resolved))
	for _, rate := range available {
		if _, ok := wanted[rate.ID]; ok {
			selected = append(selected, rate)
		}
	}
	if len(selected) == 0 {
		return nil
	}
	return selected
}
