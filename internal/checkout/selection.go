package checkout

import "camelia/internal/model"

// Selection holds the shopper's checkout choices. Empty fields are unselected.
type Selection struct {
	Shipping  string `json:"shipping"`
	Packaging bool   `json:"packaging"`
	Payment   string `json:"payment"`
}

// Summary is the price breakdown shown next to the checkout form.
type Summary struct {
	Subtotal       float64 `json:"subtotal"`
	ShippingMethod string  `json:"shippingMethod"`
	ShippingCost   float64 `json:"shippingCost"`
	PackagingCost  float64 `json:"packagingCost"`
	Total          float64 `json:"total"`
}

// ComputeSummary prices sel against subtotal. With no shipping selected the standard
// rate applies.
func ComputeSummary(subtotal float64, sel Selection, opts *Options) (Summary, error) {
	summary := Summary{
		Subtotal:       subtotal,
		ShippingMethod: opts.DefaultShipping().Label,
		ShippingCost:   opts.StandardShippingCost,
	}

	if sel.Shipping != "" {
		option, ok := opts.ShippingByID(sel.Shipping)
		if !ok {
			return Summary{}, model.ErrUnknownShipping
		}
		summary.ShippingMethod = option.Label
		summary.ShippingCost = option.Cost
	}

	if sel.Packaging {
		summary.PackagingCost = opts.PackagingCost
	}

	summary.Total = summary.Subtotal + summary.ShippingCost + summary.PackagingCost
	return summary, nil
}
