package checkout

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed options.yaml
var defaultOptions []byte

// ShippingOption is a selectable shipping method.
type ShippingOption struct {
	ID      string  `yaml:"id" json:"id"`
	Label   string  `yaml:"label" json:"label"`
	Cost    float64 `yaml:"cost" json:"cost"`
	Default bool    `yaml:"default" json:"default,omitempty"`
}

// PaymentOption is a selectable payment method.
type PaymentOption struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

// Options is the catalogue of shipping and payment choices offered at checkout.
type Options struct {
	StandardShippingCost float64          `yaml:"standard_shipping_cost" json:"standardShippingCost"`
	PackagingCost        float64          `yaml:"packaging_cost" json:"packagingCost"`
	Shipping             []ShippingOption `yaml:"shipping" json:"shipping"`
	Payment              []PaymentOption  `yaml:"payment" json:"payment"`
}

// DefaultOptions returns the built-in option catalogue.
func DefaultOptions() *Options {
	opts, err := ParseOptions(defaultOptions)
	if err != nil {
		panic(fmt.Sprintf("invalid embedded checkout options: %v", err))
	}
	return opts
}

// LoadOptions reads an option catalogue from a YAML file. An empty path returns the
// built-in catalogue.
func LoadOptions(path string) (*Options, error) {
	if path == "" {
		return DefaultOptions(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkout options %s: %w", path, err)
	}

	return ParseOptions(data)
}

// ParseOptions decodes and validates a YAML option catalogue.
func ParseOptions(data []byte) (*Options, error) {
	var opts Options
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("failed to parse checkout options: %w", err)
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &opts, nil
}

// Validate checks the catalogue for missing or duplicate entries.
func (o *Options) Validate() error {
	if len(o.Shipping) == 0 {
		return errors.New("at least one shipping option is required")
	}
	if len(o.Payment) == 0 {
		return errors.New("at least one payment option is required")
	}
	if o.StandardShippingCost < 0 || o.PackagingCost < 0 {
		return errors.New("costs cannot be negative")
	}

	seen := make(map[string]bool)
	for _, s := range o.Shipping {
		if s.ID == "" || s.Label == "" {
			return errors.New("shipping options need an id and a label")
		}
		if s.Cost < 0 {
			return fmt.Errorf("shipping option %s has a negative cost", s.ID)
		}
		if seen["shipping:"+s.ID] {
			return fmt.Errorf("duplicate shipping option %s", s.ID)
		}
		seen["shipping:"+s.ID] = true
	}
	for _, p := range o.Payment {
		if p.ID == "" || p.Label == "" {
			return errors.New("payment options need an id and a label")
		}
		if seen["payment:"+p.ID] {
			return fmt.Errorf("duplicate payment option %s", p.ID)
		}
		seen["payment:"+p.ID] = true
	}

	return nil
}

// ShippingByID looks up a shipping option.
func (o *Options) ShippingByID(id string) (ShippingOption, bool) {
	for _, s := range o.Shipping {
		if s.ID == id {
			return s, true
		}
	}
	return ShippingOption{}, false
}

// PaymentByID looks up a payment option.
func (o *Options) PaymentByID(id string) (PaymentOption, bool) {
	for _, p := range o.Payment {
		if p.ID == id {
			return p, true
		}
	}
	return PaymentOption{}, false
}

// DefaultShipping returns the pre-selected shipping option, or the first one.
func (o *Options) DefaultShipping() ShippingOption {
	for _, s := range o.Shipping {
		if s.Default {
			return s
		}
	}
	return o.Shipping[0]
}
