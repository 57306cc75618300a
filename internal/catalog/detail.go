package catalog

import (
	"fmt"

	"camelia/internal/model"
)

// SoldOutMessage replaces the purchase controls of an unavailable product.
const SoldOutMessage = "¡Producto Agotado Temporalmente!"

// Detail is the product page: the product plus its display labels.
type Detail struct {
	Product        model.Product `json:"product"`
	Images         []string      `json:"images"`
	StockLabel     string        `json:"stockLabel"`
	Purchasable    bool          `json:"purchasable"`
	SoldOutMessage string        `json:"soldOutMessage,omitempty"`
	ExtraDetails   []string      `json:"extraDetails"`
}

// NewDetail builds the product page of p.
func NewDetail(p model.Product) Detail {
	d := Detail{
		Product:      p,
		Images:       p.Images(),
		StockLabel:   "Stock: Agotado",
		Purchasable:  p.Stock,
		ExtraDetails: []string{},
	}

	if p.Stock {
		d.StockLabel = "Stock: Disponible"
	} else {
		d.SoldOutMessage = SoldOutMessage
	}

	if p.IsPrize {
		d.ExtraDetails = append(d.ExtraDetails, fmt.Sprintf("Disponible para canje por %d puntos.", p.PointsRequired))
	}
	if p.Character != "" {
		d.ExtraDetails = append(d.ExtraDetails, fmt.Sprintf("Personaje Principal: %s", p.Character))
	}

	return d
}

// Lookup resolves a raw product id. Ids that do not start with a positive integer are
// unspecified.
func (s *Store) Lookup(raw string) (model.Product, error) {
	id := leadingInt(raw)
	if id <= 0 {
		return model.Product{}, model.ErrProductUnspecified
	}

	p, ok := s.Get(id)
	if !ok {
		return model.Product{}, model.ErrProductNotFound
	}
	return p, nil
}

func leadingInt(s string) int {
	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
		if n > 1<<31 {
			return 0
		}
	}
	return n
}
