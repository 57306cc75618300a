package model

// Product represents a toy in the catalogue. Products are read-only for the storefront.
type Product struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	Price          float64  `json:"price"`
	Img            string   `json:"img"`
	ExtraImages    []string `json:"extraImages,omitempty"`
	Stock          bool     `json:"stock"`
	Age            string   `json:"age"`
	Category       string   `json:"category"`
	Character      string   `json:"character,omitempty"`
	Description    string   `json:"description"`
	Height         *float64 `json:"height,omitempty"`
	Width          *float64 `json:"width,omitempty"`
	Weight         *float64 `json:"weight,omitempty"`
	IsOffer        bool     `json:"isOffer,omitempty"`
	IsPrize        bool     `json:"isPrize,omitempty"`
	PointsRequired int      `json:"points_required,omitempty"`
}

// Images returns the main image followed by the extra images.
func (p Product) Images() []string {
	images := make([]string, 0, 1+len(p.ExtraImages))
	images = append(images, p.Img)
	return append(images, p.ExtraImages...)
}
