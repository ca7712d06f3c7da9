package models

// Product is a store catalogue entry. The image travels as base64 in JSON
// and as binary in the document store.
type Product struct {
	ID               string   `json:"id,omitempty" bson:"-"`
	Title            string   `json:"title" bson:"title" validate:"notblank"`
	Price            *float64 `json:"price" bson:"price" validate:"required,gte=0"`
	Image            []byte   `json:"image,omitempty" bson:"image,omitempty"`
	ImageContentType string   `json:"imageContentType,omitempty" bson:"image_content_type,omitempty"`

	Auditing `bson:",inline"`
}

func (p Product) Validate() error {
	return validateStruct(p)
}

type ProductPatch struct {
	ID               *string  `json:"id"`
	Title            *string  `json:"title"`
	Price            *float64 `json:"price"`
	Image            []byte   `json:"image"`
	ImageContentType *string  `json:"imageContentType"`
}

func (p ProductPatch) ApplyTo(product *Product) {
	if p.Title != nil {
		product.Title = *p.Title
	}
	if p.Price != nil {
		price := *p.Price
		product.Price = &price
	}
	if p.Image != nil {
		product.Image = p.Image
	}
	if p.ImageContentType != nil {
		product.ImageContentType = *p.ImageContentType
	}
}
