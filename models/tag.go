package models

type Tag struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name" validate:"notblank,min=2"`
}

func (t Tag) Validate() error {
	return validateStruct(t)
}

type TagPatch struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
}

func (p TagPatch) ApplyTo(t *Tag) {
	if p.Name != nil {
		t.Name = *p.Name
	}
}
