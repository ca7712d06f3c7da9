package models

// Blog is owned by a user and groups posts.
type Blog struct {
	ID     string      `json:"id,omitempty"`
	Name   string      `json:"name" validate:"notblank,min=3"`
	Handle string      `json:"handle" validate:"notblank,min=2"`
	User   *PublicUser `json:"user,omitempty"`
}

func (b Blog) Validate() error {
	return validateStruct(b)
}

// BlogPatch is a merge-patch body: nil fields are left untouched.
type BlogPatch struct {
	ID     *string     `json:"id"`
	Name   *string     `json:"name"`
	Handle *string     `json:"handle"`
	User   *PublicUser `json:"user"`
}

func (p BlogPatch) ApplyTo(b *Blog) {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Handle != nil {
		b.Handle = *p.Handle
	}
	if p.User != nil {
		b.User = p.User
	}
}
