package models

import "time"

// Post belongs to at most one blog and carries any number of tags.
type Post struct {
	ID      string    `json:"id,omitempty"`
	Title   string    `json:"title" validate:"notblank"`
	Content string    `json:"content,omitempty"`
	Date    time.Time `json:"date" validate:"required"`
	Blog    *Blog     `json:"blog,omitempty" validate:"-"`
	Tags    []Tag     `json:"tags" validate:"-"`
}

func (p Post) Validate() error {
	return validateStruct(p)
}

// TagIDs returns the ids of the referenced tags, skipping blanks.
func (p Post) TagIDs() []string {
	ids := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		if t.ID != "" {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// PostPatch only merges the post's own fields; relations are changed with a
// full update.
type PostPatch struct {
	ID      *string    `json:"id"`
	Title   *string    `json:"title"`
	Content *string    `json:"content"`
	Date    *time.Time `json:"date"`
}

func (p PostPatch) ApplyTo(post *Post) {
	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Content != nil {
		post.Content = *p.Content
	}
	if p.Date != nil {
		post.Date = *p.Date
	}
}
