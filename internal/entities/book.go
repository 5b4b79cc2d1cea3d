package entities

import "time"

// Book is the canonical metadata record for an ISBN. Books live in the
// book cache, not in the relational database, and are never revalidated
// once cached.
type Book struct {
	ISBN        string    `json:"isbn"`
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle,omitempty"`
	Authors     []string  `json:"authors,omitempty"`
	Translators []string  `json:"translators,omitempty"`
	Publisher   string    `json:"publisher,omitempty"`
	PublishDate string    `json:"publish_date,omitempty"`
	Pages       int       `json:"pages,omitempty"`
	Price       string    `json:"price,omitempty"`
	CoverURL    string    `json:"cover_url,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	Tags        []string  `json:"tags"`
	Source      string    `json:"source,omitempty"` // provider that produced the record
	CachedAt    time.Time `json:"cached_at"`
}

// TagSet returns the book's tags, never nil.
func (b *Book) TagSet() []string {
	if b == nil || b.Tags == nil {
		return []string{}
	}
	return b.Tags
}
