package metadata

import (
	"strings"
	"time"

	"github.com/bookfriends/server/internal/entities"
)

// tagSeparators are the delimiters accepted in free-text tag data.
const tagSeparators = ",;，；、|"

// CleanISBN strips hyphens and whitespace without validating length.
func CleanISBN(isbn string) string {
	isbn = strings.ReplaceAll(isbn, "-", "")
	isbn = strings.ReplaceAll(isbn, " ", "")
	return strings.TrimSpace(isbn)
}

// normalizeISBN cleans the ISBN and returns "" unless it is ISBN-10 or ISBN-13 shaped.
func normalizeISBN(isbn string) string {
	isbn = CleanISBN(isbn)

	// Basic validation: ISBN-10 or ISBN-13
	if len(isbn) != 10 && len(isbn) != 13 {
		return ""
	}

	return isbn
}

// ParseTags turns provider tag data into an ordered, de-duplicated tag set.
// Each element may itself be free text with several tags. Absent data yields
// an empty, non-nil set.
func ParseTags(raw []string) []string {
	tags := []string{}
	seen := make(map[string]bool)

	for _, item := range raw {
		parts := strings.FieldsFunc(item, func(r rune) bool {
			return strings.ContainsRune(tagSeparators, r)
		})
		for _, p := range parts {
			tag := strings.TrimSpace(p)
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			tags = append(tags, tag)
		}
	}

	return tags
}

// ToBook maps a provider payload to the canonical Book for isbn.
// The requested ISBN wins over whatever the provider echoes back so the
// cache key always matches the lookup key.
func ToBook(isbn string, p *ProviderBook) entities.Book {
	book := entities.Book{
		ISBN:        isbn,
		Title:       strings.TrimSpace(p.Title),
		Subtitle:    strings.TrimSpace(p.Subtitle),
		Authors:     cleanList(p.Author),
		Translators: cleanList(p.Translator),
		Publisher:   strings.TrimSpace(p.Publisher),
		PublishDate: strings.TrimSpace(p.PubDate),
		Pages:       int(p.Pages),
		Price:       strings.TrimSpace(p.Price),
		CoverURL:    strings.TrimSpace(p.Image),
		Summary:     strings.TrimSpace(p.Summary),
		Tags:        ParseTags(p.Tags),
		Source:      p.Source,
		CachedAt:    time.Now().UTC(),
	}
	return book
}

func cleanList(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
