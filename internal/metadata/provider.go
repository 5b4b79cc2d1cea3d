package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrBookNotFound means the provider answered but has no record for the ISBN.
	ErrBookNotFound = errors.New("book not found at provider")
	// ErrInvalidISBN means the ISBN could not be used to build a provider request.
	ErrInvalidISBN = errors.New("invalid ISBN")
	// ErrMalformedResponse means the provider answered with a body we could not decode.
	ErrMalformedResponse = errors.New("malformed provider response")
)

// Provider fetches book metadata from an external service by ISBN.
type Provider interface {
	FetchByISBN(ctx context.Context, isbn string) (*ProviderBook, error)
}

// ProviderError is a structured failure reported by the provider itself
// (as opposed to a transport failure).
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

// Is lets errors.Is(err, ErrBookNotFound) match provider-reported not-found codes.
func (e *ProviderError) Is(target error) bool {
	return target == ErrBookNotFound && e.Code == ProxyCodeNotFound
}

// ProviderBook is the raw payload returned by a provider. Every field is optional.
type ProviderBook struct {
	ISBN        string   `json:"isbn,omitempty"`
	ISBN10      string   `json:"isbn10,omitempty"`
	ISBN13      string   `json:"isbn13,omitempty"`
	Title       string   `json:"title,omitempty"`
	Subtitle    string   `json:"subtitle,omitempty"`
	Author      TextList `json:"author,omitempty"`
	Translator  TextList `json:"translator,omitempty"`
	Publisher   string   `json:"publisher,omitempty"`
	PubDate     string   `json:"pubdate,omitempty"`
	Pages       FlexInt  `json:"pages,omitempty"`
	Price       string   `json:"price,omitempty"`
	Image       string   `json:"image,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	Tags        TextList `json:"tags,omitempty"`
	Source      string   `json:"-"`
}

// TextList accepts a free-text string ("a,b"), a list of strings, or a list
// of {"name": ...} objects. Free text is kept as a single element and split
// later by ParseTags.
type TextList []string

func (l *TextList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*l = nil
			return nil
		}
		*l = TextList{s}
		return nil
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		out := make(TextList, 0, len(raw))
		for _, item := range raw {
			var s string
			if err := json.Unmarshal(item, &s); err == nil {
				out = append(out, s)
				continue
			}
			var named struct {
				Name  string `json:"name"`
				Title string `json:"title"`
			}
			if err := json.Unmarshal(item, &named); err != nil {
				return fmt.Errorf("unsupported list element %s", string(item))
			}
			if named.Name != "" {
				out = append(out, named.Name)
			} else if named.Title != "" {
				out = append(out, named.Title)
			}
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("unsupported text list %s", string(data))
	}
}

// FlexInt accepts a JSON number or a numeric string such as "416" or "416页".
type FlexInt int

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = FlexInt(leadingInt(s))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = FlexInt(int(f))
	return nil
}

func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return v
}
