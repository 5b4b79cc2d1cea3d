package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const maxOpenLibrarySubjects = 10

// OpenLibraryClient fetches book metadata from the OpenLibrary API.
type OpenLibraryClient struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	rateLimiter *rate.Limiter
}

// NewOpenLibraryClient creates a new OpenLibrary API client with rate limiting.
// An empty BaseURL targets the public API.
func NewOpenLibraryClient(opts ClientOptions) *OpenLibraryClient {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://openlibrary.org"
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "BookFriends/1.0"
	}
	return &OpenLibraryClient{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		userAgent:   userAgent,
		rateLimiter: newLimiter(opts.RequestsPerSecond, opts.Burst),
	}
}

// FetchByISBN looks up an edition by ISBN. Subjects become tags.
func (c *OpenLibraryClient) FetchByISBN(ctx context.Context, isbn string) (*ProviderBook, error) {
	isbn = normalizeISBN(isbn)
	if isbn == "" {
		return nil, ErrInvalidISBN
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	url := fmt.Sprintf("%s/isbn/%s.json", c.baseURL, isbn)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch ISBN data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrBookNotFound, isbn)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var bookData openLibraryBook
	if err := json.NewDecoder(resp.Body).Decode(&bookData); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	book := c.convertToProviderBook(&bookData, isbn)

	// Author names are only available through a second lookup
	if len(bookData.Authors) > 0 {
		authorName, err := c.fetchAuthorName(ctx, bookData.Authors[0].Key)
		if err == nil && authorName != "" {
			book.Author = TextList{authorName}
		}
	}

	return book, nil
}

func (c *OpenLibraryClient) fetchAuthorName(ctx context.Context, authorKey string) (string, error) {
	if authorKey == "" {
		return "", fmt.Errorf("empty author key")
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s%s.json", c.baseURL, authorKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status: %d", resp.StatusCode)
	}

	var authorData struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&authorData); err != nil {
		return "", err
	}

	return authorData.Name, nil
}

func (c *OpenLibraryClient) convertToProviderBook(book *openLibraryBook, isbn string) *ProviderBook {
	pb := &ProviderBook{
		ISBN:     isbn,
		Title:    book.Title,
		Subtitle: book.Subtitle,
		PubDate:  book.PublishDate,
		Pages:    FlexInt(book.NumberOfPages),
		Image:    fmt.Sprintf("https://covers.openlibrary.org/b/isbn/%s-L.jpg", isbn),
		Source:   "openlibrary",
	}

	if len(book.Publishers) > 0 {
		pb.Publisher = book.Publishers[0]
	}

	// Description is either a plain string or {type, value}
	switch v := book.Description.(type) {
	case string:
		pb.Summary = v
	case map[string]any:
		if val, ok := v["value"].(string); ok {
			pb.Summary = val
		}
	}

	if len(book.Subjects) > 0 {
		subjects := book.Subjects
		if len(subjects) > maxOpenLibrarySubjects {
			subjects = subjects[:maxOpenLibrarySubjects]
		}
		pb.Tags = TextList(subjects)
	}

	return pb
}

// OpenLibrary API response types (internal)

type openLibraryBook struct {
	Key           string      `json:"key"`
	Title         string      `json:"title"`
	Subtitle      string      `json:"subtitle"`
	Authors       []authorRef `json:"authors"`
	Publishers    []string    `json:"publishers"`
	PublishDate   string      `json:"publish_date"`
	NumberOfPages int         `json:"number_of_pages"`
	Description   any         `json:"description"` // Can be string or {type, value}
	Subjects      []string    `json:"subjects"`
}

type authorRef struct {
	Key string `json:"key"`
}
