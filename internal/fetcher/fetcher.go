package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hadithhub/internal/platform/logger"
	"hadithhub/pkg/models"
)

// DefaultBaseURL is the public hadith-api CDN.
const DefaultBaseURL = "https://cdn.jsdelivr.net/gh/fawazahmed0/hadith-api@1"

// ErrMalformedPayload is wrapped in a FetchError when the edition document
// lacks the expected "hadiths" array.
var ErrMalformedPayload = errors.New("malformed edition payload")

// Fetcher retrieves one edition's full raw entry list.
// Implementations must be safe for concurrent use across distinct editions.
type Fetcher interface {
	Fetch(ctx context.Context, editionID string) ([]models.RawEntry, error)
}

// FetchError carries the edition id and the underlying transport or parse cause.
type FetchError struct {
	EditionID string
	Status    int
	Err       error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.EditionID, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.EditionID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsFetchError reports whether err carries a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// HTTPFetcher fetches edition documents from the remote provider.
// It holds no per-call state, so concurrent Fetch calls are independent.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
	log     *logger.Logger
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithBaseURL overrides the provider base URL.
func WithBaseURL(u string) Option {
	return func(f *HTTPFetcher) {
		if u = strings.TrimRight(strings.TrimSpace(u), "/"); u != "" {
			f.BaseURL = u
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.Client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *HTTPFetcher) {
		if c != nil {
			f.Client = c
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l *logger.Logger) Option {
	return func(f *HTTPFetcher) { f.log = logger.OrNop(l) }
}

// NewHTTPFetcher creates a fetcher against DefaultBaseURL unless overridden.
func NewHTTPFetcher(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		BaseURL: DefaultBaseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch performs a single GET of {BaseURL}/editions/{editionID}.json.
// The provider returns whole collections, so there is no paging here.
func (f *HTTPFetcher) Fetch(ctx context.Context, editionID string) ([]models.RawEntry, error) {
	start := time.Now()
	url := f.BaseURL + "/editions/" + editionID + ".json"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{EditionID: editionID, Err: fmt.Errorf("build request: %w", err)}
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		f.log.Warn("edition fetch failed", "edition", editionID, "error", err)
		return nil, &FetchError{EditionID: editionID, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{EditionID: editionID, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		f.log.Warn("edition fetch bad status", "edition", editionID, "status", resp.StatusCode)
		return nil, &FetchError{EditionID: editionID, Status: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}

	entries, err := DecodeEdition(body)
	if err != nil {
		return nil, &FetchError{EditionID: editionID, Err: err}
	}

	f.log.Debug("edition fetched", "edition", editionID, "entries", len(entries), "elapsed", time.Since(start))
	return entries, nil
}

// editionDocument is the provider's top-level shape. Hadiths is a pointer so
// a missing field can be told apart from an empty list.
type editionDocument struct {
	Metadata struct {
		Name    string            `json:"name"`
		Section map[string]string `json:"section"`
	} `json:"metadata"`
	Hadiths *[]models.RawEntry `json:"hadiths"`
}

// DecodeEdition parses an edition document into raw entries. Numbers are kept
// as json.Number so both numeric and string entry numbers survive. When an
// entry has no "section" of its own but references a book listed in the
// document metadata, that section title is filled in.
func DecodeEdition(data []byte) ([]models.RawEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc editionDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if doc.Hadiths == nil {
		return nil, fmt.Errorf("%w: missing hadiths array", ErrMalformedPayload)
	}

	entries := *doc.Hadiths
	if len(doc.Metadata.Section) == 0 {
		return entries, nil
	}
	for _, raw := range entries {
		if raw == nil || raw.String("section") != "" {
			continue
		}
		ref, ok := raw["reference"].(map[string]any)
		if !ok {
			continue
		}
		book := models.RawEntry(ref).String("book")
		if title := strings.TrimSpace(doc.Metadata.Section[book]); title != "" {
			raw["section"] = title
		}
	}
	return entries, nil
}
