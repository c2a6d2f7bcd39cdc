package numbeo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/diillson/cost-of-living-go/internal/domain/entity"
	"github.com/diillson/cost-of-living-go/internal/domain/repository"
	"github.com/diillson/cost-of-living-go/internal/shared/types"
)

// PageFetcher returns the raw HTML served at a URL.
type PageFetcher interface {
	FetchPage(ctx context.Context, pageURL string) ([]byte, error)
}

// SourceRepositoryImpl downloads the historical prices table of a year.
type SourceRepositoryImpl struct {
	baseURL  string
	currency string
	itemIDs  []int
	fetcher  PageFetcher
}

// NewSourceRepository builds the source with the plain HTTP fetcher, or the
// headless browser when cfg.Browser is set.
func NewSourceRepository(cfg *types.Config) repository.SourceRepository {
	var fetcher PageFetcher
	if cfg.Browser {
		fetcher = NewBrowserFetcher(cfg.UserAgent, cfg.Timeout())
	} else {
		fetcher = NewHTTPFetcher(&http.Client{Timeout: cfg.Timeout()}, cfg.UserAgent)
	}
	return NewSourceRepositoryWithFetcher(cfg, fetcher)
}

// NewSourceRepositoryWithFetcher uses the given fetcher for every page.
func NewSourceRepositoryWithFetcher(cfg *types.Config, fetcher PageFetcher) *SourceRepositoryImpl {
	return &SourceRepositoryImpl{
		baseURL:  cfg.BaseURL,
		currency: cfg.Currency,
		itemIDs:  cfg.ItemIDs,
		fetcher:  fetcher,
	}
}

// YearURL returns the page address for a year.
func (s *SourceRepositoryImpl) YearURL(year int) (string, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", s.baseURL, err)
	}
	q := u.Query()
	q.Set("displayCurrency", s.currency)
	q.Set("year", strconv.Itoa(year))
	for _, id := range s.itemIDs {
		q.Add("itemId", strconv.Itoa(id))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FetchYear implements repository.SourceRepository.
func (s *SourceRepositoryImpl) FetchYear(ctx context.Context, year int) (*entity.YearTable, error) {
	pageURL, err := s.YearURL(year)
	if err != nil {
		return nil, err
	}

	body, err := s.fetcher.FetchPage(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %d: %v", types.ErrYearUnavailable, year, err)
	}

	table, err := ParseLastTable(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %d: %v", types.ErrYearUnavailable, year, err)
	}
	return table, nil
}

// HTTPFetcher fetches pages with a plain GET.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher creates a fetcher sending the given User-Agent.
func NewHTTPFetcher(client *http.Client, userAgent string) *HTTPFetcher {
	return &HTTPFetcher{client: client, userAgent: userAgent}
}

// FetchPage implements PageFetcher.
func (f *HTTPFetcher) FetchPage(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}
