package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/renameio/v2"
	"golang.org/x/time/rate"

	"aircheck/internal/broadcast"
	"aircheck/internal/services"
)

// DefaultListingURL serves the rolling 7-day broadcast schedule.
const DefaultListingURL = "https://audioapi.orf.at/oe1/api/json/current/broadcasts"

// ListingDay groups the schedule entries of a single calendar day.
type ListingDay struct {
	Day        int       `json:"day"`
	Broadcasts []Summary `json:"broadcasts"`
}

// Summary is a single schedule entry. Only the fields needed for rule
// matching and detail retrieval are decoded.
type Summary struct {
	ID             broadcast.ID          `json:"id"`
	Title          string                `json:"title"`
	Href           string                `json:"href"`
	ScheduledStart broadcast.EpochMillis `json:"scheduledStart"`
}

// Client provides access to the station API.
type Client struct {
	listingURL string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithListingURL overrides the schedule listing endpoint.
func WithListingURL(url string) Option {
	return func(c *Client) {
		if strings.TrimSpace(url) != "" {
			c.listingURL = url
		}
	}
}

// WithLimiter overrides the politeness rate limiter.
func WithLimiter(limiter *rate.Limiter) Option {
	return func(c *Client) {
		if limiter != nil {
			c.limiter = limiter
		}
	}
}

// New creates a station API client.
func New(opts ...Option) *Client {
	client := &Client{
		listingURL: DefaultListingURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(5), 1),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Listing retrieves the schedule of the trailing seven days.
func (c *Client) Listing(ctx context.Context) ([]ListingDay, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, services.Wrap(services.ErrNetwork, "fetch", "listing", "wait for rate limiter", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.listingURL, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrNetwork, "fetch", "listing", "build request", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, services.Wrap(services.ErrNetwork, "fetch", "listing",
			fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrNetwork, "fetch", "listing",
			fmt.Sprintf("schedule listing returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	var days []ListingDay
	if err := json.NewDecoder(resp.Body).Decode(&days); err != nil {
		return nil, services.Wrap(services.ErrNetwork, "fetch", "listing", "decode schedule listing", err)
	}
	return days, nil
}

// Detail retrieves the raw metadata payload behind a listing entry.
func (c *Client) Detail(ctx context.Context, href string) (json.RawMessage, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return nil, services.Wrap(services.ErrNetwork, "fetch", "detail", "detail url must not be empty", nil)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, services.Wrap(services.ErrNetwork, "fetch", "detail", "wait for rate limiter", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, href, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrNetwork, "fetch", "detail", "build request", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, services.Wrap(services.ErrNetwork, "fetch", "detail",
			fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrNetwork, "fetch", "detail",
			fmt.Sprintf("detail fetch returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrNetwork, "fetch", "detail",
			fmt.Sprintf("read response (latency=%v)", latency), err)
	}
	if !json.Valid(body) {
		return nil, services.Wrap(services.ErrNetwork, "fetch", "detail", "response is not valid JSON", nil)
	}
	return json.RawMessage(body), nil
}

// Download streams the audio file at url into dest. The file appears at
// dest only after the full body has been written, so an interrupted
// download leaves nothing behind.
func (c *Client) Download(ctx context.Context, url, dest string) (int64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, services.Wrap(services.ErrNetwork, "fetch", "download", "wait for rate limiter", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, services.Wrap(services.ErrNetwork, "fetch", "download", "build request", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, services.Wrap(services.ErrNetwork, "fetch", "download",
			fmt.Sprintf("execute request (latency=%v)", time.Since(requestStart)), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, services.Wrap(services.ErrNetwork, "fetch", "download",
			fmt.Sprintf("stream fetch returned %d", resp.StatusCode), nil)
	}

	pending, err := renameio.NewPendingFile(dest, renameio.WithPermissions(0o644))
	if err != nil {
		return 0, services.Wrap(services.ErrNetwork, "fetch", "download", "create temp file", err)
	}
	defer pending.Cleanup()

	written, err := io.Copy(pending, resp.Body)
	if err != nil {
		return 0, services.Wrap(services.ErrNetwork, "fetch", "download",
			fmt.Sprintf("stream body (wrote %d bytes)", written), err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return 0, services.Wrap(services.ErrNetwork, "fetch", "download", "finalize file", err)
	}
	return written, nil
}
