package comicvine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultBaseURL   = "https://comicvine.gamespot.com/api"
	DefaultUserAgent = "comic-database-mcp/1.0.0"

	tracerName   = "github.com/Urlyss/comic-database-mcp/internal/comicvine"
	maxBodyBytes = 32 << 20
)

// Resource-type prefixes used in detail paths.
const (
	prefixIssue     = 4000
	prefixCharacter = 4005
	prefixPublisher = 4010
	prefixStoryArc  = 4045
	prefixVolume    = 4050
)

// Client talks to the Comic Vine REST API with a single API key.
// It is safe for concurrent use.
type Client struct {
	baseURL   string
	apiKey    string
	userAgent string
	http      *http.Client
	tracer    trace.Tracer
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		if tp != nil {
			c.tracer = tp.Tracer(tracerName)
		}
	}
}

// NewClient returns a client bound to apiKey.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		baseURL:   DefaultBaseURL,
		apiKey:    apiKey,
		userAgent: DefaultUserAgent,
		http:      &http.Client{Timeout: 30 * time.Second},
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) ListCharacters(ctx context.Context, p Params) (*Page[Character], error) {
	return list[Character](ctx, c, "list_characters", "/characters", p)
}

func (c *Client) GetCharacter(ctx context.Context, id int, p Params) (*Character, error) {
	return get[Character](ctx, c, "get_character", detailPath("character", prefixCharacter, id), p)
}

func (c *Client) ListIssues(ctx context.Context, p Params) (*Page[Issue], error) {
	return list[Issue](ctx, c, "list_issues", "/issues", p)
}

func (c *Client) GetIssue(ctx context.Context, id int, p Params) (*Issue, error) {
	return get[Issue](ctx, c, "get_issue", detailPath("issue", prefixIssue, id), p)
}

func (c *Client) ListPublishers(ctx context.Context, p Params) (*Page[Publisher], error) {
	return list[Publisher](ctx, c, "list_publishers", "/publishers", p)
}

func (c *Client) GetPublisher(ctx context.Context, id int, p Params) (*Publisher, error) {
	return get[Publisher](ctx, c, "get_publisher", detailPath("publisher", prefixPublisher, id), p)
}

func (c *Client) ListStoryArcs(ctx context.Context, p Params) (*Page[StoryArc], error) {
	return list[StoryArc](ctx, c, "list_story_arcs", "/story_arcs", p)
}

func (c *Client) GetStoryArc(ctx context.Context, id int, p Params) (*StoryArc, error) {
	return get[StoryArc](ctx, c, "get_story_arc", detailPath("story_arc", prefixStoryArc, id), p)
}

func (c *Client) ListVolumes(ctx context.Context, p Params) (*Page[Volume], error) {
	return list[Volume](ctx, c, "list_volumes", "/volumes", p)
}

func (c *Client) GetVolume(ctx context.Context, id int, p Params) (*Volume, error) {
	return get[Volume](ctx, c, "get_volume", detailPath("volume", prefixVolume, id), p)
}

// Search queries /search. The returned page remembers query and resources
// so it can be rendered without the request arguments.
func (c *Client) Search(ctx context.Context, query string, p SearchParams) (*SearchPage, error) {
	body, err := c.do(ctx, "search", "/search", p.values(query))
	if err != nil {
		return nil, err
	}
	var page Page[SearchResult]
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, decodeError(err)
	}
	return &SearchPage{
		Page:      page,
		Query:     query,
		Resources: append([]string(nil), p.Resources...),
	}, nil
}

func detailPath(resource string, prefix, id int) string {
	return "/" + resource + "/" + strconv.Itoa(prefix) + "-" + strconv.Itoa(id)
}

func list[T any](ctx context.Context, c *Client, op, path string, p Params) (*Page[T], error) {
	body, err := c.do(ctx, op, path, p.values())
	if err != nil {
		return nil, err
	}
	var page Page[T]
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, decodeError(err)
	}
	return &page, nil
}

func get[T any](ctx context.Context, c *Client, op, path string, p Params) (*T, error) {
	body, err := c.do(ctx, op, path, p.detailValues())
	if err != nil {
		return nil, err
	}
	var raw Single[json.RawMessage]
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, decodeError(err)
	}
	res := bytes.TrimSpace(raw.Results)
	// Comic Vine answers unknown ids with an empty list instead of an object.
	if len(res) == 0 || res[0] == '[' || bytes.Equal(res, []byte("null")) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	var out T
	if err := json.Unmarshal(res, &out); err != nil {
		return nil, decodeError(err)
	}
	return &out, nil
}

func decodeError(err error) error {
	return &APIError{Message: "invalid response body: " + err.Error(), Err: err}
}

func (c *Client) do(ctx context.Context, op, path string, q url.Values) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "comicvine."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("comicvine.path", path)),
	)
	defer span.End()

	body, err := c.roundTrip(ctx, path, q, span)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return body, nil
}

func (c *Client) roundTrip(ctx context.Context, path string, q url.Values, span trace.Span) ([]byte, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("comicvine: build url: %w", err)
	}
	if q == nil {
		q = url.Values{}
	}
	q.Set("api_key", c.apiKey)
	q.Set("format", "json")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("comicvine: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Message: redact(err.Error(), c.apiKey), Err: err}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: err.Error(), Err: err}
	}

	var env Envelope
	envErr := json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := ""
		if envErr == nil {
			msg = strings.TrimSpace(env.Error)
		}
		if msg == "" {
			msg = fmt.Sprintf("Request failed with status code %d", resp.StatusCode)
		}
		return nil, &APIError{StatusCode: resp.StatusCode, RemoteStatus: env.StatusCode, Message: msg}
	}

	// 1 is OK; anything else is an error reported inside a 2xx body.
	if envErr == nil && env.StatusCode != 0 && env.StatusCode != 1 {
		msg := strings.TrimSpace(env.Error)
		if msg == "" {
			msg = "status_code " + strconv.Itoa(env.StatusCode)
		}
		return nil, &APIError{StatusCode: resp.StatusCode, RemoteStatus: env.StatusCode, Message: msg}
	}
	return body, nil
}

// redact keeps the key out of url.Error messages.
func redact(s, key string) string {
	if key == "" {
		return s
	}
	s = strings.ReplaceAll(s, key, "REDACTED")
	return strings.ReplaceAll(s, url.QueryEscape(key), "REDACTED")
}
