// Copyright 2026 OnyxHQ, Ltd.
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package onyx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	onyxerrors "github.com/onyxhq/onyx-cli/internal/errors"
	"github.com/onyxhq/onyx-cli/internal/neterror"
)

// Endpoint segments that project or record identifiers must not shadow;
// a record named "fields" would otherwise address the fields endpoint.
var (
	reservedProjectNames = map[string]bool{
		"types":   true,
		"lookups": true,
	}
	reservedRecordIDs = map[string]bool{
		"test":     true,
		"query":    true,
		"fields":   true,
		"choices":  true,
		"history":  true,
		"identify": true,
	}
)

// Client is a REST client for one Onyx service domain. A zero Client is not
// usable; construct with New.
type Client struct {
	domain    string
	token     string
	username  string
	password  string
	timeout   time.Duration
	http      *http.Client
	limiter   *rate.Limiter
	inspector neterror.Inspector
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the authentication token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithCredentials sets the username and password used by Login.
func WithCredentials(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithTimeout sets the per-request timeout. It bounds a single page fetch,
// never a whole result stream.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRateLimit throttles the client to rps requests per second. Zero or
// negative disables throttling.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client entirely, bypassing
// the default transport chain. Intended for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a Client for the given domain. The domain must be an absolute
// http(s) URL; a trailing slash is tolerated.
func New(domain string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(domain) == "" {
		return nil, fmt.Errorf("a domain is required (set -d/--domain, ONYX_DOMAIN, or a config file): %w",
			onyxerrors.ErrMissingDomain)
	}
	u, err := url.Parse(domain)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("domain %q is not an absolute http(s) URL: %w", domain, onyxerrors.ErrMissingDomain)
	}

	c := &Client{
		domain:    strings.TrimRight(domain, "/"),
		timeout:   30 * time.Second,
		inspector: neterror.NewErrorChainInspector(neterror.NewInspector()),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = &http.Client{
			Transport: newRetryTransport(&authTransport{
				token: c.token,
				base:  http.DefaultTransport,
			}),
			Timeout: c.timeout,
		}
	}

	return c, nil
}

// Domain returns the normalized service domain.
func (c *Client) Domain() string {
	return c.domain
}

// Username returns the username the client was constructed with.
func (c *Client) Username() string {
	return c.username
}

// endpoint joins path segments onto the domain, escaping each segment.
// Every Onyx endpoint carries a trailing slash.
func (c *Client) endpoint(parts ...string) string {
	var sb strings.Builder
	sb.WriteString(c.domain)
	for _, part := range parts {
		sb.WriteByte('/')
		sb.WriteString(url.PathEscape(part))
	}
	sb.WriteByte('/')
	return sb.String()
}

// validateResource rejects identifiers that would mangle the request path
// or silently address a different endpoint. Runs before any network call.
func validateResource(kind, value string, reserved map[string]bool) error {
	if strings.TrimSpace(value) == "" || strings.ContainsAny(value, "/?") {
		return fmt.Errorf("invalid %s %q: %w", kind, value, onyxerrors.ErrInvalidArgument)
	}
	if reserved[strings.ToLower(value)] {
		return fmt.Errorf("%s %q collides with an endpoint name: %w", kind, value, onyxerrors.ErrInvalidArgument)
	}
	return nil
}

// request performs one HTTP round trip. Transport failures come back
// wrapped in the network sentinel; HTTP-level errors do not.
func (c *Client) request(ctx context.Context, method, rawurl string, body io.Reader, basicAuth bool) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, rawurl, body)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", rawurl, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if basicAuth {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.mapTransportError(err)
	}
	return resp, nil
}

// mapTransportError classifies a failed round trip against the network
// sentinel. Caller-initiated cancellation passes through untouched.
func (c *Client) mapTransportError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if c.inspector.IsTimeoutError(err) {
		return fmt.Errorf("request to %s timed out: %w", c.domain, onyxerrors.ErrNetworkFailure)
	}
	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("cannot reach %s: %v: %w", c.domain, err, onyxerrors.ErrNetworkFailure)
	}
	return err
}

// readBody drains a response through the size cap.
func (c *Client) readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		if mapped := c.mapTransportError(err); errors.Is(mapped, onyxerrors.ErrNetworkFailure) {
			return nil, mapped
		}
		return nil, fmt.Errorf("reading response body: %v: %w", err, onyxerrors.ErrBadResponse)
	}
	return payload, nil
}

// envelope is the service's uniform response wrapper.
type envelope struct {
	Status   string          `json:"status"`
	Code     int             `json:"code"`
	Data     json.RawMessage `json:"data"`
	Messages json.RawMessage `json:"messages"`
	Next     json.RawMessage `json:"next"`
	Previous json.RawMessage `json:"previous"`
}

// doJSON performs a request, interprets HTTP-level failures, and returns
// the envelope's data payload. A 204 yields nil data.
func (c *Client) doJSON(ctx context.Context, method, rawurl string, body io.Reader, basicAuth bool) (json.RawMessage, error) {
	resp, err := c.request(ctx, method, rawurl, body, basicAuth)
	if err != nil {
		return nil, err
	}

	payload, err := c.readBody(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.apiError(resp.StatusCode, payload)
	}

	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%s: %w", strings.TrimSpace(string(payload)), onyxerrors.ErrBadResponse)
	}
	return env.Data, nil
}

// apiError turns an error response into a sentinel-wrapped error carrying
// the service's own words: messages.detail when present, else the whole
// messages object indented, else the raw body text.
func (c *Client) apiError(status int, payload []byte) error {
	detail := errorDetail(payload)
	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", detail, onyxerrors.ErrInvalidToken)
	case http.StatusForbidden:
		return fmt.Errorf("%s: %w", detail, onyxerrors.ErrPermissionDenied)
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", detail, onyxerrors.ErrNotFound)
	default:
		return fmt.Errorf("%s: %w", detail, onyxerrors.ErrRequestFailed)
	}
}

// errorDetail extracts the human-readable failure reason from an error body.
func errorDetail(payload []byte) string {
	var env struct {
		Messages json.RawMessage `json:"messages"`
	}
	if err := json.Unmarshal(payload, &env); err == nil && len(env.Messages) > 0 {
		var messages map[string]json.RawMessage
		if err := json.Unmarshal(env.Messages, &messages); err == nil {
			if rawDetail, ok := messages["detail"]; ok {
				var detail string
				if err := json.Unmarshal(rawDetail, &detail); err == nil {
					return detail
				}
			}
			var buf bytes.Buffer
			if json.Indent(&buf, env.Messages, "", "    ") == nil {
				return buf.String()
			}
		}
	}
	return strings.TrimSpace(string(payload))
}

// truthy reports whether a raw envelope value is present and not
// null/false/empty. The next and previous markers have shifted between
// bools and URLs across service versions; truthiness covers both.
func truthy(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", "null", "false", `""`:
		return false
	}
	return true
}

// urlString extracts a continuation URL from a raw envelope value, or ""
// when the value is not a string.
func urlString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// FilterPage fetches one page of filter results: the initial page when
// cursor is empty, otherwise the server-minted continuation URL verbatim.
// HTTP-level error responses come back as Page{OK: false} with the raw
// body; interpreting them is the caller's job. No retry happens here
// beyond what the transport does.
func (c *Client) FilterPage(ctx context.Context, project string, query FilterQuery, cursor string) (*Page, error) {
	rawurl := cursor
	if rawurl == "" {
		if err := validateResource("project", project, reservedProjectNames); err != nil {
			return nil, err
		}
		rawurl = c.endpoint("projects", project)
		if qs := query.Encode(); qs != "" {
			rawurl += "?" + qs
		}
	}

	resp, err := c.request(ctx, http.MethodGet, rawurl, nil, false)
	if err != nil {
		return nil, err
	}

	payload, err := c.readBody(resp)
	if err != nil {
		return nil, err
	}

	page := &Page{StatusCode: resp.StatusCode}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		page.Body = payload
		return page, nil
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%s: %w", strings.TrimSpace(string(payload)), onyxerrors.ErrBadResponse)
	}
	if truthy(env.Data) {
		if err := json.Unmarshal(env.Data, &page.Records); err != nil {
			return nil, fmt.Errorf("page data is not a JSON array: %w", onyxerrors.ErrBadResponse)
		}
	}

	page.OK = true
	page.HasPrevious = truthy(env.Previous)
	page.NextURL = urlString(env.Next)
	page.HasNext = truthy(env.Next)
	return page, nil
}

// FilterPages returns a lazy page iterator over filter results. The first
// request happens on the first Next call.
func (c *Client) FilterPages(ctx context.Context, project string, query FilterQuery) *PageIterator {
	return &PageIterator{
		ctx: ctx,
		fetch: func(ctx context.Context, cursor string) (*Page, error) {
			return c.FilterPage(ctx, project, query, cursor)
		},
		fail: func(p *Page) error {
			return c.apiError(p.StatusCode, p.Body)
		},
	}
}

// Filter returns a lazy record iterator over filter results, one decoded
// record at a time with one page buffered.
func (c *Client) Filter(ctx context.Context, project string, query FilterQuery) *RecordIterator {
	return &RecordIterator{pages: c.FilterPages(ctx, project, query)}
}

// Get fetches a single record by its identifier.
func (c *Client) Get(ctx context.Context, project, recordID string, query RecordQuery) (json.RawMessage, error) {
	if err := validateResource("project", project, reservedProjectNames); err != nil {
		return nil, err
	}
	if err := validateResource("record id", recordID, reservedRecordIDs); err != nil {
		return nil, err
	}

	rawurl := c.endpoint("projects", project, recordID)
	if qs := query.Encode(); qs != "" {
		rawurl += "?" + qs
	}
	return c.doJSON(ctx, http.MethodGet, rawurl, nil, false)
}

// Projects lists the caller's project permissions.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	data, err := c.doJSON(ctx, http.MethodGet, c.endpoint("projects"), nil, false)
	if err != nil {
		return nil, err
	}
	var projects []Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("decoding project list: %w", onyxerrors.ErrBadResponse)
	}
	return projects, nil
}

// Fields fetches a project's field specification tree.
func (c *Client) Fields(ctx context.Context, project string, scope []string) (*ProjectFields, error) {
	if err := validateResource("project", project, reservedProjectNames); err != nil {
		return nil, err
	}

	rawurl := c.endpoint("projects", project, "fields")
	if len(scope) > 0 {
		v := url.Values{}
		for _, s := range scope {
			v.Add("scope", s)
		}
		rawurl += "?" + v.Encode()
	}

	data, err := c.doJSON(ctx, http.MethodGet, rawurl, nil, false)
	if err != nil {
		return nil, err
	}
	var fields ProjectFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decoding field specification: %w", onyxerrors.ErrBadResponse)
	}
	return &fields, nil
}

// Choices fetches the options of a choice field. Older services return a
// plain list, newer ones a mapping of choice to metadata; both yield the
// choices in service order.
func (c *Client) Choices(ctx context.Context, project, field string) ([]string, error) {
	if err := validateResource("project", project, reservedProjectNames); err != nil {
		return nil, err
	}
	if err := validateResource("field", field, nil); err != nil {
		return nil, err
	}

	data, err := c.doJSON(ctx, http.MethodGet, c.endpoint("projects", project, "choices", field), nil, false)
	if err != nil {
		return nil, err
	}

	var choices []string
	if err := json.Unmarshal(data, &choices); err == nil {
		return choices, nil
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err == nil {
		return rec.Keys(), nil
	}
	return nil, fmt.Errorf("decoding choices: %w", onyxerrors.ErrBadResponse)
}

// Profile fetches the calling user's account details.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	return c.userResult(c.doJSON(ctx, http.MethodGet, c.endpoint("accounts", "profile"), nil, false))
}

// SiteUsers lists users of the calling user's site.
func (c *Client) SiteUsers(ctx context.Context) ([]User, error) {
	return c.userList(c.doJSON(ctx, http.MethodGet, c.endpoint("accounts", "site"), nil, false))
}

// AllUsers lists users across all sites. Requires admin permissions.
func (c *Client) AllUsers(ctx context.Context) ([]User, error) {
	return c.userList(c.doJSON(ctx, http.MethodGet, c.endpoint("accounts", "all"), nil, false))
}

// Waiting lists users awaiting approval. Requires admin permissions.
func (c *Client) Waiting(ctx context.Context) ([]User, error) {
	return c.userList(c.doJSON(ctx, http.MethodGet, c.endpoint("accounts", "waiting"), nil, false))
}

// Approve approves a waiting user. Requires admin permissions.
func (c *Client) Approve(ctx context.Context, username string) (*Approval, error) {
	if err := validateResource("username", username, nil); err != nil {
		return nil, err
	}

	data, err := c.doJSON(ctx, http.MethodPatch, c.endpoint("accounts", "approve", username), nil, false)
	if err != nil {
		return nil, err
	}
	var approval Approval
	if err := json.Unmarshal(data, &approval); err != nil {
		return nil, fmt.Errorf("decoding approval: %w", onyxerrors.ErrBadResponse)
	}
	return &approval, nil
}

// Register creates a new account. No authentication is required.
func (c *Client) Register(ctx context.Context, reg Registration) (*User, error) {
	body, err := json.Marshal(reg)
	if err != nil {
		return nil, fmt.Errorf("encoding registration: %w", err)
	}
	return c.userResult(c.doJSON(ctx, http.MethodPost, c.endpoint("accounts", "register"), bytes.NewReader(body), false))
}

// Login exchanges the client's credentials for a token via HTTP basic auth.
func (c *Client) Login(ctx context.Context) (*Auth, error) {
	if c.username == "" || c.password == "" {
		return nil, fmt.Errorf("login requires a username and password: %w", onyxerrors.ErrMissingCredentials)
	}

	data, err := c.doJSON(ctx, http.MethodPost, c.endpoint("accounts", "login"), nil, true)
	if err != nil {
		return nil, err
	}
	var auth Auth
	if err := json.Unmarshal(data, &auth); err != nil {
		return nil, fmt.Errorf("decoding login response: %w", onyxerrors.ErrBadResponse)
	}
	return &auth, nil
}

// Logout invalidates the token used for this request.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.doJSON(ctx, http.MethodPost, c.endpoint("accounts", "logout"), nil, false)
	return err
}

// LogoutAll invalidates every token the account holds.
func (c *Client) LogoutAll(ctx context.Context) error {
	_, err := c.doJSON(ctx, http.MethodPost, c.endpoint("accounts", "logoutall"), nil, false)
	return err
}

func (c *Client) userResult(data json.RawMessage, err error) (*User, error) {
	if err != nil {
		return nil, err
	}
	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decoding user: %w", onyxerrors.ErrBadResponse)
	}
	return &user, nil
}

func (c *Client) userList(data json.RawMessage, err error) ([]User, error) {
	if err != nil {
		return nil, err
	}
	var users []User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("decoding user list: %w", onyxerrors.ErrBadResponse)
	}
	return users, nil
}
