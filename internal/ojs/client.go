// Package ojs fetches article metadata and files from a remote Open
// Journal Systems installation, for conversion into import tables.
package ojs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 60 * time.Second

	// RateLimit keeps the fetcher polite toward production servers.
	RateLimit = 2.0

	loginPath    = "/login/signIn"
	articlesPath = "/jms/api/articles"
	issuesPath   = "/jms/api/issues"
	sectionsPath = "/jms/api/sections"
	usersPath    = "/jms/api/users"
	metricsPath  = "/jms/api/metrics"
)

// SupportedStages are the remote workflow stages articles can be
// fetched from.
var SupportedStages = []string{"published", "in_editing", "in_review", "unassigned"}

// Client is a rate-limited, session-authenticated client for an OJS
// journal.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	username   string
	password   string
	log        *logrus.Entry

	loggedIn bool
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client. A cookie jar is attached if
// the client has none, since OJS authenticates by session cookie.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for fetch progress.
func WithLogger(log *logrus.Logger) ClientOption {
	return func(c *Client) {
		c.log = log.WithField("component", "ojs")
	}
}

// NewClient creates a client for the journal at baseURL.
func NewClient(baseURL, username, password string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    strings.TrimRight(baseURL, "/"),
		username:   username,
		password:   password,
		log:        logrus.StandardLogger().WithField("component", "ojs"),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient.Jar == nil {
		jar, _ := cookiejar.New(nil)
		c.httpClient.Jar = jar
	}
	return c
}

// Login opens an authenticated session. Calling it twice is a no-op.
func (c *Client) Login(ctx context.Context) error {
	if c.loggedIn {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	form := url.Values{
		"username": {c.username},
		"password": {c.password},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("logging in: HTTP %d", resp.StatusCode)
	}

	c.log.WithField("url", c.baseURL).Info("logged in")
	c.loggedIn = true
	return nil
}

// fetchJSON performs an authenticated GET and decodes the JSON body.
func (c *Client) fetchJSON(ctx context.Context, apiPath string, params url.Values, v any) error {
	if err := c.Login(ctx); err != nil {
		return err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	u := c.baseURL + apiPath
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", apiPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("fetching %s: HTTP %d", apiPath, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding %s response: %w", apiPath, err)
	}
	return nil
}

// GetArticles fetches the articles sitting in a remote workflow stage.
func (c *Client) GetArticles(ctx context.Context, stage string) ([]Article, error) {
	supported := false
	for _, s := range SupportedStages {
		if s == stage {
			supported = true
			break
		}
	}
	if !supported {
		return nil, fmt.Errorf("unsupported stage %q (want one of %s)",
			stage, strings.Join(SupportedStages, ", "))
	}

	c.log.WithField("stage", stage).Info("fetching articles")
	var articles []Article
	params := url.Values{"request_type": {stage}}
	if err := c.fetchJSON(ctx, articlesPath, params, &articles); err != nil {
		return nil, err
	}
	c.log.WithFields(logrus.Fields{"stage": stage, "count": len(articles)}).Info("fetched articles")
	return articles, nil
}

// GetArticle fetches one article by its remote id.
func (c *Client) GetArticle(ctx context.Context, id int) (*Article, error) {
	var articles []Article
	params := url.Values{
		"request_type": {"article"},
		"id":           {strconv.Itoa(id)},
	}
	if err := c.fetchJSON(ctx, articlesPath, params, &articles); err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, fmt.Errorf("no article %d on the remote", id)
	}
	return &articles[0], nil
}

// GetIssues fetches the journal's issues.
func (c *Client) GetIssues(ctx context.Context) ([]Issue, error) {
	var issues []Issue
	if err := c.fetchJSON(ctx, issuesPath, nil, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// GetSections fetches the journal's sections.
func (c *Client) GetSections(ctx context.Context) ([]SectionInfo, error) {
	var sections []SectionInfo
	if err := c.fetchJSON(ctx, sectionsPath, nil, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

// GetUsers fetches the journal's registered users.
func (c *Client) GetUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.fetchJSON(ctx, usersPath, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetMetrics fetches per-article view and download counts.
func (c *Client) GetMetrics(ctx context.Context) ([]Metric, error) {
	var metrics []Metric
	if err := c.fetchJSON(ctx, metricsPath, nil, &metrics); err != nil {
		return nil, err
	}
	return metrics, nil
}

// FetchFile downloads a file through the authenticated session. The
// name comes from the Content-Disposition header when present, the URL
// path otherwise.
func (c *Client) FetchFile(ctx context.Context, rawURL string) (string, []byte, error) {
	if err := c.Login(ctx); err != nil {
		return "", nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("fetching file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", nil, fmt.Errorf("fetching file: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("reading file: %w", err)
	}

	name := fileName(resp, rawURL)
	c.log.WithFields(logrus.Fields{"name": name, "bytes": len(data)}).Info("fetched file")
	return name, data, nil
}

func fileName(resp *http.Response, rawURL string) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if fn := params["filename"]; fn != "" {
				return fn
			}
		}
	}
	if u, err := url.Parse(rawURL); err == nil {
		if base := path.Base(u.Path); base != "." && base != "/" {
			return base
		}
	}
	return "download"
}
