// pkg/saih/client.go

// Package saih downloads rainfall report PDFs from the SAIH Guadalquivir
// website. The daily report is a plain file; the weekly one only exists
// behind an ASP.NET postback on the Informes page.
package saih

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"

	"rainfeed/pkg/models"
)

// ErrDocumentTooLarge is returned when a response exceeds the size limit
var ErrDocumentTooLarge = errors.New("document exceeds size limit")

// Client fetches report documents with retries and size limits
type Client struct {
	httpClient   *http.Client
	baseURL      string
	dailyPath    string
	informesPath string
	weeklyButton string
	userAgent    string
	maxSizeMB    int
	maxRetries   int
	retryDelay   time.Duration
	logger       *slog.Logger
}

// NewClient creates a client for the configured report sources
func NewClient(config *models.Config, logger *slog.Logger) *Client {
	baseURL := config.Sources.BaseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(config.Sources.TimeoutSeconds) * time.Second,
		},
		baseURL:      baseURL,
		dailyPath:    config.Sources.DailyPDFPath,
		informesPath: config.Sources.InformesPath,
		weeklyButton: config.Sources.WeeklyButton,
		userAgent:    config.Sources.UserAgent,
		maxSizeMB:    config.Sources.MaxPDFSizeMB,
		maxRetries:   config.Sources.MaxRetries,
		retryDelay:   time.Duration(config.Sources.RetryDelaySeconds) * time.Second,
		logger:       logger,
	}
}

// DailyPDF downloads the daily accumulated-rainfall report
func (c *Client) DailyPDF(ctx context.Context) ([]byte, error) {
	dailyURL, err := resolveURL(c.baseURL, c.dailyPath)
	if err != nil {
		return nil, err
	}
	return c.withRetries(ctx, "daily", func(ctx context.Context) ([]byte, error) {
		return c.fetchPDF(ctx, dailyURL)
	})
}

// WeeklyPDF downloads the seven-day rainfall report by submitting the
// Informes page's form button for it
func (c *Client) WeeklyPDF(ctx context.Context) ([]byte, error) {
	return c.withRetries(ctx, "weekly", c.fetchWeekly)
}

// withRetries runs fetch up to maxRetries+1 times with a fixed delay
func (c *Client) withRetries(ctx context.Context, name string, fetch func(context.Context) ([]byte, error)) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("retrying fetch",
				"source", name,
				"attempt", attempt,
				"error", lastErr,
			)
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		data, err := fetch(ctx)
		if err == nil {
			return data, nil
		}
		lastErr = err

		// Don't retry oversized documents or a cancelled context
		if errors.Is(err, ErrDocumentTooLarge) || ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

// fetchWeekly performs the postback dance: load the Informes page, collect
// the ASP.NET state fields, submit the weekly-report image button, and
// accept either a PDF directly or a page linking to one.
func (c *Client) fetchWeekly(ctx context.Context) ([]byte, error) {
	informesURL, err := resolveURL(c.baseURL, c.informesPath)
	if err != nil {
		return nil, err
	}

	page, err := c.fetchHTML(ctx, informesURL)
	if err != nil {
		return nil, err
	}

	fields, err := hiddenFields(page)
	if err != nil {
		return nil, err
	}
	for _, name := range []string{"__VIEWSTATE", "__EVENTVALIDATION"} {
		if _, ok := fields[name]; !ok {
			return nil, fmt.Errorf("informes page is missing the %s field", name)
		}
	}

	form := url.Values{
		"__EVENTTARGET":     {""},
		"__EVENTARGUMENT":   {""},
		"__VIEWSTATE":       {fields["__VIEWSTATE"]},
		"__EVENTVALIDATION": {fields["__EVENTVALIDATION"]},
	}
	if generator, ok := fields["__VIEWSTATEGENERATOR"]; ok {
		form.Set("__VIEWSTATEGENERATOR", generator)
	}
	// Image buttons post their click coordinates
	form.Set(c.weeklyButton+".x", "10")
	form.Set(c.weeklyButton+".y", "10")

	resp, err := c.postForm(ctx, informesURL, form)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := c.readBody(resp)
	if err != nil {
		return nil, err
	}
	if looksLikePDF(resp.Header.Get("Content-Type"), body) {
		c.logger.Debug("weekly postback returned a PDF", "bytes", len(body))
		return body, nil
	}

	// Some server responses are an HTML page linking the generated PDF
	link := findPDFLink(body)
	if link == "" {
		return nil, errors.New("weekly postback returned neither a PDF nor a link to one")
	}
	linkURL, err := resolveURL(informesURL, link)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("following weekly PDF link", "url", linkURL)
	return c.fetchPDF(ctx, linkURL)
}

// fetchPDF downloads a single document and verifies it is a PDF
func (c *Client) fetchPDF(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := c.get(ctx, rawURL, "application/pdf,*/*")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := c.readBody(resp)
	if err != nil {
		return nil, err
	}
	if !looksLikePDF(resp.Header.Get("Content-Type"), body) {
		return nil, fmt.Errorf("%s did not return a PDF (content type %q)", rawURL, resp.Header.Get("Content-Type"))
	}

	c.logger.Debug("downloaded PDF", "url", rawURL, "bytes", len(body))
	return body, nil
}

// fetchHTML downloads a page and converts the legacy charset the site still
// serves (the Informes page declares ISO-8859-1) to UTF-8
func (c *Client) fetchHTML(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := c.get(ctx, rawURL, "text/html,application/xhtml+xml")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := c.readBody(resp)
	if err != nil {
		return nil, err
	}

	switch responseCharset(resp.Header.Get("Content-Type")) {
	case "iso-8859-1", "latin-1", "latin1":
		return charmap.ISO8859_1.NewDecoder().Bytes(body)
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Bytes(body)
	default:
		return body, nil
	}
}

func (c *Client) get(ctx context.Context, rawURL, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", accept)

	return c.do(req)
}

func (c *Client) postForm(ctx context.Context, rawURL string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req)
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching %s: %w", req.URL, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, req.URL)
	}
	return resp, nil
}

// readBody reads a response while enforcing the size limit
func (c *Client) readBody(resp *http.Response) ([]byte, error) {
	maxBytes := int64(c.maxSizeMB) * 1024 * 1024
	if resp.ContentLength > maxBytes {
		return nil, ErrDocumentTooLarge
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}
	if int64(len(body)) >= maxBytes {
		return nil, ErrDocumentTooLarge
	}
	return body, nil
}

// looksLikePDF accepts a document when either the declared content type
// mentions PDF or the payload carries the PDF magic header. The site has
// been seen serving PDFs under text/html.
func looksLikePDF(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "pdf") {
		return true
	}
	return bytes.HasPrefix(body, []byte("%PDF"))
}

// responseCharset extracts the lowercased charset parameter of a
// Content-Type header, or "" when undeclared
func responseCharset(contentType string) string {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(params["charset"])
}

// hiddenFields collects the name/value pairs of all hidden inputs on a page
func hiddenFields(page []byte) (map[string]string, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("error parsing informes page: %w", err)
	}

	fields := make(map[string]string)
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "input" {
			if strings.EqualFold(getAttr(n, "type"), "hidden") {
				if name := getAttr(n, "name"); name != "" {
					fields[name] = getAttr(n, "value")
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	visit(doc)

	return fields, nil
}

// findPDFLink returns the href of the first anchor pointing at a PDF, or ""
func findPDFLink(page []byte) string {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return ""
	}

	var link string
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if link != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := getAttr(n, "href"); strings.Contains(strings.ToLower(href), ".pdf") {
				link = href
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	visit(doc)

	return link
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func resolveURL(base, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", base, err)
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", ref, err)
	}
	return baseURL.ResolveReference(refURL).String(), nil
}
