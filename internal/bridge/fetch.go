package bridge

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultFetchTimeout = 30 * time.Second
	defaultMaxBody      = 10 << 20
)

// FetchRequest describes an extension-initiated HTTP request.
type FetchRequest struct {
	URL     string            `json:"url"`
	Method  string            `json:"method,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    string            `json:"body,omitempty"`
}

// FetchResponse is the reply handed back to the extension.
type FetchResponse struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"`
}

// NetworkError wraps transport failures so callers can tell them apart from
// permission denials.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// host extracts the hostname for the permission check without touching the
// network.
func (r FetchRequest) host() (string, error) {
	u, err := url.Parse(r.URL)
	if err != nil {
		return "", &NetworkError{URL: r.URL, Err: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", &NetworkError{URL: r.URL, Err: fmt.Errorf("unsupported scheme %q", u.Scheme)}
	}
	if u.Hostname() == "" {
		return "", &NetworkError{URL: r.URL, Err: fmt.Errorf("missing host")}
	}
	return u.Hostname(), nil
}

// Doer lets tests swap the HTTP client for a recording fake.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher performs the actual HTTP round trips with a body-size cap.
type Fetcher struct {
	client  Doer
	maxBody int64
}

// NewFetcher builds a Fetcher; zero values select the defaults.
func NewFetcher(timeout time.Duration, maxBody int64) *Fetcher {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	if maxBody <= 0 {
		maxBody = defaultMaxBody
	}
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		maxBody: maxBody,
	}
}

// NewFetcherWith uses a caller-supplied client.
func NewFetcherWith(client Doer, maxBody int64) *Fetcher {
	if maxBody <= 0 {
		maxBody = defaultMaxBody
	}
	return &Fetcher{client: client, maxBody: maxBody}
}

func (f *Fetcher) Do(req FetchRequest) (*FetchResponse, error) {
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if req.Body != "" {
		body = bytes.NewReader([]byte(req.Body))
	}
	httpReq, err := http.NewRequest(method, req.URL, body)
	if err != nil {
		return nil, &NetworkError{URL: req.URL, Err: err}
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{URL: req.URL, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return nil, &NetworkError{URL: req.URL, Err: err}
	}

	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}
	return &FetchResponse{
		Status:  resp.StatusCode,
		Headers: headers,
		Body:    string(data),
	}, nil
}
