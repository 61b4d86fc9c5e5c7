package fielddetector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultTimeout is the HTTP timeout used when none is configured.
const DefaultTimeout = 60 * time.Second

// Connector talks to the image field detection service.
type Connector struct {
	baseURL      string
	client       *http.Client
	probeTimeout time.Duration
}

// Option configures a Connector.
type Option func(*Connector)

// WithTimeout sets the HTTP timeout of every call.
func WithTimeout(d time.Duration) Option {
	return func(c *Connector) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the HTTP client. Its timeout is kept as is.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Connector) {
		if client != nil {
			c.client = client
		}
	}
}

// WithProbeTimeout bounds how long NewConnector retries an unreachable service.
// Zero disables retries.
func WithProbeTimeout(d time.Duration) Option {
	return func(c *Connector) { c.probeTimeout = d }
}

// NewConnector checks that the service at baseURL answers GET /status with 200.
// A refused connection is retried with backoff for a few seconds; any other
// status fails immediately with a ConfigurationError.
func NewConnector(ctx context.Context, baseURL string, opts ...Option) (*Connector, error) {
	c := &Connector{
		baseURL:      strings.TrimRight(baseURL, "/"),
		client:       &http.Client{Timeout: DefaultTimeout},
		probeTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.baseURL == "" {
		return nil, &ConfigurationError{URL: baseURL, Reason: "no url configured"}
	}

	if err := c.probe(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// URL returns the service base URL.
func (c *Connector) URL() string { return c.baseURL }

func (c *Connector) probe(ctx context.Context) error {
	var b backoff.BackOff = &backoff.StopBackOff{}
	if c.probeTimeout > 0 {
		eb := backoff.NewExponentialBackOff()
		eb.InitialInterval = 100 * time.Millisecond
		eb.MaxInterval = time.Second
		eb.MaxElapsedTime = c.probeTimeout
		b = eb
	}

	return backoff.Retry(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status", nil)
		if err != nil {
			return backoff.Permanent(&ConfigurationError{URL: c.baseURL, Reason: err.Error()})
		}
		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(&ConfigurationError{URL: c.baseURL, Reason: ctx.Err().Error()})
			}
			slog.Default().Debug("field detector not reachable yet", "url", c.baseURL, "error", err)
			return &ConfigurationError{URL: c.baseURL, Reason: err.Error()}
		}
		defer func() { _ = resp.Body.Close() }()
		_, _ = io.Copy(io.Discard, resp.Body)

		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(&ConfigurationError{
				URL:    c.baseURL,
				Reason: fmt.Sprintf("status returned %d", resp.StatusCode),
			})
		}
		return nil
	}, backoff.WithContext(b, ctx))
}

// Detect uploads imagePath to the endpoint matching kind and returns what was
// found. With resize != 1 the picture is scaled before upload and the returned
// coordinates refer to the original picture.
func (c *Connector) Detect(ctx context.Context, imagePath string, kind DetectionKind, resize float64) (Detection, error) {
	if imagePath == "" {
		return Detection{}, &DetectorError{Message: "Image file is null"}
	}
	if resize == 0 {
		resize = 1
	}

	raw, err := os.ReadFile(imagePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Detection{}, &DetectorError{Image: imagePath, Message: imagePath + " not found"}
		}
		return Detection{}, fmt.Errorf("read %s: %w", imagePath, err)
	}
	data, err := prepareImage(raw, resize)
	if err != nil {
		return Detection{}, &DetectorError{Image: imagePath, Message: "cannot prepare " + imagePath + ": " + err.Error()}
	}

	name := filepath.Base(imagePath)
	body, contentType, err := multipartImage(name, data)
	if err != nil {
		return Detection{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+kind.endpoint(), body)
	if err != nil {
		return Detection{}, fmt.Errorf("build detect request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return Detection{}, &DetectorError{Image: imagePath, Message: "Field detector call failed: " + err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Detection{}, &DetectorError{Image: imagePath, Status: resp.StatusCode, Message: "Field detector reply unreadable: " + err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		return Detection{}, statusError(imagePath, resp.StatusCode, respBody)
	}

	d, err := parseDetectionResponse(name, respBody)
	if err != nil {
		return Detection{}, err
	}

	slog.Default().Debug("field detection done",
		"image", imagePath,
		"kind", kind.String(),
		"fields", len(d.Fields),
		"labels", len(d.Labels),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return d.unscaled(resize), nil
}

func statusError(imagePath string, status int, body []byte) error {
	var reply struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(body, &reply); err == nil && reply.Error != nil {
		return &DetectorError{Image: imagePath, Status: status, Message: "Field detector returned error: " + *reply.Error}
	}
	return &DetectorError{Image: imagePath, Status: status, Message: "Field detector returned error"}
}

func multipartImage(name string, data []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", name)
	if err != nil {
		return nil, "", fmt.Errorf("create multipart part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("write multipart part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
