package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	appLog "shiftcal/internal/log"
)

// ErrNotConfigured indicates no OCR endpoint or secret is set.
var ErrNotConfigured = errors.New("ocr endpoint not configured")

const defaultTimeout = 30 * time.Second

// Client calls the CLOVA OCR general API with table detection enabled.
type Client struct {
	client *http.Client
	url    string
	secret string
	lang   string
	now    func() time.Time
}

// NewClient creates a new OCR Client. A zero timeout uses 30s and an empty
// lang uses "ko".
func NewClient(url, secret, lang string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if lang == "" {
		lang = "ko"
	}
	return &Client{
		client: &http.Client{Timeout: timeout},
		url:    url,
		secret: secret,
		lang:   lang,
		now:    time.Now,
	}
}

// Configured reports whether the client has an endpoint and a secret.
func (c *Client) Configured() bool {
	return c != nil && c.url != "" && c.secret != ""
}

type requestImage struct {
	Name   string `json:"name"`
	Format string `json:"format"`
	Data   string `json:"data"`
}

type request struct {
	Version              string         `json:"version"`
	RequestID            string         `json:"requestId"`
	Timestamp            int64          `json:"timestamp"`
	EnableTableDetection bool           `json:"enableTableDetection"`
	Lang                 string         `json:"lang"`
	Images               []requestImage `json:"images"`
}

// Recognize sends one image (format "jpg", "png", ...) and returns the
// decoded response.
func (c *Client) Recognize(ctx context.Context, image []byte, format string) (*Response, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if len(image) == 0 {
		return nil, errors.New("ocr: empty image")
	}
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if format == "jpeg" {
		format = "jpg"
	}

	body, err := json.Marshal(request{
		Version:              "V2",
		RequestID:            uuid.NewString(),
		Timestamp:            c.now().UnixMilli(),
		EnableTableDetection: true,
		Lang:                 c.lang,
		Images: []requestImage{{
			Name:   "upload",
			Format: format,
			Data:   base64.StdEncoding.EncodeToString(image),
		}},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-OCR-SECRET", c.secret)
	req.Header.Set("Content-Type", "application/json")

	appLog.Info("ocr request start", "url", redactURL(c.url), "format", format, "bytes", len(image))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ocr request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ocr request: %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	out, err := Decode(resp.Body)
	if err != nil {
		return nil, err
	}
	appLog.Info("ocr request success", "url", redactURL(c.url), "status", resp.StatusCode, "images", len(out.Images))
	return out, nil
}

// redactURL keeps only scheme and host; CLOVA invoke URLs embed the domain
// secret in the path.
func redactURL(u string) string {
	const redactedSuffix = "/...(redacted)"

	i := strings.Index(u, "://")
	if i == -1 {
		return "ocr://...(redacted)"
	}
	j := strings.IndexByte(u[i+3:], '/')
	if j == -1 {
		return u
	}
	return u[:i+3+j] + redactedSuffix
}
