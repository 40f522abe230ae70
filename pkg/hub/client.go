package hub

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/mtrust/mtctl/pkg/net"
)

const (
	// BaseURLDefault is the public Hugging Face hub endpoint.
	BaseURLDefault = "https://huggingface.co"

	clientAgent = "mtctl"

	maxBodyBytes = 4 << 20
)

// ErrNotFound indicates the hub has no resource under the id.
var ErrNotFound = errors.New("resource not found")

// Client is a narrow metadata client for the Hugging Face hub.
type Client struct {
	baseURL string
	token   string
	hc      *http.Client
}

// New creates a hub client. An empty baseURL selects the public hub;
// an empty token makes anonymous requests.
func New(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = BaseURLDefault
	}
	hc, err := net.GetHTTPClient()
	if err != nil {
		// cookiejar.New with nil options cannot fail
		hc = http.DefaultClient
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		hc:      hc,
	}
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "error creating HTTP Get request: %s", url)
	}

	req.Header.Set("User-Agent", clientAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "error executing HTTP Get request: %s", url)
	}
	if log.IsLevelEnabled(log.DebugLevel) {
		net.PrintHTTPResponse(resp)
	}

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Errorf("unexpected status %d for: %s", resp.StatusCode, url)
	}

	return resp, nil
}

// getJSON retrieves the URL content and decodes it into the target.
func getJSON[T any](ctx context.Context, c *Client, url string, target *T) error {
	resp, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(target); err != nil {
		return errors.Wrapf(err, "error decoding content from: %s", url)
	}
	return nil
}

// getText retrieves the URL content as a string.
func (c *Client) getText(ctx context.Context, url string) (string, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", errors.Wrapf(err, "error reading content from: %s", url)
	}
	return string(b), nil
}
