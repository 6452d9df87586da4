package snapshot

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/gridfeed/gridfeed/utils"
)

// Client fetches tab exports from the read source. Every request is
// forced past intermediate caches: the backend republishes in place, so
// a cached copy can be minutes stale, which defeats reconciliation.
type Client struct {
	header http.Header
	client *http.Client
}

func NewClient(timeout time.Duration) *Client {
	header := http.Header{}
	header.Set("Cache-Control", "no-cache")
	header.Set("Pragma", "no-cache")
	return &Client{
		header: header,
		client: &http.Client{Timeout: timeout},
	}
}

// GetFresh fetches uri with a cache-busting query parameter so that no
// two requests share a cache key.
func (c *Client) GetFresh(ctx context.Context, uri string) ([]byte, string, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return nil, "", errors.Wrap(err, "bad source url")
	}
	query := parsed.Query()
	query.Set("cachebust", fmt.Sprintf("%d%s", time.Now().UnixNano(), utils.RandomAlphabetString(4)))
	parsed.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", parsed.String(), nil)
	if err != nil {
		return nil, "", err
	}
	for key, values := range c.header {
		req.Header[key] = values
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return nil, "", fmt.Errorf("non-200 http code: %d", res.StatusCode)
	}

	body, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return nil, "", err
	}
	return body, res.Header.Get("Content-Type"), nil
}
