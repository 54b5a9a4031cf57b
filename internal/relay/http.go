package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"devsecrets/internal/domain"
	"devsecrets/internal/queue"
)

// Client is the HTTP transport for one relay queue.
type Client struct {
	Base  string
	Queue domain.QueueName
	HTTP  *http.Client
}

func NewClient(base string, q domain.QueueName) *Client {
	return &Client{Base: strings.TrimRight(base, "/"), Queue: q, HTTP: http.DefaultClient}
}

type sendRequest struct {
	Body string `json:"body" validate:"required,max=1048576"`
}

type sendResponse struct {
	ID string `json:"id"`
}

func (c *Client) messages() string {
	return "/queues/" + url.PathEscape(string(c.Queue)) + "/messages"
}

func (c *Client) Send(ctx context.Context, body string) error {
	var out sendResponse
	return c.post(ctx, c.messages(), sendRequest{Body: body}, &out)
}

func (c *Client) ReceiveNext(ctx context.Context) (domain.Delivery, bool, error) {
	path := c.messages() + "/next"
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return domain.Delivery{}, false, err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusNoContent:
		return domain.Delivery{}, false, nil
	case http.StatusOK:
		var d domain.Delivery
		if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
			return domain.Delivery{}, false, fmt.Errorf("relay get %s: %w", path, err)
		}
		return d, true, nil
	default:
		return domain.Delivery{}, false, fmt.Errorf("relay get %s: %s", path, resp.Status)
	}
}

func (c *Client) Acknowledge(ctx context.Context, d domain.Delivery) error {
	path := c.messages() + "/" + url.PathEscape(d.ID) + "?receipt=" + url.QueryEscape(d.Receipt)
	resp, err := c.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return queue.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return queue.ErrStaleReceipt
	case resp.StatusCode/100 != 2:
		return fmt.Errorf("relay delete %s: %s", path, resp.Status)
	}
	return nil
}

func (c *Client) Close() error {
	c.HTTP.CloseIdleConnections()
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.Base+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.HTTP.Do(req)
}

func (c *Client) post(ctx context.Context, path string, in any, out any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}
	resp, err := c.do(ctx, http.MethodPost, path, buf)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("relay post %s: %s", path, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

var _ domain.Transport = (*Client)(nil)
