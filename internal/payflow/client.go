package payflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	invoicedomain "github.com/fahimshariar28/eidi/internal/invoice/domain"
)

// Client talks to the public invoice endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) FetchInvoice(ctx context.Context, id string) (invoicedomain.PublicView, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.invoiceURL(id), nil)
	if err != nil {
		return invoicedomain.PublicView{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return invoicedomain.PublicView{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return invoicedomain.PublicView{}, fmt.Errorf("fetch invoice %s: status %d", id, resp.StatusCode)
	}

	var invoice invoicedomain.PublicView
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&invoice); err != nil {
		return invoicedomain.PublicView{}, err
	}
	return invoice, nil
}

func (c *Client) MarkPaid(ctx context.Context, id string, txID string) error {
	payload, err := json.Marshal(map[string]string{"txId": txID})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.invoiceURL(id)+"/paid", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body)
		if body.Error != "" {
			return fmt.Errorf("mark paid %s: %s", id, body.Error)
		}
		return fmt.Errorf("mark paid %s: status %d", id, resp.StatusCode)
	}
	return nil
}

func (c *Client) invoiceURL(id string) string {
	return c.baseURL + "/api/invoice/" + url.PathEscape(id)
}
