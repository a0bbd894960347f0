package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/layer-3/nftgate/ports"
)

const (
	requestTimeout = 10 * time.Second

	// pageLimit bounds the number of transactions fetched per query, so the
	// returned count is a recent-activity signal, not a lifetime total.
	pageLimit = 100
)

// Client queries an external transaction-indexing service for recent activity.
// It implements the ActivityIndexer port.
type Client struct {
	baseURL string
	httpc   *http.Client
}

var _ ports.ActivityIndexer = (*Client)(nil)

// NewClient creates an indexer client with a bounded request timeout
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: requestTimeout},
	}
}

type transactionsResponse struct {
	Data []json.RawMessage `json:"data"`
}

// RecentTransactionCount returns the number of recent transactions for the
// address, bounded by the indexer page size.
func (c *Client) RecentTransactionCount(ctx context.Context, address common.Address) (int, error) {
	endpoint := fmt.Sprintf("%s/api/explorer/v1/transactions?address=%s&limit=%d",
		c.baseURL, url.QueryEscape(address.Hex()), pageLimit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("build indexer request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("query indexer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("indexer returned status %d", resp.StatusCode)
	}

	var body transactionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode indexer response: %w", err)
	}

	return len(body.Data), nil
}
