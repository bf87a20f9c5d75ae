package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

const stockPageSize = 100

// FetchAllStock retrieves the advertiser's entire stock feed, page by page.
// Pages are fetched sequentially to respect the provider's rate limits.
//
// On a mid-pagination failure the pages already retrieved are returned
// alongside a *PageError so the caller can decide whether a partial feed is
// usable. The first-page failure returns no items.
func (c *Client) FetchAllStock(ctx context.Context, advertiserID string) ([]StockItem, error) {
	path := fmt.Sprintf("/stock?advertiserId=%s&pageSize=%d&page=1", url.QueryEscape(advertiserID), stockPageSize)

	body, err := c.Request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, &PageError{Page: 1, Err: err}
	}

	var first StockResponse
	if err := decodeJSON(body, &first); err != nil {
		return nil, &PageError{Page: 1, Err: fmt.Errorf("decoding stock page 1: %w", err)}
	}

	items := make([]StockItem, 0, first.TotalResults)
	items = append(items, first.Results...)

	totalPages := (first.TotalResults + stockPageSize - 1) / stockPageSize
	for page := 2; page <= totalPages; page++ {
		path := fmt.Sprintf("/stock?advertiserId=%s&pageSize=%d&page=%d", url.QueryEscape(advertiserID), stockPageSize, page)
		body, err := c.Request(ctx, http.MethodGet, path, nil)
		if err != nil {
			return items, &PageError{Page: page, Err: err}
		}

		var resp StockResponse
		if err := decodeJSON(body, &resp); err != nil {
			return items, &PageError{Page: page, Err: fmt.Errorf("decoding stock page %d: %w", page, err)}
		}
		items = append(items, resp.Results...)
	}

	return items, nil
}

// FetchVehicle retrieves a single stock item by the provider's stock id. Used
// by the webhook path to pull the full record for an event.
func (c *Client) FetchVehicle(ctx context.Context, stockID string) (*StockItem, error) {
	body, err := c.Request(ctx, http.MethodGet, "/stock/vehicle/"+url.PathEscape(stockID), nil)
	if err != nil {
		return nil, err
	}

	var item StockItem
	if err := decodeJSON(body, &item); err != nil {
		return nil, fmt.Errorf("decoding vehicle %s: %w", stockID, err)
	}
	return &item, nil
}
