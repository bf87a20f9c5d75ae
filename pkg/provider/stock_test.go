package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/config"
)

func stockTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(
		config.ProviderConfig{BaseURL: srv.URL, MaxRetries: 1, BaseDelay: time.Millisecond},
		&stubTokens{tokens: []string{"tok"}},
		nil,
		WithHTTPClient(srv.Client()),
		WithSleeper(func(ctx context.Context, d time.Duration) error { return nil }),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func stockPage(total, from, count int) StockResponse {
	resp := StockResponse{TotalResults: total}
	for i := 0; i < count; i++ {
		resp.Results = append(resp.Results, StockItem{
			Metadata: &Metadata{StockID: fmt.Sprintf("stock-%d", from+i)},
		})
	}
	return resp
}

func TestFetchAllStockPaginatesSequentially(t *testing.T) {
	var pagesSeen []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stock" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("advertiserId"); got != "adv-1" {
			t.Fatalf("unexpected advertiser id %q", got)
		}
		if got := r.URL.Query().Get("pageSize"); got != "100" {
			t.Fatalf("unexpected page size %q", got)
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pagesSeen = append(pagesSeen, page)

		// 230 vehicles across pages of 100, 100 and 30.
		count := 100
		if page == 3 {
			count = 30
		}
		if err := json.NewEncoder(w).Encode(stockPage(230, (page-1)*100, count)); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	items, err := stockTestClient(t, srv).FetchAllStock(context.Background(), "adv-1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 230 {
		t.Fatalf("expected 230 items, got %d", len(items))
	}
	if len(pagesSeen) != 3 || pagesSeen[0] != 1 || pagesSeen[1] != 2 || pagesSeen[2] != 3 {
		t.Fatalf("expected pages 1,2,3 in order, got %v", pagesSeen)
	}
	if items[229].Metadata.StockID != "stock-229" {
		t.Fatalf("last item out of order: %+v", items[229])
	}
}

func TestFetchAllStockReturnsPartialOnMidPageFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if err := json.NewEncoder(w).Encode(stockPage(250, (page-1)*100, 100)); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	items, err := stockTestClient(t, srv).FetchAllStock(context.Background(), "adv-1")
	if err == nil {
		t.Fatal("expected page failure")
	}

	var pageErr *PageError
	if !errors.As(err, &pageErr) {
		t.Fatalf("expected *PageError, got %T", err)
	}
	if pageErr.Page != 2 {
		t.Fatalf("expected failure at page 2, got %d", pageErr.Page)
	}
	if !IsKind(pageErr.Err, KindAPI) {
		t.Fatalf("expected wrapped api error, got %v", pageErr.Err)
	}
	if len(items) != 100 {
		t.Fatalf("expected the first page to be returned, got %d items", len(items))
	}
}

func TestFetchAllStockFirstPageFailureReturnsNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	items, err := stockTestClient(t, srv).FetchAllStock(context.Background(), "adv-1")
	if items != nil {
		t.Fatalf("expected no items, got %d", len(items))
	}
	var pageErr *PageError
	if !errors.As(err, &pageErr) || pageErr.Page != 1 {
		t.Fatalf("expected page 1 error, got %v", err)
	}
}

func TestFetchAllStockSinglePage(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if err := json.NewEncoder(w).Encode(stockPage(42, 0, 42)); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	items, err := stockTestClient(t, srv).FetchAllStock(context.Background(), "adv-1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 42 || calls != 1 {
		t.Fatalf("expected 42 items in one call, got %d items after %d calls", len(items), calls)
	}
}

func TestFetchAllStockEmptyFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[],"totalResults":0}`)
	}))
	defer srv.Close()

	items, err := stockTestClient(t, srv).FetchAllStock(context.Background(), "adv-1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty feed, got %d items", len(items))
	}
}

func TestFetchVehicle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stock/vehicle/stock-7" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"metadata":{"stockId":"stock-7"},"vehicle":{"make":"Audi","model":"A3"}}`)
	}))
	defer srv.Close()

	item, err := stockTestClient(t, srv).FetchVehicle(context.Background(), "stock-7")
	if err != nil {
		t.Fatalf("fetch vehicle: %v", err)
	}
	if item.Metadata == nil || item.Metadata.StockID != "stock-7" {
		t.Fatalf("unexpected metadata: %+v", item.Metadata)
	}
	if item.Vehicle == nil || item.Vehicle.Make != "Audi" {
		t.Fatalf("unexpected vehicle: %+v", item.Vehicle)
	}
}
