package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/biodatacommons/query-gateway/internal/core/domain"
)

func upstreamServer(t *testing.T, status int, body string, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/query/sync" {
			t.Errorf("expected /query/sync, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer upstream-token" {
			t.Errorf("expected upstream service credential, got %q", got)
		}
		var req domain.QueryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode forwarded request: %v", err)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func newCountRequest(t *testing.T, resultType string) *domain.QueryRequest {
	t.Helper()
	query, err := json.Marshal(map[string]any{
		"expectedResultType": resultType,
		"categoryFilters":    map[string]any{"\\demographics\\SEX\\": []string{"female"}},
	})
	if err != nil {
		t.Fatalf("marshal query: %v", err)
	}
	return &domain.QueryRequest{
		ResourceUUID: uuid.MustParse("e3e3c0e5-3a41-4a30-9a78-5f73d522b2bc"),
		Query:        query,
	}
}

func newProxy(url string, threshold int) *AggregateProxy {
	return NewAggregateProxy(url, "upstream-token", threshold, time.Second, zerolog.Nop())
}

func TestQuerySync_CountBelowThresholdIsObfuscated(t *testing.T) {
	var hits atomic.Int64
	srv := upstreamServer(t, http.StatusOK, "7", &hits)
	defer srv.Close()

	result, err := newProxy(srv.URL, 10).QuerySync(context.Background(), newCountRequest(t, "COUNT"))
	if err != nil {
		t.Fatalf("querySync: %v", err)
	}
	if got := string(result.Body); got != "< 10" {
		t.Fatalf("expected %q, got %q", "< 10", got)
	}
}

func TestQuerySync_CountAtOrAboveThresholdPassesThrough(t *testing.T) {
	var hits atomic.Int64
	srv := upstreamServer(t, http.StatusOK, "42", &hits)
	defer srv.Close()

	result, err := newProxy(srv.URL, 10).QuerySync(context.Background(), newCountRequest(t, "COUNT"))
	if err != nil {
		t.Fatalf("querySync: %v", err)
	}
	if got := string(result.Body); got != "42" {
		t.Fatalf("expected literal count, got %q", got)
	}
}

func TestQuerySync_ThresholdBoundary(t *testing.T) {
	var hits atomic.Int64
	srv := upstreamServer(t, http.StatusOK, "10", &hits)
	defer srv.Close()

	result, err := newProxy(srv.URL, 10).QuerySync(context.Background(), newCountRequest(t, "COUNT"))
	if err != nil {
		t.Fatalf("querySync: %v", err)
	}
	if got := string(result.Body); got != "10" {
		t.Fatalf("count equal to the threshold must not be obfuscated, got %q", got)
	}
}

func TestQuerySync_CrossCountPassesThroughUnparsed(t *testing.T) {
	var hits atomic.Int64
	srv := upstreamServer(t, http.StatusOK, `{"\\demographics\\SEX\\":12}`, &hits)
	defer srv.Close()

	result, err := newProxy(srv.URL, 10).QuerySync(context.Background(), newCountRequest(t, "CROSS_COUNT"))
	if err != nil {
		t.Fatalf("querySync: %v", err)
	}
	if got := string(result.Body); got != `{"\\demographics\\SEX\\":12}` {
		t.Fatalf("cross count body must pass through, got %q", got)
	}
}

func TestQuerySync_MissingQuery(t *testing.T) {
	var hits atomic.Int64
	srv := upstreamServer(t, http.StatusOK, "7", &hits)
	defer srv.Close()

	_, err := newProxy(srv.URL, 10).QuerySync(context.Background(), &domain.QueryRequest{})
	var protocolErr *domain.ProtocolError
	if !errors.As(err, &protocolErr) {
		t.Fatalf("expected *domain.ProtocolError, got %T: %v", err, err)
	}
	if hits.Load() != 0 {
		t.Fatalf("no outbound call may happen for a malformed request")
	}
}

func TestQuerySync_MissingExpectedResultType(t *testing.T) {
	var hits atomic.Int64
	srv := upstreamServer(t, http.StatusOK, "7", &hits)
	defer srv.Close()

	req := &domain.QueryRequest{Query: json.RawMessage(`{"categoryFilters":{}}`)}
	_, err := newProxy(srv.URL, 10).QuerySync(context.Background(), req)
	var protocolErr *domain.ProtocolError
	if !errors.As(err, &protocolErr) {
		t.Fatalf("expected *domain.ProtocolError, got %T: %v", err, err)
	}
	if hits.Load() != 0 {
		t.Fatalf("no outbound call may happen without expectedResultType")
	}
}

func TestQuerySync_BogusResultType(t *testing.T) {
	var hits atomic.Int64
	srv := upstreamServer(t, http.StatusOK, "7", &hits)
	defer srv.Close()

	_, err := newProxy(srv.URL, 10).QuerySync(context.Background(), newCountRequest(t, "BOGUS"))
	if !errors.Is(err, ErrBadResultType) {
		t.Fatalf("expected ErrBadResultType, got %v", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("no outbound call may happen for an unrecognized result type")
	}
}

func TestQuerySync_UpstreamNon200(t *testing.T) {
	var hits atomic.Int64
	srv := upstreamServer(t, http.StatusBadGateway, "upstream exploded", &hits)
	defer srv.Close()

	_, err := newProxy(srv.URL, 10).QuerySync(context.Background(), newCountRequest(t, "COUNT"))
	var appErr *domain.ApplicationError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *domain.ApplicationError, got %T: %v", err, err)
	}
}

func TestQuerySync_NonIntegerCountBody(t *testing.T) {
	var hits atomic.Int64
	srv := upstreamServer(t, http.StatusOK, "not-a-number", &hits)
	defer srv.Close()

	_, err := newProxy(srv.URL, 10).QuerySync(context.Background(), newCountRequest(t, "COUNT"))
	var appErr *domain.ApplicationError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *domain.ApplicationError, got %T: %v", err, err)
	}
}

func TestUnsupportedOperations_NoOutboundIO(t *testing.T) {
	var hits atomic.Int64
	srv := upstreamServer(t, http.StatusOK, "7", &hits)
	defer srv.Close()

	proxy := newProxy(srv.URL, 10)
	req := newCountRequest(t, "COUNT")
	ctx := context.Background()

	if _, err := proxy.Info(ctx, req); !errors.Is(err, domain.ErrNotImplemented) {
		t.Fatalf("info: expected ErrNotImplemented, got %v", err)
	}
	if _, err := proxy.Search(ctx, req); !errors.Is(err, domain.ErrNotImplemented) {
		t.Fatalf("search: expected ErrNotImplemented, got %v", err)
	}
	if err := proxy.Query(ctx, req); !errors.Is(err, domain.ErrNotImplemented) {
		t.Fatalf("query: expected ErrNotImplemented, got %v", err)
	}
	if err := proxy.QueryStatus(ctx, "q1", req); !errors.Is(err, domain.ErrNotImplemented) {
		t.Fatalf("queryStatus: expected ErrNotImplemented, got %v", err)
	}
	if err := proxy.QueryResult(ctx, "q1", req); !errors.Is(err, domain.ErrNotImplemented) {
		t.Fatalf("queryResult: expected ErrNotImplemented, got %v", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("unsupported operations must perform no outbound I/O, got %d calls", hits.Load())
	}
}
