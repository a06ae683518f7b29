package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/biodatacommons/query-gateway/internal/core/domain"
	"github.com/biodatacommons/query-gateway/internal/metrics"
)

const (
	querySyncPath          = "/query/sync"
	defaultUpstreamTimeout = 30 * time.Second
)

// ErrBadResultType marks an unrecognized expectedResultType value. The HTTP
// layer turns it into a bare 400 status with no envelope, which is what
// existing consumers of this endpoint expect for that case.
var ErrBadResultType = fmt.Errorf("unrecognized expectedResultType")

// AggregateProxy forwards aggregate statistical queries to one upstream
// service and enforces a disclosure floor on raw counts: a true count below
// the threshold is reported only as "< <threshold>". Only querySync is
// supported; the rest of the resource contract fails fast.
type AggregateProxy struct {
	client    *resty.Client
	threshold int
	logger    zerolog.Logger
}

// NewAggregateProxy builds a proxy against the given upstream base URL.
// serviceToken is the gateway's own deployment-level credential for the
// upstream, not the caller's token.
func NewAggregateProxy(upstreamURL, serviceToken string, threshold int, timeout time.Duration, logger zerolog.Logger) *AggregateProxy {
	if timeout <= 0 {
		timeout = defaultUpstreamTimeout
	}
	cli := resty.New().
		SetBaseURL(upstreamURL).
		SetTimeout(timeout).
		SetAuthToken(serviceToken).
		SetHeader("Content-Type", "application/json")

	return &AggregateProxy{client: cli, threshold: threshold, logger: logger}
}

// QuerySync validates the request shape, forwards it upstream, and applies
// the obfuscation policy to COUNT results before returning the body.
func (p *AggregateProxy) QuerySync(ctx context.Context, req *domain.QueryRequest) (*domain.QueryResult, error) {
	if req == nil || len(req.Query) == 0 {
		return nil, domain.NewProtocolError("missing query data")
	}

	resultType, present := req.ExpectedResultType()
	if !present {
		return nil, domain.NewProtocolError("missing expectedResultType")
	}
	if !domain.ValidResultType(resultType) {
		return nil, ErrBadResultType
	}

	start := time.Now()
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(req).
		Post(querySyncPath)
	metrics.UpstreamRequestDuration.WithLabelValues(resultType).Observe(time.Since(start).Seconds())
	if err != nil {
		p.logger.Error().Err(err).Str("resource_uuid", req.ResourceUUID.String()).Msg("upstream query failed")
		return nil, domain.NewApplicationError(
			fmt.Sprintf("error encoding query for resource with id %s", req.ResourceUUID),
			err.Error())
	}
	if resp.StatusCode() != 200 {
		p.logger.Error().Int("status", resp.StatusCode()).
			Str("resource_uuid", req.ResourceUUID.String()).
			Str("body", resp.String()).
			Msg("upstream did not return a 200")
		return nil, domain.NewApplicationError(
			fmt.Sprintf("resource with id %s returned %d", req.ResourceUUID, resp.StatusCode()),
			resp.String())
	}

	metrics.QueriesForwardedTotal.WithLabelValues(resultType).Inc()

	body := resp.Body()
	if domain.ResultType(resultType) == domain.ResultTypeCount {
		obfuscated, err := p.obfuscateCount(body)
		if err != nil {
			p.logger.Error().Err(err).Str("resource_uuid", req.ResourceUUID.String()).Msg("upstream count is not an integer")
			return nil, domain.NewApplicationError(
				fmt.Sprintf("unexpected result from resource with id %s", req.ResourceUUID),
				err.Error())
		}
		body = obfuscated
	}

	return &domain.QueryResult{Body: body, ContentType: "text/plain"}, nil
}

// obfuscateCount parses a raw count body and replaces it with the literal
// "< <threshold>" when it falls below the disclosure floor.
func (p *AggregateProxy) obfuscateCount(body []byte) ([]byte, error) {
	count, err := strconv.Atoi(string(bytes.TrimSpace(body)))
	if err != nil {
		return nil, err
	}
	if count < p.threshold {
		metrics.QueriesObfuscatedTotal.Inc()
		return []byte("< " + strconv.Itoa(p.threshold)), nil
	}
	return body, nil
}

// Info is not supported; callers must use QuerySync.
func (p *AggregateProxy) Info(_ context.Context, _ *domain.QueryRequest) (map[string]any, error) {
	return nil, domain.ErrNotImplemented
}

// Search is not supported; callers must use QuerySync.
func (p *AggregateProxy) Search(_ context.Context, _ *domain.QueryRequest) (map[string]any, error) {
	return nil, domain.ErrNotImplemented
}

// Query is not supported; callers must use QuerySync.
func (p *AggregateProxy) Query(_ context.Context, _ *domain.QueryRequest) error {
	return domain.ErrNotImplemented
}

// QueryStatus is not supported; callers must use QuerySync.
func (p *AggregateProxy) QueryStatus(_ context.Context, _ string, _ *domain.QueryRequest) error {
	return domain.ErrNotImplemented
}

// QueryResult is not supported; callers must use QuerySync.
func (p *AggregateProxy) QueryResult(_ context.Context, _ string, _ *domain.QueryRequest) error {
	return domain.ErrNotImplemented
}
