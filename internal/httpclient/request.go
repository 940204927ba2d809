package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ErrDecodeResult is returned when a successful response body does not match the result type.
var ErrDecodeResult = errors.New("httpclient: failed to decode response body")

// Request builds and executes a single HTTP call.
type Request interface {
	Get(ctx context.Context, path string) (*Response, error)
	Post(ctx context.Context, path string) (*Response, error)

	SetBody(body any) Request
	SetHeader(key, value string) Request
	SetQueryParam(key, value string) Request
	AddQueryParam(key, value string) Request
	SetResult(result any) Request
}

// Response wraps http.Response with the already read body.
type Response struct {
	*http.Response
	body []byte
}

// Body returns the response body as bytes.
func (r *Response) Body() []byte {
	return r.body
}

// String returns the response body as string.
func (r *Response) String() string {
	return string(r.body)
}

// IsError returns true if the status code indicates an error (>= 400).
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

type requestBuilder struct {
	client       *InstrumentedClient
	headers      map[string]string
	queryParams  url.Values
	body         any
	result       any
	errorHandler ResponseErrorHandler
	labels       []*Label
}

func (r *requestBuilder) Get(ctx context.Context, path string) (*Response, error) {
	return r.execute(ctx, http.MethodGet, path)
}

func (r *requestBuilder) Post(ctx context.Context, path string) (*Response, error) {
	return r.execute(ctx, http.MethodPost, path)
}

// SetBody sets the request body. Values other than []byte, string or io.Reader are JSON encoded.
func (r *requestBuilder) SetBody(body any) Request {
	r.body = body
	return r
}

func (r *requestBuilder) SetHeader(key, value string) Request {
	r.headers[key] = value
	return r
}

func (r *requestBuilder) SetQueryParam(key, value string) Request {
	r.queryParams.Set(key, value)
	return r
}

func (r *requestBuilder) AddQueryParam(key, value string) Request {
	r.queryParams.Add(key, value)
	return r
}

// SetResult sets the target for JSON decoding of non-error responses.
func (r *requestBuilder) SetResult(result any) Request {
	r.result = result
	return r
}

func (r *requestBuilder) resolve(path string) string {
	full := path
	base := r.client.baseURL
	if base != "" && !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		full = strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
	}
	if len(r.queryParams) > 0 {
		sep := "?"
		if strings.Contains(full, "?") {
			sep = "&"
		}
		full += sep + r.queryParams.Encode()
	}
	return full
}

func (r *requestBuilder) encodeBody(span trace.Span) (io.Reader, error) {
	var raw []byte
	switch b := r.body.(type) {
	case nil:
		return nil, nil
	case io.Reader:
		return b, nil
	case []byte:
		raw = b
	case string:
		raw = []byte(b)
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		raw = encoded
		if _, ok := r.headers["Content-Type"]; !ok {
			r.headers["Content-Type"] = "application/json"
		}
	}

	if r.client.traceRequest {
		span.AddEvent("request.body", trace.WithAttributes(
			attribute.String("http.request_body", string(raw)),
		))
	}
	return bytes.NewReader(raw), nil
}

func (r *requestBuilder) execute(ctx context.Context, method, path string) (*Response, error) {
	ctx, span := r.client.tracer.Start(ctx, "http.request",
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.path", path),
			attribute.String("provider", r.client.providerName),
		),
	)
	defer span.End()

	bodyReader, err := r.encodeBody(span)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to marshal body")
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, r.resolve(path), bodyReader)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create request")
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := r.client.client.Do(req)
	if err != nil {
		r.recordError(ctx, span, err)
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		r.recordError(ctx, span, err)
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if r.client.traceResponse {
		span.AddEvent("response.body", trace.WithAttributes(
			attribute.String("http.response_body", string(body)),
		))
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	response := &Response{Response: resp, body: body}

	if r.errorHandler != nil {
		if handlerErr := r.errorHandler(resp.StatusCode, body); handlerErr != nil {
			span.SetStatus(codes.Error, handlerErr.Error())
			r.recordMetrics(ctx, false)
			return response, handlerErr
		}
	}

	if r.result != nil && !response.IsError() && len(body) > 0 {
		if err := json.Unmarshal(body, r.result); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to decode body")
			r.recordMetrics(ctx, false)
			return response, fmt.Errorf("%w: %v", ErrDecodeResult, err)
		}
	}

	r.recordMetrics(ctx, !response.IsError())
	return response, nil
}

func (r *requestBuilder) recordError(ctx context.Context, span trace.Span, err error) {
	span.RecordError(err)

	var netErr net.Error
	if errors.Is(err, context.Canceled) {
		span.SetAttributes(attribute.Bool("context.cancelled", true))
	}
	if errors.As(err, &netErr) && netErr.Timeout() {
		span.SetAttributes(attribute.Bool("request.timeout", true))
	}

	span.SetStatus(codes.Error, err.Error())
	r.recordMetrics(ctx, false)
}

func (r *requestBuilder) recordMetrics(ctx context.Context, success bool) {
	attrs := []attribute.KeyValue{
		attribute.String("provider", r.client.providerName),
		attribute.Bool("success", success),
	}
	for _, label := range r.labels {
		attrs = append(attrs, attribute.String(label.Key, label.Value))
	}

	r.client.requestCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
}
