package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"leadsearch/internal/components/telemetry"
	"leadsearch/lib/restyutil"
	libtelemetry "leadsearch/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("leadsearch/internal/fetch")

const (
	// DefaultTimeout bounds a single provider request.
	DefaultTimeout = 10 * time.Second
	// WebsiteTimeout bounds a single website enrichment request.
	WebsiteTimeout = 5 * time.Second

	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
)

const report_client_get = "client.get"

type Options struct {
	// Timeout of zero means DefaultTimeout.
	Timeout time.Duration
	Headers map[string]string
	Query   url.Values
}

// Outcome is the result of a single fetch. A failed outcome has a non-empty
// Reason; Status is kept when the server did answer.
type Outcome struct {
	Status int
	Body   []byte
	Reason string
}

func (o Outcome) OK() bool {
	return o.Reason == ""
}

// Err returns nil for a successful outcome and an *Error otherwise.
func (o Outcome) Err() error {
	if o.OK() {
		return nil
	}
	return &Error{Status: o.Status, Reason: o.Reason}
}

type Error struct {
	Status int
	Reason string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch failed (status %d): %s", e.Status, e.Reason)
	}
	return fmt.Sprintf("fetch failed: %s", e.Reason)
}

// Fetcher performs a GET request and never returns an error, failures are
// carried by the Outcome.
//
// note: fault injection point
type Fetcher interface {
	Fetch(ctx context.Context, link string, opts Options) Outcome
}

type Client struct {
	http *resty.Client
	tel  telemetry.API
}

func NewClient(tel telemetry.API) Client {
	client := resty.New()
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", DefaultUserAgent)
	client.SetTimeout(DefaultTimeout)

	tel = telemetry.NewScopedAPI("fetch", tel)
	telemetry.InstrumentResty(client, tel)
	libtelemetry.TraceResty(client, "leadsearch/internal/fetch")

	return Client{http: client, tel: tel}
}

// DumpTo writes every response the client receives to output, for
// debugging provider responses.
func (c Client) DumpTo(output restyutil.DumpOutput) {
	restyutil.DumpResponses(c.http, output)
}

func (c Client) Fetch(ctx context.Context, link string, opts Options) Outcome {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := c.http.R().SetContext(ctx)
	if len(opts.Headers) > 0 {
		req.SetHeaders(opts.Headers)
	}
	if len(opts.Query) > 0 {
		req.SetQueryParamsFromValues(opts.Query)
	}

	res, err := req.Get(link)
	if err != nil {
		reason := err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			reason = fmt.Sprintf("timed out after %s", timeout)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		c.tel.ReportWarning(report_client_get, fmt.Errorf("transport: %w", err), link)
		return Outcome{Reason: reason}
	}

	span.SetAttributes(attribute.Int("http.status_code", res.StatusCode()))
	if !res.IsSuccess() {
		span.SetStatus(codes.Error, "unexpected status")
		c.tel.ReportWarning(report_client_get, res.Status(), link)
		return Outcome{
			Status: res.StatusCode(),
			Body:   res.Body(),
			Reason: fmt.Sprintf("unexpected status %s", res.Status()),
		}
	}

	return Outcome{
		Status: res.StatusCode(),
		Body:   res.Body(),
	}
}
