package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"leadsearch/internal/components/chrono"
	"leadsearch/internal/components/telemetry"
	"leadsearch/internal/fetch"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("leadsearch/internal/search")

const (
	report_driver_collect_page = "driver.collect-page"
	report_driver_collect_all  = "driver.collect-all"
)

var (
	ErrEmptyQuery        = errors.New("search query is empty")
	ErrMalformedResponse = errors.New("provider response is not valid json")
)

// PageError is returned by CollectAll alongside the records collected before
// the failing page.
type PageError struct {
	// Page is the 1-based number of the page that failed.
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %s", e.Page, e.Err.Error())
}

func (e *PageError) Unwrap() error {
	return e.Err
}

// Driver pages through a provider. It holds no state between calls, so one
// Driver may serve any number of searches one after another.
type Driver struct {
	provider Provider
	creds    Credentials
	fetcher  fetch.Fetcher
	enricher *Enricher
	time     chrono.API
	tel      telemetry.API
}

func NewDriver(provider Provider, creds Credentials, fetcher fetch.Fetcher, time chrono.API, tel telemetry.API) Driver {
	return Driver{
		provider: provider,
		creds:    creds,
		fetcher:  fetcher,
		time:     time,
		tel:      telemetry.NewScopedAPI("search", tel),
	}
}

// WithEnricher returns a copy of the driver that enriches places results.
// Web results are never enriched.
func (d Driver) WithEnricher(e Enricher) Driver {
	d.enricher = &e
	return d
}

func (d Driver) Provider() Provider {
	return d.provider
}

// CollectPage performs a single provider call. An empty token asks for the
// first page. When ctx ends during enrichment the page's records are
// returned along with the context's error.
func (d Driver) CollectPage(ctx context.Context, q Query, token string) (PageResult, error) {
	ctx, span := tracer.Start(ctx, "Driver.CollectPage")
	defer span.End()
	span.SetAttributes(
		attribute.String("provider", d.provider.Name),
		attribute.Bool("continuation", token != ""),
	)

	if strings.TrimSpace(q.Text) == "" {
		return PageResult{}, ErrEmptyQuery
	}

	out := d.fetcher.Fetch(ctx, d.provider.Endpoint, fetch.Options{
		Timeout: fetch.DefaultTimeout,
		Query:   d.provider.Params(d.creds, q, token),
	})
	if !out.OK() {
		span.SetStatus(codes.Error, "fetch failed")
		err := out.Err()
		if msg := d.errorMessage(out.Body); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return PageResult{}, err
	}

	if !gjson.ValidBytes(out.Body) {
		span.SetStatus(codes.Error, "malformed json")
		return PageResult{}, ErrMalformedResponse
	}
	body := gjson.ParseBytes(out.Body)
	if err := d.provider.checkBody(body); err != nil {
		span.SetStatus(codes.Error, "provider error")
		return PageResult{}, err
	}

	items := body.Get(d.provider.ItemsPath)
	if items.Exists() && !items.IsArray() {
		span.SetStatus(codes.Error, "items is not an array")
		return PageResult{}, fmt.Errorf("%w: %s is not an array", ErrMalformedResponse, d.provider.ItemsPath)
	}

	records := NormalizeAll(items.Array(), d.provider)
	if d.enricher != nil && d.provider.Kind == KindPlaces {
		err := d.enrich(ctx, records)
		if err != nil {
			span.SetStatus(codes.Error, "enrichment interrupted")
			span.SetAttributes(attribute.Int("records", len(records)))
			return PageResult{Records: records}, err
		}
	}

	next := strings.TrimSpace(body.Get(d.provider.TokenPath).String())
	span.SetAttributes(attribute.Int("records", len(records)))

	return PageResult{
		Records:   records,
		NextToken: next,
	}, nil
}

// enrich checks every record's website in order. When ctx ends midway the
// record being checked and every record after it are left as
// PresenceUnknown and the context's error is returned.
func (d Driver) enrich(ctx context.Context, records []Record) error {
	for i := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.enricher.Enrich(ctx, &records[i])
		if err := ctx.Err(); err != nil {
			records[i].SocialPresence = PresenceUnknown
			return err
		}
	}
	return nil
}

// errorMessage digs the provider's own explanation out of an error body.
func (d Driver) errorMessage(body []byte) string {
	if d.provider.ErrorPath == "" || len(body) == 0 || !gjson.ValidBytes(body) {
		return ""
	}
	return gjson.GetBytes(body, d.provider.ErrorPath).String()
}

// CollectAll follows continuation tokens until the provider stops returning
// one, waiting the provider's page delay before every call after the first.
// Records keep the order they were received in.
//
// A failure on any page, or the context ending, stops the loop. The records
// gathered so far are returned together with a *PageError. When the context
// ends while a page is being enriched, that page's records are kept and the
// ones that were not checked are PresenceUnknown.
func (d Driver) CollectAll(ctx context.Context, q Query) ([]Record, error) {
	ctx, span := tracer.Start(ctx, "Driver.CollectAll")
	defer span.End()

	if strings.TrimSpace(q.Text) == "" {
		return nil, ErrEmptyQuery
	}

	limit := d.provider.pageLimit(q)
	records := []Record{}
	token := ""

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return records, d.fail(span, page, err)
		}
		if page > 1 {
			if err := d.time.Sleep(ctx, d.provider.PageDelay); err != nil {
				return records, d.fail(span, page, err)
			}
			if err := ctx.Err(); err != nil {
				return records, d.fail(span, page, err)
			}
		}

		d.tel.ReportDebug("collect page", d.provider.Name, page)
		res, err := d.CollectPage(ctx, q, token)
		records = append(records, res.Records...)
		if err != nil {
			return records, d.fail(span, page, err)
		}

		if res.NextToken == "" {
			break
		}
		if limit > 0 && page >= limit {
			d.tel.ReportDebug("page limit reached", limit)
			break
		}
		token = res.NextToken
	}

	d.tel.ReportCount(report_driver_collect_all, int64(len(records)))
	span.SetAttributes(attribute.Int("records", len(records)))
	return records, nil
}

func (d Driver) fail(span trace.Span, page int, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, "pagination stopped")
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		d.tel.ReportWarning(report_driver_collect_page, "cancelled", page)
	} else {
		d.tel.ReportBroken(report_driver_collect_page, err, page)
	}
	return &PageError{Page: page, Err: err}
}
