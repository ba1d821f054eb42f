package search

import (
	"context"
	"strings"

	"leadsearch/internal/components/telemetry"
	"leadsearch/internal/fetch"
	"leadsearch/internal/linkscan"

	"go.opentelemetry.io/otel/attribute"
)

const report_enricher_scan = "enricher.scan"

// DefaultSocialTarget is what the enricher looks for when nothing else is
// configured.
const DefaultSocialTarget = "instagram.com"

// Enricher checks a record's website for a link to a social platform.
type Enricher struct {
	fetcher fetch.Fetcher
	target  string
	// strict reports PresenceUnknown instead of PresenceNo when the website
	// could not be fetched.
	strict bool
	tel    telemetry.API
}

func NewEnricher(fetcher fetch.Fetcher, target string, strict bool, tel telemetry.API) Enricher {
	if strings.TrimSpace(target) == "" {
		target = DefaultSocialTarget
	}
	return Enricher{
		fetcher: fetcher,
		target:  target,
		strict:  strict,
		tel:     telemetry.NewScopedAPI("enricher", tel),
	}
}

func (e Enricher) Target() string {
	return e.target
}

// Enrich fills in rec.SocialPresence.
func (e Enricher) Enrich(ctx context.Context, rec *Record) {
	rec.SocialPresence = e.Presence(ctx, rec.PrimaryLink)
}

// Presence fetches website and scans it for the target. A website of NA is
// PresenceNo without any request. A failed fetch is PresenceNo as well, which
// cannot be told apart from a page without the link, unless the enricher is
// strict.
func (e Enricher) Presence(ctx context.Context, website string) Presence {
	website = strings.TrimSpace(website)
	if website == "" || website == NA {
		return PresenceNo
	}
	if !strings.Contains(website, "://") {
		website = "https://" + website
	}

	ctx, span := tracer.Start(ctx, "Enricher.Presence")
	defer span.End()
	span.SetAttributes(attribute.String("website", website))

	out := e.fetcher.Fetch(ctx, website, fetch.Options{
		Timeout: fetch.WebsiteTimeout,
		Headers: map[string]string{"user-agent": fetch.DefaultUserAgent},
	})
	if !out.OK() {
		e.tel.ReportWarning(report_enricher_scan, website, out.Reason)
		if e.strict {
			return PresenceUnknown
		}
		return PresenceNo
	}

	if linkscan.ScanForLink(out.Body, e.target) {
		e.tel.ReportDebug("found social link", website, linkscan.FindLinks(ctx, out.Body, e.target))
		return PresenceYes
	}
	return PresenceNo
}
