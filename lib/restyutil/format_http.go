package restyutil

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"leadsearch/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

func formatHeaders(headers http.Header) string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := []string{}
	for _, k := range keys {
		for _, v := range headers[k] {
			lines = append(lines, fmt.Sprintf("%s: %s", k, v))
		}
	}
	return strings.Join(lines, "\n")
}

func redact(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	return telemetry.RedactURL(u)
}

// 1: request method
// 2: request url
// 3: request headers in ("Key: Value" format)
// 4: response status
// 5: response headers in ("Key: Value" format)
// 6: response body
const messageInfoTemplate = `---- REQUEST ----

%s %s

%s

---- RESPONSE ----

%s

%s

%s`

func formatHttpMessage(res *resty.Response) string {
	var requestHeaders http.Header
	link := res.Request.URL
	if res.Request.RawRequest != nil {
		requestHeaders = res.Request.RawRequest.Header
		link = res.Request.RawRequest.URL.String()
	}

	return fmt.Sprintf(
		messageInfoTemplate,

		res.Request.Method, redact(link),
		formatHeaders(requestHeaders),

		res.Status(),
		formatHeaders(res.Header()),
		res.String(),
	)
}
