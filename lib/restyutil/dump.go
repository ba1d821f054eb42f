package restyutil

import (
	"fmt"
	"net/url"
	"regexp"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type DumpOutput interface {
	Write(id string, contents string)
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.\-]+`)

func messageId(n uint64, link string) string {
	host := "unknown"
	if u, err := url.Parse(link); err == nil && u.Host != "" {
		host = u.Host
	}
	return fmt.Sprintf("%04d-%s.txt", n, unsafeChars.ReplaceAllString(host, "_"))
}

// DumpResponses writes every response the client receives to output, a
// no-op when output is nil.
func DumpResponses(client *resty.Client, output DumpOutput) {
	if output == nil {
		return
	}

	var idcounter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		n := atomic.AddUint64(&idcounter, 1)
		output.Write(messageId(n, res.Request.URL), formatHttpMessage(res))
		return nil
	})
}
