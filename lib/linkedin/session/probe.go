package session

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const feedUrl = "https://www.linkedin.com/feed/"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// Probe checks whether saved cookies still carry a live LinkedIn
// session, with a plain HTTP request, before the expense of launching a
// browser. a dead session redirects the feed to the login or challenge
// page.
type Probe struct {
	client *resty.Client
}

func NewProbe(cookies []Cookie) (*Probe, error) {
	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", userAgent)
	client.SetTimeout(time.Second * 30)

	base, err := url.Parse("https://www.linkedin.com")
	if err != nil {
		return nil, err
	}
	for _, c := range cookies {
		jar.SetCookies(base, []*http.Cookie{c.HTTP()})
	}

	return &Probe{client: client}, nil
}

// LoggedIn reports whether the session cookies are still accepted. any
// redirect onto a login or challenge URL means they are not.
func (p *Probe) LoggedIn(ctx context.Context) (bool, error) {
	res, err := p.client.R().
		SetContext(ctx).
		Get(feedUrl)
	if err != nil {
		return false, err
	}

	final := strings.ToLower(res.RawResponse.Request.URL.String())
	if strings.Contains(final, "login") || strings.Contains(final, "challenge") {
		return false, nil
	}
	return res.StatusCode() < 400, nil
}
