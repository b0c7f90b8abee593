package roddriver

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"jobreach/internal/feed"
	"jobreach/lib/linkedin/session"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

const searchUrl = "https://www.linkedin.com/search/results/content/"

type Options struct {
	Headless bool
	// path to a chromium binary, "" lets the launcher resolve one
	Bin string
	// persisted session cookies, reused across runs
	CookieStore session.Store
	// how long navigation may take before giving up
	NavTimeout time.Duration
	// pause after each scroll so lazily loaded posts can land
	ScrollPause time.Duration
}

func (o Options) withDefaults() Options {
	if o.NavTimeout <= 0 {
		o.NavTimeout = time.Second * 30
	}
	if o.ScrollPause <= 0 {
		o.ScrollPause = time.Second * 2
	}
	return o
}

// Driver implements feed.PageDriver on a real Chromium session. it
// holds the one browsing session of the whole run; the pipeline is
// sequential, so no method is ever called concurrently.
type Driver struct {
	browser *rod.Browser
	page    *rod.Page
	opts    Options
}

func New(ctx context.Context, opts Options) (*Driver, error) {
	opts = opts.withDefaults()

	l := launcher.New().Headless(opts.Headless)
	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	}
	controlUrl, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlUrl).Context(ctx)
	err = browser.Connect()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	cookies, err := opts.CookieStore.Load()
	if err != nil {
		slog.Warn("failed to load saved cookies, starting without a session", "err", err)
	}
	if len(cookies) > 0 {
		err := browser.SetCookies(toNetworkCookies(cookies))
		if err != nil {
			slog.Warn("failed to restore saved cookies", "err", err)
		} else {
			slog.Info("restored session cookies", "count", len(cookies))
		}
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &Driver{
		browser: browser,
		page:    page,
		opts:    opts,
	}, nil
}

func toNetworkCookies(cookies []session.Cookie) []*proto.NetworkCookieParam {
	out := make([]*proto.NetworkCookieParam, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HttpOnly,
			Expires:  proto.TimeSinceEpoch(c.Expires.Unix()),
		})
	}
	return out
}

// SaveSession persists the live browser cookies for the next run.
func (d *Driver) SaveSession() error {
	cookies, err := d.browser.GetCookies()
	if err != nil {
		return err
	}
	out := make([]session.Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, session.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  time.Unix(int64(c.Expires), 0),
			Secure:   c.Secure,
			HttpOnly: c.HTTPOnly,
		})
	}
	return d.opts.CookieStore.Save(out)
}

func (d *Driver) Close() error {
	err := d.SaveSession()
	if err != nil {
		slog.Warn("failed to save session cookies", "err", err)
	}
	return d.browser.Close()
}

var noResultsIndicators = []string{
	"no results found",
	"we couldn't find any results",
	"didn't match any results",
}

func (d *Driver) OpenQuery(ctx context.Context, query feed.Query) error {
	target := searchUrl + "?keywords=" + url.QueryEscape(query.Text)
	page := d.page.Context(ctx).Timeout(d.opts.NavTimeout)

	err := page.Navigate(target)
	if err != nil {
		return fmt.Errorf("failed to navigate to search feed: %w", err)
	}
	err = page.WaitLoad()
	if err != nil {
		return fmt.Errorf("failed to load search feed: %w", err)
	}

	// a no-result feed terminates through normal stall detection, the
	// log line just makes the cause visible
	body, err := page.Element("body")
	if err == nil {
		text, err := body.Text()
		if err == nil {
			lower := strings.ToLower(text)
			for _, indicator := range noResultsIndicators {
				if strings.Contains(lower, indicator) {
					slog.InfoContext(ctx, "feed reports no results", "query", query.Text)
					break
				}
			}
		}
	}
	return nil
}

var filterLabels = map[feed.DateFilter]string{
	feed.DateFilterPast24Hours: "Past 24 hours",
	feed.DateFilterPastWeek:    "Past week",
	feed.DateFilterPastMonth:   "Past month",
}

func (d *Driver) ApplyDateFilter(ctx context.Context, filter feed.DateFilter) error {
	label, ok := filterLabels[filter]
	if !ok {
		return nil
	}

	el, err := d.page.Context(ctx).Timeout(time.Second*10).ElementR("label", label)
	if err != nil {
		return fmt.Errorf("date filter %q not found: %w", label, err)
	}
	err = el.Click(proto.InputMouseButtonLeft, 1)
	if err != nil {
		return fmt.Errorf("failed to click date filter %q: %w", label, err)
	}

	err = d.page.Context(ctx).Timeout(d.opts.NavTimeout).WaitLoad()
	if err != nil {
		return fmt.Errorf("feed did not reload after date filter: %w", err)
	}
	time.Sleep(d.opts.ScrollPause)
	return nil
}

func (d *Driver) PostCount(ctx context.Context) (int, error) {
	els, err := d.posts(ctx)
	if err != nil {
		return 0, err
	}
	return len(els), nil
}

func (d *Driver) ClickLoadMore(ctx context.Context) (bool, error) {
	el, err := d.page.Context(ctx).Timeout(time.Second*2).ElementR("button", "Show more results")
	if err != nil {
		if !d.Alive(ctx) {
			return false, err
		}
		// absence of the affordance is the common case, not an error
		return false, nil
	}
	err = el.Click(proto.InputMouseButtonLeft, 1)
	if err != nil {
		return false, err
	}
	time.Sleep(d.opts.ScrollPause)
	return true, nil
}

func (d *Driver) ScrollIncrement(ctx context.Context) error {
	_, err := d.page.Context(ctx).Eval(`() => window.scrollTo(0, document.body.scrollHeight)`)
	if err != nil {
		return err
	}
	time.Sleep(d.opts.ScrollPause)
	return nil
}

const loginUrl = "https://www.linkedin.com/login"

// WaitForLogin opens the login page and blocks until a human completes
// the login in the (headed) browser window, then saves the session. it
// returns once the browser lands on the feed, or when ctx expires.
func (d *Driver) WaitForLogin(ctx context.Context) error {
	err := d.page.Context(ctx).Navigate(loginUrl)
	if err != nil {
		return fmt.Errorf("failed to open login page: %w", err)
	}
	slog.InfoContext(ctx, "waiting for manual login in the browser window")

	ticker := time.NewTicker(time.Second * 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("login not completed: %w", ctx.Err())
		case <-ticker.C:
		}

		info, err := d.page.Context(ctx).Info()
		if err != nil {
			return err
		}
		if strings.Contains(info.URL, "/feed") {
			slog.InfoContext(ctx, "login detected, saving session")
			return d.SaveSession()
		}
	}
}

func (d *Driver) Alive(ctx context.Context) bool {
	_, err := proto.BrowserGetVersion{}.Call(d.browser)
	return err == nil
}
