package roddriver

import (
	"context"
	"fmt"
	"strings"
	"time"
	"jobreach/internal/feed"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// LinkedIn renders feed results under several container markups
// depending on the rollout cohort, the first selector that yields
// anything wins.
var postSelectors = []string{
	`div[data-view-name="feed-full-update"]`,
	`li.reusable-search__result-container`,
	`div[data-chameleon-result-urn]`,
	`div.fie-impression-container`,
	`div[data-urn*="urn:li:activity"]`,
}

var contentSelectors = []string{
	".update-components-text",
	".feed-shared-inline-show-more-text",
	".feed-shared-text-view",
	`[data-test-id="post-text"]`,
}

const authorSelector = ".update-components-actor__title"

func (d *Driver) posts(ctx context.Context) (rod.Elements, error) {
	page := d.page.Context(ctx)
	for _, selector := range postSelectors {
		els, err := page.Elements(selector)
		if err != nil {
			return nil, err
		}
		if len(els) > 0 {
			return els, nil
		}
	}
	return nil, nil
}

func (d *Driver) post(ctx context.Context, unit feed.Unit) (*rod.Element, error) {
	els, err := d.posts(ctx)
	if err != nil {
		return nil, err
	}
	if unit.Index < 0 || unit.Index >= len(els) {
		return nil, fmt.Errorf("post %d is no longer on the page (have %d)", unit.Index, len(els))
	}
	return els[unit.Index], nil
}

func (d *Driver) HasExpand(ctx context.Context, unit feed.Unit) (bool, error) {
	el, err := d.post(ctx, unit)
	if err != nil {
		return false, err
	}
	has, _, err := el.HasR("span", "more")
	if err != nil {
		return false, err
	}
	return has, nil
}

func (d *Driver) Expand(ctx context.Context, unit feed.Unit) error {
	el, err := d.post(ctx, unit)
	if err != nil {
		return err
	}
	has, toggle, err := el.HasR("span", "more")
	if err != nil {
		return err
	}
	if !has {
		return nil
	}
	err = toggle.Click(proto.InputMouseButtonLeft, 1)
	if err != nil {
		return fmt.Errorf("failed to expand post %d: %w", unit.Index, err)
	}
	// expansion is an in-place DOM swap, give it a beat to settle
	time.Sleep(time.Millisecond * 300)
	return nil
}

func (d *Driver) document(ctx context.Context, unit feed.Unit) (*goquery.Document, error) {
	el, err := d.post(ctx, unit)
	if err != nil {
		return nil, err
	}
	html, err := el.HTML()
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func (d *Driver) Text(ctx context.Context, unit feed.Unit) (string, error) {
	doc, err := d.document(ctx, unit)
	if err != nil {
		return "", err
	}
	for _, selector := range contentSelectors {
		text := strings.TrimSpace(doc.Find(selector).First().Text())
		if len(text) > 10 {
			return text, nil
		}
	}
	// no recognized content block, fall back to the whole card
	return strings.TrimSpace(doc.Text()), nil
}

func (d *Driver) Author(ctx context.Context, unit feed.Unit) (string, error) {
	doc, err := d.document(ctx, unit)
	if err != nil {
		return "", err
	}
	author := strings.TrimSpace(doc.Find(authorSelector).First().Text())
	// the actor title repeats its text in a visually-hidden span, keep
	// the first line only
	if idx := strings.IndexByte(author, '\n'); idx >= 0 {
		author = strings.TrimSpace(author[:idx])
	}
	return author, nil
}
