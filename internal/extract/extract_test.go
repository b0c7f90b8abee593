package extract

import (
	"context"
	"errors"
	"testing"
	"jobreach/internal/feed"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type fakePost struct {
	truncated string
	full      string
	author    string
}

// fakeDriver serves scripted post content. a post with distinct
// truncated and full text exposes an expand affordance.
type fakeDriver struct {
	posts    []fakePost
	expanded map[int]bool
	failText bool
}

func newFakeDriver(posts ...fakePost) *fakeDriver {
	return &fakeDriver{posts: posts, expanded: map[int]bool{}}
}

func (d *fakeDriver) OpenQuery(ctx context.Context, query feed.Query) error { return nil }
func (d *fakeDriver) ApplyDateFilter(ctx context.Context, filter feed.DateFilter) error {
	return nil
}
func (d *fakeDriver) PostCount(ctx context.Context) (int, error) { return len(d.posts), nil }
func (d *fakeDriver) ClickLoadMore(ctx context.Context) (bool, error) {
	return false, nil
}
func (d *fakeDriver) ScrollIncrement(ctx context.Context) error { return nil }
func (d *fakeDriver) Alive(ctx context.Context) bool            { return true }

func (d *fakeDriver) HasExpand(ctx context.Context, unit feed.Unit) (bool, error) {
	p := d.posts[unit.Index]
	return p.full != "" && p.full != p.truncated, nil
}

func (d *fakeDriver) Expand(ctx context.Context, unit feed.Unit) error {
	d.expanded[unit.Index] = true
	return nil
}

func (d *fakeDriver) Text(ctx context.Context, unit feed.Unit) (string, error) {
	if d.failText {
		return "", errors.New("element detached")
	}
	p := d.posts[unit.Index]
	if d.expanded[unit.Index] && p.full != "" {
		return p.full, nil
	}
	return p.truncated, nil
}

func (d *fakeDriver) Author(ctx context.Context, unit feed.Unit) (string, error) {
	return d.posts[unit.Index].author, nil
}

func TestExtract(t *testing.T) {
	ctx := context.Background()

	t.Run("post with address yields one candidate", func(t *testing.T) {
		driver := newFakeDriver(fakePost{
			truncated: "Hiring QA Engineer! Send your resume to hr@techstartup.dev",
			author:    "Jordan Recruiter",
		})
		x := NewExtractor(driver)

		got, err := x.Extract(ctx, feed.Unit{Index: 0}, "qa hiring")
		require.NoError(t, err)

		expect := []Candidate{{
			Email:    "hr@techstartup.dev",
			Author:   "Jordan Recruiter",
			JobTitle: "QA",
			Excerpt:  "Hiring QA Engineer! Send your resume to hr@techstartup.dev",
			Query:    "qa hiring",
		}}
		if diff := cmp.Diff(expect, got); diff != "" {
			t.Fatalf("unexpected candidates (-want +got):\n%s", diff)
		}
	})

	t.Run("address only visible after expansion", func(t *testing.T) {
		driver := newFakeDriver(fakePost{
			truncated: "We are hiring SDET folks, details below",
			full:      "We are hiring SDET folks, details below. Apply: sdet-jobs@corp.io",
		})
		x := NewExtractor(driver)

		got, err := x.Extract(ctx, feed.Unit{Index: 0}, "sdet")
		require.NoError(t, err)
		require.True(t, driver.expanded[0])
		require.Len(t, got, 1)
		require.Equal(t, "sdet-jobs@corp.io", got[0].Email)
	})

	t.Run("post without address yields nothing", func(t *testing.T) {
		driver := newFakeDriver(fakePost{
			truncated: "We are hiring QA engineers, DM me for details",
		})
		x := NewExtractor(driver)

		got, err := x.Extract(ctx, feed.Unit{Index: 0}, "qa")
		require.NoError(t, err)
		require.Empty(t, got)
	})

	t.Run("multi-address post yields one candidate per address", func(t *testing.T) {
		driver := newFakeDriver(fakePost{
			truncated: "Openings in manual testing, apply to a@corp.io or b@corp.io",
		})
		x := NewExtractor(driver)

		got, err := x.Extract(ctx, feed.Unit{Index: 0}, "manual testing")
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, "a@corp.io", got[0].Email)
		require.Equal(t, "b@corp.io", got[1].Email)
		require.Equal(t, got[0].JobTitle, got[1].JobTitle)
	})

	t.Run("unreadable post is an error", func(t *testing.T) {
		driver := newFakeDriver(fakePost{truncated: "whatever"})
		driver.failText = true
		x := NewExtractor(driver)

		_, err := x.Extract(ctx, feed.Unit{Index: 0}, "q")
		require.Error(t, err)
	})
}

func TestTitleHint(t *testing.T) {
	cases := []struct {
		text   string
		expect string
	}{
		{"Hiring a QA engineer, send resume to hr@acme.io", "QA"},
		{"Urgent requirement: SDET position in Austin", "SDET"},
		{"Looking for quality assurance professionals", "QA"},
		{"Openings in manual testing right now", "Manual Testing/Testing"},
		// a one-character typo still matches the cue fuzzily
		{"We need automaton testing expertise", "Automation/Testing"},
		{"Beautiful sunset at the lake today", ""},
		{"", ""},
	}

	for _, test := range cases {
		got := TitleHint(test.text)
		require.Equal(t, test.expect, got, "text: %q", test.text)
	}
}

func TestExcerpt(t *testing.T) {
	require.Equal(t, "a b c", Excerpt("  a\n b\t c "))

	long := ""
	for i := 0; i < 100; i++ {
		long += "abcdefghij "
	}
	require.Len(t, Excerpt(long), excerptLimit)
}
