package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// scriptedDriver plays back a fixed sequence of post counts, one per
// PostCount call. the last count repeats once the script runs out.
type scriptedDriver struct {
	counts []int
	reads  int

	alive         bool
	failReadAfter int // fail PostCount once this many reads happened, 0 disables
	hasLoadMore   bool

	loadMoreClicks int
	scrolls        int
	filterErr      error
	filterApplied  DateFilter
}

func newScriptedDriver(counts ...int) *scriptedDriver {
	return &scriptedDriver{counts: counts, alive: true}
}

func (d *scriptedDriver) OpenQuery(ctx context.Context, query Query) error { return nil }

func (d *scriptedDriver) ApplyDateFilter(ctx context.Context, filter DateFilter) error {
	if d.filterErr != nil {
		return d.filterErr
	}
	d.filterApplied = filter
	return nil
}

func (d *scriptedDriver) PostCount(ctx context.Context) (int, error) {
	if d.failReadAfter > 0 && d.reads >= d.failReadAfter {
		return 0, errors.New("connection refused")
	}
	i := d.reads
	if i >= len(d.counts) {
		i = len(d.counts) - 1
	}
	d.reads++
	return d.counts[i], nil
}

func (d *scriptedDriver) ClickLoadMore(ctx context.Context) (bool, error) {
	if d.hasLoadMore {
		d.loadMoreClicks++
		return true, nil
	}
	return false, nil
}

func (d *scriptedDriver) ScrollIncrement(ctx context.Context) error {
	d.scrolls++
	return nil
}

func (d *scriptedDriver) HasExpand(ctx context.Context, unit Unit) (bool, error) { return false, nil }
func (d *scriptedDriver) Expand(ctx context.Context, unit Unit) error            { return nil }
func (d *scriptedDriver) Text(ctx context.Context, unit Unit) (string, error)    { return "", nil }
func (d *scriptedDriver) Author(ctx context.Context, unit Unit) (string, error)  { return "", nil }
func (d *scriptedDriver) Alive(ctx context.Context) bool                         { return d.alive }

func collect(t *testing.T, driver PageDriver, opts Options, query Query) ([]Unit, error) {
	t.Helper()
	var units []Unit
	engine := NewEngine(driver, opts)
	err := engine.Traverse(context.Background(), query, func(ctx context.Context, unit Unit) error {
		units = append(units, unit)
		return nil
	})
	return units, err
}

func TestTraverseStallDetection(t *testing.T) {
	// the count plateaus at 2 immediately: the first read registers
	// progress from zero, then five reads in a row without growth hit
	// the threshold
	driver := newScriptedDriver(2)
	units, err := collect(t, driver, Options{StallThreshold: 5}, Query{Text: "qa"})
	require.NoError(t, err)
	require.Len(t, units, 2)
	require.Equal(t, 6, driver.reads)
}

func TestTraverseProgressResetsStall(t *testing.T) {
	// growth right before the threshold would have been hit
	driver := newScriptedDriver(2, 2, 2, 2, 2, 5, 5, 5, 5, 5, 5)
	units, err := collect(t, driver, Options{StallThreshold: 5}, Query{Text: "qa"})
	require.NoError(t, err)
	require.Len(t, units, 5)
	require.Equal(t, 11, driver.reads)
}

func TestTraverseYieldsInFeedOrder(t *testing.T) {
	driver := newScriptedDriver(1, 3, 3)
	units, err := collect(t, driver, Options{StallThreshold: 2}, Query{Text: "qa"})
	require.NoError(t, err)
	require.Equal(t, []Unit{{Index: 0}, {Index: 1}, {Index: 2}}, units)
}

func TestTraverseMaxPosts(t *testing.T) {
	driver := newScriptedDriver(3, 6, 9, 12)
	units, err := collect(t, driver, Options{MaxPosts: 4}, Query{Text: "qa"})
	require.NoError(t, err)
	require.Len(t, units, 4)
}

func TestTraverseUnboundedByDefault(t *testing.T) {
	driver := newScriptedDriver(10, 20, 20)
	units, err := collect(t, driver, Options{StallThreshold: 2}, Query{Text: "qa"})
	require.NoError(t, err)
	require.Len(t, units, 20)
}

func TestTraverseSessionLost(t *testing.T) {
	driver := newScriptedDriver(3, 3, 3)
	driver.failReadAfter = 2
	driver.alive = false

	_, err := collect(t, driver, Options{}, Query{Text: "qa"})
	require.ErrorIs(t, err, ErrSessionLost)
}

func TestTraverseOrdinaryErrorIsNotSessionLost(t *testing.T) {
	driver := newScriptedDriver(3)
	driver.failReadAfter = 1

	_, err := collect(t, driver, Options{}, Query{Text: "qa"})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrSessionLost)
}

func TestTraverseVisitErrorAborts(t *testing.T) {
	driver := newScriptedDriver(3)
	boom := errors.New("boom")

	engine := NewEngine(driver, Options{})
	err := engine.Traverse(context.Background(), Query{Text: "qa"}, func(ctx context.Context, unit Unit) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
}

func TestTraverseDateFilterFailureDegrades(t *testing.T) {
	driver := newScriptedDriver(1)
	driver.filterErr = errors.New("filter control missing")

	units, err := collect(t, driver, Options{StallThreshold: 2},
		Query{Text: "qa", Filter: DateFilterPastWeek})
	require.NoError(t, err)
	require.Len(t, units, 1)
}

func TestTraversePrefersLoadMoreOverScroll(t *testing.T) {
	driver := newScriptedDriver(2)
	driver.hasLoadMore = true

	_, err := collect(t, driver, Options{StallThreshold: 3}, Query{Text: "qa"})
	require.NoError(t, err)
	require.Greater(t, driver.loadMoreClicks, 0)
	require.Equal(t, 0, driver.scrolls)
}

func TestTraverseScrollAttemptCap(t *testing.T) {
	// the count grows forever so stall detection never fires
	counts := make([]int, 50)
	for i := range counts {
		counts[i] = i + 1
	}
	driver := newScriptedDriver(counts...)

	units, err := collect(t, driver, Options{MaxScrollAttempts: 10}, Query{Text: "qa"})
	require.NoError(t, err)
	require.Len(t, units, 10)
	require.Equal(t, 10, driver.reads)
}

func TestDefaults(t *testing.T) {
	opts := Options{}.withDefaults()
	require.Equal(t, DefaultStallThreshold, opts.StallThreshold)
	require.Equal(t, DefaultMaxScrollAttempts, opts.MaxScrollAttempts)
	require.Equal(t, 0, opts.MaxPosts)
}
