package catalog

import (
	"testing"
	"time"

	"storefront/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewInitialResult(t *testing.T) {
	all := numbered(20)
	v := NewView(all)

	visible, more := v.Result()
	assert.Equal(t, ids(all[:8]), ids(visible))
	assert.True(t, more)
	assert.Equal(t, 1, v.Page())
	assert.Equal(t, 20, v.Total())
	assert.Equal(t, StateUnfiltered, v.State())
}

func TestViewLoadMoreRevealsGrowingPrefix(t *testing.T) {
	all := numbered(20)
	v := NewView(all)

	v.LoadMore()
	visible, more := v.Result()
	assert.Equal(t, ids(all[:16]), ids(visible))
	assert.True(t, more)
	assert.True(t, v.HasMore())

	v.LoadMore()
	visible, more = v.Result()
	assert.Equal(t, ids(all), ids(visible))
	assert.False(t, more)
	assert.False(t, v.HasMore())
	assert.Equal(t, 3, v.Page())
}

func TestViewFilterChangeRewindsCursor(t *testing.T) {
	v := NewView(numbered(20))
	v.LoadMore()
	v.LoadMore()
	require.Equal(t, 3, v.Page())

	v.SetSearch("item 1")
	assert.Equal(t, 1, v.Page())
	assert.Equal(t, StateFiltered, v.State())
	visible, more := v.Result()
	// only "Item 10".."Item 19" contain "item 1"
	assert.Equal(t, 10, v.Total())
	assert.Equal(t, []int64{10, 11, 12, 13, 14, 15, 16, 17}, ids(visible))
	assert.True(t, more)

	v.LoadMore()
	v.SetSort(SortPriceHigh)
	assert.Equal(t, 1, v.Page())
	visible, _ = v.Result()
	assert.Equal(t, int64(19), visible[0].ID)

	v.LoadMore()
	v.SetCategory("Other")
	assert.Equal(t, 1, v.Page())
	visible, more = v.Result()
	assert.Empty(t, visible)
	assert.False(t, more)
}

func TestViewLoadMoreReusesSequence(t *testing.T) {
	all := numbered(12)
	v := NewView(all)
	v.SetSort(SortPriceHigh)
	seq := v.sequence

	v.LoadMore()
	assert.Same(t, &seq[0], &v.sequence[0])
}

func TestViewResetRestoresFirstPage(t *testing.T) {
	all := numbered(20)
	fresh, freshMore := NewView(all).Result()

	v := NewView(all)
	v.SetSearch("item")
	v.SetCategory("Misc")
	v.SetSort(SortName)
	v.LoadMore()
	v.SetFilters(FilterState{Search: "0", Sort: SortPriceLow})
	v.LoadMore()
	v.Reset()

	assert.Equal(t, DefaultFilters(), v.Filters())
	assert.Equal(t, 1, v.Page())
	assert.Equal(t, StateUnfiltered, v.State())
	visible, more := v.Result()
	assert.Equal(t, ids(fresh), ids(visible))
	assert.Equal(t, freshMore, more)
}

func TestViewDoesNotTouchCallerSlice(t *testing.T) {
	all := []models.Product{
		product(1, "B", "X", 10, 2*time.Hour),
		product(2, "A", "X", 20, 1*time.Hour),
	}
	v := NewView(all)
	v.SetSort(SortName)
	visible, _ := v.Result()
	visible[0].Title = "mutated"

	assert.Equal(t, []int64{1, 2}, ids(all))
	assert.Equal(t, "A", all[1].Title)
	again, _ := v.Result()
	assert.Equal(t, "A", again[0].Title)
}

func TestViewEmptyCatalog(t *testing.T) {
	v := NewView(nil)
	visible, more := v.Result()
	assert.NotNil(t, visible)
	assert.Empty(t, visible)
	assert.False(t, more)
}

func TestViewFilteredFlag(t *testing.T) {
	v := NewView(sampleCatalog())
	assert.False(t, v.Filtered())

	v.SetFilters(FilterState{})
	assert.False(t, v.Filtered())
	assert.Equal(t, SortNewest, v.Filters().Sort)
	assert.Equal(t, StateUnfiltered, v.State())

	v.SetSort("")
	assert.False(t, v.Filtered())

	v.SetSort(SortPriceHigh)
	assert.True(t, v.Filtered())
	assert.Equal(t, StateFiltered, v.State())

	v.SetFilters(FilterState{Category: "Menswear"})
	assert.True(t, v.Filtered())
}
