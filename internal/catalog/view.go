package catalog

import "storefront/internal/domain/models"

type ViewState string

const (
	StateUnfiltered ViewState = "no-filter-applied"
	StateFiltered   ViewState = "filtered"
)

// View owns the storefront view state for one product set: the filter state,
// the page cursor and the filtered+sorted sequence derived from them.
//
// Any filter change or reset recomputes the sequence and rewinds the cursor
// to page 1. LoadMore only advances the cursor and reuses the sequence.
// A View is not safe for concurrent use.
type View struct {
	all      []models.Product
	sequence []models.Product
	filters  FilterState
	page     int
	pageSize int
}

// NewView builds a view over products with default filters. The caller's
// slice is copied and never modified.
func NewView(products []models.Product) *View {
	all := make([]models.Product, len(products))
	copy(all, products)

	v := &View{all: all, pageSize: PageSize}
	v.Reset()
	return v
}

func (v *View) SetSearch(search string) {
	v.filters.Search = search
	v.refresh()
}

func (v *View) SetCategory(category string) {
	v.filters.Category = category
	v.refresh()
}

func (v *View) SetSort(key SortKey) {
	v.filters.Sort = ParseSortKey(string(key))
	v.refresh()
}

// SetFilters replaces the whole filter state in one transition. An empty or
// unknown sort key is stored as newest.
func (v *View) SetFilters(f FilterState) {
	f.Sort = ParseSortKey(string(f.Sort))
	v.filters = f
	v.refresh()
}

func (v *View) Reset() {
	v.filters, _ = ResetFilters()
	v.refresh()
}

// LoadMore reveals one more page. The cursor never moves backwards.
func (v *View) LoadMore() {
	v.page++
}

// Result is the visible prefix and whether more pages remain.
func (v *View) Result() ([]models.Product, bool) {
	return Paginate(v.sequence, v.pageSize, v.page)
}

// HasMore is Result's second value without copying the visible prefix.
func (v *View) HasMore() bool {
	return v.page <= len(v.sequence)/v.pageSize && v.pageSize*v.page < len(v.sequence)
}

func (v *View) Filters() FilterState { return v.filters }

func (v *View) Page() int { return v.page }

// Total is the length of the filtered sequence, before pagination.
func (v *View) Total() int { return len(v.sequence) }

// Filtered reports whether any filter or a non-default sort is applied.
func (v *View) Filtered() bool {
	return v.filters != DefaultFilters()
}

func (v *View) State() ViewState {
	if v.Filtered() {
		return StateFiltered
	}
	return StateUnfiltered
}

func (v *View) refresh() {
	v.sequence = Sort(ApplyFilter(v.all, v.filters), v.filters.Sort)
	v.page = 1
}
