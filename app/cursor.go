package app

// DefaultPageSize is the number of items requested per page.
const DefaultPageSize = 20

// PageRequest identifies one page fetch. Epoch ties the result back to the
// cursor state that issued it so late results can be discarded.
type PageRequest struct {
	Page  int
	Epoch uint64
}

// Cursor drives page-numbered infinite scrolling.
type Cursor struct {
	pageSize  int
	page      int // last page appended
	hasMore   bool
	inFlight  bool
	loaded    bool // initial page finished
	searching bool
	epoch     uint64
}

// NewCursor creates a cursor for the given page size.
func NewCursor(pageSize int) Cursor {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Cursor{pageSize: pageSize}
}

// Reset starts over at page 1, invalidating any in-flight request. The
// caller clears its collection and issues the returned request.
func (c *Cursor) Reset() PageRequest {
	c.epoch++
	c.page = 0
	c.hasMore = true
	c.loaded = false
	c.searching = false
	c.inFlight = true
	return PageRequest{Page: 1, Epoch: c.epoch}
}

// Next returns the following page request when auto-fetch is allowed.
func (c *Cursor) Next() (PageRequest, bool) {
	if !c.hasMore || c.inFlight || c.searching || !c.loaded {
		return PageRequest{}, false
	}
	c.inFlight = true
	return PageRequest{Page: c.page + 1, Epoch: c.epoch}, true
}

// Complete records a page result of n items. It returns false when the
// result belongs to an older epoch and must be ignored.
func (c *Cursor) Complete(req PageRequest, n int) bool {
	if req.Epoch != c.epoch {
		return false
	}
	c.inFlight = false
	c.loaded = true
	if n == 0 {
		c.hasMore = false
		return true
	}
	c.page = req.Page
	c.hasMore = n >= c.pageSize
	return true
}

// Fail clears the in-flight flag for a failed request of the current epoch.
func (c *Cursor) Fail(req PageRequest) bool {
	if req.Epoch != c.epoch {
		return false
	}
	c.inFlight = false
	return true
}

// EnterSearch disables auto-fetch and discards pending page results.
func (c *Cursor) EnterSearch() uint64 {
	c.epoch++
	c.searching = true
	c.inFlight = false
	return c.epoch
}

// ExitSearch leaves search mode and restarts paging from page 1.
func (c *Cursor) ExitSearch() PageRequest {
	return c.Reset()
}

// IsCurrent reports whether epoch is still the active generation.
func (c Cursor) IsCurrent(epoch uint64) bool {
	return epoch == c.epoch
}

func (c Cursor) Page() int       { return c.page }
func (c Cursor) HasMore() bool   { return c.hasMore }
func (c Cursor) Loading() bool   { return c.inFlight }
func (c Cursor) Searching() bool { return c.searching }
func (c Cursor) Loaded() bool    { return c.loaded }
func (c Cursor) Epoch() uint64   { return c.epoch }
func (c Cursor) PageSize() int   { return c.pageSize }
