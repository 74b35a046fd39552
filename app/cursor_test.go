package app

import "testing"

func TestCursor_FetchesUntilFirstEmptyPage(t *testing.T) {
	c := NewCursor(DefaultPageSize)
	pages := []int{20, 20, 20, 0}

	var fetched []int
	req := c.Reset()
	for _, n := range pages {
		fetched = append(fetched, req.Page)
		if !c.Complete(req, n) {
			t.Fatalf("current epoch result rejected")
		}
		next, ok := c.Next()
		if !ok {
			break
		}
		req = next
	}

	want := []int{1, 2, 3, 4}
	if len(fetched) != len(want) {
		t.Fatalf("fetched pages %v, want %v", fetched, want)
	}
	for i := range want {
		if fetched[i] != want[i] {
			t.Fatalf("fetched pages %v, want %v", fetched, want)
		}
	}
	if c.HasMore() {
		t.Fatalf("cursor should be exhausted")
	}
	if _, ok := c.Next(); ok {
		t.Fatalf("exhausted cursor must not fetch again")
	}
	if c.Page() != 3 {
		t.Fatalf("empty page must not advance the counter, got %d", c.Page())
	}
}

func TestCursor_PartialPageStops(t *testing.T) {
	c := NewCursor(20)
	req := c.Reset()
	c.Complete(req, 7)
	if _, ok := c.Next(); ok {
		t.Fatalf("partial page should end paging")
	}
}

func TestCursor_GuardsInFlightAndInitialLoad(t *testing.T) {
	c := NewCursor(20)
	if _, ok := c.Next(); ok {
		t.Fatalf("no fetch before the initial load")
	}
	req := c.Reset()
	if _, ok := c.Next(); ok {
		t.Fatalf("no fetch while page 1 is in flight")
	}
	c.Complete(req, 20)
	next, ok := c.Next()
	if !ok || next.Page != 2 {
		t.Fatalf("expected page 2, got %#v ok=%v", next, ok)
	}
	if _, ok := c.Next(); ok {
		t.Fatalf("second trigger while page 2 is in flight must be ignored")
	}
	c.Fail(next)
	retry, ok := c.Next()
	if !ok || retry.Page != 2 {
		t.Fatalf("failed page should be retried, got %#v", retry)
	}
}

func TestCursor_SearchHaltsAutoFetch(t *testing.T) {
	c := NewCursor(20)
	req := c.Reset()
	c.Complete(req, 20)
	inFlight, _ := c.Next()

	c.EnterSearch()
	if c.Complete(inFlight, 20) {
		t.Fatalf("page result issued before search must be discarded")
	}
	if _, ok := c.Next(); ok {
		t.Fatalf("search mode must disable auto-fetch")
	}

	restart := c.ExitSearch()
	if restart.Page != 1 || c.Searching() {
		t.Fatalf("leaving search should restart at page 1: %#v", restart)
	}
}

func TestCursor_ResetDiscardsStaleResults(t *testing.T) {
	c := NewCursor(20)
	old := c.Reset()
	fresh := c.Reset()
	if c.Complete(old, 20) {
		t.Fatalf("stale epoch accepted")
	}
	if !c.Loading() {
		t.Fatalf("stale result must not clear loading")
	}
	if !c.Complete(fresh, 20) || c.Page() != 1 {
		t.Fatalf("fresh result rejected")
	}
}
