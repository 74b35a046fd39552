// Package thread is the scrollable, threaded item list shared by the
// comments pane, the feed and profile pages.
package thread

import (
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/CrestNiraj12/podrant/domain"
)

// pendingPrefix marks IDs of items that exist only locally until the
// backend confirms them.
const pendingPrefix = "local-"

// Row is one selectable line group: an item, or the "more replies" row
// standing in for the collapsed descendants of Node.
type Row struct {
	Node domain.Node
	More bool
}

// Undo restores one item's interaction state after a failed write.
type Undo struct {
	id       string
	counts   domain.Counts
	vote     domain.Choice
	reposted bool
}

// Model holds the items of one list and the interactions merged onto them.
// It is a value type; callers keep the copy returned by mutating methods.
type Model struct {
	list   string // Tags result messages so only this list applies them
	items  []domain.Item
	snap   domain.Snapshot
	flat   bool   // Lists such as a profile's replies tab skip threading
	focus  string // Root of an expanded "more replies" subtree
	rows   []Row
	cursor int
	start  int
	now    func() time.Time

	confirm string // Item awaiting delete confirmation
}

// New creates an empty threaded list named list.
func New(list string) Model {
	return Model{list: list, now: time.Now}
}

// NewFlat creates a list that shows every item at depth 0 in the given order.
func NewFlat(list string) Model {
	m := New(list)
	m.flat = true
	return m
}

// SetItems replaces the list contents. The cursor stays on the same item
// when it is still present.
func (m *Model) SetItems(items []domain.Item, snap domain.Snapshot) {
	keep := m.SelectedID()
	m.items = append([]domain.Item(nil), items...)
	m.snap = normalize(snap)
	if m.focus != "" && !lo.ContainsBy(m.items, func(it domain.Item) bool { return it.ID == m.focus }) {
		m.focus = ""
	}
	m.rebuild()
	m.selectID(keep)
}

// Append adds a page of items and its interactions below the current ones.
func (m *Model) Append(items []domain.Item, snap domain.Snapshot) {
	seen := make(map[string]bool, len(m.items))
	for _, it := range m.items {
		seen[it.ID] = true
	}
	m.items = append([]domain.Item(nil), m.items...)
	for _, it := range items {
		if !seen[it.ID] {
			m.items = append(m.items, it)
			seen[it.ID] = true
		}
	}
	snap = normalize(snap)
	m.cloneSnap()
	m.snap.Failed = maps.Clone(m.snap.Failed)
	maps.Copy(m.snap.Counts, snap.Counts)
	maps.Copy(m.snap.Votes, snap.Votes)
	maps.Copy(m.snap.Reposts, snap.Reposts)
	maps.Copy(m.snap.Failed, snap.Failed)
	if m.snap.Viewer == "" {
		m.snap.Viewer = snap.Viewer
	}
	m.rebuild()
}

// Clear drops every item and resets the cursor.
func (m *Model) Clear() {
	m.items = nil
	m.snap = domain.Snapshot{}
	m.focus = ""
	m.rows = nil
	m.cursor, m.start = 0, 0
	m.confirm = ""
}

func normalize(s domain.Snapshot) domain.Snapshot {
	if s.Counts == nil {
		s.Counts = map[string]domain.Counts{}
	}
	if s.Votes == nil {
		s.Votes = map[string]domain.Choice{}
	}
	if s.Reposts == nil {
		s.Reposts = map[string]bool{}
	}
	if s.Failed == nil {
		s.Failed = map[string]bool{}
	}
	return s
}

// rebuild re-derives rows from items and the snapshot.
func (m *Model) rebuild() {
	var nodes []domain.Node
	switch {
	case m.flat:
		nodes = lo.Map(m.items, func(it domain.Item, _ int) domain.Node {
			return domain.Node{Item: it, Replies: []domain.Node{}}
		})
	case m.focus != "":
		n, ok := domain.Assemble(m.items).Subtree(m.focus, domain.MaxReplyDepth)
		if ok {
			nodes = []domain.Node{n}
			break
		}
		m.focus = ""
		nodes = domain.Assemble(m.items).Tree(domain.MaxReplyDepth)
	default:
		nodes = domain.Assemble(m.items).Tree(domain.MaxReplyDepth)
	}
	nodes = domain.Merge(nodes, m.snap)

	m.rows = nil
	var walk func([]domain.Node)
	walk = func(ns []domain.Node) {
		for _, n := range ns {
			m.rows = append(m.rows, Row{Node: n})
			if n.Hidden > 0 {
				m.rows = append(m.rows, Row{Node: n, More: true})
			}
			walk(n.Replies)
		}
	}
	walk(nodes)
	m.cursor = max(0, min(m.cursor, len(m.rows)-1))
}

// --- Queries ---

// Len returns the number of rows.
func (m Model) Len() int { return len(m.rows) }

// Items returns the flat items backing the list.
func (m Model) Items() []domain.Item { return m.items }

// Rows returns the rendered rows in display order.
func (m Model) Rows() []Row { return m.rows }

// Cursor returns the selected row index.
func (m Model) Cursor() int { return m.cursor }

// Focused returns the root of the expanded subtree, if any.
func (m Model) Focused() string { return m.focus }

// Selected returns the row under the cursor.
func (m Model) Selected() (Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return Row{}, false
	}
	return m.rows[m.cursor], true
}

// SelectedID returns the item ID under the cursor, or "" on a "more" row.
func (m Model) SelectedID() string {
	r, ok := m.Selected()
	if !ok || r.More {
		return ""
	}
	return r.Node.Item.ID
}

// AtEnd reports whether the cursor is on the last row.
func (m Model) AtEnd() bool {
	return len(m.rows) > 0 && m.cursor == len(m.rows)-1
}

// Find returns the merged node for id.
func (m Model) Find(id string) (domain.Node, bool) {
	for _, r := range m.rows {
		if !r.More && r.Node.Item.ID == id {
			return r.Node, true
		}
	}
	return domain.Node{}, false
}

// Item returns the raw item for id.
func (m Model) Item(id string) (domain.Item, bool) {
	return lo.Find(m.items, func(it domain.Item) bool { return it.ID == id })
}

// CanInteract reports whether the viewer's own state for id is known.
// Items whose viewer lookup failed accept no votes until refreshed.
func (m Model) CanInteract(id string) bool {
	return m.snap.Viewer != "" && !m.snap.Failed[id] && !IsPending(id)
}

// IsPending reports whether id belongs to an unconfirmed local item.
func IsPending(id string) bool {
	return len(id) > len(pendingPrefix) && id[:len(pendingPrefix)] == pendingPrefix
}

// --- Navigation ---

// MoveUp moves the cursor one row up.
func (m *Model) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
	}
}

// MoveDown moves the cursor one row down.
func (m *Model) MoveDown() {
	if m.cursor < len(m.rows)-1 {
		m.cursor++
	}
}

// Top moves the cursor to the first row.
func (m *Model) Top() {
	m.cursor, m.start = 0, 0
}

func (m *Model) selectID(id string) {
	if id == "" {
		return
	}
	for i, r := range m.rows {
		if !r.More && r.Node.Item.ID == id {
			m.cursor = i
			return
		}
	}
}

// Expand opens the collapsed replies behind a "more" row. It reports
// false when the cursor is on an ordinary item.
func (m *Model) Expand() bool {
	r, ok := m.Selected()
	if !ok || !r.More || m.flat {
		return false
	}
	m.focus = r.Node.Item.ID
	m.rebuild()
	m.Top()
	return true
}

// Collapse leaves an expanded subtree, returning the cursor to its root.
func (m *Model) Collapse() bool {
	if m.focus == "" {
		return false
	}
	id := m.focus
	m.focus = ""
	m.rebuild()
	m.selectID(id)
	return true
}

// --- Optimistic interactions ---

func (m *Model) undo(id string) Undo {
	return Undo{
		id:       id,
		counts:   m.snap.Counts[id],
		vote:     m.snap.Votes[id],
		reposted: m.snap.Reposts[id],
	}
}

// cloneSnap copies the snapshot maps so earlier copies of the model keep
// their own state.
func (m *Model) cloneSnap() {
	m.snap = normalize(m.snap)
	m.snap.Counts = maps.Clone(m.snap.Counts)
	m.snap.Votes = maps.Clone(m.snap.Votes)
	m.snap.Reposts = maps.Clone(m.snap.Reposts)
}

// Vote applies the viewer's vote locally and returns the choice it
// replaced, which is what the backend write needs.
func (m *Model) Vote(id string, requested domain.Choice) (domain.Choice, Undo) {
	m.cloneSnap()
	u := m.undo(id)
	current := m.snap.Votes[id]
	next := domain.Next(current, requested)
	e := domain.Engagement{Up: u.counts.Up, Down: u.counts.Down}.Apply(current, next)
	c := u.counts
	c.Up, c.Down = e.Up, e.Down
	m.snap.Counts[id] = c
	m.setVote(id, next)
	m.rebuild()
	return current, u
}

// Repost toggles the viewer's repost locally and returns the previous state.
func (m *Model) Repost(id string) (bool, Undo) {
	m.cloneSnap()
	u := m.undo(id)
	e := domain.Engagement{Reposts: u.counts.Reposts, Reposted: u.reposted}.ApplyRepost(!u.reposted)
	c := u.counts
	c.Reposts = e.Reposts
	m.snap.Counts[id] = c
	if e.Reposted {
		m.snap.Reposts[id] = true
	} else {
		delete(m.snap.Reposts, id)
	}
	m.rebuild()
	return u.reposted, u
}

// ConfirmVote records the choice the backend settled on.
func (m *Model) ConfirmVote(id string, choice domain.Choice) {
	if m.snap.Votes[id] == choice {
		return
	}
	m.cloneSnap()
	m.setVote(id, choice)
	m.rebuild()
}

func (m *Model) setVote(id string, c domain.Choice) {
	if c == domain.ChoiceNone {
		delete(m.snap.Votes, id)
		return
	}
	m.snap.Votes[id] = c
}

// Restore rolls an item's interaction state back.
func (m *Model) Restore(u Undo) {
	if u.id == "" {
		return
	}
	m.cloneSnap()
	m.snap.Counts[u.id] = u.counts
	m.setVote(u.id, u.vote)
	if u.reposted {
		m.snap.Reposts[u.id] = true
	} else {
		delete(m.snap.Reposts, u.id)
	}
	m.rebuild()
}

// --- Optimistic content changes ---

// AddPending inserts a local placeholder for an item being created and
// selects it. The returned ID is replaced by Confirm or dropped by Remove.
func (m *Model) AddPending(it domain.Item) string {
	it.ID = pendingPrefix + uuid.NewString()
	if it.CreatedAt.IsZero() {
		it.CreatedAt = m.now()
	}
	m.insert(it)
	return it.ID
}

// Add inserts a confirmed item and selects it.
func (m *Model) Add(it domain.Item) {
	m.insert(it)
}

func (m *Model) insert(it domain.Item) {
	if m.flat {
		m.items = append([]domain.Item{it}, m.items...)
	} else {
		m.items = append(append([]domain.Item(nil), m.items...), it)
	}
	m.bumpReplies(it.ParentID, +1)
	m.rebuild()
	m.selectID(it.ID)
}

// Confirm swaps a pending placeholder for the stored item.
func (m *Model) Confirm(pendingID string, it domain.Item) {
	for i := range m.items {
		if m.items[i].ID == pendingID {
			items := append([]domain.Item(nil), m.items...)
			items[i] = it
			m.items = items
			selected := m.SelectedID() == pendingID
			m.rebuild()
			if selected {
				m.selectID(it.ID)
			}
			return
		}
	}
	m.Add(it)
}

// Remove drops an item; its replies drop with it.
func (m *Model) Remove(id string) (domain.Item, bool) {
	it, ok := m.Item(id)
	if !ok {
		return domain.Item{}, false
	}
	m.items = domain.Remove(m.items, id)
	m.bumpReplies(it.ParentID, -1)
	if m.focus == id {
		m.focus = ""
	}
	m.rebuild()
	return it, true
}

// Replace updates an item in place, returning the previous version.
func (m *Model) Replace(it domain.Item) (domain.Item, bool) {
	prev, ok := m.Item(it.ID)
	if !ok {
		return domain.Item{}, false
	}
	m.items, _ = domain.Replace(m.items, it)
	m.rebuild()
	return prev, true
}

// bumpReplies keeps backend reply counts in step with local inserts.
func (m *Model) bumpReplies(parentID string, delta int) {
	if parentID == "" {
		return
	}
	c, ok := m.snap.Counts[parentID]
	if !ok || c.Replies == 0 {
		return
	}
	m.cloneSnap()
	c.Replies = max(0, c.Replies+delta)
	m.snap.Counts[parentID] = c
}
