package domain

import (
	"sort"
	"strings"
)

// MaxReplyDepth is the deepest level expanded by Tree. Nodes at this depth
// keep their replies collapsed behind a "show more" count.
const MaxReplyDepth = 3

// Thread is an arena of items keyed by ID with parent->children adjacency.
// Only items reachable from a top-level item are kept.
type Thread struct {
	items    map[string]Item
	children map[string][]string
	roots    []string
}

// Node is one rendered level of a thread.
type Node struct {
	Item       Item
	Depth      int
	Engagement Engagement
	Replies    []Node
	Hidden     int // Descendants collapsed because the depth cap was reached
}

// Assemble builds a Thread from a flat batch. Top-level items are ordered
// newest first; replies under each parent oldest first. Items whose parent
// is not in the batch are dropped along with their own descendants.
func Assemble(items []Item) *Thread {
	byID := make(map[string]Item, len(items))
	order := make([]string, 0, len(items))
	for _, it := range items {
		if it.ID == "" {
			continue
		}
		if _, dup := byID[it.ID]; dup {
			continue
		}
		byID[it.ID] = it
		order = append(order, it.ID)
	}

	adjacency := make(map[string][]string, len(byID))
	var roots []string
	for _, id := range order {
		it := byID[id]
		switch {
		case it.ParentID == "":
			roots = append(roots, id)
		case it.ParentID == id:
			// self-parented, never reachable
		default:
			if _, ok := byID[it.ParentID]; ok {
				adjacency[it.ParentID] = append(adjacency[it.ParentID], id)
			}
		}
	}

	t := &Thread{
		items:    make(map[string]Item, len(byID)),
		children: make(map[string][]string, len(adjacency)),
	}

	sort.SliceStable(roots, func(i, j int) bool {
		return newerFirst(byID[roots[i]], byID[roots[j]])
	})
	t.roots = roots

	// Walk from the roots so cycles and untethered chains never enter the arena.
	queue := append([]string(nil), roots...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if _, seen := t.items[id]; seen {
			continue
		}
		t.items[id] = byID[id]
		kids := append([]string(nil), adjacency[id]...)
		sort.SliceStable(kids, func(i, j int) bool {
			return olderFirst(byID[kids[i]], byID[kids[j]])
		})
		t.children[id] = kids
		queue = append(queue, kids...)
	}
	return t
}

func newerFirst(a, b Item) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return strings.Compare(a.ID, b.ID) < 0
}

func olderFirst(a, b Item) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return strings.Compare(a.ID, b.ID) < 0
}

// Len returns the number of items kept in the thread.
func (t *Thread) Len() int {
	return len(t.items)
}

// Roots returns top-level item IDs, newest first.
func (t *Thread) Roots() []string {
	return append([]string{}, t.roots...)
}

// Item returns the item with the given ID.
func (t *Thread) Item(id string) (Item, bool) {
	it, ok := t.items[id]
	return it, ok
}

// Replies returns the direct replies of id, oldest first. Never nil.
func (t *Thread) Replies(id string) []string {
	kids := t.children[id]
	if len(kids) == 0 {
		return []string{}
	}
	return append([]string{}, kids...)
}

// ReplyCount returns the number of descendants below id.
func (t *Thread) ReplyCount(id string) int {
	n := 0
	stack := append([]string(nil), t.children[id]...)
	for len(stack) > 0 {
		last := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		stack = append(stack, t.children[last]...)
	}
	return n
}

// Tree renders the thread as nested nodes expanded down to maxDepth.
// Roots sit at depth 0. A non-positive maxDepth returns only the roots.
func (t *Thread) Tree(maxDepth int) []Node {
	out := make([]Node, 0, len(t.roots))
	for _, id := range t.roots {
		out = append(out, t.node(id, 0, maxDepth))
	}
	return out
}

// Subtree renders the replies below id as a thread of its own, with id
// at depth 0. It backs "show more replies" on a collapsed node.
func (t *Thread) Subtree(id string, maxDepth int) (Node, bool) {
	if _, ok := t.items[id]; !ok {
		return Node{}, false
	}
	return t.node(id, 0, maxDepth), true
}

func (t *Thread) node(id string, depth, maxDepth int) Node {
	n := Node{
		Item:    t.items[id],
		Depth:   depth,
		Replies: []Node{},
	}
	n.Engagement.Replies = len(t.children[id])
	if depth >= maxDepth {
		n.Hidden = t.ReplyCount(id)
		return n
	}
	for _, kid := range t.children[id] {
		n.Replies = append(n.Replies, t.node(kid, depth+1, maxDepth))
	}
	return n
}

// Flatten walks nodes depth-first in display order.
func Flatten(nodes []Node) []Node {
	var out []Node
	var walk func([]Node)
	walk = func(ns []Node) {
		for _, n := range ns {
			out = append(out, n)
			walk(n.Replies)
		}
	}
	walk(nodes)
	return out
}
