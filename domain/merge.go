package domain

import "github.com/samber/lo"

// LookupBatchSize bounds how many item IDs one viewer lookup carries.
const LookupBatchSize = 50

// Counts are the aggregate interaction counts for one item.
type Counts struct {
	Up      int
	Down    int
	Reposts int
	Replies int
}

// Snapshot is everything the merger needs to attach engagement to a tree.
type Snapshot struct {
	Counts  map[string]Counts
	Viewer  string            // empty when signed out
	Votes   map[string]Choice // viewer's own votes or likes
	Reposts map[string]bool   // viewer's own reposts
	Failed  map[string]bool   // IDs whose viewer lookup failed
}

// Merge returns a copy of nodes with engagement attached at every level.
// Without a viewer only counts are set. Items whose viewer lookup failed
// keep their counts and show no interaction.
func Merge(nodes []Node, snap Snapshot) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = mergeNode(n, snap)
	}
	return out
}

func mergeNode(n Node, snap Snapshot) Node {
	c := snap.Counts[n.Item.ID]
	e := Engagement{
		Up:      c.Up,
		Down:    c.Down,
		Reposts: c.Reposts,
		Replies: n.Engagement.Replies,
	}
	if c.Replies > 0 {
		e.Replies = c.Replies
	}
	if snap.Viewer != "" && !snap.Failed[n.Item.ID] {
		e.Vote = snap.Votes[n.Item.ID]
		e.Reposted = snap.Reposts[n.Item.ID]
	}
	n.Engagement = e
	replies := make([]Node, len(n.Replies))
	for i, r := range n.Replies {
		replies[i] = mergeNode(r, snap)
	}
	n.Replies = replies
	return n
}

// ItemIDs collects the IDs of every node in the tree, parents before replies.
func ItemIDs(nodes []Node) []string {
	return lo.Map(Flatten(nodes), func(n Node, _ int) string { return n.Item.ID })
}

// Batches splits ids into lookup-sized chunks with duplicates removed.
func Batches(ids []string) [][]string {
	ids = lo.Uniq(lo.Filter(ids, func(id string, _ int) bool { return id != "" }))
	if len(ids) == 0 {
		return nil
	}
	return lo.Chunk(ids, LookupBatchSize)
}

// TallyVotes counts up and down votes per item. Only the newest record per
// (item, voter) counts, so a voter never lands in both buckets.
func TallyVotes(records []VoteRecord) map[string]Counts {
	latest := latestPerVoter(records)
	out := make(map[string]Counts, len(latest))
	for _, r := range latest {
		c := out[r.ItemID]
		switch r.Choice {
		case ChoiceUp:
			c.Up++
		case ChoiceDown:
			c.Down++
		}
		out[r.ItemID] = c
	}
	return out
}

// ViewerVotes extracts the viewer's own choice per item.
func ViewerVotes(records []VoteRecord, viewer string) map[string]Choice {
	out := make(map[string]Choice)
	if viewer == "" {
		return out
	}
	for _, r := range latestPerVoter(records) {
		if r.VoterID == viewer && r.Choice != ChoiceNone {
			out[r.ItemID] = r.Choice
		}
	}
	return out
}

type voteKey struct {
	item  string
	voter string
}

func latestPerVoter(records []VoteRecord) map[voteKey]VoteRecord {
	latest := make(map[voteKey]VoteRecord, len(records))
	for _, r := range records {
		k := voteKey{item: r.ItemID, voter: r.VoterID}
		prev, ok := latest[k]
		if !ok || r.CreatedAt.After(prev.CreatedAt) {
			latest[k] = r
		}
	}
	return latest
}
