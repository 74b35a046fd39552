package thread

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/podrant/app"
	"github.com/CrestNiraj12/podrant/domain"
	"github.com/CrestNiraj12/podrant/tui/common"
	"github.com/CrestNiraj12/podrant/tui/compose"
)

// errLookupFailed is shown when the viewer's own state for an item is unknown.
var errLookupFailed = errors.New("couldn't load your interactions here; refresh with ctrl+r")

// Store persists changes to the items of one list.
type Store interface {
	Create(ctx context.Context, t compose.Target, body string) (domain.Item, error)
	Edit(ctx context.Context, id, body string) (domain.Item, error)
	Delete(ctx context.Context, id string) error
	Vote(ctx context.Context, id string, current, requested domain.Choice) (domain.Choice, error)
	Repost(ctx context.Context, id string, reposted bool) (bool, error)
}

// CommentStore adapts a CommentService.
func CommentStore(svc app.CommentService) Store { return commentStore{svc} }

type commentStore struct{ svc app.CommentService }

func (s commentStore) Create(ctx context.Context, t compose.Target, body string) (domain.Item, error) {
	return s.svc.AddComment(ctx, t.Scope, t.ParentID, body)
}
func (s commentStore) Edit(ctx context.Context, id, body string) (domain.Item, error) {
	return s.svc.EditComment(ctx, id, body)
}
func (s commentStore) Delete(ctx context.Context, id string) error {
	return s.svc.DeleteComment(ctx, id)
}
func (s commentStore) Vote(ctx context.Context, id string, current, requested domain.Choice) (domain.Choice, error) {
	return s.svc.Vote(ctx, id, current, requested)
}
func (s commentStore) Repost(context.Context, string, bool) (bool, error) {
	return false, domain.ErrUnsupportedChoice
}

// PostStore adapts a PostService. Votes on posts are likes.
func PostStore(svc app.PostService) Store { return postStore{svc} }

type postStore struct{ svc app.PostService }

func (s postStore) Create(ctx context.Context, t compose.Target, body string) (domain.Item, error) {
	return s.svc.Create(ctx, body, t.ParentID)
}
func (s postStore) Edit(ctx context.Context, id, body string) (domain.Item, error) {
	return s.svc.Edit(ctx, id, body)
}
func (s postStore) Delete(ctx context.Context, id string) error {
	return s.svc.Delete(ctx, id)
}
func (s postStore) Vote(ctx context.Context, id string, current, requested domain.Choice) (domain.Choice, error) {
	if requested != domain.ChoiceUp {
		return current, domain.ErrUnsupportedChoice
	}
	return s.svc.Like(ctx, id, current)
}
func (s postStore) Repost(ctx context.Context, id string, reposted bool) (bool, error) {
	return s.svc.Repost(ctx, id, reposted)
}

// --- Messages ---

// VoteResultMsg reports a vote or like write.
type VoteResultMsg struct {
	List   string
	ID     string
	Choice domain.Choice
	Undo   Undo
	Err    error
}

// RepostResultMsg reports a repost write.
type RepostResultMsg struct {
	List     string
	ID       string
	Reposted bool
	Undo     Undo
	Err      error
}

// CreatedMsg reports a create; PendingID is the local placeholder.
type CreatedMsg struct {
	List      string
	PendingID string
	Item      domain.Item
	Err       error
}

// EditedMsg reports an edit; Prev is restored on failure.
type EditedMsg struct {
	List string
	Item domain.Item
	Prev domain.Item
	Err  error
}

// DeletedMsg reports a delete; Item is restored on failure.
type DeletedMsg struct {
	List string
	Item domain.Item
	Err  error
}

// Env is what list actions need from the owning view.
type Env struct {
	Store   Store
	Session domain.Session
	Author  domain.Profile // Viewer's profile, used for placeholders
	Kind    domain.ItemKind
	Scope   string // Episode ID for comments
}

func (e Env) noun() string {
	if e.Kind == domain.KindComment {
		return "comment"
	}
	return "post"
}

// Confirming reports whether a delete confirmation is open.
func (m Model) Confirming() bool { return m.confirm != "" }

// Update handles list navigation, interaction keys, compose results and
// the results of writes issued by this list. It reports whether msg was
// consumed.
func (m Model) Update(msg tea.Msg, env Env) (Model, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg, env)

	case compose.DoneMsg:
		cmd := m.applyCompose(msg, env)
		return m, cmd, true

	case VoteResultMsg:
		if msg.List != m.list {
			return m, nil, false
		}
		if msg.Err != nil {
			m.Restore(msg.Undo)
			return m, common.Failed(msg.Err), true
		}
		m.ConfirmVote(msg.ID, msg.Choice)
		return m, nil, true

	case RepostResultMsg:
		if msg.List != m.list {
			return m, nil, false
		}
		if msg.Err != nil {
			m.Restore(msg.Undo)
			return m, common.Failed(msg.Err), true
		}
		return m, nil, true

	case CreatedMsg:
		if msg.List != m.list {
			return m, nil, false
		}
		if msg.Err != nil {
			m.Remove(msg.PendingID)
			return m, common.Failed(msg.Err), true
		}
		m.Confirm(msg.PendingID, msg.Item)
		return m, common.Status("Published."), true

	case EditedMsg:
		if msg.List != m.list {
			return m, nil, false
		}
		if msg.Err != nil {
			m.Replace(msg.Prev)
			return m, common.Failed(msg.Err), true
		}
		m.Replace(msg.Item)
		return m, common.Status("Updated."), true

	case DeletedMsg:
		if msg.List != m.list {
			return m, nil, false
		}
		if msg.Err != nil {
			m.Add(msg.Item)
			return m, common.Failed(msg.Err), true
		}
		return m, common.Status("Deleted."), true
	}
	return m, nil, false
}

func (m Model) updateKey(msg tea.KeyMsg, env Env) (Model, tea.Cmd, bool) {
	keys := common.DefaultKeyMap()

	if m.confirm != "" {
		switch {
		case key.Matches(msg, keys.Confirm):
			id := m.confirm
			m.confirm = ""
			return m, m.deleteCmd(id, env), true
		case key.Matches(msg, keys.Cancel), key.Matches(msg, keys.Back):
			m.confirm = ""
			return m, common.Status("Cancelled."), true
		}
		return m, nil, true
	}

	switch {
	case key.Matches(msg, keys.Up):
		m.MoveUp()
		return m, nil, true
	case key.Matches(msg, keys.Down):
		m.MoveDown()
		return m, nil, true
	case key.Matches(msg, keys.Enter):
		return m, nil, m.Expand()
	case key.Matches(msg, keys.Back):
		return m, nil, m.Collapse()

	case key.Matches(msg, keys.Compose), key.Matches(msg, keys.ComposeInline):
		if !env.Session.SignedIn() {
			return m, common.Failed(domain.ErrUnauthenticated), true
		}
		target := compose.Target{Kind: env.Kind, Scope: env.Scope}
		return m, compose.Request(target, "", key.Matches(msg, keys.ComposeInline)), true
	}

	row, ok := m.Selected()
	if !ok || row.More {
		return m, nil, false
	}
	it := row.Node.Item

	switch {
	case key.Matches(msg, keys.Author):
		return m, common.Emit(common.OpenProfileMsg{Username: it.Username}), true

	case key.Matches(msg, keys.Upvote):
		return m.voteCmd(it.ID, domain.ChoiceUp, env)

	case key.Matches(msg, keys.Downvote):
		if env.Kind != domain.KindComment {
			return m, nil, false
		}
		return m.voteCmd(it.ID, domain.ChoiceDown, env)

	case key.Matches(msg, keys.Repost):
		if env.Kind != domain.KindPost {
			return m, nil, false
		}
		return m.repostCmd(it.ID, env)

	case key.Matches(msg, keys.Reply), key.Matches(msg, keys.ReplyInline):
		if !env.Session.SignedIn() {
			return m, common.Failed(domain.ErrUnauthenticated), true
		}
		if IsPending(it.ID) {
			return m, nil, true
		}
		target := compose.Target{
			Kind:     env.Kind,
			Scope:    scopeOf(it, env),
			ParentID: it.ID,
			Context:  "Replying to @" + it.Username + ": " + common.Truncate(it.Body, 60),
		}
		return m, compose.Request(target, "", key.Matches(msg, keys.ReplyInline)), true

	case key.Matches(msg, keys.Edit), key.Matches(msg, keys.EditInline):
		if !it.IsOwnedBy(env.Session.UserID) || IsPending(it.ID) {
			return m, common.Failed(domain.ErrNotOwner), true
		}
		target := compose.Target{
			Kind:     env.Kind,
			Scope:    scopeOf(it, env),
			ParentID: it.ParentID,
			EditID:   it.ID,
			Context:  "Editing your " + env.noun(),
		}
		return m, compose.Request(target, it.Body, key.Matches(msg, keys.EditInline)), true

	case key.Matches(msg, keys.Delete):
		if !it.IsOwnedBy(env.Session.UserID) || IsPending(it.ID) {
			return m, common.Failed(domain.ErrNotOwner), true
		}
		m.confirm = it.ID
		return m, common.Status("Delete this " + env.noun() + "? y/n"), true
	}
	return m, nil, false
}

func scopeOf(it domain.Item, env Env) string {
	if it.Scope != "" {
		return it.Scope
	}
	return env.Scope
}

func (m *Model) guard(id string, env Env) error {
	switch {
	case !env.Session.SignedIn():
		return domain.ErrUnauthenticated
	case IsPending(id):
		return nil
	case !m.CanInteract(id):
		return errLookupFailed
	}
	return nil
}

func (m Model) voteCmd(id string, requested domain.Choice, env Env) (Model, tea.Cmd, bool) {
	if err := m.guard(id, env); err != nil {
		return m, common.Failed(err), true
	}
	if IsPending(id) {
		return m, nil, true
	}
	current, undo := m.Vote(id, requested)
	list, store := m.list, env.Store
	return m, func() tea.Msg {
		choice, err := store.Vote(context.Background(), id, current, requested)
		return VoteResultMsg{List: list, ID: id, Choice: choice, Undo: undo, Err: err}
	}, true
}

func (m Model) repostCmd(id string, env Env) (Model, tea.Cmd, bool) {
	if err := m.guard(id, env); err != nil {
		return m, common.Failed(err), true
	}
	if IsPending(id) {
		return m, nil, true
	}
	was, undo := m.Repost(id)
	list, store := m.list, env.Store
	return m, func() tea.Msg {
		reposted, err := store.Repost(context.Background(), id, was)
		return RepostResultMsg{List: list, ID: id, Reposted: reposted, Undo: undo, Err: err}
	}, true
}

func (m *Model) deleteCmd(id string, env Env) tea.Cmd {
	removed, ok := m.Remove(id)
	if !ok {
		return nil
	}
	list, store := m.list, env.Store
	return func() tea.Msg {
		err := store.Delete(context.Background(), id)
		return DeletedMsg{List: list, Item: removed, Err: err}
	}
}

// applyCompose publishes composed text optimistically.
func (m *Model) applyCompose(msg compose.DoneMsg, env Env) tea.Cmd {
	switch {
	case msg.Err != nil:
		return common.Failed(msg.Err)
	case msg.Content == "":
		return common.Status("Cancelled.")
	}

	list, store, target, body := m.list, env.Store, msg.Target, msg.Content

	if target.IsEdit() {
		prev, ok := m.Item(target.EditID)
		if !ok {
			return common.Failed(domain.ErrNotFound)
		}
		updated := prev
		updated.Body = body
		updated.Edited = true
		updated.EditedAt = m.now()
		m.Replace(updated)
		return func() tea.Msg {
			it, err := store.Edit(context.Background(), target.EditID, body)
			return EditedMsg{List: list, Item: it, Prev: prev, Err: err}
		}
	}

	pending := m.AddPending(domain.Item{
		ParentID:  target.ParentID,
		Kind:      target.Kind,
		Scope:     target.Scope,
		AuthorID:  env.Session.UserID,
		Username:  env.Author.Username,
		AvatarURL: env.Author.AvatarURL,
		Body:      body,
	})
	return func() tea.Msg {
		it, err := store.Create(context.Background(), target, body)
		return CreatedMsg{List: list, PendingID: pending, Item: it, Err: err}
	}
}
