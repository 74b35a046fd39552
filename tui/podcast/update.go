package podcast

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/podrant/domain"
	"github.com/CrestNiraj12/podrant/tui/common"
)

// Update handles messages for the podcast page.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		if msg.ID != m.id {
			return m, nil
		}
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.podcast = msg.Podcast
			m.episodes = msg.Episodes
			m.sel = max(0, min(m.sel, len(m.episodes)-1))
		}
		return m, nil

	case commentsLoadedMsg:
		if msg.Seq != m.commentsSeq {
			return m, nil
		}
		m.commentsLoading = false
		m.commentsErr = msg.Err
		if msg.Err == nil {
			m.comments.SetItems(msg.Items, msg.Snap)
		}
		return m, nil

	case playedMsg:
		if msg.Err != nil {
			return m, common.Failed(msg.Err)
		}
		return m, common.Status("▶ Playing " + msg.Episode.Title)

	case tea.KeyMsg:
		if m.pane == commentsPane {
			return m.updateCommentsKey(msg)
		}
		return m.updateEpisodesKey(msg)
	}

	var cmd tea.Cmd
	m.comments, cmd, _ = m.comments.Update(msg, m.env())
	return m, cmd
}

func (m Model) updateEpisodesKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, common.Emit(common.BackMsg{})

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.fetch()

	case key.Matches(msg, m.keys.Up):
		if m.sel > 0 {
			m.sel--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.sel < len(m.episodes)-1 {
			m.sel++
		}
		return m, nil

	case key.Matches(msg, m.keys.Subscribe):
		if m.podcast.ID == "" {
			return m, nil
		}
		subscribed, count, err := m.deps.Library.ToggleSubscription(m.podcast.ID)
		if err != nil {
			return m, common.Failed(err)
		}
		if subscribed {
			return m, common.Status("Subscribed · " + common.FormatCount(count) + " subscribers")
		}
		return m, common.Status("Unsubscribed.")
	}

	ep, ok := m.selected()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Enter), key.Matches(msg, m.keys.NextPane):
		return m.openComments(ep)

	case key.Matches(msg, m.keys.Upvote):
		return m, m.voteEpisode(ep, domain.ChoiceUp)

	case key.Matches(msg, m.keys.Downvote):
		return m, m.voteEpisode(ep, domain.ChoiceDown)

	case key.Matches(msg, m.keys.Save):
		saved, err := m.deps.Library.ToggleSaved(ep.ID)
		if err != nil {
			return m, common.Failed(err)
		}
		if saved {
			return m, common.Status("Saved for later.")
		}
		return m, common.Status("Removed from saved.")

	case key.Matches(msg, m.keys.Play):
		return m, m.play(ep)

	case key.Matches(msg, m.keys.Stop):
		return m, common.Failed(m.deps.Player.Stop())
	}
	return m, nil
}

func (m Model) voteEpisode(ep domain.Episode, c domain.Choice) tea.Cmd {
	if _, err := m.deps.Library.VoteEpisode(ep.ID, c); err != nil {
		return common.Failed(err)
	}
	return nil
}

// openComments switches to the comments pane, loading them when the
// episode changed since the last visit.
func (m Model) openComments(ep domain.Episode) (Model, tea.Cmd) {
	m.pane = commentsPane
	if ep.ID == m.episodeID && m.commentsErr == nil {
		return m, nil
	}
	m.episodeID = ep.ID
	m.comments.Clear()
	return m.reloadComments()
}

func (m Model) reloadComments() (Model, tea.Cmd) {
	m.commentsSeq++
	m.commentsLoading = true
	m.commentsErr = nil
	return m, m.fetchComments(m.commentsSeq, m.episodeID)
}

func (m Model) updateCommentsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	updated, cmd, handled := m.comments.Update(msg, m.env())
	m.comments = updated
	if handled {
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.NextPane):
		m.pane = episodesPane
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m.reloadComments()
	}
	return m, nil
}
