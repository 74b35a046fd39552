package player

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/CrestNiraj12/podrant/domain"
)

// DefaultCommand is used when no player is configured.
const DefaultCommand = "mpv --no-video --really-quiet"

// ErrNoAudio indicates the episode has no playable audio URL.
var ErrNoAudio = errors.New("episode has no audio preview")

// Player streams episode audio through an external program. One episode
// plays at a time; starting another stops the current one.
type Player struct {
	name string
	args []string

	newCmd func(name string, args ...string) *exec.Cmd

	mu      sync.Mutex
	cmd     *exec.Cmd
	current domain.Episode
}

// New creates a player from a command line such as "mpv --no-video".
func New(command string) *Player {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		fields = strings.Fields(DefaultCommand)
	}
	return &Player{name: fields[0], args: fields[1:], newCmd: exec.Command}
}

// Play starts ep, replacing anything already playing.
func (p *Player) Play(ep domain.Episode) error {
	if ep.AudioURL == "" {
		return ErrNoAudio
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	_ = p.stopLocked()
	cmd := p.newCmd(p.name, append(append([]string{}, p.args...), ep.AudioURL)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", p.name, err)
	}
	p.cmd = cmd
	p.current = ep
	log.Info().Str("episode", ep.ID).Str("player", p.name).Msg("playback started")

	go func() {
		err := cmd.Wait()
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.cmd == cmd {
			p.cmd = nil
			p.current = domain.Episode{}
		}
		if err != nil {
			log.Debug().Err(err).Str("episode", ep.ID).Msg("player exited")
		}
	}()
	return nil
}

// Stop ends playback. Stopping an idle player is a no-op.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopLocked()
}

func (p *Player) stopLocked() error {
	if p.cmd == nil || p.cmd.Process == nil {
		return nil
	}
	err := p.cmd.Process.Kill()
	p.cmd = nil
	p.current = domain.Episode{}
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("stopping player: %w", err)
	}
	return nil
}

// NowPlaying returns the episode being played, if any.
func (p *Player) NowPlaying() (domain.Episode, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, p.cmd != nil
}
