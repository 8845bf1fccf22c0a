package session

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pchu/codenames-backend/internal/board"
	"github.com/pchu/codenames-backend/internal/engine"
	"github.com/pchu/codenames-backend/internal/wordpack"
)

func (s *Session) handleCommand(c Command) {
	switch c.Verb {
	case "play":
		s.handlePlay(c)
	case "stop":
		s.handleStop()
	case "packs":
		s.sendPackList()
	case "toggle":
		s.handleToggle(c.Arg)
	case "timer":
		s.handleTimer(c.Arg)
	default:
		s.sendHelp()
	}
}

func (s *Session) handlePlay(c Command) {
	if s.phase != PhaseNoGame {
		s.notice("A game is already in progress.", "")
		return
	}
	if s.reg.EnabledWordCount() < board.Size {
		s.notice("Not enough words to build a board!",
			fmt.Sprintf("Enable more word packs: at least %d unique words are needed.", board.Size))
		return
	}
	s.openLobby(c)
}

func (s *Session) handleStop() {
	switch s.phase {
	case PhaseNoGame:
		return
	case PhaseLobby:
		s.notice("GAME OVER.", "")
		s.reset()
	case PhaseRunning:
		events, ns, err := engine.Apply(s.st, engine.Command{Type: engine.CmdStop})
		if err != nil {
			s.reset()
			return
		}
		s.st = ns
		s.processEvents(events, "")
	}
}

func (s *Session) sendPackList() {
	var lines []string
	for _, p := range s.reg.List() {
		line := titleCase(p.Name)
		if !p.Enabled {
			line += "\t(DISABLED)"
		}
		lines = append(lines, line)
	}
	s.notice("Codenames Word Packs:", strings.Join(lines, "\n"))
}

func (s *Session) handleToggle(arg string) {
	name := strings.ToLower(strings.TrimSpace(arg))
	enabled, err := s.reg.Toggle(name)
	if errors.Is(err, wordpack.ErrPackNotFound) {
		s.notice(fmt.Sprintf("No word pack called '%s' found!", name), "")
		s.sendPackList()
		return
	}
	if enabled {
		s.notice(fmt.Sprintf("Enabled word pack '%s'!", name), "")
	} else {
		s.notice(fmt.Sprintf("Disabled word pack '%s'!", name), "")
	}
	s.sendPackList()
}

// handleTimer sets the per-team default for future games; a game already in
// progress keeps the clocks it started with.
func (s *Session) handleTimer(arg string) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		s.notice("Set how much time (in minutes) each team has on the clock at the start.",
			fmt.Sprintf("Current timer: %s.", formatMMSS(s.defaults.TimerMinutes())))
		return
	}
	value, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		s.notice("Argument for timer must be a number i.e. the time in minutes.", "")
		return
	}
	if err := s.defaults.SetTimerMinutes(value); err != nil {
		if value < MinTimerMinutes {
			s.notice(fmt.Sprintf("The timer must be a positive number, at least %.1f min (6s).", MinTimerMinutes), "")
		} else {
			s.notice("That's too long to think for, don't you think?", "")
		}
		return
	}
	s.notice(fmt.Sprintf("The time per team is set to %s.", formatMMSS(value)), "")
}

func (s *Session) sendHelp() {
	s.notice("Codenames with Chess Clock",
		"play - start a game\n"+
			"stop - stop the current game\n"+
			"packs - show word packs\n"+
			"toggle <pack> - enable / disable a word pack\n"+
			fmt.Sprintf("timer <minutes> - set the time each team starts with (current: %s)",
				formatMMSS(s.defaults.TimerMinutes())))
}

// formatMMSS renders minutes as M:SS, e.g. 1.5 -> "1:30".
func formatMMSS(minutes float64) string {
	if minutes < 0 {
		minutes = 0
	}
	secs := int(math.Round(math.Mod(minutes, 1) * 60))
	mins := int(minutes)
	if secs == 60 {
		mins++
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", mins, secs)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
