package engine

import (
	"errors"
	"slices"
	"strings"
	"unicode"

	"github.com/pchu/codenames-backend/internal/board"
)

var ErrGameFinished = errors.New("game already finished")
var ErrUnsupportedCommand = errors.New("unsupported command")

type Phase string

const (
	PhaseRunning   Phase = "running"
	PhaseRedWins   Phase = "red_wins"
	PhaseBlueWins  Phase = "blue_wins"
	PhaseCancelled Phase = "cancelled"
)

// GraceSeconds is the head start granted to the team that moves first, since
// their clock starts ticking while the opening turn is still being announced.
const GraceSeconds = 10

// SkipWord ends the active team's turn when guessed.
const SkipWord = "SKIP"

// State is the full game position. Apply treats it as a value: callers get a
// new State back and must discard the old one.
type State struct {
	Key      board.Key
	Words    []string
	norm     []string
	Revealed [board.Size]bool
	Turn     board.Team
	Clocks   map[board.Team]float64  // remaining seconds per team
	Speakers map[board.Team][]string // operatives allowed to guess for each team
	Phase    Phase
}

// NewState sets up the opening position. The team holding the 9th cell moves
// first and starts with a small grace buffer on its clock.
func NewState(key board.Key, words []string, speakers map[board.Team][]string, timerMinutes float64) State {
	start := key.StartingTeam()
	s := State{
		Key:      key,
		Words:    words,
		Turn:     start,
		Clocks:   map[board.Team]float64{},
		Speakers: map[board.Team][]string{},
		Phase:    PhaseRunning,
	}
	for _, t := range []board.Team{board.TeamRed, board.TeamBlue} {
		s.Clocks[t] = timerMinutes * 60
		s.Speakers[t] = slices.Clone(speakers[t])
	}
	s.Clocks[start] += GraceSeconds
	s.norm = normalizeAll(words)
	return s
}

type CommandType string

const (
	CmdGuess     CommandType = "Guess"
	CmdClockTick CommandType = "ClockTick"
	CmdStop      CommandType = "Stop"
)

type Command struct {
	Type      CommandType
	SpeakerID string
	Text      string
}

type EventType string

const (
	EvtCellRevealed   EventType = "CellRevealed"
	EvtGuessCorrect   EventType = "GuessCorrect"
	EvtGuessIncorrect EventType = "GuessIncorrect"
	EvtTurnEnded      EventType = "TurnEnded"
	EvtAssassinated   EventType = "Assassinated"
	EvtClockTicked    EventType = "ClockTicked"
	EvtGameWon        EventType = "GameWon"
	EvtGameCancelled  EventType = "GameCancelled"
)

type WinReason string

const (
	ReasonTimeout  WinReason = "timeout"
	ReasonAssassin WinReason = "assassin"
	ReasonCleared  WinReason = "board cleared"
)

type Event struct {
	Type      EventType
	Team      board.Team // winner for GameWon, new active team for TurnEnded
	Cell      int
	Word      string
	Owner     board.CellOwner
	SpeakerID string
	Reason    WinReason
}

// Apply advances the game by one command. Guesses from players outside the
// active team's speaker list, and guesses that match no unrevealed board word,
// produce no events and no error: the chat stays free-form.
func Apply(s State, cmd Command) ([]Event, State, error) {
	if s.Phase != PhaseRunning {
		return nil, s, ErrGameFinished
	}
	ns := s.clone()

	switch cmd.Type {
	case CmdClockTick:
		ns.Clocks[s.Turn] -= 1
		events := []Event{{Type: EvtClockTicked}}
		if ns.Clocks[s.Turn] < 0 {
			winner := s.Turn.Opponent()
			ns.finish(winner)
			events = append(events, Event{Type: EvtGameWon, Team: winner, Reason: ReasonTimeout})
		}
		return events, ns, nil

	case CmdStop:
		ns.Phase = PhaseCancelled
		return []Event{{Type: EvtGameCancelled}}, ns, nil

	case CmdGuess:
		if !slices.Contains(s.Speakers[s.Turn], cmd.SpeakerID) {
			return nil, s, nil
		}
		guess := Normalize(cmd.Text)
		if guess == SkipWord {
			ns.Turn = s.Turn.Opponent()
			return []Event{{Type: EvtTurnEnded, Team: ns.Turn}}, ns, nil
		}

		idx := -1
		for i, w := range s.norm {
			// Revealed cells are out of play; re-guessing one is chatter.
			if !s.Revealed[i] && w == guess {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, s, nil
		}

		owner := s.Key[idx]
		ns.Revealed[idx] = true
		events := []Event{{
			Type:      EvtCellRevealed,
			Cell:      idx,
			Word:      s.Words[idx],
			Owner:     owner,
			SpeakerID: cmd.SpeakerID,
		}}

		if owner == board.OwnerAssassin {
			winner := s.Turn.Opponent()
			ns.finish(winner)
			events = append(events,
				Event{Type: EvtAssassinated, Team: s.Turn},
				Event{Type: EvtGameWon, Team: winner, Reason: ReasonAssassin})
			return events, ns, nil
		}

		correct := owner == board.Owner(s.Turn)
		if correct {
			events = append(events, Event{Type: EvtGuessCorrect, Team: s.Turn})
		} else {
			events = append(events, Event{Type: EvtGuessIncorrect, Team: s.Turn})
		}

		// Win check runs before any turn flip: a team whose cells are all off
		// the board hands the game to its opponent.
		if cleared, ok := ns.clearedTeam(); ok {
			winner := cleared.Opponent()
			ns.finish(winner)
			events = append(events, Event{Type: EvtGameWon, Team: winner, Reason: ReasonCleared})
			return events, ns, nil
		}

		if !correct {
			ns.Turn = s.Turn.Opponent()
			events = append(events, Event{Type: EvtTurnEnded, Team: ns.Turn})
		}
		return events, ns, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

// clearedTeam reports a team with no unrevealed cells left, if any.
func (s *State) clearedTeam() (board.Team, bool) {
	for _, t := range []board.Team{board.TeamRed, board.TeamBlue} {
		remaining := 0
		for i, owner := range s.Key {
			if !s.Revealed[i] && owner == board.Owner(t) {
				remaining++
			}
		}
		if remaining == 0 {
			return t, true
		}
	}
	return "", false
}

func (s *State) finish(winner board.Team) {
	if winner == board.TeamRed {
		s.Phase = PhaseRedWins
	} else {
		s.Phase = PhaseBlueWins
	}
	for i := range s.Revealed {
		s.Revealed[i] = true
	}
}

func (s State) clone() State {
	ns := s
	ns.Clocks = map[board.Team]float64{}
	ns.Speakers = map[board.Team][]string{}
	for t, v := range s.Clocks {
		ns.Clocks[t] = v
	}
	for t, ids := range s.Speakers {
		ns.Speakers[t] = slices.Clone(ids)
	}
	return ns
}

// Winner returns the winning team for a terminal, non-cancelled state.
func (s State) Winner() (board.Team, bool) {
	switch s.Phase {
	case PhaseRedWins:
		return board.TeamRed, true
	case PhaseBlueWins:
		return board.TeamBlue, true
	}
	return "", false
}

// Normalize uppercases a guess and strips whitespace, hyphens and
// underscores, so "fire ant", "FIRE-ANT" and "Fire_Ant" all compare equal.
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r), r == '-', r == '_':
			return -1
		default:
			return unicode.ToUpper(r)
		}
	}, s)
}

func normalizeAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = Normalize(w)
	}
	return out
}
