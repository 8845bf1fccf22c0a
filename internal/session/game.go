package session

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pchu/codenames-backend/internal/board"
	"github.com/pchu/codenames-backend/internal/engine"
	"github.com/pchu/codenames-backend/internal/render"
	"github.com/pchu/codenames-backend/internal/roster"
)

const lobbyInstructions = "React to join the blue or red team. React to the spy icons to become spymaster."

func (s *Session) openLobby(c Command) {
	s.epoch++
	s.phase = PhaseLobby
	s.ros = roster.New()
	s.ros.Join(c.ClientID, c.Name, roster.ChoiceAny, s.rng)
	s.lobbyRemaining = s.cfg.LobbyWindowSec

	s.notice(fmt.Sprintf("Starting a game in %ds...", s.lobbyRemaining), lobbyInstructions)
	s.broadcastRoster()
	s.armTicker(func(epoch int) Msg { return lobbyTick{epoch: epoch} })
}

func (s *Session) handleLobbyTick(epoch int) {
	if epoch != s.epoch || s.phase != PhaseLobby {
		return
	}
	s.lobbyRemaining--
	if s.lobbyRemaining > 0 {
		s.broadcastRoster()
		return
	}
	s.closeLobby()
}

func (s *Session) closeLobby() {
	s.disarmTicker()

	res, err := s.ros.Close(s.rng)
	if err != nil {
		s.notice("You don't have enough players to start!", "")
		s.reset()
		return
	}
	s.startGame(res)
}

func (s *Session) startGame(res roster.Result) {
	key := board.NewKey(s.rng)
	words, err := board.Draw(s.reg)
	if err != nil {
		s.fail("drawing board words", err)
		return
	}

	s.epoch++
	s.st = engine.NewState(key, words, res.Operatives, s.defaults.TimerMinutes())
	s.spymasters = res.Spymasters
	s.ros = nil
	for id, name := range res.Names {
		s.names[id] = name
	}

	if err := s.rerender(); err != nil {
		s.fail("rendering opening board", err)
		return
	}
	s.phase = PhaseRunning

	s.notice("Spies, here are your teams...", s.formatTeams(res))
	s.sendKeyToSpymasters()
	s.notice("Spymasters, your keys have been delivered...",
		"You should keep it open on a separate screen / device for reference.")

	s.armTicker(func(epoch int) Msg { return clockTick{epoch: epoch} })
	s.startTurn()
}

func (s *Session) startTurn() {
	sm := s.spymasters[s.st.Turn]
	s.broadcast(Outbound{
		Type:    OutNotice,
		Title:   fmt.Sprintf("%s Spymaster, it is your turn.", teamTitle(s.st.Turn)),
		Body: s.names[sm] + ", say a word and a number as your clue.\n" +
			"Team members, confirm your guess by typing the word by itself.\n" +
			"Think carefully!\n\nType SKIP if you want to pass.",
		Mention: sm,
	})
	s.broadcastBoard()
	s.broadcast(s.timerOutbound())
}

func (s *Session) handleChat(c Chat) {
	if s.phase != PhaseRunning {
		return
	}
	events, ns, err := engine.Apply(s.st, engine.Command{
		Type:      engine.CmdGuess,
		SpeakerID: c.ClientID,
		Text:      c.Text,
	})
	if err != nil {
		s.log.Debug("guess dropped", zap.Error(err))
		return
	}
	s.st = ns
	s.processEvents(events, c.Name)
}

func (s *Session) handleClockTick(epoch int) {
	if epoch != s.epoch || s.phase != PhaseRunning {
		return
	}
	events, ns, err := engine.Apply(s.st, engine.Command{Type: engine.CmdClockTick})
	if err != nil {
		s.log.Debug("tick dropped", zap.Error(err))
		return
	}
	s.st = ns
	s.processEvents(events, "")
}

// processEvents turns engine events into chat traffic. The board is always
// re-rendered from the post-event state before anything is broadcast, so the
// artifact and the logical state cannot diverge.
func (s *Session) processEvents(events []engine.Event, speakerName string) {
	winner, terminal := s.st.Winner()
	revealed := engine.ContainsEvent(events, engine.EvtCellRevealed)

	if revealed || terminal {
		if err := s.rerender(); err != nil {
			s.fail("rendering board", err)
			return
		}
	}

	for _, ev := range events {
		switch ev.Type {
		case engine.EvtCellRevealed:
			s.notice(fmt.Sprintf("%s, you guessed %s...", speakerName, engine.Normalize(ev.Word)), "")
			s.broadcastBoard()
		case engine.EvtGuessCorrect:
			s.notice("Correct!", "You can keep guessing, or type SKIP to pass your turn.")
		case engine.EvtGuessIncorrect:
			s.notice("Incorrect!", "")
		case engine.EvtAssassinated:
			s.notice("You've been ASSASSINATED!", "")
		case engine.EvtClockTicked:
			s.broadcast(s.timerOutbound())
		}
	}

	switch {
	case terminal:
		if ev, ok := engine.FindEvent(events, engine.EvtGameWon); ok {
			body := ""
			if ev.Reason == engine.ReasonTimeout {
				body = "by Timeout"
			}
			s.notice(strings.ToUpper(string(winner))+" WINS!", body)
		}
		s.broadcastBoard()
		s.reset()

	case engine.ContainsEvent(events, engine.EvtGameCancelled):
		s.notice("GAME OVER.", "")
		s.reset()

	default:
		if revealed {
			s.sendKeyToSpymasters()
		}
		if ev, ok := engine.FindEvent(events, engine.EvtTurnEnded); ok {
			s.notice(fmt.Sprintf("%s team's turn has ended.", teamTitle(ev.Team.Opponent())), "")
			s.startTurn()
		}
	}
}

func (s *Session) handleReaction(r Reaction) {
	if s.phase != PhaseLobby {
		return
	}
	if r.Removed {
		s.ros.UnmarkSpymaster(r.ClientID)
		s.broadcastRoster()
		return
	}

	switch r.Emote {
	case EmoteRed:
		s.ros.Join(r.ClientID, r.Name, roster.ChoiceRed, s.rng)
	case EmoteBlue:
		s.ros.Join(r.ClientID, r.Name, roster.ChoiceBlue, s.rng)
	case EmoteAny:
		s.ros.Join(r.ClientID, r.Name, roster.ChoiceAny, s.rng)
	case EmoteRedSpymaster:
		s.ros.MarkSpymaster(r.ClientID, r.Name, board.TeamRed)
	case EmoteBlueSpymaster:
		s.ros.MarkSpymaster(r.ClientID, r.Name, board.TeamBlue)
	default:
		return
	}
	s.broadcastRoster()
}

func (s *Session) rerender() error {
	views, err := render.Render(s.st.Key, s.st.Words, s.st.Revealed)
	if err != nil {
		return err
	}
	s.boardPNG = views.Board
	s.keyPNG = views.Key
	return nil
}

// fail is the fail-safe path for unexpected render/transport errors: log,
// tell the channel, and reset rather than leaving a game nobody can advance.
func (s *Session) fail(what string, err error) {
	s.log.Error("session failure", zap.String("what", what), zap.Error(err))
	s.notice("Something went wrong, the game has been reset.", "")
	s.reset()
}

func (s *Session) broadcastBoard() {
	if s.boardPNG == nil {
		return
	}
	s.broadcast(Outbound{Type: OutBoard, Image: s.boardPNG})
}

func (s *Session) broadcastRoster() {
	s.broadcast(Outbound{
		Type:      OutRoster,
		Title:     fmt.Sprintf("Starting a game in %ds...", s.lobbyRemaining),
		Body:      lobbyInstructions,
		Roster:    s.ros.Summary(),
		Countdown: s.lobbyRemaining,
	})
}

func (s *Session) sendKeyToSpymasters() {
	for team, sm := range s.spymasters {
		s.sendTo(sm, Outbound{
			Type:  OutKey,
			Title: fmt.Sprintf("You are %s.", strings.ToUpper(string(team))),
			Image: s.keyPNG,
		})
	}
}

func (s *Session) timerOutbound() Outbound {
	clocks := map[board.Team]float64{}
	for t, v := range s.st.Clocks {
		clocks[t] = v
	}
	return Outbound{Type: OutTimer, Clocks: clocks, Active: s.st.Turn}
}

func (s *Session) formatTeams(res roster.Result) string {
	var b strings.Builder
	for _, team := range []board.Team{board.TeamBlue, board.TeamRed} {
		fmt.Fprintf(&b, "%s Team: %s (spymaster)", teamTitle(team), res.Names[res.Spymasters[team]])
		for _, id := range res.Operatives[team] {
			b.WriteString(", " + res.Names[id])
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func teamTitle(t board.Team) string {
	if t == board.TeamRed {
		return "Red"
	}
	return "Blue"
}
