// Package session runs one game per chat channel as an actor: a single
// goroutine owns all mutable state and every clock tick, chat message and
// reaction is serialized through its inbox. Rendering happens on the owning
// goroutine, so a slow render never stalls other channels.
package session

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/pchu/codenames-backend/internal/board"
	"github.com/pchu/codenames-backend/internal/engine"
	"github.com/pchu/codenames-backend/internal/roster"
	"github.com/pchu/codenames-backend/internal/wordpack"
)

type Phase string

const (
	PhaseNoGame  Phase = "no_game"
	PhaseLobby   Phase = "lobby"
	PhaseRunning Phase = "running"
)

// Reaction emotes used during the lobby window.
const (
	EmoteRed           = "🟥"
	EmoteBlue          = "🟦"
	EmoteAny           = "❔"
	EmoteRedSpymaster  = "redspymaster"
	EmoteBlueSpymaster = "bluespymaster"
)

type Msg interface{ isSessionMsg() }

// Subscribe registers a client to receive this channel's outbound traffic.
type Subscribe struct {
	ClientID string
	Name     string
	Outbox   chan Outbound
}

type Unsubscribe struct{ ClientID string }

// Command is one of the slash-style commands: play, stop, packs, toggle, timer.
type Command struct {
	ClientID string
	Name     string
	Verb     string
	Arg      string
}

// Chat is free-form channel text; during a turn it may be a guess.
type Chat struct {
	ClientID string
	Name     string
	Text     string
}

// Reaction is a team/spymaster emote added to or removed from the lobby post.
type Reaction struct {
	ClientID string
	Name     string
	Emote    string
	Removed  bool
}

// GetState reflects internal state without data races; test-only.
type GetState struct{ Reply chan View }

// GetArtifacts fetches the latest rendered public board, for the HTTP image
// endpoint. The bytes are a snapshot: valid for the instant they were fetched.
type GetArtifacts struct{ Reply chan Artifacts }

type Artifacts struct {
	Board []byte
}

type Shutdown struct{}

// lobbyTick and clockTick are posted by the session's own ticker goroutine.
// They carry the epoch they were armed in; stale deliveries are dropped.
type lobbyTick struct{ epoch int }
type clockTick struct{ epoch int }

func (Subscribe) isSessionMsg()    {}
func (Unsubscribe) isSessionMsg()  {}
func (Command) isSessionMsg()      {}
func (Chat) isSessionMsg()         {}
func (Reaction) isSessionMsg()     {}
func (GetState) isSessionMsg()     {}
func (GetArtifacts) isSessionMsg() {}
func (Shutdown) isSessionMsg()     {}
func (lobbyTick) isSessionMsg()    {}
func (clockTick) isSessionMsg()    {}

type OutboundType string

const (
	OutNotice OutboundType = "Notice"
	OutBoard  OutboundType = "Board"
	OutKey    OutboundType = "Key"
	OutTimer  OutboundType = "Timer"
	OutRoster OutboundType = "Roster"
)

// Outbound is one message pushed to subscribed clients. Board images go to
// everyone; Key images go only to the two spymasters' outboxes.
type Outbound struct {
	Type      OutboundType
	Title     string
	Body      string
	Mention   string // client id the notice addresses, e.g. the spymaster on turn
	Image     []byte // PNG
	Clocks    map[board.Team]float64
	Active    board.Team
	Roster    map[board.Team][]roster.Member
	Countdown int
}

// View is a race-free copy of session internals for tests.
type View struct {
	Phase          Phase
	Epoch          int
	NumClients     int
	LobbyRemaining int
	Roster         map[board.Team][]roster.Member
	Engine         engine.State
	Spymasters     map[board.Team]string
	HasBoardImage  bool
}

type Config struct {
	LobbyWindowSec int
}

func (c Config) withDefaults() Config {
	if c.LobbyWindowSec <= 0 {
		c.LobbyWindowSec = 15
	}
	return c
}

type Deps struct {
	Log      *zap.Logger
	Registry *wordpack.Registry
	Defaults *Defaults
	Config   Config
	Rng      *rand.Rand
}

type Session struct {
	inbox    chan Msg
	log      *zap.Logger
	reg      *wordpack.Registry
	defaults *Defaults
	cfg      Config
	rng      *rand.Rand
	ctx      context.Context
	cancel   context.CancelFunc

	phase          Phase
	epoch          int
	clients        map[string]chan Outbound
	names          map[string]string
	ros            *roster.Roster
	lobbyRemaining int
	st             engine.State
	spymasters     map[board.Team]string
	boardPNG       []byte
	keyPNG         []byte
	tickStop       chan struct{}
}

func New(parent context.Context, deps Deps) *Session {
	ctx, cancel := context.WithCancel(parent)
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Rng == nil {
		deps.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Session{
		inbox:    make(chan Msg, 64),
		log:      deps.Log,
		reg:      deps.Registry,
		defaults: deps.Defaults,
		cfg:      deps.Config.withDefaults(),
		rng:      deps.Rng,
		ctx:      ctx,
		cancel:   cancel,
		phase:    PhaseNoGame,
		clients:  make(map[string]chan Outbound),
		names:    make(map[string]string),
	}
	go s.loop()
	return s
}

func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Subscribe:
				s.clients[msg.ClientID] = msg.Outbox
				s.names[msg.ClientID] = msg.Name
				s.sendCurrent(msg.ClientID)

			case Unsubscribe:
				delete(s.clients, msg.ClientID)

			case Command:
				s.names[msg.ClientID] = msg.Name
				s.handleCommand(msg)

			case Chat:
				s.names[msg.ClientID] = msg.Name
				s.handleChat(msg)

			case Reaction:
				s.handleReaction(msg)

			case lobbyTick:
				s.handleLobbyTick(msg.epoch)

			case clockTick:
				s.handleClockTick(msg.epoch)

			case GetState:
				msg.Reply <- s.view()

			case GetArtifacts:
				msg.Reply <- Artifacts{Board: s.boardPNG}

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) shutdown() {
	s.disarmTicker()
	for id, ch := range s.clients {
		close(ch)
		delete(s.clients, id)
	}
	s.cancel()
}

// armTicker starts a once-per-second ticker bound to the current epoch,
// replacing any previous one. The ticker goroutine only posts to the inbox;
// the loop goroutine decides whether the tick is still current.
func (s *Session) armTicker(mk func(epoch int) Msg) {
	s.disarmTicker()
	stop := make(chan struct{})
	s.tickStop = stop
	epoch := s.epoch

	go func() {
		t := time.NewTicker(time.Second)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-s.ctx.Done():
				return
			case <-t.C:
				select {
				case s.inbox <- mk(epoch):
				case <-stop:
					return
				case <-s.ctx.Done():
					return
				}
			}
		}
	}()
}

func (s *Session) disarmTicker() {
	if s.tickStop != nil {
		close(s.tickStop)
		s.tickStop = nil
	}
}

// reset returns to NoGame and bumps the epoch so that any continuation armed
// before the reset is dropped on delivery.
func (s *Session) reset() {
	s.disarmTicker()
	s.epoch++
	s.phase = PhaseNoGame
	s.ros = nil
	s.lobbyRemaining = 0
	s.st = engine.State{}
	s.spymasters = nil
}

func (s *Session) sendCurrent(clientID string) {
	switch s.phase {
	case PhaseLobby:
		s.sendTo(clientID, Outbound{Type: OutRoster, Roster: s.ros.Summary(), Countdown: s.lobbyRemaining})
	case PhaseRunning:
		if s.boardPNG != nil {
			s.sendTo(clientID, Outbound{Type: OutBoard, Image: s.boardPNG})
		}
		s.sendTo(clientID, s.timerOutbound())
	}
}

func (s *Session) broadcast(o Outbound) {
	for id, ch := range s.clients {
		select {
		case ch <- o:
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(s.clients, id)
		}
	}
}

func (s *Session) sendTo(clientID string, o Outbound) {
	ch, ok := s.clients[clientID]
	if !ok {
		return
	}
	select {
	case ch <- o:
	default:
		close(ch)
		delete(s.clients, clientID)
	}
}

func (s *Session) notice(title, body string) {
	s.broadcast(Outbound{Type: OutNotice, Title: title, Body: body})
}

func (s *Session) view() View {
	v := View{
		Phase:          s.phase,
		Epoch:          s.epoch,
		NumClients:     len(s.clients),
		LobbyRemaining: s.lobbyRemaining,
		Engine:         s.st,
		HasBoardImage:  s.boardPNG != nil,
	}
	if s.ros != nil {
		v.Roster = s.ros.Summary()
	}
	if s.spymasters != nil {
		v.Spymasters = map[board.Team]string{}
		for t, id := range s.spymasters {
			v.Spymasters[t] = id
		}
	}
	return v
}
