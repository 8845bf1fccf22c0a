package roster

import (
	"errors"
	"math/rand"
	"slices"
	"sort"

	"github.com/pchu/codenames-backend/internal/board"
)

var ErrInsufficientPlayers = errors.New("not enough players to start")

// MinPlayers is the smallest total lobby size that can start a game.
const MinPlayers = 4

// Choice is a player's team selection during the lobby window.
type Choice string

const (
	ChoiceRed  Choice = "red"
	ChoiceBlue Choice = "blue"
	ChoiceAny  Choice = "any"
)

// Roster tracks lobby membership. It is owned by a single session goroutine
// and is not safe for concurrent use.
type Roster struct {
	teams      map[board.Team]map[string]struct{}
	candidates map[string]struct{}
	names      map[string]string
}

func New() *Roster {
	return &Roster{
		teams: map[board.Team]map[string]struct{}{
			board.TeamRed:  {},
			board.TeamBlue: {},
		},
		candidates: map[string]struct{}{},
		names:      map[string]string{},
	}
}

// Join puts a participant on the chosen team, moving them off the other team
// if needed. Last choice wins; ChoiceAny picks a side at random.
func (r *Roster) Join(id, name string, c Choice, rng *rand.Rand) {
	r.names[id] = name
	team := board.TeamBlue
	switch c {
	case ChoiceRed:
		team = board.TeamRed
	case ChoiceBlue:
		team = board.TeamBlue
	case ChoiceAny:
		if rng.Intn(2) == 0 {
			team = board.TeamRed
		}
	}
	delete(r.teams[team.Opponent()], id)
	r.teams[team][id] = struct{}{}
}

// MarkSpymaster joins the participant to the team and records spymaster
// candidacy. Candidacy is not cleared by a later plain team switch; only
// UnmarkSpymaster clears it. Election intersects candidates with final team
// membership, so a stale flag cannot elect someone across teams.
func (r *Roster) MarkSpymaster(id, name string, team board.Team) {
	r.names[id] = name
	delete(r.teams[team.Opponent()], id)
	r.teams[team][id] = struct{}{}
	r.candidates[id] = struct{}{}
}

func (r *Roster) UnmarkSpymaster(id string) {
	delete(r.candidates, id)
}

func (r *Roster) Size() int {
	return len(r.teams[board.TeamRed]) + len(r.teams[board.TeamBlue])
}

func (r *Roster) Name(id string) string {
	return r.names[id]
}

// Member is one roster entry in a lobby summary.
type Member struct {
	ID        string
	Name      string
	Spymaster bool
}

// Summary lists each team's members in stable name order, for the live lobby
// display.
func (r *Roster) Summary() map[board.Team][]Member {
	out := map[board.Team][]Member{}
	for team, ids := range r.teams {
		members := make([]Member, 0, len(ids))
		for id := range ids {
			_, cand := r.candidates[id]
			members = append(members, Member{ID: id, Name: r.names[id], Spymaster: cand})
		}
		sort.Slice(members, func(i, j int) bool {
			if members[i].Name != members[j].Name {
				return members[i].Name < members[j].Name
			}
			return members[i].ID < members[j].ID
		})
		out[team] = members
	}
	return out
}

// Result is the final team assignment produced when the lobby closes.
type Result struct {
	Teams      map[board.Team][]string
	Spymasters map[board.Team]string
	Operatives map[board.Team][]string // team members minus the elected spymasters
	Names      map[string]string
}

// Close balances the teams and elects one spymaster per team. Balancing moves
// random excess members until the sizes differ by at most one. Election
// prefers a random candidate on the team, falling back to any member.
func (r *Roster) Close(rng *rand.Rand) (Result, error) {
	if r.Size() < MinPlayers {
		return Result{}, ErrInsufficientPlayers
	}

	for len(r.teams[board.TeamRed])-len(r.teams[board.TeamBlue]) > 1 {
		r.moveRandom(board.TeamRed, board.TeamBlue, rng)
	}
	for len(r.teams[board.TeamBlue])-len(r.teams[board.TeamRed]) > 1 {
		r.moveRandom(board.TeamBlue, board.TeamRed, rng)
	}

	res := Result{
		Teams:      map[board.Team][]string{},
		Spymasters: map[board.Team]string{},
		Operatives: map[board.Team][]string{},
		Names:      map[string]string{},
	}
	for id, name := range r.names {
		res.Names[id] = name
	}

	for _, team := range []board.Team{board.TeamRed, board.TeamBlue} {
		members := sortedIDs(r.teams[team])
		res.Teams[team] = members

		pool := make([]string, 0, len(members))
		for _, id := range members {
			if _, ok := r.candidates[id]; ok {
				pool = append(pool, id)
			}
		}
		if len(pool) == 0 {
			pool = members
		}
		res.Spymasters[team] = pool[rng.Intn(len(pool))]
	}

	for _, team := range []board.Team{board.TeamRed, board.TeamBlue} {
		sm := res.Spymasters[team]
		for _, id := range res.Teams[team] {
			if id != sm {
				res.Operatives[team] = append(res.Operatives[team], id)
			}
		}
	}
	return res, nil
}

func (r *Roster) moveRandom(from, to board.Team, rng *rand.Rand) {
	ids := sortedIDs(r.teams[from])
	chosen := ids[rng.Intn(len(ids))]
	delete(r.teams[from], chosen)
	r.teams[to][chosen] = struct{}{}
}

func sortedIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
