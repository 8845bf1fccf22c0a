package types

// ClientMessage is everything a chat client can send up the websocket.
//
//	Command:        verb play|stop|packs|toggle|timer, arg as needed
//	Chat:           free text; during a turn it may be a guess or SKIP
//	ReactionAdd:    emote on the lobby post (team / spymaster selection)
//	ReactionRemove: emote removed (clears spymaster candidacy)
type ClientMessage struct {
	Type  string `json:"type"`
	Verb  string `json:"verb,omitempty"`
	Arg   string `json:"arg,omitempty"`
	Text  string `json:"text,omitempty"`
	Emote string `json:"emote,omitempty"`
}

// ServerMessage is everything pushed down the websocket. Image carries PNG
// bytes (base64 on the wire): type Board for everyone, type Key only for the
// spymasters' connections.
type ServerMessage struct {
	Type      string            `json:"type"` // "Notice" | "Board" | "Key" | "Timer" | "Roster" | "Error"
	Title     string            `json:"title,omitempty"`
	Body      string            `json:"body,omitempty"`
	Mention   string            `json:"mention,omitempty"`
	Image     []byte            `json:"image,omitempty"`
	Clocks    map[string]float64 `json:"clocks,omitempty"`
	Active    string            `json:"active,omitempty"`
	Roster    map[string][]RosterMember `json:"roster,omitempty"`
	Countdown int               `json:"countdown,omitempty"`
	Error     string            `json:"error,omitempty"`
}

type RosterMember struct {
	Name      string `json:"name"`
	Spymaster bool   `json:"spymaster,omitempty"`
}
