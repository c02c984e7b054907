package archive

import "encoding/json"

// Game is one raw game record from a monthly archive. The pipeline treats it
// as opaque JSON and only reads a few string fields.
type Game map[string]json.RawMessage

// String returns the string value of field. ok is false when the field is
// absent or not a JSON string.
func (g Game) String(field string) (string, bool) {
	raw, present := g[field]
	if !present {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// URL returns the game's chess.com URL, used to identify it in logs.
func (g Game) URL() string {
	s, _ := g.String("url")
	return s
}

// FEN returns the game's final position in Forsyth-Edwards Notation.
func (g Game) FEN() (string, bool) {
	return g.String("fen")
}
