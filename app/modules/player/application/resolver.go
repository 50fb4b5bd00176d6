package playerservice

import (
	"sort"
	"strings"

	playerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/player/infrastructure/repositories"
	"github.com/agnivade/levenshtein"
)

// NormalizeName is the identity key of a player name: trimmed and lower-cased.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Directory resolves names against a snapshot of the player table.
// Matching is exact on the normalized name; there is no fuzzy matching.
type Directory struct {
	byKey   map[string]*playerdb.Player
	players []*playerdb.Player
}

// NewDirectory indexes players by normalized name.
func NewDirectory(players []playerdb.Player) *Directory {
	d := &Directory{byKey: make(map[string]*playerdb.Player, len(players))}
	for i := range players {
		d.Add(&players[i])
	}
	return d
}

// Add makes p resolvable. An existing entry with the same key is kept.
func (d *Directory) Add(p *playerdb.Player) {
	key := NormalizeName(p.Name)
	if _, exists := d.byKey[key]; exists {
		return
	}
	d.byKey[key] = p
	d.players = append(d.players, p)
}

// Resolve returns the player whose normalized name equals name's.
func (d *Directory) Resolve(name string) (*playerdb.Player, bool) {
	p, ok := d.byKey[NormalizeName(name)]
	return p, ok
}

// ByID returns the player with the given ID.
func (d *Directory) ByID(id int64) (*playerdb.Player, bool) {
	for _, p := range d.players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Players returns the indexed players sorted by name.
func (d *Directory) Players() []playerdb.Player {
	out := make([]playerdb.Player, 0, len(d.players))
	for _, p := range d.players {
		out = append(out, *p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return NormalizeName(out[i].Name) < NormalizeName(out[j].Name)
	})
	return out
}

// Suggestion is an existing player whose name is close to an unknown one.
type Suggestion struct {
	PlayerID int64  `json:"player_id"`
	Name     string `json:"name"`
	Distance int    `json:"distance"`
}

// maxDistance is the edit distance tolerated for a name of n runes.
func maxDistance(n int) int {
	switch {
	case n <= 3:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}

// Suggest lists up to limit players whose normalized names are within a
// small edit distance of name, closest first. Suggestions are hints for a
// human reviewer and never affect Resolve.
func (d *Directory) Suggest(name string, limit int) []Suggestion {
	key := NormalizeName(name)
	if key == "" || limit <= 0 {
		return nil
	}
	threshold := maxDistance(len([]rune(key)))

	var out []Suggestion
	for _, p := range d.players {
		other := NormalizeName(p.Name)
		if other == key {
			continue
		}
		dist := levenshtein.ComputeDistance(key, other)
		if dist <= threshold {
			out = append(out, Suggestion{PlayerID: p.ID, Name: p.Name, Distance: dist})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return NormalizeName(out[i].Name) < NormalizeName(out[j].Name)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
