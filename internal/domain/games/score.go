package games

import (
	"regexp"
	"strconv"
	"strings"
)

var leadingDigits = regexp.MustCompile(`^\d+`)

// Score keeps the published score string next to its numeric goal count.
// Raw may carry annotations such as "3Б" for a shootout win; Goals is the
// leading integer of Raw. Build it with NewScore so both stay in sync.
type Score struct {
	Raw   string `json:"raw"`
	Goals int    `json:"goals"`
}

// ZeroScore is used for games without published results.
var ZeroScore = NewScore("0")

// NewScore parses raw into a Score.
func NewScore(raw string) Score {
	raw = strings.TrimSpace(raw)
	goals := 0
	if digits := leadingDigits.FindString(raw); digits != "" {
		if n, err := strconv.Atoi(digits); err == nil {
			goals = n
		}
	}
	return Score{Raw: raw, Goals: goals}
}

func (s Score) String() string {
	return s.Raw
}
