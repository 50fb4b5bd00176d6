package sessionservice

import (
	"strings"

	"github.com/Black-And-White-Club/poker-ledger/pkg/ledgererr"
	sharedtypes "github.com/Black-And-White-Club/poker-ledger/pkg/types/shared"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/en"
)

func newDateParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	return w
}

// ParseGameDate accepts YYYY-MM-DD, or phrases like "today" and "last friday"
// resolved against the service clock.
func (s *SessionService) ParseGameDate(input string) (sharedtypes.GameDate, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return sharedtypes.GameDate{}, ledgererr.Validation("game date is required")
	}
	if d, err := sharedtypes.ParseGameDate(input); err == nil {
		return d, nil
	}

	r, err := s.dates.Parse(input, s.now())
	if err != nil {
		return sharedtypes.GameDate{}, ledgererr.Validation("could not parse game date %q: %v", input, err)
	}
	if r == nil {
		return sharedtypes.GameDate{}, ledgererr.Validation("could not parse game date %q", input)
	}
	return sharedtypes.GameDateOf(r.Time), nil
}
