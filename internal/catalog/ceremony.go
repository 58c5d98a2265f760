package catalog

import "github.com/shumm7/Valorant-DiscordBot-sub000/internal/errs"

// ceremonyIDs maps the provider's round ceremony enumeration onto catalog ids.
// A default ending has no ceremony and maps to the empty id.
var ceremonyIDs = map[string]string{
	"":                 "",
	"CeremonyDefault":  "",
	"CeremonyAce":      "Ace",
	"CeremonyTeamAce":  "TeamAce",
	"CeremonyClutch":   "Clutch",
	"CeremonyFlawless": "Flawless",
	"CeremonyThrifty":  "Thrifty",
	"CeremonyCloser":   "Closer",
}

// CeremonyID translates a raw ceremony value. Values outside the table are
// reported as data errors instead of falling back to any ceremony.
func CeremonyID(raw string) (string, error) {
	id, ok := ceremonyIDs[raw]
	if !ok {
		return "", errs.Data("unrecognized round ceremony %q", raw)
	}
	return id, nil
}
