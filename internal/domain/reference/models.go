package reference

// Team is a club or opponent referenced by events.
type Team struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName,omitempty"`
	City      string `json:"city,omitempty"`
	LogoURL   string `json:"logoUrl,omitempty"`
}

// League is a competition an event belongs to.
type League struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Season groups events of one competition year.
type Season struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Venue is the arena where an event takes place.
type Venue struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// Kind names a reference entity family.
type Kind string

const (
	KindTeams   Kind = "teams"
	KindLeagues Kind = "leagues"
	KindSeasons Kind = "seasons"
	KindVenues  Kind = "venues"
)

// Kinds lists every reference kind in load order.
var Kinds = []Kind{KindLeagues, KindSeasons, KindVenues, KindTeams}
