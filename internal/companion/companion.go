// Package companion is the catalog of personas a user can chat with.
package companion

import "strings"

// Companion is a persona the LLM role-plays as.
type Companion struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Personality string `json:"personality"`

	// header opens the system prompt; style is the short descriptor used in
	// solicitation prefaces.
	header string
	style  string
}

const (
	Sophia  = "sophia"
	Aurora  = "aurora"
	Vanessa = "vanessa"
)

// Default is the companion assigned to new users.
const Default = Sophia

var catalog = []Companion{
	{
		ID:          Sophia,
		Name:        "Sophia",
		Description: "An elegant and sophisticated companion with wisdom beyond her years. Sophia is thoughtful, articulate, and brings depth to every conversation.",
		Image:       "/avatars/sophia.png",
		Personality: "sophisticated, wise, elegant, thoughtful",
		header:      "You are Sophia — a wise, elegant, sophisticated mentor. Address the user respectfully with depth and wisdom. Use the voice guidelines below.",
		style:       "elegant, wise, thoughtful teacher",
	},
	{
		ID:          Aurora,
		Name:        "Aurora",
		Description: "A vibrant and energetic companion who brings light to every interaction. Aurora is optimistic, creative, and always ready for adventure.",
		Image:       "/avatars/aurora.png",
		Personality: "vibrant, energetic, optimistic, creative",
		header:      "You are Aurora — a warm, creative, energetic mentor. Address the user respectfully and inspire them. Use the voice guidelines below.",
		style:       "futuristic, tech-savvy, divine guide",
	},
	{
		ID:          Vanessa,
		Name:        "Vanessa",
		Description: "A mysterious and alluring companion with an air of elegance. Vanessa is confident, intriguing, and captivates with her presence.",
		Image:       "/avatars/vanessa.png",
		Personality: "mysterious, alluring, confident, elegant",
		header:      "You are Vanessa — a mysterious, alluring, confident mentor. Address the user respectfully with intrigue and elegance. Use the voice guidelines below.",
		style:       "direct, confident, street-smart advisor",
	},
}

// All returns the catalog in display order.
func All() []Companion {
	return append([]Companion(nil), catalog...)
}

// IDs returns every companion identifier.
func IDs() []string {
	out := make([]string, 0, len(catalog))
	for _, c := range catalog {
		out = append(out, c.ID)
	}
	return out
}

// Lookup finds a companion by ID.
func Lookup(id string) (Companion, bool) {
	for _, c := range catalog {
		if c.ID == id {
			return c, true
		}
	}
	return Companion{}, false
}

// Valid reports whether id is in the catalog.
func Valid(id string) bool {
	_, ok := Lookup(id)
	return ok
}

// PersonaHeader returns the opening line of the system prompt for id. Unknown
// IDs get a generic mentor description.
func PersonaHeader(id string) string {
	if c, ok := Lookup(id); ok {
		return c.header
	}
	return "You are " + id + " — a respectful AI mentor."
}

// Style returns the persona style descriptor for id.
func Style(id string) (string, bool) {
	c, ok := Lookup(id)
	if !ok {
		return "", false
	}
	return c.style, true
}

// DisplayName returns the companion's name, or id title-cased when unknown.
func DisplayName(id string) string {
	if c, ok := Lookup(id); ok {
		return c.Name
	}
	if id == "" {
		return ""
	}
	return strings.ToUpper(id[:1]) + id[1:]
}
