// Package bot holds the canned reply catalog and the keyword rules that pick
// a reply for an inbound chat message.
package bot

// Category names a group of candidate replies, or one of the fixed
// informational replies.
type Category string

// Reply categories, in the order their keyword rules are evaluated.
const (
	Greeting   Category = "greetings"
	Farewell   Category = "farewells"
	Thanks     Category = "thanks"
	Docker     Category = "docker"
	Multistage Category = "multistage"
	Default    Category = "default"
)

// WelcomeMessage is pushed to every client right after it connects.
const WelcomeMessage = "Hello! I'm your AI assistant. How can I help you today?"

// Fixed informational replies.
const (
	DockerReply     = "Docker is amazing! It helps create consistent environments across different machines. Are you working on containerization?"
	MultistageReply = "Multistage Docker builds are great for optimizing image size! They allow you to use multiple FROM statements in a single Dockerfile."
)

var catalog = map[Category][]string{
	Greeting: {
		"Hello! How can I help you today?",
		"Hi there! What can I assist you with?",
		"Greetings! How may I be of service?",
		"Hey! What's on your mind?",
	},
	Farewell: {
		"Goodbye! Have a great day!",
		"See you later! Take care!",
		"Farewell! Come back anytime!",
		"Bye! It was nice chatting with you!",
	},
	Thanks: {
		"You're welcome!",
		"My pleasure!",
		"Glad I could help!",
		"Anytime!",
	},
	Default: {
		"That's interesting! Tell me more.",
		"I see. Can you elaborate on that?",
		"Interesting point! What else would you like to discuss?",
		"I'm here to listen. What's on your mind?",
	},
	Docker:     {DockerReply},
	Multistage: {MultistageReply},
}

type rule struct {
	category Category
	keywords []string
}

// rules are matched against the lower-cased message; the first hit wins.
var rules = []rule{
	{Greeting, []string{"hello", "hi", "hey"}},
	{Farewell, []string{"bye", "goodbye", "see you"}},
	{Thanks, []string{"thank", "thanks"}},
	{Docker, []string{"docker", "container"}},
	{Multistage, []string{"multistage", "multi-stage"}},
}

// Responses returns a copy of the candidate replies for c, or nil for an
// unknown category.
func Responses(c Category) []string {
	candidates, ok := catalog[c]
	if !ok {
		return nil
	}
	return append([]string(nil), candidates...)
}

// Categories lists every category in rule order, ending with Default.
func Categories() []Category {
	out := make([]Category, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.category)
	}
	return append(out, Default)
}
