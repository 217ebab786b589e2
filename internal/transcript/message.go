package transcript

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Kind distinguishes durable transcript entries from presentation-only ones.
// Pending covers the typing placeholder and the intermediate prefixes of a
// reveal animation; pending messages are never written to storage, so a crash
// mid-exchange can never leave a placeholder in the persisted history.
type Kind int

const (
	KindFinal Kind = iota
	KindPending
)

// Message is one transcript entry. Identity is positional; there is no id.
type Message struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
	Kind   Kind   `json:"-"`
}

// Final is a shorthand constructor for a durable message.
func Final(sender Sender, text string) Message {
	return Message{Sender: sender, Text: text, Kind: KindFinal}
}

// Pending is a shorthand constructor for a presentation-only message.
func Pending(sender Sender, text string) Message {
	return Message{Sender: sender, Text: text, Kind: KindPending}
}
