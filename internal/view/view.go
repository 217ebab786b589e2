// Package view projects a transcript into a renderable HTML fragment. It is a
// pure function of the store's state: no live markup and no script execution,
// all message text is escaped to literals.
package view

import (
	"fmt"
	"html"
	"strings"

	"github.com/amirrezaabbasiai-svg/AI-chatbot/internal/transcript"
)

// hasArabicScript reports whether text needs dir="auto" for right-to-left display.
func hasArabicScript(text string) bool {
	for _, r := range text {
		if r >= 0x0600 && r <= 0x06FF {
			return true
		}
	}
	return false
}

// Render produces one visual block per message, tagged by sender. Bot messages
// carry a play-audio affordance indexed by transcript position so a click can
// be routed to the synthesis session with that message's text.
func Render(messages []transcript.Message) string {
	var b strings.Builder
	for i, msg := range messages {
		dirAttr := ""
		if hasArabicScript(msg.Text) {
			dirAttr = ` dir="auto"`
		}
		escaped := html.EscapeString(msg.Text)
		if msg.Sender == transcript.SenderBot {
			fmt.Fprintf(&b, `<div class="messages__item messages__item--operator"%s>`, dirAttr)
			fmt.Fprintf(&b, `<div class="message-content">%s</div>`, escaped)
			fmt.Fprintf(&b, `<button class="voice-button" data-index="%d"><i class="fas fa-volume-up"></i></button>`, i)
			b.WriteString("</div>\n")
		} else {
			fmt.Fprintf(&b, `<div class="messages__item messages__item--visitor"%s>%s</div>`, dirAttr, escaped)
			b.WriteString("\n")
		}
	}
	return b.String()
}
