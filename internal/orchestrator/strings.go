package orchestrator

import "github.com/glowbotai/glowbot/internal/lang"

// Fixed user-facing lines are kept out of the delegate entirely: restart,
// confirmation acks, and failure apologies must be instant and deterministic.
type phrases struct {
	restart   string
	reviewAck string
	detailCTA string
	apology   string
}

var phrasebook = map[string]phrases{
	lang.English: {
		restart:   "Let's start fresh! Tell me a bit about your skin 😊",
		reviewAck: "Wonderful! Let me create your personalized skincare routine now... ⏳",
		detailCTA: "Want the detailed version with application tips? Just say *yes* 😊",
		apology:   "I'm sorry, something went wrong. Could you try again?",
	},
	lang.Hebrew: {
		restart:   "בואי נתחיל מחדש! ספרי לי קצת על העור שלך 😊",
		reviewAck: "מעולה! אני מכינה לך עכשיו תוכנית טיפוח מותאמת אישית... ⏳",
		detailCTA: "רוצה את הגרסה המפורטת עם טיפים ליישום? פשוט תגידי *כן* 😊",
		apology:   "סליחה, משהו השתבש. אפשר לנסות שוב?",
	},
}

func localized(language string) phrases {
	if p, ok := phrasebook[language]; ok {
		return p
	}
	return phrasebook[lang.English]
}
