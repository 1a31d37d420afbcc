package tips

import (
	"strings"
	"time"
)

var staticTips = map[string][]string{
	"italian": {
		"Italian adjectives usually follow the noun: una casa bianca, not una bianca casa.",
		"Double consonants change meaning. Practice saying pala and palla out loud.",
		"Use the formal Lei with strangers and shopkeepers; save tu for friends.",
		"Learn nouns with their article: il libro, la penna, lo studente.",
		"Passato prossimo with essere agrees with the subject: lei è andata.",
		"Read one short news article today and underline every verb you know.",
		"Prepositions merge with articles: di + il = del, a + la = alla.",
	},
	"french": {
		"Learn nouns with their article so you remember the gender: le livre, la table.",
		"Liaison links words: les amis sounds like lay-zamee.",
		"Negation wraps the verb: je ne parle pas. In speech the ne often disappears.",
		"Use vous with people you don't know well, tu with friends and children.",
		"Passé composé with être agrees with the subject: elle est partie.",
		"Listen to a five-minute podcast and write down three new expressions.",
		"Most adjectives follow the noun, but beau, petit, grand and bon come before it.",
	},
	"spanish": {
		"Ser describes what something is; estar describes state or location.",
		"Subject pronouns are often dropped: hablo already means I speak.",
		"Gustar works backwards: me gustan los libros, literally books please me.",
		"Put an upside-down question mark at the start of questions: ¿Dónde está?",
		"The personal a comes before people as direct objects: veo a María.",
		"Shadow a native speaker for five minutes, repeating right after them.",
		"Preterite is for completed actions; imperfect is for background and habits.",
	},
	"japanese": {
		"Particles mark roles: は marks the topic, が marks the subject.",
		"Verbs come at the end of the sentence. Keep the main idea for last.",
		"Practice five new kanji today and write each one three times.",
		"です and ます make speech polite. Use them with people you don't know well.",
		"Counters change with the object: 一本 for long things, 一枚 for flat ones.",
		"Listen for pitch accent: はし can mean bridge or chopsticks.",
		"The te-form links actions: 食べて、寝ます means eat, then sleep.",
	},
}

var genericTips = []string{
	"Study a little every day. Fifteen focused minutes beat one long weekly session.",
	"Say new words out loud. Speaking them helps you remember.",
	"Review yesterday's mistakes before learning anything new.",
}

// StaticTip picks an offline tip for language, rotating by day of year so
// the same tip is shown all day.
func StaticTip(language string, day time.Time) string {
	list, ok := staticTips[strings.ToLower(language)]
	if !ok {
		list = genericTips
	}
	return list[day.YearDay()%len(list)]
}
