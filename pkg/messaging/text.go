package messaging

import "strings"

// SplitText breaks text into messages no longer than MaxTextRunes, cutting at line
// breaks when a line fits and mid-line otherwise.
func SplitText(text string) []Message {
	if len([]rune(text)) <= MaxTextRunes {
		return []Message{Text(text)}
	}

	var out []Message
	var current []rune
	flush := func() {
		if len(current) > 0 {
			out = append(out, Text(strings.TrimRight(string(current), "\n")))
			current = current[:0]
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		r := []rune(line)
		if len(current)+len(r) <= MaxTextRunes {
			current = append(current, r...)
			continue
		}
		flush()
		for len(r) > MaxTextRunes {
			out = append(out, Text(string(r[:MaxTextRunes])))
			r = r[MaxTextRunes:]
		}
		current = append(current, r...)
	}
	flush()
	return out
}
