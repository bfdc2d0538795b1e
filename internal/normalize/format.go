package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Cosmetic transforms applied by the forwarder before a message is posted to
// the relay: chat-native markup is rewritten into plain HTML that the display
// client can render directly.
var (
	emojiTag = regexp.MustCompile(`<:([a-zA-Z0-9_]+):(\d+)>`)
	timeTag  = regexp.MustCompile(`<t:(\d+):R>`)
	boldSpan = regexp.MustCompile(`\*\*(.*?)\*\*`)
)

// FormatContent rewrites custom emoji tags into <img> elements pointing at
// the CDN, relative timestamp tags into local clock times, and markdown bold
// into <strong>.
func FormatContent(s string) string {
	s = emojiTag.ReplaceAllString(s,
		`<img src="https://cdn.discordapp.com/emojis/$2.png" alt="$1" style="width:20px;height:20px;vertical-align:middle;" />`)
	s = timeTag.ReplaceAllStringFunc(s, func(match string) string {
		sub := timeTag.FindStringSubmatch(match)
		secs, err := strconv.ParseInt(sub[1], 10, 64)
		if err != nil {
			return match
		}
		return time.Unix(secs, 0).Format("3:04:05 PM")
	})
	s = boldSpan.ReplaceAllString(s, "<strong>$1</strong>")
	return s
}

// FlattenEmbed joins an embed's title, description, and name/value fields
// into one block of text, one line per part.
func FlattenEmbed(title, description string, fields [][2]string) string {
	out := description
	for _, f := range fields {
		out += "\n" + fmt.Sprintf("%s: %s", f[0], f[1])
	}
	if title != "" {
		out = title + "\n" + out
	}
	return out
}
