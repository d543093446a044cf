package app

import (
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict     = bluemonday.StrictPolicy()
	blockTags  = regexp.MustCompile(`(?i)<\s*(br|/p|/div|/li|/h[1-6])\s*/?>`)
	blankLines = regexp.MustCompile(`\n{3,}`)
	spaces     = regexp.MustCompile(`[ \t]+`)
)

// plainText reduces rich text to plain text, keeping paragraph breaks.
func plainText(s string) string {
	s = blockTags.ReplaceAllString(s, "$0\n")
	s = html.UnescapeString(strict.Sanitize(s))
	s = spaces.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}

// cellText is plainText folded onto one line for table cells.
func cellText(s string) string {
	return strings.Join(strings.Fields(plainText(s)), " ")
}

// formatDate renders a unix timestamp in seconds as DD/MM/YYYY in local
// time. Zero renders as empty.
func formatDate(secs int64) string {
	if secs <= 0 {
		return ""
	}
	return time.Unix(secs, 0).Local().Format("02/01/2006")
}

// detailMarkdown renders a row's fields as a markdown document.
func detailMarkdown(title string, fields []DetailField) string {
	var b strings.Builder
	if title != "" {
		b.WriteString("# " + escapeMarkdown(title) + "\n\n")
	}
	for _, f := range fields {
		value := f.Value
		if f.HTML {
			value = plainText(value)
		}
		if value == "" {
			value = "_none_"
		} else {
			value = escapeMarkdown(value)
		}
		if strings.Contains(value, "\n") {
			b.WriteString("\n## " + f.Label + "\n\n" + value + "\n\n")
		} else {
			b.WriteString("- **" + f.Label + ":** " + value + "\n")
		}
	}
	return b.String()
}

var markdownSpecials = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "#", `\#`, "[", `\[`, "]", `\]`,
)

func escapeMarkdown(s string) string {
	return markdownSpecials.Replace(s)
}
