package display

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/matheuskafuri/ainews/internal/api"
)

// MaxKeywords is how many keyword chips an article card shows.
const MaxKeywords = 5

// PlainText turns an HTML or plain summary into a single line of text.
// Unparsable markup falls back to the input with whitespace collapsed.
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return collapse(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapse(s)
	}
	doc.Find("script, style").Remove()
	return collapse(doc.Text())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate shortens s to n runes, ending in "..." when cut.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// TimeAgo renders t relative to now. The zero time, used for missing or
// unparsable dates, reads "Recently".
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return "Recently"
	}
	d := now.Sub(t)
	if d < 0 {
		return "just now"
	}
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour") + " ago"
	case d < 30*24*time.Hour:
		return plural(int(d.Hours()/24), "day") + " ago"
	default:
		return t.Format("Jan 2, 2006")
	}
}

// Short is the compact form of TimeAgo used in list rows.
func Short(t, now time.Time) string {
	if t.IsZero() {
		return "recently"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}

// TopKeywords returns at most n keywords, skipping blanks and duplicates.
func TopKeywords(kws []string, n int) []string {
	out := make([]string, 0, min(len(kws), max(n, 0)))
	seen := make(map[string]bool, len(kws))
	for _, k := range kws {
		if len(out) >= n {
			break
		}
		k = strings.TrimSpace(k)
		if k == "" || seen[strings.ToLower(k)] {
			continue
		}
		seen[strings.ToLower(k)] = true
		out = append(out, k)
	}
	return out
}

// FormatCount groups digits with commas: 1234567 -> "1,234,567".
func FormatCount(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// SentimentLabel names a sentiment. Unknown values read as neutral.
func SentimentLabel(s api.Sentiment) string {
	switch s {
	case api.SentimentPositive:
		return "positive"
	case api.SentimentNegative:
		return "negative"
	case api.SentimentNeutral:
		return "neutral"
	}
	return ""
}

// SentimentIcon is a one-character marker for list rows.
func SentimentIcon(s api.Sentiment) string {
	switch s {
	case api.SentimentPositive:
		return "+"
	case api.SentimentNegative:
		return "-"
	}
	return "·"
}

// Engagement summarizes the counters of an article on one line, skipping
// zero counters.
func Engagement(a api.Article) string {
	parts := make([]string, 0, 5)
	add := func(n int, unit string) {
		if n > 0 {
			parts = append(parts, FormatCount(n)+" "+unit)
		}
	}
	add(a.Views, "views")
	add(a.Comments, "comments")
	add(a.Shares, "shares")
	add(a.Likes, "likes")
	add(a.Citations, "citations")
	return strings.Join(parts, " · ")
}
