package export

import (
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"github.com/matheuskafuri/ainews/internal/api"
	"github.com/matheuskafuri/ainews/internal/display"
	"github.com/matheuskafuri/ainews/internal/hotness"
)

type Format string

const (
	RSS  Format = "rss"
	Atom Format = "atom"
	JSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case RSS, Atom, JSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (want rss, atom or json)", s)
}

// Meta describes the exported feed itself.
type Meta struct {
	Title       string
	Link        string
	Description string
	Created     time.Time
}

// Build converts articles into a feed. Articles without a publication date
// take the feed's creation time.
func Build(meta Meta, articles []api.Article) *feeds.Feed {
	if meta.Created.IsZero() {
		meta.Created = time.Now()
	}
	f := &feeds.Feed{
		Title:       meta.Title,
		Link:        &feeds.Link{Href: meta.Link},
		Description: meta.Description,
		Created:     meta.Created,
	}
	for _, a := range articles {
		f.Items = append(f.Items, item(a, meta.Created))
	}
	return f
}

func item(a api.Article, fallback time.Time) *feeds.Item {
	created := a.PublishedAt.Time
	if created.IsZero() {
		created = fallback
	}
	id := a.URL
	if id == "" {
		id = "tag:ainews," + fallback.Format("2006") + ":article/" + strconv.FormatInt(a.ID, 10)
	}

	desc := display.PlainText(a.Summary)
	var meta []string
	if a.Source != "" {
		meta = append(meta, a.Source)
	}
	meta = append(meta, "hotness "+hotness.Percent(a.HotnessScore)+" ("+hotness.Label(a.HotnessScore)+")")
	if kws := display.TopKeywords(a.Keywords, display.MaxKeywords); len(kws) > 0 {
		meta = append(meta, strings.Join(kws, ", "))
	}
	if desc != "" {
		desc += "\n\n"
	}
	desc += strings.Join(meta, " · ")

	it := &feeds.Item{
		Id:          id,
		Title:       a.Title,
		Link:        &feeds.Link{Href: a.URL},
		Description: desc,
		Created:     created,
	}
	if a.Author != "" {
		it.Author = &feeds.Author{Name: a.Author}
	}
	if a.ImageURL != "" {
		it.Enclosure = &feeds.Enclosure{Url: a.ImageURL, Type: imageType(a.ImageURL), Length: "0"}
	}
	return it
}

func imageType(u string) string {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	switch strings.ToLower(path.Ext(u)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	}
	return "image/jpeg"
}

// Write renders articles in format to w.
func Write(w io.Writer, format Format, meta Meta, articles []api.Article) error {
	f := Build(meta, articles)
	var err error
	switch format {
	case RSS:
		err = f.WriteRss(w)
	case Atom:
		err = f.WriteAtom(w)
	case JSON:
		err = f.WriteJSON(w)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return fmt.Errorf("writing %s feed: %w", format, err)
	}
	return nil
}
