package web

import (
	"embed"
	"html/template"
	"io"
	"net/url"
	"time"

	"github.com/vadimtrunov/PickSomething/internal/card"
	"github.com/vadimtrunov/PickSomething/internal/core"
	"github.com/vadimtrunov/PickSomething/internal/session"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// categoryButton is one category link on the page.
type categoryButton struct {
	Category core.Category
	Label    string
	Icon     string
	Accent   string
	URL      string
	Selected bool
	Disabled bool
}

type pageData struct {
	Keyword  string
	State    session.State
	Buttons  []categoryButton
	Card     *card.Card
	Another  string
	Notice   *core.Notice
	Year     int
	IsEmpty  bool
	IsReady  bool
	Resolved bool
}

var buttonThemes = map[core.Category]struct{ label, icon, accent string }{
	core.CategoryMovie: {"Movie", "🎬", "#e11d48"},
	core.CategoryTV:    {"Tv", "📺", "#7c3aed"},
	core.CategoryBook:  {"Book", "📖", "#059669"},
}

func newPageData(sel selection) pageData {
	snap := sel.snap
	d := pageData{
		Keyword:  snap.Keyword,
		State:    snap.State,
		Card:     sel.card,
		Notice:   sel.notice,
		Year:     time.Now().Year(),
		IsEmpty:  snap.State == session.StateEmpty,
		Resolved: snap.State == session.StateResolved && sel.card != nil,
	}
	d.IsReady = !d.IsEmpty && !d.Resolved

	for _, c := range core.Categories() {
		theme := buttonThemes[c]
		d.Buttons = append(d.Buttons, categoryButton{
			Category: c,
			Label:    theme.label,
			Icon:     theme.icon,
			Accent:   theme.accent,
			URL:      pageURL(snap.Keyword, c),
			Selected: c == snap.Category,
			Disabled: snap.Keyword == "",
		})
	}
	if d.Resolved {
		d.Another = pageURL(snap.Keyword, snap.Category)
	}
	return d
}

func pageURL(keyword string, category core.Category) string {
	v := url.Values{}
	v.Set("q", keyword)
	v.Set("category", category.String())
	return "/?" + v.Encode()
}

func renderPage(w io.Writer, d pageData) error {
	return pageTemplate.Execute(w, d)
}
