package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/ainews/internal/api"
	"github.com/matheuskafuri/ainews/internal/browser"
	"github.com/matheuskafuri/ainews/internal/config"
	"github.com/matheuskafuri/ainews/internal/feed"
	"github.com/matheuskafuri/ainews/internal/filter"
)

type focusPane int

const (
	focusList focusPane = iota
	focusPreview
)

type mode int

const (
	modeHome mode = iota
	modeNormal
	modeSearch
	modeResults
	modeTrending
	modeFilter
	modeHelp
)

const toastDuration = 4 * time.Second

type App struct {
	cfg      *config.Config
	store    *filter.Store
	source   *feed.Source
	loader   *feed.Loader
	searcher *feed.Searcher
	logger   *slog.Logger

	cursor        int
	focus         focusPane
	mode          mode
	prevMode      mode
	previewScroll int

	width  int
	height int

	// Sub-components
	searchInput textinput.Model
	spinner     spinner.Model
	panel       filterPanel

	// State
	feedReset       bool
	resultsCursor   int
	trendCursor     int
	overview        feed.Overview
	overviewLoading bool
	scraping        bool
	details         map[int64]api.Article
	toast           toast
	toastSeq        int
	currentDate     string
	unsubscribe     func()
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Cfg        *config.Config
	ConfigPath string
	Store      *filter.Store
	Source     *feed.Source
	Logger     *slog.Logger
	StartHome  bool
}

func NewApp(opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "Search AI news..."
	ti.Prompt = searchPromptStyle.Render("/ ")
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	startMode := modeNormal
	if opts.StartHome {
		startMode = modeHome
	}

	a := &App{
		cfg:         opts.Cfg,
		store:       opts.Store,
		source:      opts.Source,
		loader:      feed.NewLoader(opts.Source, opts.Cfg.PageSize),
		searcher:    feed.NewSearcher(opts.Source, opts.Cfg.SearchPageSize),
		logger:      logger,
		mode:        startMode,
		searchInput: ti,
		spinner:     sp,
		panel:       newFilterPanel(opts.Cfg.Sources, opts.Cfg.Categories),
		details:     make(map[int64]api.Article),
		currentDate: time.Now().Format("Jan 2"),
	}

	// the loader resets itself first; the app only notes that it must
	// refetch page 1 once the current key has been handled
	unsubLoader := a.store.Subscribe(a.loader.Observe)
	unsubApp := a.store.Subscribe(func(prev, next filter.State) {
		if filter.ResetsFeed(prev, next) {
			a.feedReset = true
		}
	})
	a.unsubscribe = func() {
		unsubApp()
		unsubLoader()
	}
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadFirstPage(), a.loadOverview(), a.spinner.Tick)
}

func (a *App) timeout() time.Duration {
	return a.cfg.TimeoutDuration()
}

// loadFirstPage starts page 1 for the current filters.
func (a *App) loadFirstPage() tea.Cmd {
	a.cursor = 0
	a.previewScroll = 0
	return a.fetchPage(a.loader.Begin(a.store.State(), 1))
}

// fetchPage runs req off the event loop; the request carries the filter
// snapshot it was issued under so Update can drop it if that is outdated.
func (a *App) fetchPage(req feed.Request) tea.Cmd {
	l := a.loader
	timeout := a.timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return pageLoadedMsg{res: l.Fetch(ctx, req)}
	}
}

func (a *App) maybeLoadMore() tea.Cmd {
	if !nearEnd(a.cursor, a.loader.Len()) {
		return nil
	}
	req, ok := a.loader.BeginMore(a.store.State())
	if !ok {
		return nil
	}
	return a.fetchPage(req)
}

func (a *App) loadOverview() tea.Cmd {
	a.overviewLoading = true
	src := a.source
	timeout := a.timeout()
	trending, keywords := a.cfg.TrendingLimit, a.cfg.KeywordsLimit
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return overviewMsg{overview: src.LoadOverview(ctx, trending, keywords)}
	}
}

func (a *App) doRefresh() tea.Cmd {
	req := a.loader.Begin(a.store.State(), 1)
	a.cursor = 0
	src := a.source
	l := a.loader
	timeout := a.timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		// the request has already begun, so it must reach Apply even when
		// the cache could not be invalidated
		warn := src.Refresh(ctx, req.State, req.PerPage)
		return pageLoadedMsg{res: l.Fetch(ctx, req), warn: warn}
	}
}

func (a *App) doScrape() tea.Cmd {
	a.scraping = true
	src := a.source
	timeout := a.timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := src.TriggerScrape(ctx)
		if err != nil {
			return scrapeDoneMsg{err: err}
		}
		return scrapeDoneMsg{message: res.Message}
	}
}

// afterScrape drops what the scrape made outdated and reloads it.
func (a *App) afterScrape() tea.Cmd {
	req := a.loader.Begin(a.store.State(), 1)
	a.cursor = 0
	src := a.source
	l := a.loader
	timeout := a.timeout()
	return tea.Batch(func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		// the request has already begun, so it must reach Apply even when
		// the cache could not be invalidated
		warn := src.AfterScrape(ctx, req.State, req.PerPage)
		return pageLoadedMsg{res: l.Fetch(ctx, req), warn: warn}
	}, a.loadOverview())
}

func (a *App) runSearch(query string) tea.Cmd {
	a.store.SetSearchQuery(query)
	req := a.searcher.Begin(query)
	a.resultsCursor = 0
	s := a.searcher
	timeout := a.timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return searchDoneMsg{req: req, res: s.Fetch(ctx, req)}
	}
}

func (a *App) loadArticle(id int64) tea.Cmd {
	src := a.source
	timeout := a.timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		art, err := src.Article(ctx, id)
		return articleLoadedMsg{article: art, err: err}
	}
}

func openBrowserCmd(url string) tea.Cmd {
	return func() tea.Msg {
		err := browser.Open(url)
		if err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}

func (a *App) showToast(text string, isErr bool) tea.Cmd {
	a.toastSeq++
	a.toast = toast{id: a.toastSeq, text: text, isErr: isErr}
	id := a.toastSeq
	return tea.Tick(toastDuration, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
}

func (a *App) showError(err error) tea.Cmd {
	a.logger.Warn("request failed", "error", err)
	return a.showToast(api.ErrorMessage(err), true)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		_, cmd := a.handleKey(msg)
		if a.feedReset {
			a.feedReset = false
			cmd = tea.Batch(cmd, a.loadFirstPage())
		}
		return a, cmd

	case pageLoadedMsg:
		err := a.loader.Apply(msg.res)
		switch {
		case errors.Is(err, feed.ErrStale):
			return a, nil
		case err != nil:
			return a, a.showError(err)
		}
		if n := a.loader.Len(); a.cursor >= n {
			a.cursor = max(0, n-1)
		}
		if msg.warn != nil {
			return a, a.showError(msg.warn)
		}
		return a, nil

	case searchDoneMsg:
		if err := a.searcher.Apply(msg.req, msg.res); err != nil && !errors.Is(err, feed.ErrStale) {
			return a, a.showError(err)
		}
		return a, nil

	case overviewMsg:
		a.overviewLoading = false
		// keep previous parts that failed this time
		if msg.overview.Stats != nil {
			a.overview.Stats = msg.overview.Stats
		}
		if msg.overview.Trending != nil {
			a.overview.Trending = msg.overview.Trending
		}
		if msg.overview.Keywords != nil {
			a.overview.Keywords = msg.overview.Keywords
		}
		a.overview.Errors = msg.overview.Errors
		if len(msg.overview.Errors) > 0 {
			return a, a.showError(msg.overview.Errors[0])
		}
		return a, nil

	case scrapeDoneMsg:
		if msg.err != nil {
			a.scraping = false
			return a, a.showError(msg.err)
		}
		text := msg.message
		if text == "" {
			text = "Scrape started"
		}
		return a, tea.Batch(
			a.showToast(text, false),
			tea.Tick(a.cfg.ScrapeDelay(), func(time.Time) tea.Msg { return scrapeSettledMsg{} }),
		)

	case scrapeSettledMsg:
		a.scraping = false
		return a, a.afterScrape()

	case articleLoadedMsg:
		if msg.err != nil {
			return a, a.showError(msg.err)
		}
		a.details[msg.article.ID] = *msg.article
		return a, nil

	case configReloadedMsg:
		a.cfg.Sources = msg.cfg.Sources
		a.cfg.Categories = msg.cfg.Categories
		a.panel.setOptions(msg.cfg.Sources, msg.cfg.Categories)
		return a, a.showToast("Config reloaded", false)

	case errMsg:
		return a, a.showError(msg.err)

	case toastExpiredMsg:
		if msg.id == a.toast.id {
			a.toast = toast{}
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	}

	// Mode-specific handling
	switch a.mode {
	case modeHome:
		return a.handleHomeKey(msg)
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeResults:
		return a.handleResultsKey(msg)
	case modeTrending:
		return a.handleTrendingKey(msg)
	case modeFilter:
		return a.handleFilterKey(msg)
	case modeHelp:
		if msg.String() == "?" || msg.String() == "esc" || msg.String() == "q" {
			a.mode = a.prevMode
		}
		return a, nil
	}

	if cmd, ok := a.handleCommonKey(msg); ok {
		return a, cmd
	}

	// Normal mode
	articles := a.loader.Articles()
	switch msg.String() {
	case "j", "down":
		if a.focus == focusList && a.cursor < len(articles)-1 {
			a.cursor++
			a.previewScroll = 0
			return a, a.maybeLoadMore()
		} else if a.focus == focusPreview {
			a.previewScroll++
		}
		return a, nil
	case "k", "up":
		if a.focus == focusList && a.cursor > 0 {
			a.cursor--
			a.previewScroll = 0
		} else if a.focus == focusPreview && a.previewScroll > 0 {
			a.previewScroll--
		}
		return a, nil
	case "G", "end":
		if len(articles) > 0 {
			a.cursor = len(articles) - 1
			return a, a.maybeLoadMore()
		}
		return a, nil
	case "g", "home":
		a.cursor = 0
		return a, nil
	case "tab":
		if a.focus == focusList {
			a.focus = focusPreview
		} else {
			a.focus = focusList
		}
		return a, nil
	case "o", "enter":
		if a.cursor < len(articles) {
			return a, openBrowserCmd(articles[a.cursor].URL)
		}
		return a, nil
	case "i":
		if a.cursor < len(articles) {
			return a, a.loadArticle(articles[a.cursor].ID)
		}
		return a, nil
	case "s":
		a.store.SetSortBy(a.store.State().SortBy.Next())
		return a, nil
	case "r":
		return a, tea.Batch(a.doRefresh(), a.loadOverview())
	case "R":
		if req, ok := a.loader.BeginRetry(); ok {
			return a, a.fetchPage(req)
		}
		return a, nil
	case "u":
		if a.scraping {
			return a, nil
		}
		return a, a.doScrape()
	}

	return a, nil
}

// handleCommonKey covers keys that behave the same in every list view.
func (a *App) handleCommonKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "q":
		return tea.Quit, true
	case "/":
		a.prevMode = a.mode
		a.mode = modeSearch
		a.searchInput.SetValue(a.store.State().SearchQuery)
		a.searchInput.CursorEnd()
		a.searchInput.Focus()
		return textinput.Blink, true
	case "t":
		a.mode = modeTrending
		if a.overview.Trending == nil && !a.overviewLoading {
			return a.loadOverview(), true
		}
		return nil, true
	case "f":
		a.prevMode = a.mode
		a.mode = modeFilter
		return nil, true
	case "h":
		a.mode = modeHome
		return nil, true
	case "?":
		a.prevMode = a.mode
		a.mode = modeHelp
		return nil, true
	}
	return nil, false
}

func (a *App) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "e", "enter", "esc":
		a.mode = modeNormal
		return a, nil
	case "h":
		return a, nil
	}
	if cmd, ok := a.handleCommonKey(msg); ok {
		return a, cmd
	}
	return a, nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = a.prevMode
		if a.mode == modeSearch || a.mode == modeResults && a.searcher.Result().Query == "" {
			a.mode = modeNormal
		}
		a.searchInput.Blur()
		return a, nil
	case "enter":
		a.searchInput.Blur()
		query := strings.TrimSpace(a.searchInput.Value())
		if query == "" {
			a.store.SetSearchQuery("")
			a.searcher.Begin("")
			a.mode = modeNormal
			return a, nil
		}
		a.mode = modeResults
		return a, a.runSearch(query)
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	return a, cmd
}

func (a *App) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	res := a.searcher.Result()
	switch msg.String() {
	case "esc":
		a.store.SetSearchQuery("")
		a.searcher.Begin("")
		a.mode = modeNormal
		return a, nil
	case "j", "down":
		if a.resultsCursor < len(res.Articles)-1 {
			a.resultsCursor++
		}
		return a, nil
	case "k", "up":
		if a.resultsCursor > 0 {
			a.resultsCursor--
		}
		return a, nil
	case "o", "enter":
		if a.resultsCursor < len(res.Articles) {
			return a, openBrowserCmd(res.Articles[a.resultsCursor].URL)
		}
		return a, nil
	case "R":
		if res.Err != nil {
			return a, a.runSearch(res.Query)
		}
		return a, nil
	}
	if cmd, ok := a.handleCommonKey(msg); ok {
		return a, cmd
	}
	return a, nil
}

func (a *App) handleTrendingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "esc", "e":
		a.mode = modeNormal
		return a, nil
	case "j", "down":
		if a.trendCursor < len(a.overview.Trending)-1 {
			a.trendCursor++
		}
		return a, nil
	case "k", "up":
		if a.trendCursor > 0 {
			a.trendCursor--
		}
		return a, nil
	case "o", "enter":
		if a.trendCursor < len(a.overview.Trending) {
			return a, openBrowserCmd(a.overview.Trending[a.trendCursor].URL)
		}
		return a, nil
	case "r", "R":
		return a, a.loadOverview()
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(key[0] - '1')
		if idx < len(a.overview.Keywords) {
			kw := a.overview.Keywords[idx].Keyword
			a.searchInput.SetValue(kw)
			a.prevMode = modeTrending
			a.mode = modeResults
			return a, a.runSearch(kw)
		}
		return a, nil
	case "t":
		return a, nil
	}
	if cmd, ok := a.handleCommonKey(msg); ok {
		return a, cmd
	}
	return a, nil
}

func (a *App) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "f", "q":
		a.mode = a.prevMode
		if a.mode == modeFilter || a.mode == modeHelp {
			a.mode = modeNormal
		}
		return a, nil
	case "j", "down", "tab":
		a.panel.move(1)
		return a, nil
	case "k", "up", "shift+tab":
		a.panel.move(-1)
		return a, nil
	case " ", "enter":
		a.panel.activate(a.store)
		return a, nil
	case "left", "h", "-":
		a.panel.adjust(a.store, -1)
		return a, nil
	case "right", "l", "+":
		a.panel.adjust(a.store, 1)
		return a, nil
	case "x":
		a.store.Reset()
		return a, nil
	}
	return a, nil
}

func (a *App) withBottomBar(content string, hints string) string {
	bar := renderBottomBar(a.toast, hints, a.width)
	lines := strings.Split(content, "\n")
	for len(lines) < a.height-1 {
		lines = append(lines, "")
	}
	if len(lines) >= a.height {
		lines = lines[:a.height-1]
	}
	lines = append(lines, bar)
	return strings.Join(lines, "\n")
}

func (a *App) renderHeader() string {
	headerLeft := headerStyle.Render("ainews")
	if st := a.overview.Stats; st != nil {
		headerLeft += "  " + renderStats(st)
	}
	headerRight := headerDateStyle.Render(a.currentDate)
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	return headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  ainews")
	}

	switch a.mode {
	case modeHome:
		return a.withBottomBar(
			renderHomeScreen(a.width, a.height-1, a.overview, a.overviewLoading),
			"e news  t trending  / search  f filters  q quit",
		)
	case modeHelp:
		return a.withBottomBar(a.renderHelp(), "? close  q quit")
	case modeFilter:
		return a.withBottomBar(a.panel.render(a.store.State(), a.width, a.height-1), "live filtering · esc close")
	case modeTrending:
		body := renderTrending(a.overview, a.trendCursor, a.width, a.height-6, a.overviewLoading)
		return a.withBottomBar(
			lipgloss.JoinVertical(lipgloss.Left, a.renderHeader(), panelHeadingStyle.Render(" Trending now"), body),
			"j/k move  o open  1-9 keyword  r reload  esc back",
		)
	}

	// Layout calculations
	headerHeight := 1
	filterHeight := 1
	statusHeight := 1
	contentHeight := a.height - headerHeight - filterHeight - statusHeight - 4 // borders

	listWidth := int(float64(a.width) * 0.4)
	previewWidth := a.width - listWidth - 1 // gap

	if contentHeight < 3 {
		contentHeight = 3
	}

	st := a.store.State()
	header := a.renderHeader()

	var (
		articles []api.Article
		cursor   int
		opts     listOpts
		info     statusInfo
		bar      string
	)

	if a.mode == modeResults || a.mode == modeSearch && a.prevMode == modeResults {
		res := a.searcher.Result()
		articles, cursor = res.Articles, a.resultsCursor
		if a.searcher.Loading() {
			opts.footer = "Searching..."
		}
		summary := res.Summary()
		if res.Query != "" {
			summary = fmt.Sprintf("%q · %s", res.Query, summary)
		}
		bar = lipgloss.NewStyle().Background(colorSurface).Width(a.width).PaddingLeft(1).Render(summary)
		info = statusInfo{count: len(articles), label: "search", hints: "/ new search  o open  esc back"}
		if a.searcher.Loading() {
			info.busy = "searching"
		}
	} else {
		snap := a.loader.Snapshot()
		articles, cursor = snap.Articles, a.cursor
		switch {
		case snap.Loading && len(snap.Articles) == 0:
			opts.footer = "Loading articles..."
		case snap.Loading:
			opts.footer = "Loading more..."
		case snap.Err != nil:
			opts.footer = "Failed to load. Press R to retry."
		case !snap.HasMore && len(snap.Articles) > 0:
			opts.footer = "No more articles"
		}
		bar = renderFilterBar(st, a.width)
		info = statusInfo{
			count:   len(articles),
			page:    snap.Page,
			label:   filterLabel(st),
			hasMore: snap.HasMore,
			hints:   "/ search  t trending  f filter  u scrape  ? help",
		}
		if snap.Loading {
			info.busy = "loading"
		}
	}
	if a.scraping {
		info.busy = "scraping"
	}

	// Search bar replaces the filter bar while typing
	if a.mode == modeSearch {
		bar = a.searchInput.View()
		info.hints = "enter search  esc cancel"
	}

	// List pane
	innerListW := listWidth - 4 // border + padding
	listContent := renderList(articles, cursor, contentHeight, innerListW, opts)

	var listPane string
	if a.focus == focusList {
		listPane = listPaneActiveStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	} else {
		listPane = listPaneStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	}

	// Preview pane
	var selected *api.Article
	if cursor < len(articles) {
		art := articles[cursor]
		if fresh, ok := a.details[art.ID]; ok {
			art = fresh
		}
		selected = &art
	}
	innerPreviewW := previewWidth - 4
	previewContent := renderPreview(selected, st, innerPreviewW, contentHeight, a.previewScroll)

	var previewPane string
	if a.focus == focusPreview {
		previewPane = previewPaneActiveStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	} else {
		previewPane = previewPaneStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	}

	// Join panes
	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)

	status := renderStatusBar(info, a.toast, a.spinner.View()+" ", a.width)

	return lipgloss.JoinVertical(lipgloss.Left, header, bar, content, status)
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("ainews")
	dim := helpDimStyle

	help := title + dim.Render(" · Keyboard Shortcuts") + "\n\n" +
		dim.Render("Navigation") + "\n" +
		"  j/k, ↑/↓     Navigate article list\n" +
		"  g/G           Jump to top / bottom\n" +
		"  tab           Switch focus between list and preview\n\n" +
		dim.Render("Actions") + "\n" +
		"  o, enter      Open article in browser\n" +
		"  i             Reload article details\n" +
		"  /             Search articles\n" +
		"  t             Trending articles and keywords\n" +
		"  f             Filter panel\n" +
		"  s             Cycle sort order\n" +
		"  r             Refresh feed and stats\n" +
		"  u             Trigger a backend scrape\n" +
		"  R             Retry after an error\n\n" +
		dim.Render("Filter Panel") + "\n" +
		"  j/k           Move between options\n" +
		"  space/enter   Toggle option\n" +
		"  ←/→           Adjust hotness or sort\n" +
		"  x             Reset to defaults\n" +
		"  esc, f        Close panel\n\n" +
		dim.Render("General") + "\n" +
		"  h             Go to home screen\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c    Quit"

	card := helpCardStyle.Render(help)

	return lipgloss.Place(a.width, a.height-1, lipgloss.Center, lipgloss.Center, card)
}

// Close detaches the app from the filter store.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

// Run starts the TUI application and, when a config path is known, reloads
// the source and category lists whenever that file changes.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	defer app.Close()
	p := tea.NewProgram(app, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if opts.ConfigPath != "" {
		go func() {
			err := config.Watch(ctx, opts.ConfigPath, app.logger,
				func(c *config.Config) { p.Send(configReloadedMsg{cfg: c}) },
				func(err error) { p.Send(errMsg{err: fmt.Errorf("reloading config: %w", err)}) },
			)
			if err != nil {
				app.logger.Warn("config watch disabled", "error", err)
			}
		}()
	}

	_, err := p.Run()
	return err
}
