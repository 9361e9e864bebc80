package tui

import (
	"github.com/matheuskafuri/ainews/internal/api"
	"github.com/matheuskafuri/ainews/internal/config"
	"github.com/matheuskafuri/ainews/internal/feed"
)

// pageLoadedMsg carries a page result. warn is a failure that happened
// alongside the load, such as a cache invalidation, and does not fail it.
type pageLoadedMsg struct {
	res  feed.Result
	warn error
}

type searchDoneMsg struct {
	req feed.SearchRequest
	res feed.SearchResult
}

type overviewMsg struct {
	overview feed.Overview
}

type scrapeDoneMsg struct {
	message string
	err     error
}

// scrapeSettledMsg fires once the backend has had time to store what the
// scrape found.
type scrapeSettledMsg struct{}

type articleLoadedMsg struct {
	article *api.Article
	err     error
}

type toastExpiredMsg struct {
	id int
}

type configReloadedMsg struct {
	cfg *config.Config
}

type errMsg struct {
	err error
}
