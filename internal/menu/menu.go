// Package menu fetches the cooperative's weekly cafeteria menus and parses
// them into a per-restaurant, per-weekday table. The result is display-only
// data; the reservation core never depends on it.
package menu

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"github.com/handicapstudent/ppt-project/internal/config"
	"github.com/handicapstudent/ppt-project/internal/models"
)

// Restaurant codes used by the coop site.
var codeToName = map[string]string{
	"18": "한빛식당",
	"19": "별빛식당",
	"20": "은하수식당",
}

// defaultWeekdays is the fallback when the page carries no weekday header.
var defaultWeekdays = []string{"월요일", "화요일", "수요일", "목요일", "금요일"}

// Fetcher downloads and parses the weekly menu page, caching the result
// and rate-limiting requests so UI repaints cannot hammer the site.
type Fetcher struct {
	url     string
	client  *http.Client
	limiter *rate.Limiter
	ttl     time.Duration
	logger  *zerolog.Logger

	mu        sync.Mutex
	cached    models.MenuTable
	cachedDay []string
	fetchedAt time.Time
}

func NewFetcher(cfg config.MenuConfig, logger *zerolog.Logger) *Fetcher {
	return &Fetcher{
		url:     cfg.URL,
		client:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerMin/60.0), 1),
		ttl:     time.Duration(cfg.CacheMinutes) * time.Minute,
		logger:  logger,
	}
}

// FetchWeek returns the cached table while fresh, otherwise downloads and
// reparses the page.
func (f *Fetcher) FetchWeek(ctx context.Context) (models.MenuTable, []string, error) {
	f.mu.Lock()
	if f.cached != nil && time.Since(f.fetchedAt) < f.ttl {
		table, days := f.cached, f.cachedDay
		f.mu.Unlock()
		return table, days, nil
	}
	f.mu.Unlock()

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build menu request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch menu page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("menu page returned status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("parse menu page: %w", err)
	}

	table, days := ParseDocument(doc)

	f.mu.Lock()
	f.cached, f.cachedDay, f.fetchedAt = table, days, time.Now()
	f.mu.Unlock()

	f.logger.Info().Int("restaurants", len(table)).Msg("weekly menu fetched")
	return table, days, nil
}

// ParseDocument extracts the menu table and weekday names from the parsed
// page. Entries live under the "#menu-result" container; searching only that
// subtree keeps unrelated page chrome with a "menu" class out of the table.
// Malformed entries are skipped rather than failing the whole parse.
func ParseDocument(doc *html.Node) (models.MenuTable, []string) {
	root := findFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && attr(n, "id") == "menu-result"
	})
	if root == nil {
		root = doc
	}

	weekdays := parseWeekdays(doc)

	table := models.MenuTable{}
	for _, name := range codeToName {
		week := models.WeekMenu{}
		for _, day := range weekdays {
			week[day] = models.MealMenu{}
		}
		table[name] = week
	}

	for _, menuDiv := range findAllByClass(root, "menu") {
		dataTable := attr(menuDiv, "data-table")
		parts := strings.Split(dataTable, "-")
		if len(parts) != 4 {
			continue
		}
		restaurant, ok := codeToName[parts[0]]
		if !ok {
			continue
		}
		dayIdx, err := strconv.Atoi(parts[3])
		if err != nil || dayIdx < 0 || dayIdx >= len(weekdays) {
			continue
		}
		day := weekdays[dayIdx]

		header := findFirst(menuDiv, func(n *html.Node) bool {
			return n.Type == html.ElementNode && n.Data == "h6" && hasClass(n, "card-header")
		})
		mealName := strings.TrimSpace(text(header))
		if mealName == "" {
			continue
		}

		var dishes []string
		for _, li := range findAll(menuDiv, func(n *html.Node) bool {
			return n.Type == html.ElementNode && n.Data == "li" && hasClass(n, "side")
		}) {
			if d := strings.TrimSpace(text(li)); d != "" {
				dishes = append(dishes, d)
			}
		}

		meal := table[restaurant][day]
		meal[mealName] = append(meal[mealName], strings.Join(dishes, "/"))
	}

	return table, weekdays
}

// parseWeekdays pulls day names out of ".weekday-title" headers, e.g.
// "9/1(월요일)" -> "월요일".
func parseWeekdays(doc *html.Node) []string {
	var weekdays []string
	for _, th := range findAllByClass(doc, "weekday-title") {
		txt := text(th)
		open := strings.Index(txt, "(")
		end := strings.Index(txt, ")")
		if open >= 0 && end > open {
			weekdays = append(weekdays, txt[open+1:end])
		}
	}
	if len(weekdays) == 0 {
		weekdays = append([]string(nil), defaultWeekdays...)
	}
	return weekdays
}

// --- minimal html.Node helpers ---

func attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if match(node) {
			out = append(out, node)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	if n != nil {
		walk(n)
	}
	return out
}

func findAllByClass(n *html.Node, class string) []*html.Node {
	return findAll(n, func(node *html.Node) bool {
		return node.Type == html.ElementNode && hasClass(node, class)
	})
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	all := findAll(n, match)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

func text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return b.String()
}
