package fetcher

import (
	"context"
	"errors"
	"fmt"
	mathrand "math/rand"
	"net/url"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"auctionhunter/config"
	"auctionhunter/helpers"
	"auctionhunter/internal/listing"
	"auctionhunter/logger"
	pkgerr "auctionhunter/pkg/errors"
	"auctionhunter/services/cache"
)

const source = "ebay"

// Challenge-page markers. Any of these in the rendered page title or
// body means the bot defense fired and the source must be embargoed.
var blockedMarkers = []string{"Pardon", "Checking", "Access Denied"}

// stealthScript masks the headless fingerprint before page scripts run.
const stealthScript = `
	Object.defineProperty(navigator, 'webdriver', {get: () => undefined});
	Object.defineProperty(navigator, 'plugins', {get: () => [1, 2, 3]});
`

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Result cards across the markup generations the marketplace serves.
const cardSelector = ".srp-results .s-item, .srp-results .s-card, li.s-item, div.s-card"

// The marketplace pads thin result pages with template cards whose
// item id is literally 123456.
var placeholderHref = regexp.MustCompile(`/itm/123456(\D|$)`)

// Options narrow one search.
type Options struct {
	MaxResults  int
	MaxPrice    listing.Cents     // 0 means no cap
	Condition   listing.Condition // empty means any condition
	AuctionOnly bool
}

// Marketplace codes for the LH_ItemCondition search parameter.
var conditionCodes = map[listing.Condition]string{
	listing.ConditionNew:      "1000",
	listing.ConditionUsed:     "3000",
	listing.ConditionForParts: "7000",
}

// Fetcher renders marketplace search pages and splits them into raw
// listing fragments. Browser sessions are a bounded pool; every
// acquire is released on all paths.
type Fetcher struct {
	searchURL string
	chromeBin string
	timeout   time.Duration
	minDelay  time.Duration
	maxDelay  time.Duration
	sessions  chan struct{}
	blockList *cache.BlockList
	retry     *helpers.RetryConfig
	log       *logger.Logger
}

// New creates a Fetcher from configuration. blockList may be nil, in
// which case no embargo is kept between runs.
func New(cfg *config.Config, blockList *cache.BlockList) *Fetcher {
	log := logger.ForFetcher(source)
	return &Fetcher{
		searchURL: cfg.EbaySearchURL,
		chromeBin: cfg.ChromeBin,
		timeout:   cfg.FetchTimeout,
		minDelay:  cfg.MinActionDelay,
		maxDelay:  cfg.MaxActionDelay,
		sessions:  make(chan struct{}, cfg.BrowserSessions),
		blockList: blockList,
		retry: &helpers.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   cfg.RetryBaseDelay,
			Log:         log,
			Retryable:   func(err error) bool { return !pkgerr.IsBlocked(err) },
		},
		log: log,
	}
}

// SearchURL builds the search page URL for a query. Results come back
// sorted by soonest-ending.
func (f *Fetcher) SearchURL(query string, opts Options) string {
	params := url.Values{}
	params.Set("_nkw", query)
	params.Set("_sop", "1")
	if opts.AuctionOnly {
		params.Set("LH_Auction", "1")
	}
	if opts.MaxResults > 0 {
		params.Set("_ipg", strconv.Itoa(min(opts.MaxResults, 100)))
	}
	if opts.MaxPrice > 0 {
		params.Set("_udhi", fmt.Sprintf("%.2f", opts.MaxPrice.Dollars()))
	}
	if code, ok := conditionCodes[opts.Condition]; ok {
		params.Set("LH_ItemCondition", code)
	}
	return f.searchURL + "?" + params.Encode()
}

// Fetch returns raw result-card fragments for the query in native
// result order. A plain HTTP fetch is tried first; a browser session
// is only spun up when that fails or comes back challenged.
func (f *Fetcher) Fetch(ctx context.Context, query string, opts Options) ([]listing.Raw, error) {
	if f.blockList.Blocked(source) {
		return nil, pkgerr.NewBlocked(source, "source is embargoed by a prior challenge").WithStage("fetching")
	}

	pageURL := f.SearchURL(query, opts)
	f.log.Debug().Str("url", pageURL).Msg("fetching search page")

	if raws, err := f.fetchDirect(pageURL, opts); err == nil && len(raws) > 0 {
		f.log.Debug().Int("cards", len(raws)).Msg("direct fetch succeeded")
		return raws, nil
	} else if pkgerr.IsBlocked(err) {
		// Direct fetch tripping the interstitial does not embargo the
		// source; the browser path gets its own chance.
		f.log.Warn().Msg("direct fetch challenged, falling back to browser")
	} else if err != nil {
		f.log.Debug().Err(err).Msg("direct fetch failed, falling back to browser")
	}

	return f.fetchBrowser(ctx, pageURL, opts)
}

// fetchDirect tries the search page over plain HTTP.
func (f *Fetcher) fetchDirect(pageURL string, opts Options) ([]listing.Raw, error) {
	body, err := helpers.FetchWithRandomHeaders(pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}

	if marker := blockedMarker(doc.Find("title").Text(), doc.Text()); marker != "" {
		return nil, pkgerr.NewBlocked(source, "challenge page: "+marker)
	}

	return splitCards(doc, pageURL, opts.MaxResults), nil
}

// fetchBrowser renders the page in a pooled chromedp session. Timeouts
// are retried with exponential backoff; a challenge page embargoes the
// source and fails the run.
func (f *Fetcher) fetchBrowser(ctx context.Context, pageURL string, opts Options) ([]listing.Raw, error) {
	select {
	case f.sessions <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-f.sessions }()

	var raws []listing.Raw
	err := f.retry.Do(ctx, "render search page", func() error {
		html, err := f.renderPage(ctx, pageURL)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return pkgerr.NewTimeout(source, "render timed out", err).WithStage("fetching")
			}
			return err
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return fmt.Errorf("parse rendered page: %w", err)
		}

		if marker := blockedMarker(doc.Find("title").Text(), doc.Text()); marker != "" {
			if blockErr := f.blockList.Block(source); blockErr != nil {
				f.log.Warn().Err(blockErr).Msg("failed to record embargo")
			}
			return pkgerr.NewBlocked(source, "challenge page: "+marker).WithStage("fetching")
		}

		raws = splitCards(doc, pageURL, opts.MaxResults)
		return nil
	})
	if err != nil {
		return nil, err
	}

	f.log.Info().Int("cards", len(raws)).Msg("browser fetch succeeded")
	return raws, nil
}

// renderPage navigates a fresh browser context to the URL and returns
// the rendered document.
func (f *Fetcher) renderPage(ctx context.Context, pageURL string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(userAgent),
	)
	if bin := f.chromeBinary(); bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	runCtx, cancelTimeout := context.WithTimeout(browserCtx, f.timeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
			return err
		}),
		chromedp.Navigate(pageURL),
		chromedp.Sleep(f.actionDelay()),
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight / 2)`, nil),
		chromedp.Sleep(f.actionDelay()),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", err
	}
	return html, nil
}

// actionDelay returns a randomized pause between browser actions.
func (f *Fetcher) actionDelay() time.Duration {
	if f.maxDelay <= f.minDelay {
		return f.minDelay
	}
	return f.minDelay + time.Duration(mathrand.Int63n(int64(f.maxDelay-f.minDelay)))
}

func (f *Fetcher) chromeBinary() string {
	if f.chromeBin != "" {
		return f.chromeBin
	}
	return findChromeBinary()
}

// splitCards extracts result-card fragments in document order.
// Placeholder cards the marketplace pads results with are skipped.
func splitCards(doc *goquery.Document, pageURL string, maxResults int) []listing.Raw {
	var raws []listing.Raw
	doc.Find(cardSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if maxResults > 0 && len(raws) >= maxResults {
			return false
		}

		if href, ok := sel.Find("a[href*='/itm/']").Attr("href"); ok && placeholderHref.MatchString(href) {
			return true
		}

		fragment, err := goquery.OuterHtml(sel)
		if err != nil || strings.TrimSpace(sel.Text()) == "" {
			return true
		}

		raws = append(raws, listing.Raw{
			Source:   source,
			URL:      pageURL,
			Fragment: fragment,
			Position: len(raws),
		})
		return true
	})
	return raws
}

// blockedMarker returns the first challenge marker present in the page
// title or body, or "" when the page looks legitimate.
func blockedMarker(title, body string) string {
	for _, marker := range blockedMarkers {
		if strings.Contains(title, marker) {
			return marker
		}
	}
	// "Checking" appears in legitimate body copy; only Access Denied
	// bodies are conclusive outside the title.
	if strings.Contains(body, "Access Denied") {
		return "Access Denied"
	}
	return ""
}

// findChromeBinary locates a Chrome or Chromium binary on the host.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
