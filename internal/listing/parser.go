package listing

import (
	"hash/fnv"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"auctionhunter/logger"
	pkgerr "auctionhunter/pkg/errors"
)

// Selectors for eBay result cards. Both the classic .s-item markup and
// the 2024 .s-card markup appear in the wild, so each field tries a
// comma list and takes the first non-empty hit.
const (
	titleSelector     = ".s-item__title, .s-card__title"
	linkSelector      = "a.s-item__link, a.s-card__link, a[href*='/itm/']"
	priceSelector     = ".s-item__price, .s-card__price"
	conditionSelector = ".SECONDARY_INFO, .s-item__subtitle, .s-card__subtitle"
	shippingSelector  = ".s-item__shipping, .s-item__freeXDays, .s-card__shipping"
	timeLeftSelector  = ".s-item__time-left, .s-card__time-left"
	bidsSelector      = ".s-item__bids, .s-card__bids"
	sellerSelector    = ".s-item__seller-info-text, .s-card__seller-info"
)

var (
	itemIDRegexp = regexp.MustCompile(`/itm/(\d+)`)
	itemIDParam  = regexp.MustCompile(`itm=(\d+)`)
	bidsRegexp   = regexp.MustCompile(`(\d+)`)
)

// Parser converts raw result fragments into normalized Listings.
type Parser struct {
	log *logger.Logger
}

// NewParser creates a parser.
func NewParser() *Parser {
	return &Parser{log: logger.Default}
}

// Parse extracts a Listing from a raw fragment. A fragment missing both a
// parsable price and a title yields a parse error; the caller drops the
// listing and continues. Optional fields (bids, time remaining, shipping,
// condition) default rather than fail.
func (p *Parser) Parse(raw Raw) (*Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw.Fragment))
	if err != nil {
		return nil, pkgerr.NewParse(raw.Source, "fragment is not parsable HTML")
	}

	title := extractTitle(doc)
	price, priceOK := extractPrice(doc)

	if title == "" && !priceOK {
		return nil, pkgerr.NewParse(raw.Source, "neither title nor price extractable")
	}

	url := raw.URL
	if href, exists := doc.Find(linkSelector).First().Attr("href"); exists && strings.TrimSpace(href) != "" {
		url = strings.TrimSpace(href)
	}

	l := &Listing{
		ID:           extractID(url, title),
		Source:       raw.Source,
		Title:        title,
		CurrentPrice: price,
		ShippingCost: extractShipping(doc),
		Condition:    ConditionFromText(doc.Find(conditionSelector).First().Text()),
		Seller:       strings.TrimSpace(doc.Find(sellerSelector).First().Text()),
		URL:          url,
		FetchedAt:    time.Now().UTC(),
	}

	if bids, ok := extractBids(doc); ok {
		l.BidCount = &bids
	}
	if left := strings.TrimSpace(doc.Find(timeLeftSelector).First().Text()); left != "" {
		l.TimeRemaining = &left
	}

	return l, nil
}

func extractTitle(doc *goquery.Document) string {
	sel := doc.Find(titleSelector).First()
	title := strings.TrimSpace(sel.Text())
	// Promotional pseudo-listings carry this placeholder title.
	if title == "" || strings.EqualFold(title, "Shop on eBay") {
		return ""
	}
	return title
}

func extractPrice(doc *goquery.Document) (Cents, bool) {
	text := strings.TrimSpace(doc.Find(priceSelector).First().Text())
	if text == "" {
		return 0, false
	}
	price, err := ParseCents(text)
	if err != nil {
		return 0, false
	}
	return price, true
}

func extractShipping(doc *goquery.Document) Cents {
	text := strings.ToLower(strings.TrimSpace(doc.Find(shippingSelector).First().Text()))
	if text == "" || strings.Contains(text, "free") {
		return 0
	}
	shipping, err := ParseCents(text)
	if err != nil {
		return 0
	}
	return shipping
}

func extractBids(doc *goquery.Document) (int, bool) {
	text := doc.Find(bidsSelector).First().Text()
	if !strings.Contains(strings.ToLower(text), "bid") {
		return 0, false
	}
	match := bidsRegexp.FindStringSubmatch(text)
	if len(match) < 2 {
		return 0, false
	}
	bids, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return bids, true
}

// extractID pulls the marketplace item number from the listing URL,
// falling back to a title hash when the URL carries none.
func extractID(url, title string) string {
	if match := itemIDRegexp.FindStringSubmatch(url); len(match) > 1 {
		return match[1]
	}
	if match := itemIDParam.FindStringSubmatch(url); len(match) > 1 {
		return match[1]
	}
	h := fnv.New64a()
	h.Write([]byte(title))
	return "t" + strconv.FormatUint(h.Sum64(), 16)
}
