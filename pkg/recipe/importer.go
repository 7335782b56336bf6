package recipe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"math"
	"mime"
	"net"
	"net/http"
	"net/netip"
	"regexp"
	"strconv"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"

	"Recipe-Book/domain"

	"github.com/PuerkitoBio/goquery"
)

const (
	SourceJSONLD = "json-ld"
	SourceLLM    = "ai"

	maxPageText  = 20000
	maxPageBytes = 5 << 20
)

type (
	Importer interface {
		// Import returns a draft recipe for the page at url and where it came from (json-ld or ai).
		Import(ctx context.Context, url string) (domain.RecipeRequest, string, error)
	}

	// DraftExtractor turns free page text into a recipe draft, typically with an LLM.
	DraftExtractor interface {
		ExtractRecipe(ctx context.Context, pageText string) (domain.RecipeRequest, error)
	}

	importer struct {
		client    *http.Client
		extractor DraftExtractor
	}
)

// NewImporter builds a URL importer. extractor may be nil, in which case pages without
// schema.org data fail with ErrNoRecipeFound. A nil client gets one that refuses
// loopback, private and link-local targets.
func NewImporter(client *http.Client, extractor DraftExtractor) Importer {
	if client == nil {
		client = NewPublicClient(15 * time.Second)
	}
	return &importer{client: client, extractor: extractor}
}

// NewPublicClient returns an HTTP client that only connects to public unicast addresses.
// The check runs on the resolved address, so redirects and DNS tricks are covered too.
func NewPublicClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout: 10 * time.Second,
		Control: func(_, address string, _ syscall.RawConn) error {
			return checkPublicAddress(address)
		},
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: 10 * time.Second,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

func checkPublicAddress(address string) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrPrivateAddress, host)
	}
	addr = addr.Unmap()
	if !addr.IsGlobalUnicast() || addr.IsPrivate() {
		return fmt.Errorf("%w: %s", domain.ErrPrivateAddress, addr)
	}
	return nil
}

func (i *importer) Import(ctx context.Context, url string) (domain.RecipeRequest, string, error) {
	doc, err := i.fetch(ctx, url)
	if err != nil {
		return domain.RecipeRequest{}, "", err
	}

	if draft, ok := findJSONLDRecipe(doc); ok {
		draft.SourceURL = url
		return draft, SourceJSONLD, nil
	}

	if i.extractor == nil {
		return domain.RecipeRequest{}, "", domain.ErrNoRecipeFound
	}

	draft, err := i.extractor.ExtractRecipe(ctx, pageText(doc))
	if err != nil {
		return domain.RecipeRequest{}, "", err
	}
	if strings.TrimSpace(draft.Title) == "" {
		return domain.RecipeRequest{}, "", domain.ErrNoRecipeFound
	}
	draft.SourceURL = url
	return draft, SourceLLM, nil
}

func (i *importer) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchRecipePage, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; RecipeBook/1.0)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := i.client.Do(req)
	if err != nil {
		if errors.Is(err, domain.ErrPrivateAddress) {
			return nil, domain.ErrPrivateAddress
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchRecipePage, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrFetchRecipePage, resp.StatusCode)
	}

	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || (mediaType != "text/html" && mediaType != "application/xhtml+xml") {
		return nil, fmt.Errorf("%w: unsupported content type %q", domain.ErrFetchRecipePage, resp.Header.Get("Content-Type"))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchRecipePage, err)
	}
	if len(body) > maxPageBytes {
		return nil, fmt.Errorf("%w: page larger than %d bytes", domain.ErrFetchRecipePage, maxPageBytes)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchRecipePage, err)
	}
	return doc, nil
}

var whitespace = regexp.MustCompile(`\s+`)

func pageText(doc *goquery.Document) string {
	doc.Find("script, style, noscript, nav, footer, iframe, svg").Remove()

	text := whitespace.ReplaceAllString(doc.Find("body").Text(), " ")
	text = strings.TrimSpace(text)
	return truncateUTF8(text, maxPageText)
}

// truncateUTF8 cuts s to at most n bytes without splitting a multi-byte character.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func findJSONLDRecipe(doc *goquery.Document) (domain.RecipeRequest, bool) {
	var found map[string]any

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		found = findRecipeNode(data)
		return found == nil
	})

	if found == nil {
		return domain.RecipeRequest{}, false
	}
	return recipeFromNode(found), true
}

func findRecipeNode(data any) map[string]any {
	switch v := data.(type) {
	case []any:
		for _, item := range v {
			if node := findRecipeNode(item); node != nil {
				return node
			}
		}
	case map[string]any:
		if isType(v["@type"], "Recipe") {
			return v
		}
		if graph, ok := v["@graph"]; ok {
			return findRecipeNode(graph)
		}
	}
	return nil
}

func isType(t any, want string) bool {
	switch v := t.(type) {
	case string:
		return v == want
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

func recipeFromNode(node map[string]any) domain.RecipeRequest {
	req := domain.RecipeRequest{
		Title:           cleanText(asString(node["name"])),
		Description:     cleanText(asString(node["description"])),
		Servings:        parseYield(node["recipeYield"]),
		PrepTimeMinutes: ParseISODuration(asString(node["prepTime"])),
		CookTimeMinutes: ParseISODuration(asString(node["cookTime"])),
	}

	if req.PrepTimeMinutes == 0 && req.CookTimeMinutes == 0 {
		req.CookTimeMinutes = ParseISODuration(asString(node["totalTime"]))
	}

	var items []string
	for _, line := range asStrings(node["recipeIngredient"]) {
		if line = cleanText(line); line != "" {
			items = append(items, line)
		}
	}
	if len(items) > 0 {
		req.IngredientGroups = []domain.IngredientGroupRequest{{Items: items}}
	}

	req.StepGroups = parseInstructions(node["recipeInstructions"])

	for _, key := range []string{"recipeCategory", "recipeCuisine"} {
		for _, tag := range asStrings(node[key]) {
			for _, part := range strings.Split(tag, ",") {
				if part = cleanText(part); part != "" {
					req.Tags = append(req.Tags, part)
				}
			}
		}
	}

	return req
}

// parseInstructions accepts a string, a list of strings, HowToStep objects or HowToSection objects.
func parseInstructions(v any) []domain.StepGroupRequest {
	switch val := v.(type) {
	case string:
		var groups []domain.StepGroupRequest
		for _, g := range SplitTextIntoHeaderAndItems(html.UnescapeString(val)) {
			groups = append(groups, domain.StepGroupRequest{Title: g.Title, Steps: g.Items})
		}
		return groups
	case []any:
		var groups []domain.StepGroupRequest
		var loose []string
		flush := func() {
			if len(loose) > 0 {
				groups = append(groups, domain.StepGroupRequest{Steps: loose})
				loose = nil
			}
		}
		for _, item := range val {
			switch step := item.(type) {
			case string:
				if text := cleanText(step); text != "" {
					loose = append(loose, text)
				}
			case map[string]any:
				if isType(step["@type"], "HowToSection") {
					flush()
					section := domain.StepGroupRequest{Title: cleanText(asString(step["name"]))}
					for _, sub := range parseInstructions(step["itemListElement"]) {
						section.Steps = append(section.Steps, sub.Steps...)
					}
					if len(section.Steps) > 0 {
						groups = append(groups, section)
					}
					continue
				}
				text := cleanText(asString(step["text"]))
				if text == "" {
					text = cleanText(asString(step["name"]))
				}
				if text != "" {
					loose = append(loose, text)
				}
			}
		}
		flush()
		return groups
	case map[string]any:
		return parseInstructions([]any{val})
	}
	return nil
}

var isoDuration = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// ParseISODuration converts an ISO-8601 duration such as PT1H30M into whole minutes.
// Unparseable input yields 0.
func ParseISODuration(s string) int {
	m := isoDuration.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(s)))
	if m == nil {
		return 0
	}

	days, _ := strconv.Atoi(m[1])
	hours, _ := strconv.Atoi(m[2])
	minutes, _ := strconv.Atoi(m[3])
	seconds, _ := strconv.ParseFloat(m[4], 64)

	return days*24*60 + hours*60 + minutes + int(math.Round(seconds/60))
}

var firstNumber = regexp.MustCompile(`\d+`)

func parseYield(v any) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case string:
		if n, err := strconv.Atoi(firstNumber.FindString(val)); err == nil {
			return n
		}
	case []any:
		for _, item := range val {
			if n := parseYield(item); n > 0 {
				return n
			}
		}
	}
	return 0
}

func asString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []any:
		if len(val) > 0 {
			return asString(val[0])
		}
	case map[string]any:
		return asString(val["name"])
	}
	return ""
}

func asStrings(v any) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := asString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func cleanText(s string) string {
	s = html.UnescapeString(s)
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}
