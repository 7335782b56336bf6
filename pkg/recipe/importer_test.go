package recipe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"Recipe-Book/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonLDPage = `<html><head>
<script type="application/ld+json">{"@context":"https://schema.org","@type":"WebSite","name":"Blog"}</script>
<script type="application/ld+json">
{"@context":"https://schema.org","@graph":[
  {"@type":"WebPage","name":"Page"},
  {"@type":["Recipe","NewsArticle"],
   "name":"Mac &amp; Cheese",
   "description":"Creamy.",
   "recipeYield":["4","4 servings"],
   "prepTime":"PT15M",
   "cookTime":"PT1H5M",
   "recipeCategory":"Dinner, Comfort",
   "recipeIngredient":["200 g macaroni","  100 g cheddar "],
   "recipeInstructions":[
     {"@type":"HowToSection","name":"Pasta","itemListElement":[
        {"@type":"HowToStep","text":"Boil water."},
        {"@type":"HowToStep","text":"Cook pasta."}]},
     {"@type":"HowToSection","name":"Sauce","itemListElement":[
        {"@type":"HowToStep","text":"Melt cheese."}]}
   ]}
]}
</script></head><body><h1>Mac</h1></body></html>`

type stubExtractor struct {
	draft    domain.RecipeRequest
	err      error
	received string
}

func (s *stubExtractor) ExtractRecipe(_ context.Context, pageText string) (domain.RecipeRequest, error) {
	s.received = pageText
	return s.draft, s.err
}

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestImport_JSONLDGraph(t *testing.T) {
	srv := serve(t, http.StatusOK, jsonLDPage)

	draft, source, err := NewImporter(srv.Client(), nil).Import(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, SourceJSONLD, source)
	assert.Equal(t, "Mac & Cheese", draft.Title)
	assert.Equal(t, srv.URL, draft.SourceURL)
	assert.Equal(t, 4, draft.Servings)
	assert.Equal(t, 15, draft.PrepTimeMinutes)
	assert.Equal(t, 65, draft.CookTimeMinutes)
	assert.Equal(t, []string{"Dinner", "Comfort"}, draft.Tags)
	require.Len(t, draft.IngredientGroups, 1)
	assert.Equal(t, []string{"200 g macaroni", "100 g cheddar"}, draft.IngredientGroups[0].Items)
	require.Len(t, draft.StepGroups, 2)
	assert.Equal(t, "Pasta", draft.StepGroups[0].Title)
	assert.Equal(t, []string{"Boil water.", "Cook pasta."}, draft.StepGroups[0].Steps)
	assert.Equal(t, "Sauce", draft.StepGroups[1].Title)
}

func TestImport_InstructionsAsString(t *testing.T) {
	page := `<script type="application/ld+json">{"@type":"Recipe","name":"Toast","recipeYield":2,
"recipeInstructions":"1. Toast bread\n2. Butter it"}</script>`
	srv := serve(t, http.StatusOK, page)

	draft, _, err := NewImporter(srv.Client(), nil).Import(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, 2, draft.Servings)
	require.Len(t, draft.StepGroups, 1)
	assert.Equal(t, []string{"Toast bread", "Butter it"}, draft.StepGroups[0].Steps)
}

func TestImport_FallsBackToExtractor(t *testing.T) {
	srv := serve(t, http.StatusOK, `<html><body><script>var x=1;</script><p>Grandma's   soup</p></body></html>`)
	extractor := &stubExtractor{draft: domain.RecipeRequest{Title: "Soup"}}

	draft, source, err := NewImporter(srv.Client(), extractor).Import(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, SourceLLM, source)
	assert.Equal(t, "Soup", draft.Title)
	assert.Equal(t, "Grandma's soup", extractor.received)
}

func TestImport_NoRecipe(t *testing.T) {
	srv := serve(t, http.StatusOK, `<html><body>nothing</body></html>`)

	_, _, err := NewImporter(srv.Client(), nil).Import(context.Background(), srv.URL)
	assert.ErrorIs(t, err, domain.ErrNoRecipeFound)

	_, _, err = NewImporter(srv.Client(), &stubExtractor{err: domain.ErrAIInvalidResponse}).Import(context.Background(), srv.URL)
	assert.ErrorIs(t, err, domain.ErrAIInvalidResponse)
}

func TestImport_HTTPError(t *testing.T) {
	srv := serve(t, http.StatusNotFound, "gone")

	_, _, err := NewImporter(srv.Client(), nil).Import(context.Background(), srv.URL)
	assert.True(t, errors.Is(err, domain.ErrFetchRecipePage))
}

func TestImport_RejectsOversizedPage(t *testing.T) {
	srv := serve(t, http.StatusOK, "<html><body>"+strings.Repeat("a", maxPageBytes)+"</body></html>")

	_, _, err := NewImporter(srv.Client(), nil).Import(context.Background(), srv.URL)
	assert.ErrorIs(t, err, domain.ErrFetchRecipePage)
	assert.Contains(t, err.Error(), "page larger than")
}

func TestImport_RejectsNonHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"@type":"Recipe","name":"Toast"}`))
	}))
	t.Cleanup(srv.Close)

	_, _, err := NewImporter(srv.Client(), nil).Import(context.Background(), srv.URL)
	assert.ErrorIs(t, err, domain.ErrFetchRecipePage)
}

func TestImport_DefaultClientRefusesLoopback(t *testing.T) {
	srv := serve(t, http.StatusOK, jsonLDPage)

	_, _, err := NewImporter(nil, nil).Import(context.Background(), srv.URL)
	assert.ErrorIs(t, err, domain.ErrPrivateAddress)
}

func TestCheckPublicAddress(t *testing.T) {
	blocked := []string{
		"127.0.0.1:80",
		"10.1.2.3:80",
		"172.16.0.1:443",
		"192.168.1.10:8080",
		"169.254.169.254:80",
		"0.0.0.0:80",
		"[::1]:443",
		"[fe80::1]:80",
		"[fd00::1]:80",
		"[::ffff:127.0.0.1]:80",
	}
	for _, addr := range blocked {
		assert.ErrorIs(t, checkPublicAddress(addr), domain.ErrPrivateAddress, addr)
	}

	for _, addr := range []string{"93.184.216.34:80", "[2606:4700:4700::1111]:443"} {
		assert.NoError(t, checkPublicAddress(addr), addr)
	}
}

func TestPageText_CutsOnRuneBoundary(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body><p>" + strings.Repeat("€", 15000) + "</p></body></html>"))
	require.NoError(t, err)

	text := pageText(doc)
	assert.True(t, utf8.ValidString(text))
	assert.LessOrEqual(t, len(text), maxPageText)
	assert.Equal(t, maxPageText/3, utf8.RuneCountInString(text))
}

func TestTruncateUTF8(t *testing.T) {
	assert.Equal(t, "short", truncateUTF8("short", 10))
	assert.Equal(t, "ab", truncateUTF8("ab€", 4))
	assert.Equal(t, "ab€", truncateUTF8("ab€d", 5))
	assert.Equal(t, "", truncateUTF8("€", 2))
}

func TestParseISODuration(t *testing.T) {
	cases := map[string]int{
		"PT30M":    30,
		"PT1H":     60,
		"pt1h15m":  75,
		"P1DT2H":   1560,
		"PT90S":    2,
		"PT0S":     0,
		"":         0,
		"45 min":   0,
		"PT2H0M0S": 120,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseISODuration(in), in)
	}
}
