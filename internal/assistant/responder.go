// Package assistant implements the shop-assistant chat. The default
// responder is a keyword matcher over the whole catalog; it deliberately
// does not reuse the query engine, so its suggestions stay independent
// of whatever filters the storefront is currently applying.
package assistant

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/example/artisan-market/internal/catalog"
	"github.com/example/artisan-market/internal/infrastructure/store"
)

// Reply is what the assistant sends back for one user message.
type Reply struct {
	Message  string             `json:"message"`
	Products []*catalog.Product `json:"products,omitempty"`
}

// Responder produces a reply for a chat message. Implementations may call
// external services; the default one is purely local.
type Responder interface {
	Respond(ctx context.Context, message string) (*Reply, error)
}

const maxRecommendations = 5

// KeywordRecommender matches message keywords against product name,
// description, category, materials and tags, and recommends the
// highest-scoring active products.
type KeywordRecommender struct {
	readStore store.ReadStoreInterface
}

func NewKeywordRecommender(readStore store.ReadStoreInterface) *KeywordRecommender {
	return &KeywordRecommender{readStore: readStore}
}

// stopwords are tokens too common to carry intent.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "i": true, "im": true, "am": true,
	"is": true, "are": true, "was": true, "be": true, "do": true, "you": true,
	"for": true, "of": true, "to": true, "in": true, "on": true, "me": true,
	"my": true, "and": true, "or": true, "with": true, "some": true,
	"looking": true, "want": true, "need": true, "show": true, "find": true,
	"have": true, "any": true, "please": true, "hi": true, "hello": true,
	"hey": true, "thanks": true, "what": true, "can": true, "buy": true,
	"there": true, "something": true,
}

func (r *KeywordRecommender) Respond(_ context.Context, message string) (*Reply, error) {
	keywords := tokenize(message)
	if len(keywords) == 0 {
		return &Reply{
			Message: "Hello! Tell me what you are looking for — a material, a craft, or an occasion — and I will suggest some handmade pieces.",
		}, nil
	}

	type scored struct {
		product *catalog.Product
		score   int
	}

	var matches []scored
	for _, raw := range r.readStore.GetAll(store.CollectionProducts) {
		p, ok := raw.(*catalog.Product)
		if !ok || p.Status != catalog.StatusActive {
			continue
		}
		if score := scoreProduct(p, keywords); score > 0 {
			matches = append(matches, scored{product: p, score: score})
		}
	}

	if len(matches) == 0 {
		return &Reply{
			Message: fmt.Sprintf("I couldn't find anything matching %q. Try a material like ceramic or leather, or a category like pottery or jewelry.", strings.Join(keywords, " ")),
		}, nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].product.Views > matches[j].product.Views
	})

	if len(matches) > maxRecommendations {
		matches = matches[:maxRecommendations]
	}

	products := make([]*catalog.Product, len(matches))
	for i, m := range matches {
		products[i] = m.product
	}

	top := products[0]
	msg := fmt.Sprintf("I found %d pieces you might like. %q by %s stands out — it's %s.",
		len(products), top.Name, top.ArtisanName, top.Price.String())
	if len(products) == 1 {
		msg = fmt.Sprintf("I found one piece you might like: %q by %s, %s.",
			top.Name, top.ArtisanName, top.Price.String())
	}

	return &Reply{Message: msg, Products: products}, nil
}

// scoreProduct counts keyword hits, weighting exact category/tag/material
// matches above substring hits in free text.
func scoreProduct(p *catalog.Product, keywords []string) int {
	name := strings.ToLower(p.Name)
	desc := strings.ToLower(p.Description)
	category := strings.ToLower(p.Category)

	score := 0
	for _, kw := range keywords {
		if category == kw {
			score += 3
		}
		for _, tag := range p.Tags {
			if strings.ToLower(tag) == kw {
				score += 3
			}
		}
		for _, mat := range p.Materials {
			if strings.ToLower(mat) == kw {
				score += 3
			}
		}
		if strings.Contains(name, kw) {
			score += 2
		}
		if strings.Contains(desc, kw) {
			score++
		}
	}
	return score
}

func tokenize(message string) []string {
	fields := strings.FieldsFunc(strings.ToLower(message), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	var keywords []string
	for _, f := range fields {
		if len(f) < 2 || stopwords[f] {
			continue
		}
		keywords = append(keywords, f)
	}
	return keywords
}
