package products

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/AlphaC137/sneakerverse-bazaar/internal/domain/product"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/util"
)

var ErrNotFound = errors.New("products: not found")

//go:embed products.json
var seed []byte

const (
	SortFeatured  = "featured"
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// Filter narrows List. Zero values match everything.
type Filter struct {
	// Tags matches products carrying any of them, by name or slug.
	Tags     []string
	Featured bool
	Sale     bool
	// Query is a case-insensitive substring of name or description.
	Query    string
	MinPrice *float64
	MaxPrice *float64
	Sort     string
}

// Repo is the read-only catalog. Products keep their seed order.
type Repo struct {
	items []product.Product
	byID  map[string]int
}

func NewRepo(items []product.Product) *Repo {
	r := &Repo{items: items, byID: make(map[string]int, len(items))}
	for i, p := range items {
		r.byID[p.ID] = i
	}
	return r
}

// Seeded returns the catalog shipped with the binary.
func Seeded() (*Repo, error) {
	var items []product.Product
	if err := json.Unmarshal(seed, &items); err != nil {
		return nil, fmt.Errorf("decode product seed: %w", err)
	}
	return NewRepo(items), nil
}

func (r *Repo) List(_ context.Context, f Filter) ([]product.Product, error) {
	wantTags := make(map[string]bool, len(f.Tags))
	for _, t := range f.Tags {
		if t = strings.TrimSpace(t); t != "" {
			wantTags[util.Slugify(t)] = true
		}
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))

	out := []product.Product{}
	for _, p := range r.items {
		if len(wantTags) > 0 && !hasAnyTag(p, wantTags) {
			continue
		}
		if f.Featured && !p.Featured {
			continue
		}
		if f.Sale && !p.OnSale() {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		if f.MinPrice != nil && p.FinalPrice() < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.FinalPrice() > *f.MaxPrice {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, f.Sort)
	return out, nil
}

func (r *Repo) Get(_ context.Context, id string) (product.Product, error) {
	i, ok := r.byID[id]
	if !ok {
		return product.Product{}, ErrNotFound
	}
	return r.items[i], nil
}

// Related shares at least one tag with id and is not id itself.
func (r *Repo) Related(ctx context.Context, id string, limit int) ([]product.Product, error) {
	cur, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	tags := make(map[string]bool, len(cur.Tags))
	for _, t := range cur.Tags {
		tags[util.Slugify(t)] = true
	}

	out := []product.Product{}
	for _, p := range r.items {
		if p.ID != id && hasAnyTag(p, tags) {
			out = append(out, p)
		}
	}
	return head(out, limit), nil
}

func (r *Repo) Featured(ctx context.Context, limit int) ([]product.Product, error) {
	items, err := r.List(ctx, Filter{Featured: true})
	return head(items, limit), err
}

func (r *Repo) Sale(ctx context.Context, limit int) ([]product.Product, error) {
	items, err := r.List(ctx, Filter{Sale: true})
	return head(items, limit), err
}

// All is every product in seed order.
func (r *Repo) All() []product.Product {
	return append([]product.Product(nil), r.items...)
}

func hasAnyTag(p product.Product, slugs map[string]bool) bool {
	for _, t := range p.Tags {
		if slugs[util.Slugify(t)] {
			return true
		}
	}
	return false
}

func sortProducts(items []product.Product, by string) {
	switch by {
	case SortNewest:
		// ids are issued in order
		sort.SliceStable(items, func(i, j int) bool { return idNum(items[i].ID) > idNum(items[j].ID) })
	case SortPriceAsc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].FinalPrice() < items[j].FinalPrice() })
	case SortPriceDesc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].FinalPrice() > items[j].FinalPrice() })
	case SortFeatured:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Featured && !items[j].Featured })
	}
}

func idNum(id string) int {
	n, _ := strconv.Atoi(id)
	return n
}

// head with limit <= 0 means no limit.
func head(items []product.Product, limit int) []product.Product {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
