package categories

import (
	"context"
	"sort"

	"github.com/AlphaC137/sneakerverse-bazaar/internal/domain/category"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/domain/product"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/util"
)

// Source is the catalog categories are derived from.
type Source interface {
	All() []product.Product
}

// Repo derives categories from product tags. Tags that slugify the same are
// one category, named after the first spelling seen.
type Repo struct {
	src Source
}

func NewRepo(src Source) *Repo {
	return &Repo{src: src}
}

func (r *Repo) ListActive(_ context.Context) ([]category.Category, error) {
	bySlug := map[string]*category.Category{}
	for _, p := range r.src.All() {
		seen := map[string]bool{}
		for _, tag := range p.Tags {
			slug := util.Slugify(tag)
			if seen[slug] {
				continue
			}
			seen[slug] = true

			c, ok := bySlug[slug]
			if !ok {
				c = &category.Category{Name: tag, Slug: slug}
				bySlug[slug] = c
			}
			c.ProductCount++
		}
	}

	out := make([]category.Category, 0, len(bySlug))
	for _, c := range bySlug {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
