package state

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"github.com/picksmart/picksmart/internal/models"
)

// ProductIndex is the local half of the hybrid search: product titles saved
// from earlier remote lookups, matched by term against new queries.
type ProductIndex struct {
	db *bun.DB
}

const minTermLength = 4

// Queries arrive wrapped in prompt boilerplate ("find the specific product
// title from ..."), so the common carrier words are dropped along with short
// tokens before matching.
var stopTerms = map[string]bool{
	"find": true, "specific": true, "product": true, "products": true,
	"title": true, "from": true, "this": true, "requirement": true,
	"with": true, "that": true, "under": true, "over": true,
}

func searchTerms(query string) []string {
	var terms []string
	for _, field := range strings.Fields(strings.ToLower(query)) {
		field = strings.Trim(field, ":,.!?\"'")
		if len(field) >= minTermLength && !stopTerms[field] {
			terms = append(terms, field)
		}
	}
	return terms
}

func (i *ProductIndex) Lookup(ctx context.Context, query string, limit int) ([]models.ProductCandidate, error) {
	terms := searchTerms(query)
	if len(terms) == 0 {
		return nil, nil
	}

	var rows []models.ProductDB
	q := i.db.NewSelect().Model(&rows)

	q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
		for _, term := range terms {
			q = q.WhereOr("content ILIKE ?", "%"+term+"%")
		}
		return q
	})

	if err := q.OrderExpr("created_at DESC").Limit(limit).Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	candidates := make([]models.ProductCandidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, models.ProductCandidate{
			Title:   row.Title,
			Content: row.Content,
		})
	}

	return candidates, nil
}

func (i *ProductIndex) Save(ctx context.Context, products []models.ProductCandidate) error {
	if len(products) == 0 {
		return nil
	}

	rows := make([]models.ProductDB, 0, len(products))
	for _, p := range products {
		rows = append(rows, models.ProductDB{
			Title:   p.Title,
			Content: p.Content,
		})
	}

	if _, err := i.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert products: %w", err)
	}

	return nil
}
