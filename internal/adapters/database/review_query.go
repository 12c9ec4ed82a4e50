package database

import (
	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/divetribe/divedirectory/internal/domain/repositories"
)

var reviewColumns = []interface{}{
	"id", "operator_id", "author_id", "rating", "comments", "created_at", "updated_at",
}

// composeReviewList translates list params into the paginated row query and
// its unpaginated count, sharing one predicate set. Every review query is
// scoped to a single operator.
func composeReviewList(db *goqu.Database, p repositories.ReviewListParams) (rows *goqu.SelectDataset, count *goqu.SelectDataset) {
	base := db.From("operator_reviews").
		Where(goqu.Ex{"operator_id": p.OperatorID})

	if p.AuthorID != "" {
		base = base.Where(goqu.Ex{"author_id": p.AuthorID})
	}

	if p.Query != "" {
		base = base.Where(goqu.L(
			"to_tsvector('english', coalesce(comments, '')) @@ websearch_to_tsquery('english', ?)", p.Query,
		))
	}

	count = base.Select(goqu.COUNT("*"))

	limit := p.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	skip := p.Skip
	if skip < 0 {
		skip = 0
	}

	rows = base.Select(reviewColumns...).
		Order(reviewOrder(p)...).
		Limit(uint(limit)).
		Offset(uint(skip))

	return rows, count
}

// reviewOrder resolves the sort policy: rating descending by default, with
// unrated reviews last in both directions; age sorts purely on created_at.
// Id breaks ties so pagination is stable.
func reviewOrder(p repositories.ReviewListParams) []exp.OrderedExpression {
	asc := p.SortOrder == repositories.SortAsc

	var primary exp.OrderedExpression
	switch p.SortBy {
	case repositories.ReviewSortAge:
		if asc {
			primary = goqu.I("created_at").Asc()
		} else {
			primary = goqu.I("created_at").Desc()
		}
	default:
		// Rating: NULLS LAST is not flipped by direction
		if asc {
			primary = goqu.I("rating").Asc().NullsLast()
		} else {
			primary = goqu.I("rating").Desc().NullsLast()
		}
	}

	return []exp.OrderedExpression{primary, goqu.I("id").Asc()}
}
