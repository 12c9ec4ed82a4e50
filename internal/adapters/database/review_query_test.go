package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/divetribe/divedirectory/internal/domain/repositories"
)

func TestComposeReviewList_Defaults(t *testing.T) {
	rows, count := composeReviewList(newTestDB(), repositories.ReviewListParams{
		OperatorID: "op-1",
	})

	rowsSQL := mustSQL(t, rows)
	countSQL := mustSQL(t, count)

	assert.Contains(t, rowsSQL, `"operator_id" = 'op-1'`)
	assert.Contains(t, countSQL, `"operator_id" = 'op-1'`)

	// Default sort is rating descending, unrated reviews last
	assert.Contains(t, rowsSQL, `ORDER BY "rating" DESC NULLS LAST, "id" ASC`)
	assert.Contains(t, rowsSQL, "LIMIT 50")

	assert.Contains(t, countSQL, "COUNT(*)")
	assert.NotContains(t, countSQL, "ORDER BY")
}

func TestComposeReviewList_RatingAscendingKeepsNullsLast(t *testing.T) {
	rows, _ := composeReviewList(newTestDB(), repositories.ReviewListParams{
		OperatorID: "op-1",
		SortBy:     repositories.ReviewSortRating,
		SortOrder:  repositories.SortAsc,
	})

	// NULLS LAST is not flipped by sort direction
	assert.Contains(t, mustSQL(t, rows), `ORDER BY "rating" ASC NULLS LAST, "id" ASC`)
}

func TestComposeReviewList_AgeSort(t *testing.T) {
	rows, _ := composeReviewList(newTestDB(), repositories.ReviewListParams{
		OperatorID: "op-1",
		SortBy:     repositories.ReviewSortAge,
		SortOrder:  repositories.SortAsc,
	})
	assert.Contains(t, mustSQL(t, rows), `ORDER BY "created_at" ASC, "id" ASC`)

	rows, _ = composeReviewList(newTestDB(), repositories.ReviewListParams{
		OperatorID: "op-1",
		SortBy:     repositories.ReviewSortAge,
		SortOrder:  repositories.SortDesc,
	})
	assert.Contains(t, mustSQL(t, rows), `ORDER BY "created_at" DESC, "id" ASC`)
}

func TestComposeReviewList_AuthorFilter(t *testing.T) {
	rows, count := composeReviewList(newTestDB(), repositories.ReviewListParams{
		OperatorID: "op-1",
		AuthorID:   "user-9",
	})

	assert.Contains(t, mustSQL(t, rows), `"author_id" = 'user-9'`)
	assert.Contains(t, mustSQL(t, count), `"author_id" = 'user-9'`)
}

func TestComposeReviewList_TextFilter(t *testing.T) {
	rows, count := composeReviewList(newTestDB(), repositories.ReviewListParams{
		OperatorID: "op-1",
		Query:      "great guides",
	})

	fragment := `to_tsvector('english', coalesce(comments, '')) @@ websearch_to_tsquery('english', 'great guides')`
	assert.Contains(t, mustSQL(t, rows), fragment)
	assert.Contains(t, mustSQL(t, count), fragment)
}

func TestComposeReviewList_Pagination(t *testing.T) {
	rows, _ := composeReviewList(newTestDB(), repositories.ReviewListParams{
		OperatorID: "op-1",
		Skip:       30,
		Limit:      15,
	})

	rowsSQL := mustSQL(t, rows)
	assert.Contains(t, rowsSQL, "LIMIT 15")
	assert.Contains(t, rowsSQL, "OFFSET 30")
}
