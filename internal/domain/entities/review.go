package entities

import "time"

// Review represents a user's review of an operator. Operator and author
// references are set at creation and never change.
type Review struct {
	ID         string `json:"id" db:"id"`
	OperatorID string `json:"operator_id" db:"operator_id"`
	AuthorID   string `json:"author_id" db:"author_id"`

	// Rating is nullable in storage; creation-time validation requires it,
	// but historical rows may lack one and must sort last (see review query)
	Rating   *int    `json:"rating" db:"rating"`
	Comments *string `json:"comments,omitempty" db:"comments"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ReviewStats is a derived aggregate over an operator's reviews
type ReviewStats struct {
	OperatorID    string  `json:"operator_id"`
	ReviewCount   int     `json:"review_count"`
	AverageRating float64 `json:"average_rating"`
}
