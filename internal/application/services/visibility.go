package services

import (
	"time"

	"github.com/divetribe/divedirectory/internal/domain/entities"
)

// Caller is the already-authenticated identity of the requester, established
// by the outer gateway. The zero value is an anonymous caller.
type Caller struct {
	ID            string
	Role          entities.Role
	Authenticated bool
}

// IsAdmin reports whether the caller holds administrator privilege
func (c Caller) IsAdmin() bool {
	return c.Authenticated && c.Role == entities.RoleAdmin
}

// CanSeeVerificationMessage reports whether the caller may read an operator's
// verification message: its owner and admins only.
func (c Caller) CanSeeVerificationMessage(operator *entities.Operator) bool {
	if !c.Authenticated {
		return false
	}
	return c.IsAdmin() || operator.IsOwnedBy(c.ID)
}

// OperatorView is the externally visible representation of an operator.
// VerificationMessage is omitted from serialization when redacted, never
// blanked.
type OperatorView struct {
	ID                  string                        `json:"id"`
	Slug                string                        `json:"slug"`
	Name                string                        `json:"name"`
	Description         *string                       `json:"description,omitempty"`
	Address             string                        `json:"address"`
	Phone               *string                       `json:"phone,omitempty"`
	Email               *string                       `json:"email,omitempty"`
	Website             *string                       `json:"website,omitempty"`
	Location            *entities.Location            `json:"location,omitempty"`
	LogoURL             *string                       `json:"logo_url,omitempty"`
	BannerURL           *string                       `json:"banner_url,omitempty"`
	Social              entities.SocialLinks          `json:"social"`
	OwnerID             string                        `json:"owner_id"`
	VerificationStatus  entities.VerificationStatus   `json:"verification_status"`
	VerificationMessage *string                       `json:"verification_message,omitempty"`
	Active              bool                          `json:"active"`
	CreatedAt           time.Time                     `json:"created_at"`
	UpdatedAt           time.Time                     `json:"updated_at"`
}

// RenderOperator applies the visibility policy. Every read path that hands an
// operator to an external caller goes through here.
func RenderOperator(operator *entities.Operator, caller Caller) *OperatorView {
	view := &OperatorView{
		ID:                 operator.ID,
		Slug:               operator.Slug,
		Name:               operator.Name,
		Description:        operator.Description,
		Address:            operator.Address,
		Phone:              operator.Phone,
		Email:              operator.Email,
		Website:            operator.Website,
		Location:           operator.Location,
		LogoURL:            operator.LogoURL,
		BannerURL:          operator.BannerURL,
		Social:             operator.Social,
		OwnerID:            operator.OwnerID,
		VerificationStatus: operator.VerificationStatus,
		Active:             operator.Active,
		CreatedAt:          operator.CreatedAt,
		UpdatedAt:          operator.UpdatedAt,
	}

	if caller.CanSeeVerificationMessage(operator) {
		view.VerificationMessage = operator.VerificationMessage
	}

	return view
}

// RenderOperators applies the visibility policy to a result page
func RenderOperators(operators []*entities.Operator, caller Caller) []*OperatorView {
	views := make([]*OperatorView, 0, len(operators))
	for _, operator := range operators {
		views = append(views, RenderOperator(operator, caller))
	}
	return views
}
