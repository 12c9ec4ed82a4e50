package services_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divetribe/divedirectory/internal/application/services"
	"github.com/divetribe/divedirectory/internal/domain/entities"
)

func operatorWithMessage() *entities.Operator {
	message := "insurance documents expired"
	return &entities.Operator{
		ID:                  "op-1",
		Slug:                "blue-reef",
		Name:                "Blue Reef Divers",
		Address:             "12 Harbour Rd",
		OwnerID:             "user-1",
		VerificationStatus:  entities.VerificationRejected,
		VerificationMessage: &message,
		Active:              true,
	}
}

func TestRenderOperator_RedactionMatrix(t *testing.T) {
	operator := operatorWithMessage()

	cases := []struct {
		name    string
		caller  services.Caller
		visible bool
	}{
		{"anonymous", services.Caller{}, false},
		{"authenticated non-owner", services.Caller{ID: "user-2", Role: entities.RoleUser, Authenticated: true}, false},
		{"owner", services.Caller{ID: "user-1", Role: entities.RoleUser, Authenticated: true}, true},
		{"admin", services.Caller{ID: "user-9", Role: entities.RoleAdmin, Authenticated: true}, true},
		{"unauthenticated admin role claim", services.Caller{ID: "user-9", Role: entities.RoleAdmin}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			view := services.RenderOperator(operator, tc.caller)
			if tc.visible {
				require.NotNil(t, view.VerificationMessage)
				assert.Equal(t, "insurance documents expired", *view.VerificationMessage)
			} else {
				assert.Nil(t, view.VerificationMessage)
			}
		})
	}
}

func TestRenderOperator_RedactedFieldAbsentFromJSON(t *testing.T) {
	view := services.RenderOperator(operatorWithMessage(), services.Caller{})

	data, err := json.Marshal(view)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))

	// Omitted entirely, not blanked
	_, present := raw["verification_message"]
	assert.False(t, present)
	assert.Equal(t, "rejected", raw["verification_status"])
}

func TestRenderOperators_AppliesPolicyToEveryRow(t *testing.T) {
	operators := []*entities.Operator{operatorWithMessage(), operatorWithMessage()}

	views := services.RenderOperators(operators, services.Caller{ID: "user-2", Authenticated: true})

	require.Len(t, views, 2)
	for _, view := range views {
		assert.Nil(t, view.VerificationMessage)
	}
}
