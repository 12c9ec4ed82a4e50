package entities

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperator_RequestVerification(t *testing.T) {
	// Legal from every state, including re-entry from a decided state
	states := []VerificationStatus{
		VerificationUnverified,
		VerificationPending,
		VerificationVerified,
		VerificationRejected,
	}

	for _, state := range states {
		op := &Operator{VerificationStatus: state}
		op.RequestVerification()
		assert.Equal(t, VerificationPending, op.VerificationStatus, "from %s", state)
	}
}

func TestOperator_RequestVerification_KeepsMessage(t *testing.T) {
	msg := "missing insurance documents"
	op := &Operator{
		VerificationStatus:  VerificationRejected,
		VerificationMessage: &msg,
	}

	op.RequestVerification()

	assert.Equal(t, VerificationPending, op.VerificationStatus)
	require.NotNil(t, op.VerificationMessage)
	assert.Equal(t, msg, *op.VerificationMessage)
}

func TestOperator_SetVerification_Rejected(t *testing.T) {
	op := &Operator{VerificationStatus: VerificationPending}

	err := op.SetVerification(false, "reason")

	require.NoError(t, err)
	assert.Equal(t, VerificationRejected, op.VerificationStatus)
	require.NotNil(t, op.VerificationMessage)
	assert.Equal(t, "reason", *op.VerificationMessage)
}

func TestOperator_SetVerification_VerifiedClearsMessage(t *testing.T) {
	reason := "reason"
	op := &Operator{
		VerificationStatus:  VerificationRejected,
		VerificationMessage: &reason,
	}

	err := op.SetVerification(true, "")

	require.NoError(t, err)
	assert.Equal(t, VerificationVerified, op.VerificationStatus)
	assert.Nil(t, op.VerificationMessage)
}

func TestOperator_SetVerification_MessageTooLong(t *testing.T) {
	op := &Operator{VerificationStatus: VerificationPending}

	err := op.SetVerification(false, strings.Repeat("x", MaxVerificationMessageLength+1))

	require.Error(t, err)
	// State untouched on validation failure
	assert.Equal(t, VerificationPending, op.VerificationStatus)
}

func TestOperator_TransferOwnership(t *testing.T) {
	op := &Operator{
		OwnerID:            "user-1",
		Slug:               "divers-den",
		VerificationStatus: VerificationVerified,
	}

	op.TransferOwnership("user-2")

	assert.Equal(t, "user-2", op.OwnerID)
	assert.Equal(t, "divers-den", op.Slug)
	assert.Equal(t, VerificationVerified, op.VerificationStatus)
}

func TestOperator_IsOwnedBy(t *testing.T) {
	op := &Operator{OwnerID: "user-1"}

	assert.True(t, op.IsOwnedBy("user-1"))
	assert.False(t, op.IsOwnedBy("user-2"))
	assert.False(t, op.IsOwnedBy(""))
}

func TestOptionalString(t *testing.T) {
	assert.Nil(t, OptionalString(""))
	assert.Nil(t, OptionalString("   "))

	v := OptionalString("  hello  ")
	require.NotNil(t, v)
	assert.Equal(t, "hello", *v)
}
