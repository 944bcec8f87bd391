package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email  string `json:"email" validate:"required,email"`
	Role   string `json:"role" validate:"required,role"`
	Status string `json:"status" validate:"omitempty,warehouse_status"`
	Qty    int    `json:"qty" validate:"min=0"`
}

func TestValidateStruct(t *testing.T) {
	assert.Nil(t, ValidateStruct(sample{Email: "a@b.co", Role: "AUDITOR", Status: "MAINTENANCE"}))

	errs := ValidateStruct(sample{Email: "nope", Role: "ROOT", Status: "OPEN", Qty: -1})
	require.Len(t, errs, 4)
	tags := map[string]string{}
	for _, e := range errs {
		tags[e.Field] = e.Tag
	}
	assert.Equal(t, "email", tags["Email"])
	assert.Equal(t, "role", tags["Role"])
	assert.Equal(t, "warehouse_status", tags["Status"])
	assert.Equal(t, "min", tags["Qty"])
}

func TestMessage(t *testing.T) {
	msg := Message([]*FieldError{{Field: "Email", Tag: "required"}, {Field: "Qty", Tag: "min", Param: "0"}})
	assert.Equal(t, "Email: required; Qty: min=0", msg)
}
