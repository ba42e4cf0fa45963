package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Name   string `json:"name" validate:"required,min=2,max=10"`
	Role   string `json:"role" validate:"omitempty,is-user-role"`
	Status string `json:"status" validate:"omitempty,is-post-status"`
	Sort   string `form:"sort" validate:"is-post-sort"`
	Slug   string `json:"slug" validate:"omitempty,is-slug"`
	Phone  string `json:"phone" validate:"omitempty,is-phone"`
	Rating int    `json:"rating" validate:"omitempty,min=1,max=5"`
}

func TestValidate_OK(t *testing.T) {
	v := New()
	err := v.Validate(&sampleRequest{
		Email:  "a@b.com",
		Name:   "Anna",
		Role:   "lessor",
		Status: "published",
		Sort:   "price_asc",
		Slug:   "air-conditioner",
		Phone:  "+84 912 345 678",
		Rating: 5,
	})
	assert.NoError(t, err)
}

func TestValidate_FieldErrorsUseJSONNames(t *testing.T) {
	v := New()
	err := v.Validate(&sampleRequest{
		Email:  "not-an-email",
		Name:   "A",
		Role:   "moderator",
		Status: "archived",
		Sort:   "random",
		Slug:   "Bad Slug",
		Phone:  "abc",
		Rating: 9,
	})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "Must be a valid email address", vErr.Errors["email"])
	assert.Contains(t, vErr.Errors["name"], "at least 2")
	assert.Equal(t, "Must be one of: user, lessor, admin", vErr.Errors["role"])
	assert.Contains(t, vErr.Errors, "status")
	assert.Contains(t, vErr.Errors, "sort")
	assert.Contains(t, vErr.Errors, "slug")
	assert.Contains(t, vErr.Errors, "phone")
	assert.Equal(t, "Must be at most 5", vErr.Errors["rating"])
}

func TestValidationError_MessageIsStable(t *testing.T) {
	err := &ValidationError{Errors: map[string]string{"b": "two", "a": "one"}}
	assert.Equal(t, "Validation failed: field 'a': one; field 'b': two", err.Error())
}
