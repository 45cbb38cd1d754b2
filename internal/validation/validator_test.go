package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/validation"
)

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Rating   *int   `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5"`
	Format   string `json:"format" validate:"omitempty,oneof=physical digital"`
}

func TestValidate_Passes(t *testing.T) {
	v := validation.New()
	rating := 3
	err := v.Validate(signupRequest{
		Email:    "reader@example.com",
		Password: "hunter22",
		Rating:   &rating,
		Format:   "digital",
	})
	assert.NoError(t, err)
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	v := validation.New()
	err := v.Validate(signupRequest{Email: "not-an-email", Password: "x"})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)

	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")
	assert.Equal(t, "must be at least 6 characters", details["password"])
}

func TestValidate_RatingBounds(t *testing.T) {
	v := validation.New()
	rating := 9
	err := v.Validate(signupRequest{
		Email:    "reader@example.com",
		Password: "hunter22",
		Rating:   &rating,
	})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	details := domainErr.Details.(map[string]string)
	assert.Equal(t, "must be less than or equal to 5", details["rating"])
}

func TestValidate_FormatEnum(t *testing.T) {
	v := validation.New()
	err := v.Validate(signupRequest{
		Email:    "reader@example.com",
		Password: "hunter22",
		Format:   "audiobook",
	})
	assert.Error(t, err)
}
