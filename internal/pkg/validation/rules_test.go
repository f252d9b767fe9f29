package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDestinationCode(t *testing.T) {
	assert.True(t, IsDestinationCode("HNPB"))
	assert.True(t, IsDestinationCode("hn01"))
	assert.False(t, IsDestinationCode("HNP"))
	assert.False(t, IsDestinationCode("HNPBX"))
	assert.False(t, IsDestinationCode("HN-B"))
}

func TestRegisterRules(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterRules(v))

	type body struct {
		Code string `validate:"required,destcode"`
	}
	assert.NoError(t, v.Struct(body{Code: "ENBA"}))
	assert.Error(t, v.Struct(body{Code: "BUENOS"}))
}
