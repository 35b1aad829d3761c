package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Categoria string `form:"categoria" validate:"required"`
	Rol       string `json:"rol" validate:"omitempty,oneof=admin estudiante"`
}

func TestValidator_Validate(t *testing.T) {
	v := New()

	tests := []struct {
		name   string
		input  sample
		fields []string
	}{
		{name: "valid", input: sample{Categoria: "cafeteria"}},
		{name: "missing categoria", input: sample{}, fields: []string{"categoria"}},
		{name: "bad role", input: sample{Categoria: "x", Rol: "root"}, fields: []string{"rol"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.Validate(&tt.input)
			if len(tt.fields) == 0 {
				assert.Nil(t, errs)
				return
			}
			require.Len(t, errs, len(tt.fields))
			for i, field := range tt.fields {
				assert.Equal(t, field, errs[i].Field)
			}
			assert.Contains(t, errs.Error(), "validation failed")
		})
	}
}

func TestToValidationErrors_NonValidatorError(t *testing.T) {
	errs := ToValidationErrors(errors.New("boom"))
	require.Len(t, errs, 1)
	assert.Equal(t, "boom", errs[0].Message)
}
