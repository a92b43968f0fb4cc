package validator

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type query struct {
	ActivityName string `validate:"required"`
	Email        string `validate:"required,notblank,max=254"`
}

func TestValidate_OK(t *testing.T) {
	err := Validate(context.Background(), query{ActivityName: "Chess Club", Email: "a@example.com"})
	assert.NoError(t, err)
}

func TestValidate_EmailFormatIsNotChecked(t *testing.T) {
	err := Validate(context.Background(), query{ActivityName: "Chess Club", Email: "not-an-email"})
	assert.NoError(t, err)
}

// Whether a name exists is decided by the store, so any non-empty name passes.
func TestValidate_AnyActivityNamePasses(t *testing.T) {
	for _, name := range []string{" Nope", "Chess Club ", "Arts/Crafts", strings.Repeat("L", 130), "Chess\x00Club"} {
		err := Validate(context.Background(), query{ActivityName: name, Email: "a@example.com"})
		assert.NoError(t, err, name)
	}
}

func TestValidate_Failures(t *testing.T) {
	cases := []struct {
		name string
		in   query
		want string
	}{
		{"missing email", query{ActivityName: "Chess Club"}, ErrFieldRequired + ": Email"},
		{"blank email", query{ActivityName: "Chess Club", Email: "   "}, ErrFieldBlank + ": Email"},
		{"long email", query{ActivityName: "Chess Club", Email: strings.Repeat("a", 255)}, ErrFieldExceedsMaxLen + ": Email"},
		{"missing name", query{Email: "a@example.com"}, ErrFieldRequired + ": ActivityName"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(context.Background(), tc.in)
			require.Error(t, err)
			assert.Equal(t, tc.want, err.Error())
		})
	}
}
