package dto

import (
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withToday(t *testing.T, d time.Time) {
	t.Helper()
	orig := today
	today = func() time.Time { return d }
	t.Cleanup(func() { today = orig })
}

func validInput() UserInput {
	return UserInput{
		Forename:    "Jane",
		Surname:     "Doe",
		Email:       "jane@example.com",
		DateOfBirth: "1990-05-20",
	}
}

func TestUserInput_Validation(t *testing.T) {
	require.NoError(t, RegisterValidators())
	withToday(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name   string
		mutate func(*UserInput)
		want   []string
	}{
		{name: "valid", mutate: func(*UserInput) {}},
		{name: "dob today is allowed", mutate: func(in *UserInput) { in.DateOfBirth = "2024-06-01" }},
		{
			name:   "missing forename",
			mutate: func(in *UserInput) { in.Forename = "" },
			want:   []string{"First name is required"},
		},
		{
			name:   "blank surname",
			mutate: func(in *UserInput) { in.Surname = "   " },
			want:   []string{"Last name is required"},
		},
		{
			name:   "forename too long",
			mutate: func(in *UserInput) { in.Forename = strings.Repeat("a", 51) },
			want:   []string{"First name must be between 1 and 50 characters"},
		},
		{
			name:   "invalid email",
			mutate: func(in *UserInput) { in.Email = "not-an-email" },
			want:   []string{"Email must be valid"},
		},
		{
			name:   "bad date format",
			mutate: func(in *UserInput) { in.DateOfBirth = "20/05/1990" },
			want:   []string{"Date of birth must be a date in the format yyyy-MM-dd"},
		},
		{
			name:   "future date",
			mutate: func(in *UserInput) { in.DateOfBirth = "2024-06-02" },
			want:   []string{"Date of birth cannot be in the future"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			err := binding.Validator.ValidateStruct(&in)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.want, ValidationMessages(err))
		})
	}
}

func TestFieldErrors_KeyedByField(t *testing.T) {
	require.NoError(t, RegisterValidators())

	in := validInput()
	in.Email = ""
	err := binding.Validator.ValidateStruct(&in)
	require.Error(t, err)

	assert.Equal(t, map[string]string{"Email": "Email is required"}, FieldErrors(err))
}

func TestValidationMessages_NonValidationError(t *testing.T) {
	assert.Equal(t, []string{"Invalid request body"}, ValidationMessages(assert.AnError))
	assert.Empty(t, FieldErrors(assert.AnError))
}

func TestUserInput_ToUser(t *testing.T) {
	in := validInput()
	in.Forename = "  Jane "

	u, err := in.ToUser(7, true)
	require.NoError(t, err)
	assert.Equal(t, uint(7), u.ID)
	assert.Equal(t, "Jane", u.Forename)
	assert.True(t, u.IsActive)
	assert.Equal(t, time.Date(1990, time.May, 20, 0, 0, 0, 0, time.UTC), u.DateOfBirth)

	inactive := false
	in.IsActive = &inactive
	u, err = in.ToUser(0, true)
	require.NoError(t, err)
	assert.False(t, u.IsActive)
}
