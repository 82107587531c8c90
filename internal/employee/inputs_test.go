package employee

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func validCreateInput() CreateInput {
	return CreateInput{
		FirstName:  "John",
		LastName:   "Doe",
		Email:      "john.doe@company.com",
		Phone:      "+1-555-123-4567",
		Department: "Engineering",
		Title:      "Software Engineer",
		Location:   "New York, USA",
		Salary:     75000,
	}
}

func TestCreateInputValidate(t *testing.T) {
	allowed := DepartmentsFromEnv()

	require.NoError(t, validCreateInput().Validate(allowed))

	cases := []struct {
		name   string
		mutate func(*CreateInput)
		field  string
	}{
		{"numeric first name", func(in *CreateInput) { in.FirstName = "J0hn" }, "firstName"},
		{"short last name", func(in *CreateInput) { in.LastName = "D" }, "lastName"},
		{"bad email", func(in *CreateInput) { in.Email = "not-an-email" }, "email"},
		{"empty phone", func(in *CreateInput) { in.Phone = "" }, "phone"},
		{"unknown department", func(in *CreateInput) { in.Department = "Astronomy" }, "department"},
		{"salary below minimum", func(in *CreateInput) { in.Salary = 15000 }, "salary"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := validCreateInput()
			c.mutate(&in)
			err := in.Validate(allowed)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, c.field, ve.Field)
		})
	}
}

func TestUpdateInputValidateSkipsAbsentFields(t *testing.T) {
	allowed := DepartmentsFromEnv()
	require.NoError(t, UpdateInput{}.Validate(allowed))

	bad := "X"
	err := UpdateInput{FirstName: &bad}.Validate(allowed)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "firstName", ve.Field)
}

func TestUpdateInputCustomAvatarPresence(t *testing.T) {
	var omitted UpdateInput
	require.NoError(t, json.Unmarshal([]byte(`{"firstName":"Jane"}`), &omitted))
	require.False(t, omitted.CustomAvatar.Set)

	var empty UpdateInput
	require.NoError(t, json.Unmarshal([]byte(`{"customAvatar":""}`), &empty))
	require.True(t, empty.CustomAvatar.Set)
	require.Equal(t, "", empty.CustomAvatar.Value)

	var explicitNull UpdateInput
	require.NoError(t, json.Unmarshal([]byte(`{"customAvatar":null}`), &explicitNull))
	require.True(t, explicitNull.CustomAvatar.Set)
	require.Equal(t, "", explicitNull.CustomAvatar.Value)

	var set UpdateInput
	require.NoError(t, json.Unmarshal([]byte(`{"customAvatar":"https://example.com/a.png"}`), &set))
	require.True(t, set.CustomAvatar.Set)
	require.Equal(t, "https://example.com/a.png", set.CustomAvatar.Value)
}
