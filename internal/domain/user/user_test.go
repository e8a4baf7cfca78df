package user

import (
	"testing"

	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"admin", RoleAdmin, true},
		{"ADMIN", RoleAdmin, true},
		{" Empleado ", RoleEmployee, true},
		{"employee", RoleEmployee, true},
		{"manager", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := ParseRole(c.in)
		assert.Equal(t, c.ok, ok, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("Activo")
	assert.True(t, ok)
	assert.Equal(t, StatusActive, s)

	s, ok = ParseStatus("inactive")
	assert.True(t, ok)
	assert.Equal(t, StatusInactive, s)

	_, ok = ParseStatus("suspended")
	assert.False(t, ok)
}

func TestFullName(t *testing.T) {
	u := User{FirstName: "Ana", LastName: "García"}
	assert.Equal(t, "Ana García", u.FullName())

	u.LastName = ""
	assert.Equal(t, "Ana", u.FullName())
}

func TestListUsersQuery_ToFilter(t *testing.T) {
	filter, err := ListUsersQuery{Search: " ana ", Role: "empleado", Active: "false", SortBy: "email"}.ToFilter()
	require.NoError(t, err)
	require.NotNil(t, filter.Search)
	assert.Equal(t, "ana", *filter.Search)
	require.NotNil(t, filter.Role)
	assert.Equal(t, RoleEmployee, *filter.Role)
	require.NotNil(t, filter.Active)
	assert.False(t, *filter.Active)
	assert.Equal(t, SortByEmail, filter.SortBy)

	filter, err = ListUsersQuery{}.ToFilter()
	require.NoError(t, err)
	assert.Nil(t, filter.Search)
	assert.Nil(t, filter.Role)
	assert.Nil(t, filter.Active)
	assert.Equal(t, SortByName, filter.SortBy)

	_, err = ListUsersQuery{Role: "root", Active: "maybe", SortBy: "age"}.ToFilter()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
}

func TestCreateUserRequest_Validate(t *testing.T) {
	req := CreateUserRequest{FirstName: "Ana", Email: "ana@demo.local", Password: "secret1"}
	assert.NoError(t, req.Validate())

	bad := CreateUserRequest{Email: "nope", Password: "123", Role: "boss"}
	var verrs validator.ValidationErrors
	require.ErrorAs(t, bad.Validate(), &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "first_name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "role")
}

func TestUpdateUserRequest_Validate(t *testing.T) {
	empty := ""
	badStatus := "paused"
	req := UpdateUserRequest{FirstName: &empty, Status: &badStatus}

	var verrs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &verrs)
	assert.Contains(t, verrs.ToMap(), "first_name")
	assert.Contains(t, verrs.ToMap(), "status")

	name := "Luis"
	assert.NoError(t, (&UpdateUserRequest{FirstName: &name}).Validate())
}

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleAdmin, PermissionUserManage))
	assert.True(t, HasPermission(RoleEmployee, PermissionAttendanceOwn))
	assert.False(t, HasPermission(RoleEmployee, PermissionIncidentRespond))
	assert.False(t, HasPermission(Role("ghost"), PermissionViewOwnProfile))
}
