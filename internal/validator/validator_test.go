package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tendril/pkg/domain"
)

func decl(id, path string) domain.Declaration {
	return domain.Declaration{
		Endpoint: domain.Endpoint{ID: id, Method: domain.MethodGet, Path: path},
		Triplet:  domain.DeriveTriplet(id),
	}
}

func TestValidateDeclarations_Valid(t *testing.T) {
	err := ValidateDeclarations([]domain.Declaration{
		decl("login", "/login"),
		decl("fetchProfile", "/profile/{id}"),
		decl("search", "/search/{scope}/{term}"),
	})
	require.NoError(t, err)
}

func TestValidateDeclarations_DuplicateID(t *testing.T) {
	err := ValidateDeclarations([]domain.Declaration{
		decl("login", "/login"),
		decl("login", "/login"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate endpoint ID: 'login'")
}

func TestValidateDeclarations_LabelCollision(t *testing.T) {
	a := decl("login", "/login")
	b := decl("signin", "/signin")
	b.Triplet.Success = "login/SUCCESS"

	err := ValidateDeclarations([]domain.Declaration{a, b})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "action label 'login/SUCCESS' already used by 'login'")
}

func TestValidateDeclarations_BrokenPaths(t *testing.T) {
	cases := []struct {
		name string
		path string
		want string
	}{
		{"unclosed", "/profile/{id", "unclosed '{'"},
		{"unbalanced", "/profile/id}", "unbalanced '}'"},
		{"empty", "/profile/{}", "empty parameter name"},
		{"duplicate", "/pair/{id}/{id}", "duplicate parameter 'id'"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateDeclarations([]domain.Declaration{decl("e", tc.path)})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestValidateDeclarations_InvalidDeclaration(t *testing.T) {
	bad := decl("broken", "/x")
	bad.Triplet.Failure = bad.Triplet.Success

	err := ValidateDeclarations([]domain.Declaration{bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}
