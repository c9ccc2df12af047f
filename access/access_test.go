package access

import (
	"testing"

	"github.com/rpupo63/student-showcase-backend/errs"
	"github.com/rpupo63/student-showcase-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin    = Caller{UserID: 1, Roles: []string{models.RoleUser, models.RoleAdmin}}
	member   = Caller{UserID: 2, Roles: []string{models.RoleUser}}
	stranger = Caller{UserID: 3, Roles: []string{models.RoleUser}}
	noRoles  = Caller{UserID: 4}
)

func TestPredicates(t *testing.T) {
	owned := OwnedBy(2)

	assert.True(t, Public()(Anonymous, Resource{}))
	assert.False(t, Anonymous.Authenticated())
	assert.True(t, member.Authenticated())

	assert.True(t, IsOwner()(member, owned))
	assert.False(t, IsOwner()(stranger, owned))
	assert.False(t, IsOwner()(member, Resource{}))

	// A forged anonymous caller with id 0 must not own an item owned by 0.
	zero := uint(0)
	assert.False(t, IsOwner()(Anonymous, Owned(&zero)))
	assert.False(t, HasRole(models.RoleAdmin)(Caller{Roles: []string{models.RoleAdmin}}, Resource{}))
}

func TestCombinators(t *testing.T) {
	calls := 0
	counting := func(result bool) Predicate {
		return func(Caller, Resource) bool {
			calls++
			return result
		}
	}

	assert.True(t, AnyOf(counting(true), counting(false))(member, Resource{}))
	assert.Equal(t, 1, calls, "AnyOf stops at the first success")

	calls = 0
	assert.False(t, AnyOf(counting(false), counting(false))(member, Resource{}))
	assert.Equal(t, 2, calls)

	assert.False(t, AnyOf()(member, Resource{}))
}

func TestDefaultPolicyTable(t *testing.T) {
	p := DefaultPolicy()
	ownedByMember := OwnedBy(member.UserID)

	tests := []struct {
		name     string
		entity   Entity
		op       Operation
		caller   Caller
		resource Resource
		allowed  bool
	}{
		{"anyone lists articles", Article, List, Anonymous, Resource{}, true},
		{"anyone reads an article", Article, Get, Anonymous, Resource{}, true},
		{"member cannot create article", Article, Create, member, Resource{}, false},
		{"admin creates article", Article, Create, admin, Resource{}, true},
		{"admin deletes article", Article, Delete, admin, Resource{}, true},

		{"anonymous cannot list projects", Project, List, Anonymous, Resource{}, false},
		{"member lists projects", Project, List, member, Resource{}, true},
		{"owner without roles reads own project", Project, Get, noRoles, OwnedBy(noRoles.UserID), true},
		{"member cannot create project", Project, Create, member, Resource{}, false},
		{"admin creates project", Project, Create, admin, Resource{}, true},
		{"owner updates project", Project, Update, member, ownedByMember, true},
		{"stranger cannot update project", Project, Update, stranger, ownedByMember, false},
		{"stranger cannot delete project", Project, Delete, stranger, ownedByMember, false},
		{"admin deletes any project", Project, Delete, admin, ownedByMember, true},
		{"anonymous cannot delete ownerless project", Project, Delete, Anonymous, Resource{}, false},

		{"member cannot list students", Student, List, member, Resource{}, false},
		{"admin lists students", Student, List, admin, Resource{}, true},
		{"member cannot update student", Student, Update, member, Resource{}, false},

		{"anyone applies", Candidate, Create, Anonymous, Resource{}, true},
		{"anonymous cannot read candidates", Candidate, List, Anonymous, Resource{}, false},
		{"admin reads candidates", Candidate, Get, admin, Resource{}, true},

		{"anyone uploads media", Media, Create, Anonymous, Resource{}, true},
		{"media has no update", Media, Update, admin, Resource{}, false},

		{"anyone registers", User, Create, Anonymous, Resource{}, true},
		{"user reads self", User, Get, member, ownedByMember, true},
		{"user cannot read another", User, Get, stranger, ownedByMember, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Check(tt.entity, tt.op, tt.caller, tt.resource)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, errs.ErrForbidden)
			}
		})
	}
}

func TestCheckReturnsEntityMessage(t *testing.T) {
	p := DefaultPolicy()

	err := p.Check(Project, List, Anonymous, Resource{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrForbidden)
	assert.NotErrorIs(t, err, errs.ErrNotFound)
	assert.Equal(t, "Access denied: you are not allowed to see projects.", err.Error())

	err = p.Check(Project, Delete, stranger, OwnedBy(member.UserID))
	assert.Equal(t, "Access denied: you are not allowed to delete this project.", err.Error())

	err = p.Check(Student, Create, member, Resource{})
	assert.Equal(t, "Access denied: you are not allowed to create this student.", err.Error())
}

func TestUnknownRuleDenies(t *testing.T) {
	err := Policy{}.Check(Entity("invoice"), Get, admin, Resource{})
	assert.ErrorIs(t, err, errs.ErrForbidden)
}
