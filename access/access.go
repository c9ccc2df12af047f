// Package access holds the authorization rules for every resource. Rules are
// built from small predicates over the caller and the resource owner, and the
// table in DefaultPolicy is the single place where they are decided.
package access

import (
	"fmt"
	"slices"

	"github.com/rpupo63/student-showcase-backend/errs"
	"github.com/rpupo63/student-showcase-backend/models"
)

// Caller is who performs a request. The zero value is the anonymous caller:
// no identity and no roles.
type Caller struct {
	UserID uint
	Roles  []string
}

// Anonymous is the caller of a request without a valid token.
var Anonymous = Caller{}

func (c Caller) Authenticated() bool {
	return c.UserID != 0
}

func (c Caller) HasRole(role string) bool {
	return c.Authenticated() && slices.Contains(c.Roles, role)
}

// Resource is the part of a target item the rules look at. Collections and
// creations use the zero value.
type Resource struct {
	OwnerID *uint
}

// Owned returns the Resource for an item owned by ownerID (which may be nil).
func Owned(ownerID *uint) Resource {
	return Resource{OwnerID: ownerID}
}

// OwnedBy returns the Resource for an item owned by a known user id.
func OwnedBy(ownerID uint) Resource {
	return Resource{OwnerID: &ownerID}
}

// Predicate decides one condition. It must not cache anything between calls.
type Predicate func(Caller, Resource) bool

func Public() Predicate {
	return func(Caller, Resource) bool { return true }
}

func HasRole(role string) Predicate {
	return func(c Caller, _ Resource) bool { return c.HasRole(role) }
}

// IsOwner compares the resource owner with the caller. Anonymous callers and
// ownerless resources never match.
func IsOwner() Predicate {
	return func(c Caller, r Resource) bool {
		return c.Authenticated() && r.OwnerID != nil && *r.OwnerID == c.UserID
	}
}

func AnyOf(predicates ...Predicate) Predicate {
	return func(c Caller, r Resource) bool {
		for _, p := range predicates {
			if p(c, r) {
				return true
			}
		}
		return false
	}
}

type Entity string

const (
	Article   Entity = "article"
	Category  Entity = "category"
	Project   Entity = "project"
	Student   Entity = "student"
	Candidate Entity = "candidate"
	Media     Entity = "media"
	User      Entity = "user"
)

type Operation string

const (
	List   Operation = "list"
	Get    Operation = "get"
	Create Operation = "create"
	Update Operation = "update"
	Delete Operation = "delete"
)

// Rule pairs a predicate with the message returned when it fails.
type Rule struct {
	Allow   Predicate
	Message string
}

// Policy maps every entity and operation to its rule. Missing entries deny.
type Policy map[Entity]map[Operation]Rule

// Check returns nil when caller may perform op on entity, or a 403 *errs.ApiErr
// carrying the rule's message.
func (p Policy) Check(entity Entity, op Operation, caller Caller, resource Resource) error {
	rule, ok := p[entity][op]
	if !ok || rule.Allow == nil {
		return errs.NewForbiddenError(deniedMessage(entity, op))
	}
	if !rule.Allow(caller, resource) {
		msg := rule.Message
		if msg == "" {
			msg = deniedMessage(entity, op)
		}
		return errs.NewForbiddenError(msg)
	}
	return nil
}

var verbs = map[Operation]string{
	List:   "see",
	Get:    "see",
	Create: "create",
	Update: "update",
	Delete: "delete",
}

func deniedMessage(entity Entity, op Operation) string {
	noun := "this " + string(entity)
	if op == List {
		noun = plural(entity)
	}
	return fmt.Sprintf("Access denied: you are not allowed to %s %s.", verbs[op], noun)
}

func plural(entity Entity) string {
	switch entity {
	case Media:
		return "media"
	case Category:
		return "categories"
	default:
		return string(entity) + "s"
	}
}

func rule(entity Entity, op Operation, allow Predicate) Rule {
	return Rule{Allow: allow, Message: deniedMessage(entity, op)}
}

func rules(entity Entity, ops map[Operation]Predicate) map[Operation]Rule {
	out := make(map[Operation]Rule, len(ops))
	for op, allow := range ops {
		out[op] = rule(entity, op, allow)
	}
	return out
}

// DefaultPolicy returns the rule table of the application.
func DefaultPolicy() Policy {
	admin := HasRole(models.RoleAdmin)
	adminOrOwner := AnyOf(admin, IsOwner())
	userOrOwner := AnyOf(HasRole(models.RoleUser), IsOwner())

	return Policy{
		Article: rules(Article, map[Operation]Predicate{
			List:   Public(),
			Get:    Public(),
			Create: admin,
			Update: admin,
			Delete: admin,
		}),
		Category: rules(Category, map[Operation]Predicate{
			List:   Public(),
			Get:    Public(),
			Create: admin,
			Update: admin,
			Delete: admin,
		}),
		Project: rules(Project, map[Operation]Predicate{
			List:   userOrOwner,
			Get:    userOrOwner,
			Create: admin,
			Update: adminOrOwner,
			Delete: adminOrOwner,
		}),
		Student: rules(Student, map[Operation]Predicate{
			List:   admin,
			Get:    admin,
			Create: admin,
			Update: admin,
			Delete: admin,
		}),
		Candidate: rules(Candidate, map[Operation]Predicate{
			List:   admin,
			Get:    admin,
			Create: Public(),
			Update: admin,
			Delete: admin,
		}),
		Media: rules(Media, map[Operation]Predicate{
			List:   admin,
			Get:    Public(),
			Create: Public(),
			Delete: admin,
		}),
		User: rules(User, map[Operation]Predicate{
			List:   admin,
			Get:    adminOrOwner,
			Create: Public(),
			Update: adminOrOwner,
			Delete: admin,
		}),
	}
}
