// Package permission resolves whether a principal may perform an action on a
// course or lesson. The rules are deliberately asymmetric: moderators may
// curate (retrieve, update) any resource but may never destroy one; destroy
// belongs to the owner alone.
package permission

import "openschool/internal/model"

// Action is a request-level operation on a course or lesson.
type Action string

const (
	ActionCreate   Action = "create"
	ActionRetrieve Action = "retrieve"
	ActionUpdate   Action = "update"
	ActionDestroy  Action = "destroy"
	ActionList     Action = "list"
)

// Principal is the acting identity, resolved once per request from the
// access token. A zero Principal is anonymous.
type Principal struct {
	ID            int64
	Role          string
	Authenticated bool
}

// IsModerator reports whether the principal carries the moderator role.
func (p Principal) IsModerator() bool {
	return p.Authenticated && p.Role == model.RoleModerator
}

// Resource is the target of the action. OwnerID is nil for ownerless
// resources (owner account deleted) and for create/list, where no resource
// exists yet.
type Resource struct {
	OwnerID *int64
}

// Owns reports whether the principal is the recorded owner of the resource.
func (r Resource) Owns(p Principal) bool {
	return p.Authenticated && r.OwnerID != nil && *r.OwnerID == p.ID
}

// Decision is the outcome of a resolution. Reason is set on denial.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Resolve applies the permission matrix. Courses and lessons share the same
// rules, so the resource kind does not participate in the decision.
func Resolve(action Action, p Principal, res Resource) Decision {
	switch action {
	case ActionCreate:
		// Moderators create unconditionally; everyone else just has to be
		// authenticated.
		if p.IsModerator() || p.Authenticated {
			return allow()
		}
		return deny("authentication required")
	case ActionList:
		if p.Authenticated {
			return allow()
		}
		return deny("authentication required")
	case ActionRetrieve, ActionUpdate:
		if p.IsModerator() || res.Owns(p) {
			return allow()
		}
		if !p.Authenticated {
			return deny("authentication required")
		}
		return deny("owner or moderator required")
	case ActionDestroy:
		if res.Owns(p) {
			return allow()
		}
		if !p.Authenticated {
			return deny("authentication required")
		}
		return deny("owner required")
	}
	return deny("unknown action")
}
