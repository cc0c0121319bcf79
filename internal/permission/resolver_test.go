package permission

import (
	"testing"

	"openschool/internal/model"
)

func TestResolve(t *testing.T) {
	ownerID := int64(1)
	owner := Principal{ID: 1, Role: model.RoleUser, Authenticated: true}
	other := Principal{ID: 2, Role: model.RoleUser, Authenticated: true}
	moderator := Principal{ID: 3, Role: model.RoleModerator, Authenticated: true}
	anonymous := Principal{}

	owned := Resource{OwnerID: &ownerID}
	orphan := Resource{}

	tests := []struct {
		name      string
		action    Action
		principal Principal
		resource  Resource
		want      bool
	}{
		{"create by authenticated user", ActionCreate, other, Resource{}, true},
		{"create by moderator", ActionCreate, moderator, Resource{}, true},
		{"create by anonymous", ActionCreate, anonymous, Resource{}, false},

		{"list by authenticated user", ActionList, other, Resource{}, true},
		{"list by anonymous", ActionList, anonymous, Resource{}, false},

		{"retrieve by owner", ActionRetrieve, owner, owned, true},
		{"retrieve by moderator", ActionRetrieve, moderator, owned, true},
		{"retrieve by non-owner", ActionRetrieve, other, owned, false},
		{"retrieve by anonymous", ActionRetrieve, anonymous, owned, false},
		{"retrieve orphan by moderator", ActionRetrieve, moderator, orphan, true},
		{"retrieve orphan by user", ActionRetrieve, other, orphan, false},

		{"update by owner", ActionUpdate, owner, owned, true},
		{"update by moderator", ActionUpdate, moderator, owned, true},
		{"update by non-owner", ActionUpdate, other, owned, false},

		{"destroy by owner", ActionDestroy, owner, owned, true},
		{"destroy by moderator", ActionDestroy, moderator, owned, false},
		{"destroy by non-owner", ActionDestroy, other, owned, false},
		{"destroy by anonymous", ActionDestroy, anonymous, owned, false},
		{"destroy orphan by owner-less user", ActionDestroy, owner, orphan, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.action, tt.principal, tt.resource)
			if got.Allowed != tt.want {
				t.Fatalf("Resolve(%s) = %v (reason %q), want allowed=%v",
					tt.action, got.Allowed, got.Reason, tt.want)
			}
			if !got.Allowed && got.Reason == "" {
				t.Fatal("denial must carry a reason")
			}
		})
	}
}

func TestResolveUnknownActionDenied(t *testing.T) {
	p := Principal{ID: 1, Authenticated: true}
	if d := Resolve(Action("bogus"), p, Resource{}); d.Allowed {
		t.Fatal("unknown action must be denied")
	}
}
