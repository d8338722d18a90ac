package model

import (
	"testing"

	"github.com/google/uuid"
)

func TestOrderStatusValues(t *testing.T) {
	cases := []struct {
		name  string
		got   OrderStatus
		value string
	}{
		{"ordered", StatusOrdered, "ordered"},
		{"owner accepted", StatusOwnerAccepted, "owner_accepted"},
		{"customer accepted", StatusCustomerAccepted, "customer_accepted"},
		{"invoiced", StatusInvoiced, "invoiced"},
		{"paid", StatusPaid, "paid"},
		{"scheduled", StatusScheduled, "scheduled"},
		{"delivered", StatusDelivered, "delivered"},
		{"cancelled", StatusCancelled, "cancelled"},
		{"pending", StatusPending, "pending"},
		{"owner review", StatusOwnerReview, "owner_review"},
		{"completed", StatusCompleted, "completed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if string(tc.got) != tc.value {
				t.Fatalf("expected %s, got %s", tc.value, tc.got)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	for _, raw := range []string{"customer", "owner", "admin", "system"} {
		if r, err := ParseRole(raw); err != nil || string(r) != raw {
			t.Fatalf("expected %s to parse, got %v %v", raw, r, err)
		}
	}
	if _, err := ParseRole("driver"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestActorRef(t *testing.T) {
	if SystemActor().Ref() != nil {
		t.Fatal("system actor must not carry a reference")
	}
	id := uuid.New()
	ref := Actor{UserID: id, Role: RoleOwner}.Ref()
	if ref == nil || *ref != id {
		t.Fatalf("unexpected ref %v", ref)
	}
	if !(Actor{Role: RoleCustomer}).IsSystem() {
		t.Fatal("actor without user id is treated as system")
	}
}

func TestRoleFilter(t *testing.T) {
	f, err := ParseRoleFilter("")
	if err != nil || f != FilterAny {
		t.Fatalf("expected any filter, got %q %v", f, err)
	}
	if _, err := ParseRoleFilter("admin"); err == nil {
		t.Fatal("expected error for admin filter")
	}
	if !FilterAny.Matches(RoleOwner) || !FilterOwner.Matches(RoleOwner) || FilterOwner.Matches(RoleCustomer) {
		t.Fatal("unexpected filter matching")
	}
}
