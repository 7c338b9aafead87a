package domain

import (
	"testing"
	"time"
)

func TestEventFull(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		quota      int
		registered int
		want       bool
	}{
		{"below quota", 10, 9, false},
		{"at quota", 10, 10, true},
		{"over quota", 10, 11, true},
		{"zero quota is unlimited", 0, 100000, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := Event{
				Details: EventDetails{Quota: tc.quota},
				Stats:   EventStats{RegisteredCount: tc.registered},
			}
			if got := e.Full(); got != tc.want {
				t.Fatalf("Full() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEventDeadlinePassed(t *testing.T) {
	t.Parallel()

	deadline := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	e := Event{Time: EventTime{Deadline: deadline}}

	if e.DeadlinePassed(deadline) {
		t.Fatal("registration at the exact deadline must still be allowed")
	}
	if e.DeadlinePassed(deadline.Add(-time.Second)) {
		t.Fatal("before the deadline must be allowed")
	}
	if !e.DeadlinePassed(deadline.Add(time.Second)) {
		t.Fatal("after the deadline must be rejected")
	}
}

func TestRegistrationActive(t *testing.T) {
	t.Parallel()

	for _, status := range []RegistrationStatus{
		RegistrationStatusRegistered,
		RegistrationStatusWaitlist,
		RegistrationStatusApproved,
	} {
		r := Registration{Status: RegistrationState{Status: status}}
		if !r.Active() {
			t.Fatalf("status %s should be active", status)
		}
	}

	r := Registration{Status: RegistrationState{Status: RegistrationStatusCancelled}}
	if r.Active() {
		t.Fatal("cancelled registration should not be active")
	}
}

func TestMemberIsAdmin(t *testing.T) {
	t.Parallel()

	admin := Member{System: MemberSystem{Role: MemberRoleAdmin}}
	if !admin.IsAdmin() {
		t.Fatal("admin role should report admin")
	}

	member := Member{System: MemberSystem{Role: MemberRoleMember}}
	if member.IsAdmin() {
		t.Fatal("member role should not report admin")
	}
}
