package domain

import (
	"testing"
	"time"
)

func TestBanKind_CanApply(t *testing.T) {
	cases := []struct {
		name    string
		current BanKind
		next    BanKind
		want    bool
	}{
		{"temp over clean", BanNone, BanTemporary, true},
		{"temp over temp rejected", BanTemporary, BanTemporary, false},
		{"temp over permanent allowed", BanPermanent, BanTemporary, true},
		{"permanent over clean", BanNone, BanPermanent, true},
		{"permanent over temp allowed", BanTemporary, BanPermanent, true},
		{"permanent over permanent rejected", BanPermanent, BanPermanent, false},
		{"unban of temp", BanTemporary, BanNone, true},
		{"unban of permanent", BanPermanent, BanNone, true},
		{"unban of clean rejected", BanNone, BanNone, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.current.CanApply(tc.next); got != tc.want {
				t.Errorf("CanApply(%v -> %v) = %v, want %v", tc.current, tc.next, got, tc.want)
			}
		})
	}
}

func TestBanRecord_Projection(t *testing.T) {
	until := time.Now().Add(48 * time.Hour)

	perm := BanRecord{Kind: BanPermanent}
	if state, expiry := perm.Projection(); state != StatePermanentlyBanned || !expiry.IsZero() {
		t.Errorf("permanent projection = (%v, %v)", state, expiry)
	}

	temp := BanRecord{Kind: BanTemporary, Until: until}
	if state, expiry := temp.Projection(); state != StateNormal || !expiry.Equal(until) {
		t.Errorf("temporary projection = (%v, %v)", state, expiry)
	}

	lift := BanRecord{Kind: BanNone}
	if state, expiry := lift.Projection(); state != StateNormal || !expiry.IsZero() {
		t.Errorf("unban projection = (%v, %v)", state, expiry)
	}
}

func TestBanRecord_Expired(t *testing.T) {
	now := time.Now()

	past := BanRecord{Kind: BanTemporary, Until: now.Add(-time.Minute)}
	if !past.Expired(now) {
		t.Error("temp ban past its until must be expired")
	}

	future := BanRecord{Kind: BanTemporary, Until: now.Add(time.Minute)}
	if future.Expired(now) {
		t.Error("temp ban before its until must not be expired")
	}

	perm := BanRecord{Kind: BanPermanent}
	if perm.Expired(now) {
		t.Error("permanent bans never expire")
	}
}

func TestCurrentKind(t *testing.T) {
	if CurrentKind(nil) != BanNone {
		t.Error("empty history derives BanNone")
	}

	history := []BanRecord{
		{Kind: BanNone, CreatedAt: time.Now()},
		{Kind: BanPermanent, CreatedAt: time.Now().Add(-time.Hour)},
	}
	if CurrentKind(history) != BanNone {
		t.Error("most recent record wins")
	}
}

func TestAccount_Banned(t *testing.T) {
	now := time.Now()

	perm := Account{State: StatePermanentlyBanned}
	if !perm.Banned(now) {
		t.Error("permanent marker must report banned")
	}

	temp := Account{State: StateNormal, BanExpiresAt: now.Add(time.Hour)}
	if !temp.Banned(now) {
		t.Error("unexpired temp marker must report banned")
	}

	expired := Account{State: StateNormal, BanExpiresAt: now.Add(-time.Hour)}
	if expired.Banned(now) {
		t.Error("expired temp marker must not report banned")
	}

	clean := Account{State: StateNormal}
	if clean.Banned(now) {
		t.Error("clean account must not report banned")
	}
}
