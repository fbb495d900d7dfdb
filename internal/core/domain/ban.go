package domain

import "time"

// BanKind is the category of a moderation record.
type BanKind int

const (
	BanNone      BanKind = 0
	BanTemporary BanKind = 1
	BanPermanent BanKind = 2
)

func (k BanKind) String() string {
	switch k {
	case BanTemporary:
		return "temporary"
	case BanPermanent:
		return "permanent"
	default:
		return "none"
	}
}

// CanApply reports whether a moderation record of kind next may be appended
// when k is the current kind. The only blocked transitions are re-applying
// the kind already in effect and lifting a ban that does not exist. A
// permanent ban does not block a new temporary ban (nor the reverse); that
// asymmetry is long-standing observed behaviour and is kept as-is.
func (k BanKind) CanApply(next BanKind) bool {
	switch next {
	case BanNone:
		return k != BanNone
	default:
		return k != next
	}
}

// BanRecord is one append-only moderation event. The current ban status of an
// account is the most recent record by CreatedAt; older records are audit
// history and are never rewritten.
type BanRecord struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"account_id"`
	BannedBy  int64     `json:"banned_by"` // 0 means system or self
	Kind      BanKind   `json:"ban_type"`
	Until     time.Time `json:"ban_until,omitzero"` // meaningful only for BanTemporary
	Reason    string    `json:"ban_reason"`
	CreatedAt time.Time `json:"ban_date"`
}

// Expired reports whether a temporary ban record has run out. Records of any
// other kind never expire.
func (r *BanRecord) Expired(now time.Time) bool {
	return r.Kind == BanTemporary && !r.Until.After(now)
}

// Projection returns the lifecycle-state fields the account row must carry so
// that it stays consistent with r being the most recent ban record.
func (r *BanRecord) Projection() (AccountState, time.Time) {
	switch r.Kind {
	case BanPermanent:
		return StatePermanentlyBanned, time.Time{}
	case BanTemporary:
		return StateNormal, r.Until
	default:
		return StateNormal, time.Time{}
	}
}

// CurrentKind derives the kind in effect from a most-recent-first history.
// An empty history means the account was never banned, which callers treat
// differently from an explicit BanNone record.
func CurrentKind(history []BanRecord) BanKind {
	if len(history) == 0 {
		return BanNone
	}
	return history[0].Kind
}
