package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/gameops/account-system/internal/core/domain"
	"github.com/gameops/account-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubBanRepo struct {
	mu        sync.Mutex
	records   map[int64][]domain.BanRecord // newest first
	appendErr error
}

func newStubBanRepo() *stubBanRepo {
	return &stubBanRepo{records: make(map[int64][]domain.BanRecord)}
}

func (r *stubBanRepo) Append(_ context.Context, record *domain.BanRecord) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	record.ID = int64(len(r.records[record.AccountID]) + 1)
	r.records[record.AccountID] = append([]domain.BanRecord{*record}, r.records[record.AccountID]...)
	return nil
}

func (r *stubBanRepo) History(_ context.Context, accountID int64) ([]domain.BanRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	history := make([]domain.BanRecord, len(r.records[accountID]))
	copy(history, r.records[accountID])
	return history, nil
}

type stubAuditSink struct {
	mu     sync.Mutex
	events []ports.AuditEvent
}

func (s *stubAuditSink) Enqueue(event ports.AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *stubAuditSink) kinds() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.events))
	for i, e := range s.events {
		out[i] = e.Kind
	}
	return out
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func newModeration() (*ModerationService, *stubBanRepo, *stubAuditSink) {
	repo := newStubBanRepo()
	sink := &stubAuditSink{}
	return NewModerationService(repo, sink, zerolog.Nop()), repo, sink
}

func TestModeration_PermanentBan_FreshAccount(t *testing.T) {
	svc, repo, _ := newModeration()
	ctx := context.Background()

	if err := svc.ApplyPermanentBan(ctx, 1, "cheating", 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	history, err := svc.BanStatus(ctx, 100)
	if err != nil {
		t.Fatalf("BanStatus: %v", err)
	}
	if history[0].Kind != domain.BanPermanent {
		t.Errorf("current kind = %v, want permanent", history[0].Kind)
	}
	if history[0].Reason != "cheating" {
		t.Errorf("reason = %q", history[0].Reason)
	}

	// Re-applying a permanent ban is a conflict and appends nothing.
	err = svc.ApplyPermanentBan(ctx, 1, "cheating again", 100)
	if !errors.Is(err, domain.ErrBanStateConflict) {
		t.Fatalf("expected ErrBanStateConflict, got %v", err)
	}
	if len(repo.records[100]) != 1 {
		t.Errorf("conflict must not append a record, got %d", len(repo.records[100]))
	}
}

func TestModeration_TemporaryBan_Twice_Rejected(t *testing.T) {
	svc, repo, _ := newModeration()
	ctx := context.Background()
	until := time.Now().Add(72 * time.Hour)

	if err := svc.ApplyTemporaryBan(ctx, 1, "spam", 100, until); err != nil {
		t.Fatalf("first temp ban: %v", err)
	}
	err := svc.ApplyTemporaryBan(ctx, 2, "spam", 100, until)
	if !errors.Is(err, domain.ErrBanStateConflict) {
		t.Fatalf("expected ErrBanStateConflict, got %v", err)
	}
	if len(repo.records[100]) != 1 {
		t.Errorf("expected 1 record, got %d", len(repo.records[100]))
	}
}

// Permanent does not block temporary, and temporary does not block permanent.
// Observed precedence behaviour that must stay exactly as-is.
func TestModeration_PrecedenceAsymmetry(t *testing.T) {
	svc, _, _ := newModeration()
	ctx := context.Background()
	until := time.Now().Add(24 * time.Hour)

	if err := svc.ApplyPermanentBan(ctx, 1, "rmt", 200); err != nil {
		t.Fatalf("permanent: %v", err)
	}
	if err := svc.ApplyTemporaryBan(ctx, 1, "extra", 200, until); err != nil {
		t.Fatalf("temporary over permanent must succeed: %v", err)
	}

	if err := svc.ApplyTemporaryBan(ctx, 1, "bot", 201, until); err != nil {
		t.Fatalf("temporary: %v", err)
	}
	if err := svc.ApplyPermanentBan(ctx, 1, "bot confirmed", 201); err != nil {
		t.Fatalf("permanent over temporary must succeed: %v", err)
	}
}

func TestModeration_Unban(t *testing.T) {
	svc, _, _ := newModeration()
	ctx := context.Background()

	// Unbanning a never-banned account is a conflict.
	err := svc.Unban(ctx, 1, "oops", 300)
	if !errors.Is(err, domain.ErrBanStateConflict) {
		t.Fatalf("expected ErrBanStateConflict, got %v", err)
	}

	if err := svc.ApplyPermanentBan(ctx, 1, "cheating", 300); err != nil {
		t.Fatalf("permanent: %v", err)
	}
	if err := svc.Unban(ctx, 2, "appeal granted", 300); err != nil {
		t.Fatalf("unban: %v", err)
	}

	history, err := svc.BanStatus(ctx, 300)
	if err != nil {
		t.Fatalf("BanStatus: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history must keep the lifted ban, got %d records", len(history))
	}
	if history[0].Kind != domain.BanNone {
		t.Errorf("latest kind = %v, want none", history[0].Kind)
	}
	if history[1].Kind != domain.BanPermanent {
		t.Errorf("older kind = %v, want permanent", history[1].Kind)
	}

	// Already lifted: a second unban conflicts.
	err = svc.Unban(ctx, 2, "again", 300)
	if !errors.Is(err, domain.ErrBanStateConflict) {
		t.Fatalf("expected ErrBanStateConflict, got %v", err)
	}
}

func TestModeration_BanStatus_NoHistory(t *testing.T) {
	svc, _, _ := newModeration()

	_, err := svc.BanStatus(context.Background(), 999)
	if !errors.Is(err, domain.ErrNoBanHistory) {
		t.Fatalf("expected ErrNoBanHistory, got %v", err)
	}
}

func TestModeration_AppendFailure_WrapsStoreFailure(t *testing.T) {
	svc, repo, _ := newModeration()
	repo.appendErr = errors.New("disk on fire")

	err := svc.ApplyPermanentBan(context.Background(), 1, "x", 400)
	if !errors.Is(err, domain.ErrStoreFailure) {
		t.Fatalf("expected ErrStoreFailure, got %v", err)
	}
}

func TestModeration_EmitsAuditEvents(t *testing.T) {
	svc, _, sink := newModeration()
	ctx := context.Background()

	_ = svc.ApplyPermanentBan(ctx, 1, "cheating", 500)
	_ = svc.Unban(ctx, 1, "appeal", 500)

	kinds := sink.kinds()
	if len(kinds) != 2 || kinds[0] != ports.EventAccountBanned || kinds[1] != ports.EventAccountUnbanned {
		t.Errorf("audit kinds = %v", kinds)
	}
}

func TestModeration_ConcurrentTempBans_OnlyOneWins(t *testing.T) {
	svc, repo, _ := newModeration()
	until := time.Now().Add(time.Hour)

	const workers = 16
	var wg sync.WaitGroup
	var successes, conflicts int64
	var mu sync.Mutex

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(mod int64) {
			defer wg.Done()
			err := svc.ApplyTemporaryBan(context.Background(), mod, "raid", 600, until)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrBanStateConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(int64(i))
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("exactly one concurrent temp ban must win, got %d", successes)
	}
	if conflicts != workers-1 {
		t.Errorf("expected %d conflicts, got %d", workers-1, conflicts)
	}
	if len(repo.records[600]) != 1 {
		t.Errorf("expected 1 record, got %d", len(repo.records[600]))
	}
}
