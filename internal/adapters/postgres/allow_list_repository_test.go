package postgres

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestAllowListRepository_ListAuthorizedIDs(t *testing.T) {
	// 1. Setup
	nopLogger := zerolog.Nop()
	repo := NewAllowListRepository(testDB, &nopLogger)

	base := time.Now().UnixNano()
	active1, active2, revoked := base, base+1, base+2
	insertTestUser(t, active2, false)
	insertTestUser(t, active1, false)
	insertTestUser(t, revoked, true)

	// 2. Run
	ids, err := repo.ListAuthorizedIDs(context.Background())
	if err != nil {
		t.Fatalf("ListAuthorizedIDs failed: %v", err)
	}

	// 3. Verify
	if !slices.Contains(ids, active1) || !slices.Contains(ids, active2) {
		t.Errorf("active users missing from %v", ids)
	}
	if slices.Contains(ids, revoked) {
		t.Errorf("revoked user %d must not be listed", revoked)
	}
	if !slices.IsSorted(ids) {
		t.Errorf("ids not sorted: %v", ids)
	}
}
