package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsSlugConflict(t *testing.T) {
	t.Run("matches slug unique violation", func(t *testing.T) {
		err := fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: "match_translations_slug_key"})
		if !isSlugConflict(err) {
			t.Fatalf("expected slug conflict")
		}
	})

	t.Run("ignores other unique constraints", func(t *testing.T) {
		err := &pq.Error{Code: "23505", Constraint: "match_translations_match_language_key"}
		if isSlugConflict(err) {
			t.Fatalf("expected language uniqueness to be a different error")
		}
	})

	t.Run("ignores other codes", func(t *testing.T) {
		err := &pq.Error{Code: "23503", Constraint: "league_translations_slug_key"}
		if isSlugConflict(err) {
			t.Fatalf("expected foreign key violation to be ignored")
		}
	})

	t.Run("ignores non pq errors", func(t *testing.T) {
		if isSlugConflict(errors.New("boom")) {
			t.Fatalf("expected false for plain error")
		}
	})
}

func TestEscapeLike(t *testing.T) {
	got := escapeLike(`serie_a 100%\`)
	if got != `serie\_a 100\%\\` {
		t.Fatalf("unexpected escaped pattern: %s", got)
	}
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
}

func TestNullableIntRoundTrip(t *testing.T) {
	if nullInt64ToIntPtr(intPtrToNull(nil)) != nil {
		t.Fatalf("expected nil to stay nil")
	}
	v := 73
	got := nullInt64ToIntPtr(intPtrToNull(&v))
	if got == nil || *got != 73 {
		t.Fatalf("unexpected value: %v", got)
	}
}
