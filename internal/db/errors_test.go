package db

import (
	"errors"
	"testing"
)

func TestMapDBError(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil passes through", nil, nil},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: identities.name"), ErrDuplicate},
		{"postgres duplicate", errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"), ErrDuplicate},
		{"mysql duplicate", errors.New("Error 1062: Duplicate entry 'alice' for key 'name'"), ErrDuplicate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MapDBError(tc.in)
			if tc.want == nil {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}
			if !errors.Is(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}

	// Unrelated errors must pass through unchanged.
	plain := errors.New("connection refused")
	if got := MapDBError(plain); got != plain {
		t.Fatalf("expected unrelated error to pass through, got %v", got)
	}
}
