package presence

import (
	"errors"
	"testing"
)

func TestRegistry_JoinValidation(t *testing.T) {
	tests := []struct {
		name        string
		displayName string
		wantErr     bool
	}{
		{name: "valid name", displayName: "alice"},
		{name: "empty name", displayName: "", wantErr: true},
		{name: "whitespace name", displayName: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			err := r.Join("conn-1", tt.displayName)

			if tt.wantErr {
				if !errors.Is(err, ErrNameEmpty) {
					t.Fatalf("Join() error = %v, want ErrNameEmpty", err)
				}
				if len(r.List()) != 0 {
					t.Error("Join() registered a connection despite failing")
				}
				return
			}
			if err != nil {
				t.Fatalf("Join() unexpected error: %v", err)
			}
		})
	}
}

func TestRegistry_ListJoinOrder(t *testing.T) {
	r := NewRegistry()
	for _, pair := range [][2]string{{"c1", "alice"}, {"c2", "bob"}, {"c3", "carol"}} {
		if err := r.Join(pair[0], pair[1]); err != nil {
			t.Fatalf("Join(%s): %v", pair[0], err)
		}
	}

	users := r.List()
	if len(users) != 3 {
		t.Fatalf("List() len = %d, want 3", len(users))
	}
	for i, want := range []string{"alice", "bob", "carol"} {
		if users[i].Username != want {
			t.Errorf("List()[%d].Username = %q, want %q", i, users[i].Username, want)
		}
	}
}

func TestRegistry_RejoinOverwritesInPlace(t *testing.T) {
	r := NewRegistry()
	_ = r.Join("c1", "alice")
	_ = r.Join("c2", "bob")
	_ = r.Join("c1", "alicia")

	users := r.List()
	if len(users) != 2 {
		t.Fatalf("List() len = %d, want 2", len(users))
	}
	if users[0].ID != "c1" || users[0].Username != "alicia" {
		t.Errorf("List()[0] = %+v, want c1/alicia keeping its position", users[0])
	}
}

func TestRegistry_SharedDisplayNames(t *testing.T) {
	// Display names are intentionally not unique.
	r := NewRegistry()
	if err := r.Join("c1", "alice"); err != nil {
		t.Fatalf("Join(c1): %v", err)
	}
	if err := r.Join("c2", "alice"); err != nil {
		t.Fatalf("Join(c2) with duplicate name: %v", err)
	}
	if len(r.List()) != 2 {
		t.Errorf("List() len = %d, want 2", len(r.List()))
	}
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry()
	_ = r.Join("c1", "alice")
	_ = r.Join("c2", "bob")

	name, ok := r.Remove("c1")
	if !ok || name != "alice" {
		t.Fatalf("Remove(c1) = (%q, %v), want (alice, true)", name, ok)
	}
	if _, ok := r.Lookup("c1"); ok {
		t.Error("Lookup(c1) found a removed connection")
	}

	users := r.List()
	if len(users) != 1 || users[0].ID != "c2" {
		t.Errorf("List() after remove = %+v, want only c2", users)
	}

	if _, ok := r.Remove("c1"); ok {
		t.Error("Remove(c1) twice reported success")
	}
}
