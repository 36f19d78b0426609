package ids

import (
	"testing"

	"github.com/google/uuid"
)

func TestTimeOrderedUnique(t *testing.T) {
	g := Default()
	seen := make(map[string]struct{}, 5000)
	for i := 0; i < 5000; i++ {
		id := g.NewID()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q after %d ids", id, i)
		}
		seen[id] = struct{}{}
	}
}

func TestTimeOrderedIsUUIDv7(t *testing.T) {
	id, err := uuid.Parse(TimeOrdered{}.NewID())
	if err != nil {
		t.Fatalf("expected uuid, got error %v", err)
	}
	if id.Version() != 7 {
		t.Fatalf("expected version 7, got %d", id.Version())
	}
}

func TestSequence(t *testing.T) {
	g := Sequence("e")
	if a, b := g.NewID(), g.NewID(); a != "e-1" || b != "e-2" {
		t.Fatalf("unexpected sequence %q %q", a, b)
	}
}
