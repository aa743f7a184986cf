package domain

import "testing"

func TestLineupSetEquality(t *testing.T) {
	a := NewLineup("p1", "p2", "p3", "p4", "p5")
	b := NewLineup("p5", "p4", "p3", "p2", "p1")

	if !a.Equal(b) {
		t.Fatalf("expected lineups with same members to be equal regardless of order")
	}

	c := NewLineup("p1", "p2", "p3", "p4", "p6")
	if a.Equal(c) {
		t.Fatalf("expected lineups with different members to differ")
	}
}

func TestLineupValid(t *testing.T) {
	if !NewLineup("a", "b", "c", "d", "e").Valid() {
		t.Fatalf("expected five distinct players to be valid")
	}
	if NewLineup("a", "b", "c", "d").Valid() {
		t.Fatalf("expected four players to be invalid")
	}
	if NewLineup("a", "a", "b", "c", "d").Valid() {
		t.Fatalf("expected duplicate players to be invalid")
	}
}

func TestLineupCloneIsIndependent(t *testing.T) {
	a := NewLineup("a", "b", "c", "d", "e")
	b := a.Clone()
	b[0] = "z"
	if a[0] != "a" {
		t.Fatalf("clone mutated the original lineup")
	}
}
