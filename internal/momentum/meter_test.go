package momentum

import (
	"testing"

	"hooptrack/internal/domain"
)

func defaultConfig() Config {
	return Config{GoodDelta: 5, FailedDelta: -5, NeutralDecay: 0, Bound: 100}
}

func TestAdvanceSequence(t *testing.T) {
	m := New(defaultConfig())

	outcomes := []domain.Outcome{domain.OutcomeGood, domain.OutcomeGood, domain.OutcomeFailed, domain.OutcomeNeutral}
	want := []int{5, 10, 5, 5}

	for i, outcome := range outcomes {
		if got := m.Advance(outcome); got != want[i] {
			t.Fatalf("step %d: got %d, want %d", i, got, want[i])
		}
	}
}

func TestAdvanceClampsAtBound(t *testing.T) {
	m := New(Config{GoodDelta: 60, FailedDelta: -60, Bound: 100})

	m.Advance(domain.OutcomeGood)
	if got := m.Advance(domain.OutcomeGood); got != 100 {
		t.Fatalf("expected clamp at +100, got %d", got)
	}

	for i := 0; i < 4; i++ {
		m.Advance(domain.OutcomeFailed)
	}
	if got := m.Value(); got != -100 {
		t.Fatalf("expected clamp at -100, got %d", got)
	}
}

func TestNeutralDecayMovesTowardZero(t *testing.T) {
	m := New(Config{GoodDelta: 5, FailedDelta: -5, NeutralDecay: 2, Bound: 100})

	m.Advance(domain.OutcomeGood) // 5
	if got := m.Advance(domain.OutcomeNeutral); got != 3 {
		t.Fatalf("expected decay to 3, got %d", got)
	}

	m = New(Config{GoodDelta: 5, FailedDelta: -5, NeutralDecay: 10, Bound: 100})
	m.Advance(domain.OutcomeFailed) // -5
	if got := m.Advance(domain.OutcomeNeutral); got != 0 {
		t.Fatalf("expected decay to stop at zero, got %d", got)
	}
}

func TestDeterministicReplay(t *testing.T) {
	outcomes := []domain.Outcome{
		domain.OutcomeGood, domain.OutcomeFailed, domain.OutcomeNeutral,
		domain.OutcomeGood, domain.OutcomeGood, domain.OutcomeFailed,
	}

	run := func() []int {
		m := New(defaultConfig())
		values := make([]int, 0, len(outcomes))
		for _, o := range outcomes {
			values = append(values, m.Advance(o))
		}
		return values
	}

	first, second := run(), run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("replay diverged at step %d: %d vs %d", i, first[i], second[i])
		}
	}
}

func TestForkIsIndependent(t *testing.T) {
	m := New(defaultConfig())
	m.Advance(domain.OutcomeGood)

	fork := m.Fork()
	fork.Advance(domain.OutcomeGood)

	if m.Value() != 5 {
		t.Fatalf("fork mutated original: %d", m.Value())
	}
	if fork.Value() != 10 {
		t.Fatalf("fork did not advance: %d", fork.Value())
	}
}
