package keytracker

import "testing"

func TestObserveReportsEdgesOnly(t *testing.T) {
	k := New()
	steps := []struct {
		pressed bool
		want    bool
	}{
		{false, false},
		{true, true},
		{true, false},
		{true, false},
		{false, false},
		{true, true},
	}
	for i, s := range steps {
		if got := k.Observe(s.pressed); got != s.want {
			t.Errorf("step %d: Expected %v, got %v", i, s.want, got)
		}
	}
}
