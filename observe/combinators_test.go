package observe

import "testing"

func TestMap_TransformsValuesAndReplay(t *testing.T) {
	p := NewProperty("Age", 4)
	doubled := Map[int, int](p, func(v int) int { return v * 2 })

	if doubled.Value() != 8 {
		t.Fatalf("got %d, want 8", doubled.Value())
	}

	var got []int
	sub := doubled.Subscribe(func(v int) { got = append(got, v) })
	defer sub.Close()

	p.Set(5)

	if len(got) != 2 || got[0] != 8 || got[1] != 10 {
		t.Errorf("got %v, want [8 10]", got)
	}
}

func TestDistinct_SuppressesConsecutiveDuplicates(t *testing.T) {
	p := NewProperty("Len", 1)
	// Map to a coarser value so the source emits duplicates downstream.
	coarse := Map[int, bool](p, func(v int) bool { return v > 2 })

	var raw, dedup int
	subRaw := coarse.Subscribe(func(bool) { raw++ })
	defer subRaw.Close()
	subDedup := Distinct[bool](coarse).Subscribe(func(bool) { dedup++ })
	defer subDedup.Close()

	p.Set(2) // false again
	p.Set(3) // flips to true
	p.Set(4) // true again

	if raw != 4 {
		t.Fatalf("raw deliveries = %d, want 4", raw)
	}
	if dedup != 2 {
		t.Errorf("dedup deliveries = %d, want 2 (false, true)", dedup)
	}
}
