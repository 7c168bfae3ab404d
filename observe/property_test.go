package observe

import "testing"

func TestProperty_ReplaysCurrentValueOnSubscribe(t *testing.T) {
	p := NewProperty("Name", "initial")

	var got []string
	sub := p.Subscribe(func(v string) {
		got = append(got, v)
	})
	defer sub.Close()

	if len(got) != 1 || got[0] != "initial" {
		t.Fatalf("got %v, want immediate replay of [initial]", got)
	}
}

func TestProperty_DeliversChangesInOrder(t *testing.T) {
	p := NewProperty("Age", 0)

	var got []int
	sub := p.Subscribe(func(v int) {
		got = append(got, v)
	})
	defer sub.Close()

	p.Set(1)
	p.Set(2)
	p.Set(3)

	want := []int{0, 1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestProperty_SetEqualValueIsNoOp(t *testing.T) {
	p := NewProperty("Name", "a")

	count := 0
	sub := p.Subscribe(func(string) { count++ })
	defer sub.Close()

	p.Set("a")
	p.Set("a")

	if count != 1 {
		t.Errorf("got %d deliveries, want 1 (replay only)", count)
	}
}

func TestProperty_ClosedSubscriptionStopsDelivery(t *testing.T) {
	p := NewProperty("Name", "a")

	count := 0
	sub := p.Subscribe(func(string) { count++ })
	if err := sub.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	// Close is idempotent.
	if err := sub.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	p.Set("b")
	if count != 1 {
		t.Errorf("got %d deliveries after close, want 1", count)
	}
}

func TestProperty_FanOut(t *testing.T) {
	p := NewProperty("Name", "a")

	var a, b int
	subA := p.Subscribe(func(string) { a++ })
	defer subA.Close()
	subB := p.Subscribe(func(string) { b++ })
	defer subB.Close()

	p.Set("b")

	if a != 2 || b != 2 {
		t.Errorf("got a=%d b=%d, want both 2", a, b)
	}
}

func TestNewProperty_EmptyPathPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for empty path")
		}
	}()
	NewProperty("", "x")
}

func TestNewValue_HasNoPath(t *testing.T) {
	v := NewValue(42)
	if v.Path() != "" {
		t.Errorf("got path %q, want empty", v.Path())
	}
	if v.Value() != 42 {
		t.Errorf("got %d, want 42", v.Value())
	}
}

func TestPath_JoinsSegments(t *testing.T) {
	if got := Path("Source", "Name"); got != "Source.Name" {
		t.Errorf("got %q, want %q", got, "Source.Name")
	}
	if got := Path("Name"); got != "Name" {
		t.Errorf("got %q, want %q", got, "Name")
	}
}

func TestPath_EmptySegmentPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for empty segment")
		}
	}()
	Path("Source", "")
}
