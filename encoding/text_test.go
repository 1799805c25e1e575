package encoding

import "testing"

func TestTextIterateCharactersVisitsEveryRune(t *testing.T) {
	e := NewText(newTestHeap(t))
	e.AppendBytes([]byte("héllo"))

	var runes []rune
	e.IterateCharacters(func(r rune) bool {
		runes = append(runes, r)
		return true
	})

	want := []rune("héllo")
	if len(runes) != len(want) {
		t.Fatalf("collected %d runes, want %d", len(runes), len(want))
	}
	for i := range want {
		if runes[i] != want[i] {
			t.Fatalf("rune[%d] = %q, want %q", i, runes[i], want[i])
		}
	}
}

func TestTextIterateCharactersStopsEarly(t *testing.T) {
	e := NewText(newTestHeap(t))
	e.AppendBytes([]byte("abcdef"))

	count := 0
	complete := e.IterateCharacters(func(r rune) bool {
		count++
		return count < 3
	})

	if complete {
		t.Fatal("IterateCharacters() reported completion despite early stop")
	}
	if count != 3 {
		t.Fatalf("stopped after %d runes, want 3", count)
	}
}

func TestTextVisitedIsLazyAndReusable(t *testing.T) {
	e := NewText(newTestHeap(t))
	v1 := e.Visited()
	if v1 == nil {
		t.Fatal("Visited() returned nil")
	}
	v2 := e.Visited()
	if v1 != v2 {
		t.Fatal("Visited() allocated a new set on second call")
	}
}

func TestTextFreeReleasesVisitedSet(t *testing.T) {
	e := NewText(newTestHeap(t))
	e.Visited()
	e.Free()
}
