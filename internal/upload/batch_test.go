package upload

import (
	"reflect"
	"testing"
)

func TestAddKeepsOrderAndDedups(t *testing.T) {
	t.Parallel()

	var b Batch
	b.Add("a.pdf")
	b.Add("b.txt")
	b.Add("a.pdf")
	if want := []string{"a.pdf", "b.txt"}; !reflect.DeepEqual(b.Files(), want) {
		t.Fatalf("Files() = %v, want %v", b.Files(), want)
	}
}

func TestRemoveAt(t *testing.T) {
	t.Parallel()

	var b Batch
	b.Add("a")
	b.Add("b")
	b.Add("c")
	b.RemoveAt(1)
	if want := []string{"a", "c"}; !reflect.DeepEqual(b.Files(), want) {
		t.Fatalf("Files() = %v, want %v", b.Files(), want)
	}
	b.RemoveAt(-1)
	b.RemoveAt(99)
	if b.Len() != 2 {
		t.Fatalf("Len = %d after out-of-range removals", b.Len())
	}
}

func TestResetDiscardsEverything(t *testing.T) {
	t.Parallel()

	var b Batch
	b.Add("a")
	b.PickerActive = true
	b.Reset()
	if b.Len() != 0 || b.PickerActive {
		t.Fatalf("batch not reset: %+v", b)
	}
}

func TestFilesIsACopy(t *testing.T) {
	t.Parallel()

	var b Batch
	b.Add("a")
	got := b.Files()
	got[0] = "mutated"
	if b.Files()[0] != "a" {
		t.Fatal("Files() exposed internal slice")
	}
}
