// Package upload accumulates files for one batched submission. The batch is
// transient: it lives for one modal and is discarded on submit or cancel.
package upload

// Batch is an ordered set of file paths awaiting one upload request.
// PickerActive is presentational state for the file picker being open.
type Batch struct {
	PickerActive bool

	files []string
}

// Add appends a path, skipping exact duplicates already in the batch.
func (b *Batch) Add(path string) {
	for _, f := range b.files {
		if f == path {
			return
		}
	}
	b.files = append(b.files, path)
}

// RemoveAt drops the entry at position i; out-of-range is a no-op.
func (b *Batch) RemoveAt(i int) {
	if i < 0 || i >= len(b.files) {
		return
	}
	b.files = append(b.files[:i], b.files[i+1:]...)
}

// Files returns the accumulated paths in insertion order.
func (b *Batch) Files() []string {
	return append([]string(nil), b.files...)
}

func (b *Batch) Len() int { return len(b.files) }

// Reset discards the batch after submit or cancel.
func (b *Batch) Reset() {
	b.files = nil
	b.PickerActive = false
}
