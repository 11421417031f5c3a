package lru_cache

import "testing"

func TestLRU_PutGet(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		puts     []string
		touch    []string
		want     map[string]bool
	}{
		{
			name:     "within capacity",
			capacity: 2,
			puts:     []string{"a", "b"},
			want:     map[string]bool{"a": true, "b": true},
		},
		{
			name:     "evicts least recently put",
			capacity: 2,
			puts:     []string{"a", "b", "c"},
			want:     map[string]bool{"a": false, "b": true, "c": true},
		},
		{
			name:     "get refreshes recency",
			capacity: 2,
			puts:     []string{"a", "b"},
			touch:    []string{"a"},
			want:     map[string]bool{"a": true, "b": false, "c": true},
		},
		{
			name:     "zero capacity stores nothing",
			capacity: 0,
			puts:     []string{"a"},
			want:     map[string]bool{"a": false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLRU[string, []byte](tt.capacity)
			for _, k := range tt.puts {
				l.Put(k, []byte(k))
			}

			for _, k := range tt.touch {
				l.Get(k)
			}

			if len(tt.touch) > 0 {
				l.Put("c", []byte("c"))
			}

			for k, present := range tt.want {
				v, ok := l.Get(k)
				if ok != present {
					t.Errorf("Get(%q) ok = %v, want %v", k, ok, present)
				}

				if ok && string(v) != k {
					t.Errorf("Get(%q) = %q, want %q", k, v, k)
				}
			}
		})
	}
}

func TestLRU_PutOverwrites(t *testing.T) {
	l := NewLRU[string, string](2)
	l.Put("a", "old")
	l.Put("a", "new")

	if got := l.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}

	if v, _ := l.Get("a"); v != "new" {
		t.Errorf("Get() = %q, want %q", v, "new")
	}
}

func TestLRU_Delete(t *testing.T) {
	l := NewLRU[int, int](2)
	l.Put(1, 1)
	l.Delete(1)
	l.Delete(42)

	if _, ok := l.Get(1); ok {
		t.Errorf("Get() after Delete() ok = true, want false")
	}

	if got := l.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
}
