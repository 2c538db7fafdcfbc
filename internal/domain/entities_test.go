package domain

import "testing"

func TestChunkIDDeterministic(t *testing.T) {
	a := ChunkID("/repo/src/main.go", 0)
	b := ChunkID("/repo/src/main.go", 0)
	if a != b {
		t.Errorf("same path and index produced different ids: %d vs %d", a, b)
	}
}

func TestChunkIDDistinctAcrossIndexes(t *testing.T) {
	seen := make(map[uint64]int)
	for i := 0; i < 100; i++ {
		id := ChunkID("/repo/src/main.go", i)
		if prev, ok := seen[id]; ok {
			t.Fatalf("index %d collides with index %d (id %d)", i, prev, id)
		}
		seen[id] = i
	}
}

func TestChunkIDDistinctAcrossPaths(t *testing.T) {
	a := ChunkID("/repo/a.go", 3)
	b := ChunkID("/repo/b.go", 3)
	if a == b {
		t.Errorf("different paths produced the same id: %d", a)
	}
}

func TestChunkIDFitsTwelveHexDigits(t *testing.T) {
	// 12 hex digits is at most 48 bits.
	id := ChunkID("/any/path.py", 7)
	if id >= 1<<48 {
		t.Errorf("id %d exceeds 48 bits", id)
	}
}
