package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := map[string]int{"a": 1}
	b := map[string]int{"b": 2, "c": 3}

	got := map[string]int{}
	count := 0
	for key, value := range IterSeq2Concat(maps.All(a), maps.All(b)) {
		got[key] = value
		count++
	}
	assert.Equal(3, count)
	assert.Equal(map[string]int{"a": 1, "b": 2, "c": 3}, got)

	// Early exit
	count = 0
	for range IterSeq2Concat(maps.All(a), maps.All(b)) {
		count++
		break
	}
	assert.Equal(1, count)

	for range IterSeq2Concat[string, int]() {
		t.Fatal("empty concatenation yielded")
	}
}
