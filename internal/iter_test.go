package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := map[string]int{"one": 1, "two": 2}
	b := map[string]int{"three": 3}

	got := map[string]int{}
	for key, value := range IterSeq2Concat(maps.All(a), maps.All(b)) {
		got[key] = value
	}

	assert.Equal(map[string]int{"one": 1, "two": 2, "three": 3}, got)
}

func TestIterSeq2Concat_EarlyStop(t *testing.T) {
	assert := assert.New(t)

	a := map[string]int{"one": 1, "two": 2, "three": 3}

	count := 0
	for range IterSeq2Concat(maps.All(a), maps.All(a)) {
		count++
		if count == 2 {
			break
		}
	}

	assert.Equal(2, count)
}
