package parallel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEachRunsEveryItem(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	var sum int64
	err := Each(items, 2, func(i int) error {
		atomic.AddInt64(&sum, int64(i))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15), sum)
}

func TestEachReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	err := Each([]int{1, 2, 3}, 1, func(i int) error {
		if i == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestEachTolerantCollectsEveryFailure(t *testing.T) {
	items := []int{1, 2, 3, 4}
	errs := EachTolerant(items, 2, func(i int) error {
		if i%2 == 0 {
			return errors.New("even")
		}
		return nil
	})
	assert.Len(t, errs, 2)
	assert.Error(t, errs[1])
	assert.Error(t, errs[3])
}

func TestProducePreservesOrder(t *testing.T) {
	items := []int{5, 4, 3, 2, 1}
	out, g := Produce(context.Background(), items, 3, func(i int) (int, error) {
		return i * 10, nil
	})

	var got []int
	for v := range out {
		got = append(got, v)
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, []int{50, 40, 30, 20, 10}, got)
}

func TestProduceStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	items := []int{1, 2, 3, 4, 5}
	out, g := Produce(context.Background(), items, 1, func(i int) (int, error) {
		if i == 3 {
			return 0, boom
		}
		return i, nil
	})

	var got []int
	for v := range out {
		got = append(got, v)
	}
	assert.ErrorIs(t, g.Wait(), boom)
	assert.Equal(t, []int{1, 2}, got)
}
