package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableKeepsInsertionOrder(t *testing.T) {
	table := NewTable()
	_, ok := table.Last()
	require.False(t, ok)

	table.Add(Result{Row: 3, Slope: 1})
	table.Add(Result{Row: 1, Slope: 2})
	table.Add(Result{Row: 3, Slope: 1})

	require.Equal(t, 3, table.Len())
	all := table.All()
	assert.Equal(t, []int{3, 1, 3}, []int{all[0].Row, all[1].Row, all[2].Row})

	last, ok := table.Last()
	require.True(t, ok)
	assert.Equal(t, 3, last.Row)

	all[0].Row = 99
	assert.Equal(t, 3, table.All()[0].Row)
}
