package gridcalc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe_Empty(t *testing.T) {
	s := newTestSheet(t, 5, 3)
	assert.Equal(t, "Sheet A1:C5 (5x3)\n", s.Describe())
}

func TestDescribe_Wiring(t *testing.T) {
	s := newTestSheet(t, 3, 3)
	mustSet(t, s, "A1", "2")
	mustSet(t, s, "B1", "=A1+C1")
	require.NoError(t, s.SetColor(2, 2, 0xFF0000FF))

	output := s.Describe()
	assert.Contains(t, output, `A1 "2"`)
	assert.Contains(t, output, `B1 "=A1+C1" → "2" deps[A1 C1]`)
	assert.Contains(t, output, `C3 "" bg=FF0000FF`)
	assert.Equal(t, 4, strings.Count(output, "\n"))
}

func TestDescribe_BlockedCycle(t *testing.T) {
	s := newTestSheet(t, 2, 2)
	mustSet(t, s, "A1", "=B1")
	mustSet(t, s, "B1", "=A1")

	output := s.Describe()
	assert.Contains(t, output, `A1 "=B1" → "!(CIRC_REF)" blocked[B1]`)
	assert.Contains(t, output, `B1 "=A1" → "!(CIRC_REF)" blocked[A1]`)
}
