package demo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	var buf bytes.Buffer
	Run(&buf)
	out := buf.String()

	assert.Contains(t, out, "═══ Closed-form sums ═══")
	assert.Contains(t, out, "= 1/2*n^2 + 1/2*n\n")
	assert.Contains(t, out, "= factorial(n)\n")
	assert.Contains(t, out, "= 120\n")
	assert.Contains(t, out, "= n^4\n")
	assert.Contains(t, out, "= 7381/2520\n")
	assert.Contains(t, out, "invalid range")
	assert.Contains(t, out, "division by zero")
}
