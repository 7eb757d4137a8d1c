package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type captureRecorder struct {
	mu       sync.Mutex
	ops      map[string]int
	failures map[string]int
	seconds  int
	graphs   [][2]int
}

func newCaptureRecorder() *captureRecorder {
	return &captureRecorder{ops: map[string]int{}, failures: map[string]int{}}
}

func (c *captureRecorder) IncOpTotal(op string, success bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops[op]++
	if !success {
		c.failures[op]++
	}
}

func (c *captureRecorder) ObserveOpSeconds(op string, success bool, seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seconds++
}

func (c *captureRecorder) ObserveGraphs(candidates, accepted int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.graphs = append(c.graphs, [2]int{candidates, accepted})
}

func TestTimeOp(t *testing.T) {
	rec := newCaptureRecorder()
	SetRecorder(rec)
	defer SetRecorder(nil)

	TimeOp("search")(true)
	TimeOp("search")(false)
	TimeOp("index_write")(true)

	assert.Equal(t, 2, rec.ops["search"])
	assert.Equal(t, 1, rec.failures["search"])
	assert.Equal(t, 1, rec.ops["index_write"])
	assert.Equal(t, 3, rec.seconds)
}

func TestSetRecorder_NilRestoresNoop(t *testing.T) {
	SetRecorder(newCaptureRecorder())
	SetRecorder(nil)

	_, ok := Default().(*noopRecorder)
	assert.True(t, ok)

	// The no-op recorder must accept calls.
	Default().ObserveGraphs(3, 1)
	TimeOp("search")(true)
}
