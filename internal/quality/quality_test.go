package quality

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector(nil)
	assert.NotEmpty(t, c.RunID())

	c.Addf("demographics", "H001/M01", "age", ReasonImplausibleValue, "age %d beyond bound", 140)
	c.Addf("depression", "H001/M02", "k10_3", ReasonNormalizationMiss, "unrecognized value")
	c.Addf("depression", "H002/M01", "identifiers", ReasonDuplicateKey, "duplicate key")

	warnings := c.Warnings()
	require.Len(t, warnings, 3)
	assert.Equal(t, "demographics", warnings[0].Table)
	assert.Equal(t, "age 140 beyond bound", warnings[0].Detail)

	report := c.Summarize()
	assert.Equal(t, c.RunID(), report.RunID)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 1, report.ByReason[ReasonImplausibleValue])
	assert.Equal(t, 2, report.ByTable["depression"])
	assert.Equal(t, "depression", report.WorstTable)
}

// TestCollectorConcurrentAdd: wave builders run in parallel and share one
// collector.
func TestCollectorConcurrentAdd(t *testing.T) {
	c := NewCollector(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c.Addf("panel", "k", "f", ReasonJoinMiss, "warn")
			}
		}()
	}
	wg.Wait()

	assert.Len(t, c.Warnings(), 400)
	assert.Equal(t, 400, c.Summarize().Total)
}
