package admission

// CellStats is a point-in-time view of one rate cell.
type CellStats struct {
	Rate  float64
	Value float64
}

// Stats is a point-in-time snapshot of controller state, for diagnostics
// and metrics. It never feeds back into admission decisions.
type Stats struct {
	Enabled     bool
	Used        int64
	Limit       int64
	Cells       [numPriorities]CellStats
	QueueDepths [numPriorities]int
}

// Stats returns a snapshot of the controller's current usage, rate cells,
// and wait-queue depths.
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Stats{Enabled: c.enabled, Used: c.used, Limit: c.limit}
	for i := range c.cells {
		s.Cells[i] = CellStats{Rate: c.cells[i].rate, Value: c.cells[i].value}
	}
	for i := range c.queues {
		s.QueueDepths[i] = len(c.queues[i])
	}
	return s
}
