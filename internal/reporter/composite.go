package reporter

// CompositeReporter fans out events to multiple reporters.
type CompositeReporter struct {
	reporters []Reporter
}

// NewCompositeReporter creates a composite reporter.
func NewCompositeReporter(reporters ...Reporter) *CompositeReporter {
	return &CompositeReporter{reporters: reporters}
}

func (c *CompositeReporter) DetectionStarted(summary VideoSummary) {
	for _, r := range c.reporters {
		r.DetectionStarted(summary)
	}
}

func (c *CompositeReporter) DetectionProgress(progress ProgressSnapshot) {
	for _, r := range c.reporters {
		r.DetectionProgress(progress)
	}
}

func (c *CompositeReporter) CutDetected(event CutEvent) {
	for _, r := range c.reporters {
		r.CutDetected(event)
	}
}

func (c *CompositeReporter) DetectionComplete(outcome DetectionOutcome) {
	for _, r := range c.reporters {
		r.DetectionComplete(outcome)
	}
}

func (c *CompositeReporter) Warning(message string) {
	for _, r := range c.reporters {
		r.Warning(message)
	}
}

func (c *CompositeReporter) Error(err ReporterError) {
	for _, r := range c.reporters {
		r.Error(err)
	}
}

func (c *CompositeReporter) OperationComplete(message string) {
	for _, r := range c.reporters {
		r.OperationComplete(message)
	}
}

func (c *CompositeReporter) BatchStarted(info BatchStartInfo) {
	for _, r := range c.reporters {
		r.BatchStarted(info)
	}
}

func (c *CompositeReporter) FileProgress(context FileProgressContext) {
	for _, r := range c.reporters {
		r.FileProgress(context)
	}
}

func (c *CompositeReporter) BatchComplete(summary BatchSummary) {
	for _, r := range c.reporters {
		r.BatchComplete(summary)
	}
}
