package reporter

// Reporter defines the interface for progress reporting.
type Reporter interface {
	DetectionStarted(summary VideoSummary)
	DetectionProgress(progress ProgressSnapshot)
	CutDetected(event CutEvent)
	DetectionComplete(outcome DetectionOutcome)
	Warning(message string)
	Error(err ReporterError)
	OperationComplete(message string)
	BatchStarted(info BatchStartInfo)
	FileProgress(context FileProgressContext)
	BatchComplete(summary BatchSummary)
}

// NullReporter is a no-op reporter that discards all updates.
type NullReporter struct{}

func (NullReporter) DetectionStarted(VideoSummary)      {}
func (NullReporter) DetectionProgress(ProgressSnapshot) {}
func (NullReporter) CutDetected(CutEvent)               {}
func (NullReporter) DetectionComplete(DetectionOutcome) {}
func (NullReporter) Warning(string)                     {}
func (NullReporter) Error(ReporterError)                {}
func (NullReporter) OperationComplete(string)           {}
func (NullReporter) BatchStarted(BatchStartInfo)        {}
func (NullReporter) FileProgress(FileProgressContext)   {}
func (NullReporter) BatchComplete(BatchSummary)         {}
