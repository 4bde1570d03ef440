package measure

import "time"

// Measure collects one metric per job stage.
type Measure interface {
	AddMetric(name string, stageType string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric accumulates the runs of a stage.
type Metric interface {
	AddDuration(elapsed time.Duration)
	AddFailure(exitCode int)
	AVGDuration() time.Duration
	TotalDuration() time.Duration
	Count() int64
	Failures() int64
	StageType() string
}
