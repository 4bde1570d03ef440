package measure

import (
	"sort"
	"sync"
	"time"
)

type DefaultMeasure struct {
	mu    sync.Mutex
	Steps map[string]Metric
}

func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		Steps: make(map[string]Metric),
	}
}

// AddMetric registers a metric for the stage. An existing metric is kept.
func (m *DefaultMeasure) AddMetric(name string, stageType string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	if mt, ok := m.Steps[name]; ok {
		return mt
	}

	mt := &DefaultMetric{
		mu:        &sync.Mutex{},
		stageType: stageType,
	}
	m.Steps[name] = mt

	return mt
}

func (m *DefaultMeasure) GetMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.Steps[name]
}

func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make(map[string]Metric, len(m.Steps))
	for name, mt := range m.Steps {
		res[name] = mt
	}

	return res
}

// StageSummary aggregates the metrics of every stage of one type.
type StageSummary struct {
	StageType string
	Count     int64
	Failures  int64
	Total     time.Duration
	Average   time.Duration
}

// Summarise groups the metrics by stage type, sorted by type. Stages that
// never ran are left out.
func Summarise(msr Measure) []StageSummary {
	byType := make(map[string]*StageSummary)
	for _, mt := range msr.AllMetrics() {
		sum, ok := byType[mt.StageType()]
		if !ok {
			sum = &StageSummary{StageType: mt.StageType()}
			byType[mt.StageType()] = sum
		}
		sum.Count += mt.Count()
		sum.Failures += mt.Failures()
		sum.Total += mt.TotalDuration()
	}

	res := make([]StageSummary, 0, len(byType))
	for _, sum := range byType {
		if sum.Count == 0 {
			continue
		}
		sum.Average = round(time.Duration(float64(sum.Total) / float64(sum.Count)))
		res = append(res, *sum)
	}

	sort.Slice(res, func(i, j int) bool {
		return res[i].StageType < res[j].StageType
	})

	return res
}

var _ Measure = (*DefaultMeasure)(nil)
