package drawer

import (
	"time"

	"github.com/askiada/gemsimvalid/pkg/pipeline/measure"
)

// Drawer is an interface that defines the methods for drawing a job or a sequence.
type Drawer interface {
	// AddStep adds a node to the drawing.
	AddStep(stepName string, attributes map[string]string) error
	// AddLink adds a link between parent and children steps.
	AddLink(parentStepName, childrenStepName string) error
	// SetAttribute sets a DOT attribute on an existing step.
	SetAttribute(stepName, key, value string) error
	// SetTotalTime labels the step with the time elapsed since startTime.
	SetTotalTime(stepName string, startTime time.Time) error
	// AddMeasure labels and colours the steps with their measured durations.
	AddMeasure(measure measure.Measure) error
	// Draw writes the graph.
	Draw() error
}
