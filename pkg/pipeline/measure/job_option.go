package measure

import (
	"time"

	"github.com/askiada/gemsimvalid/pkg/pipeline/model"
)

type jobMeasure struct {
	Measure
}

// New registers nothing: only driver invocations and patches are timed.
func (jm *jobMeasure) New() error {
	return nil
}

func (jm *jobMeasure) PrepareStage(_, stage *model.StageInfo) error {
	jm.AddMetric(stage.Name, string(stage.Type))

	return nil
}

func (jm *jobMeasure) AfterStage(stage *model.StageInfo, elapsed time.Duration, exitCode int) error {
	mt := jm.AddMetric(stage.Name, string(stage.Type))
	mt.AddDuration(elapsed)
	mt.AddFailure(exitCode)

	return nil
}

func (jm *jobMeasure) PreparePatch(_, patchStage *model.StageInfo) error {
	jm.AddMetric(patchStage.Name, string(patchStage.Type))

	return nil
}

func (jm *jobMeasure) AfterPatch(patchStage *model.StageInfo, elapsed time.Duration) error {
	jm.AddMetric(patchStage.Name, string(patchStage.Type)).AddDuration(elapsed)

	return nil
}

func (jm *jobMeasure) Finish() error {
	return nil
}

// JobMeasure records the duration and exit status of every stage into measure.
func JobMeasure(measure Measure) model.JobOption {
	return &jobMeasure{measure}
}
