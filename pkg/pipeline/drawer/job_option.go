package drawer

import (
	"time"

	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/gemsimvalid/pkg/pipeline/measure"
	"github.com/askiada/gemsimvalid/pkg/pipeline/model"
)

var stageRGB = map[model.StageType][3]uint8{
	model.RootStageType:     {255, 255, 255},
	model.DigitizeStageType: {173, 216, 230},
	model.ValidateStageType: {144, 238, 144},
	model.HarvestStageType:  {255, 218, 185},
	model.PatchStageType:    {230, 230, 250},
}

func stageAttributes(stage *model.StageInfo) (map[string]string, error) {
	rgb := stageRGB[stage.Type]
	fill, err := colors.RGB(rgb[0], rgb[1], rgb[2]) //nolint
	if err != nil {
		return nil, errors.Wrap(err, "unable to get colour")
	}

	attributes := map[string]string{
		"style":     "filled",
		"fillcolor": fill.ToHEX().String(),
		"shape":     "box",
	}
	switch stage.Type {
	case model.RootStageType:
		attributes["shape"] = "circle"
	case model.PatchStageType:
		attributes["shape"] = "note"
	}
	if stage.File != "" {
		attributes["tooltip"] = stage.File
	}

	return attributes, nil
}

type jobDrawer struct {
	Drawer
	m         measure.Measure
	startTime time.Time
	last      string
}

func (jd *jobDrawer) New() error {
	for _, stage := range []*model.StageInfo{model.StartStage, model.EndStage} {
		attributes, err := stageAttributes(stage)
		if err != nil {
			return err
		}
		err = jd.AddStep(stage.Name, attributes)
		if err != nil {
			return errors.Wrapf(err, "unable to add %s step to drawer", stage.Name)
		}
	}
	jd.last = model.StartStage.Name

	return nil
}

func (jd *jobDrawer) addStage(parentStage, stage *model.StageInfo) error {
	attributes, err := stageAttributes(stage)
	if err != nil {
		return err
	}
	err = jd.AddStep(stage.Name, attributes)
	if err != nil {
		return err
	}
	err = jd.AddLink(parentStage.Name, stage.Name)
	if err != nil {
		return err
	}
	jd.last = stage.Name

	return nil
}

func (jd *jobDrawer) PrepareStage(parentStage, stage *model.StageInfo) error {
	return jd.addStage(parentStage, stage)
}

func (jd *jobDrawer) AfterStage(stage *model.StageInfo, _ time.Duration, exitCode int) error {
	if exitCode == 0 {
		return nil
	}

	failed, err := colors.RGB(255, 99, 71) //nolint
	if err != nil {
		return errors.Wrap(err, "unable to get colour")
	}

	return jd.SetAttribute(stage.Name, "fillcolor", failed.ToHEX().String())
}

func (jd *jobDrawer) PreparePatch(parentStage, patchStage *model.StageInfo) error {
	return jd.addStage(parentStage, patchStage)
}

func (jd *jobDrawer) AfterPatch(*model.StageInfo, time.Duration) error {
	return nil
}

func (jd *jobDrawer) Finish() error {
	err := jd.AddLink(jd.last, model.EndStage.Name)
	if err != nil {
		return errors.Wrap(err, "unable to link last stage to end")
	}

	if jd.m != nil {
		err := jd.SetTotalTime(model.EndStage.Name, jd.startTime)
		if err != nil {
			return errors.Wrap(err, "unable to set total time")
		}
		err = jd.AddMeasure(jd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err = jd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw job")
	}

	return nil
}

// JobDrawer draws the executed stages of a job once it has finished. When
// measure is set, stages are labelled with their durations.
func JobDrawer(drawer Drawer, measure measure.Measure) model.JobOption {
	return &jobDrawer{Drawer: drawer, m: measure, startTime: time.Now()}
}
