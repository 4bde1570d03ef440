package model

type StageType string

const (
	RootStageType     StageType = "root"
	DigitizeStageType StageType = "digitize"
	ValidateStageType StageType = "validate"
	HarvestStageType  StageType = "harvest"
	PatchStageType    StageType = "patch"
)

// StageInfo describes one node of a generated job: a driver invocation or a
// patch applied to a generated file.
type StageInfo struct {
	Type StageType
	// Name is unique within a run, e.g. GE21_v7/digitize.
	Name    string
	Variant string
	// File is the configuration file the stage writes or patches.
	File string
}

var (
	StartStage = &StageInfo{Type: RootStageType, Name: "start"}
	EndStage   = &StageInfo{Type: RootStageType, Name: "end"}
)
