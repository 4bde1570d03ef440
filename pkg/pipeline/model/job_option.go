package model

import "time"

// JobOption defines the interface for job generator options.
type JobOption interface {
	// New initialises the option.
	New() error

	jobStageOption
	jobPatchOption

	// Finish runs after every variant has been processed.
	Finish() error
}

// jobStageOption defines the hooks around driver invocations.
type jobStageOption interface {
	// PrepareStage runs before the driver is invoked for the stage.
	PrepareStage(parentStage, stage *StageInfo) error
	// AfterStage runs once the driver process has exited. exitCode is -1 when
	// the process could not be started.
	AfterStage(stage *StageInfo, elapsed time.Duration, exitCode int) error
}

// jobPatchOption defines the hooks around patches.
type jobPatchOption interface {
	// PreparePatch runs before a patch block is appended.
	PreparePatch(parentStage, patchStage *StageInfo) error
	// AfterPatch runs once the patch block has been appended.
	AfterPatch(patchStage *StageInfo, elapsed time.Duration) error
}
