package pipeline

import (
	"github.com/kballard/go-shellquote"
	"github.com/pkg/errors"

	"github.com/askiada/gemsimvalid/pkg/pipeline/model"
)

const (
	eventContent = "FEVTDEBUGHLT"

	DigiOutput  = "out_digi.root"
	RecoInput   = "out_local_reco.root"
	ValidOutput = "out_valid.root"

	digiCustomPrefix = "SimMuon/GEMDigitizer/customizeGEMDigi.customize_digi_addGEM_muon_only," +
		"SLHCUpgradeSimulations/Configuration/fixMissingUpgradeGTPayloads.fixRPCConditions,"
	digiCustomSuffix = ",SLHCUpgradeSimulations/Configuration/me0Customs.customise_Digi"
)

// Command is one driver invocation.
type Command struct {
	Stage   model.StageType
	Variant GeometryVariant
	// Name is the executable.
	Name string
	Args []string
}

// Argv returns the full argument vector, executable first.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// Arg returns the value following flag.
func (c Command) Arg(flag string) (string, bool) {
	for i := 0; i < len(c.Args)-1; i++ {
		if c.Args[i] == flag {
			return c.Args[i+1], true
		}
	}

	return "", false
}

// String renders the command as a shell line, quoting where needed.
func (c Command) String() string {
	return shellquote.Join(c.Argv()...)
}

// Plan is the set of driver invocations of one geometry variant.
type Plan struct {
	Variant   GeometryVariant
	Customise string
	Files     FileSet
	// Commands holds the digitize, validate and harvest invocations, in that order.
	Commands []Command
}

// Command returns the invocation of a stage.
func (p Plan) Command(stage model.StageType) (Command, bool) {
	for _, cmd := range p.Commands {
		if cmd.Stage == stage {
			return cmd, true
		}
	}

	return Command{}, false
}

func commonArgs(o JobOptions) []string {
	return []string{
		"--conditions", o.Condition,
		"--magField", o.MagField,
		"--geometry", o.Geometry,
		"--eventcontent", eventContent,
		"-n", o.MaxEvents,
		"--no_exec",
		"--era", o.Era,
	}
}

// BuildPlan returns the driver invocations of a geometry variant.
func BuildPlan(o JobOptions, v GeometryVariant) (Plan, error) {
	if err := o.validateCommands(); err != nil {
		return Plan{}, err
	}

	customise, err := o.CustomiseFor(v)
	if err != nil {
		return Plan{}, err
	}
	files := FilesFor(v)

	stage := func(t model.StageType, head []string, tail ...string) Command {
		args := make([]string, 0, len(head)+14+len(tail))
		args = append(args, head...)
		args = append(args, commonArgs(o)...)
		args = append(args, tail...)

		return Command{Stage: t, Variant: v, Name: o.Driver, Args: args}
	}

	digi := stage(model.DigitizeStageType,
		[]string{"SingleMuPt100_cfi", "-s", "GEN,SIM,DIGI,L1"},
		"--customise", digiCustomPrefix+customise+digiCustomSuffix,
		"--datatier", "GEN-SIM-DIGI",
		"--fileout", DigiOutput,
		"--python_filename", files.Digi,
	)
	valid := stage(model.ValidateStageType,
		[]string{"valid", "-s", "VALIDATION:genvalid_all"},
		"--customise", customise,
		"--datatier", "GEN-SIM-RECO",
		"--filein", RecoInput,
		"--fileout", ValidOutput,
		"--python_filename", files.Valid,
	)
	harvest := stage(model.HarvestStageType,
		[]string{"harvest", "-s", "HARVESTING:genHarvesting"},
		"--customise", customise,
		"--datatier", "GEN-SIM-RECO",
		"--filein", ValidOutput,
		"--fileout", ValidOutput,
		"--python_filename", files.Harvest,
	)

	return Plan{
		Variant:   v,
		Customise: customise,
		Files:     files,
		Commands:  []Command{digi, valid, harvest},
	}, nil
}

// BuildPlans returns one plan per configured variant, in order.
func BuildPlans(o JobOptions) ([]Plan, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	plans := make([]Plan, 0, len(o.Variants))
	for _, v := range o.Variants {
		plan, err := BuildPlan(o, v)
		if err != nil {
			return nil, errors.Wrapf(err, "variant %s", v)
		}
		plans = append(plans, plan)
	}

	return plans, nil
}
