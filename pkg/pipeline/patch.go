package pipeline

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// MissingContentsPatch keeps the generator level collections in the
// digitisation output.
const MissingContentsPatch = `
# To save all contents
process.FEVTDEBUGHLToutput.outputCommands.append('keep *_generatorSmeared_*_*')
process.FEVTDEBUGHLToutput.outputCommands.append('keep *_ak4GenJets_*_*')
process.FEVTDEBUGHLToutput.outputCommands.append('keep *_simCscTriggerPrimitiveDigis_*_*')
`

// NoBkgNoisePatch switches off background hits in the GEM digitiser.
const NoBkgNoisePatch = `
# Manual customization to switch off background hits. Suggested by Piet.
process.simMuonGEMDigis.digitizeOnlyMuons      = cms.bool(True)  # default: false
process.simMuonGEMDigis.doBkgNoise             = cms.bool(False) # default: true
process.simMuonGEMDigis.doNoiseCLS             = cms.bool(False) # default: true
`

// DetailPlotPatch turns on detailed plots in every GEM validation analyzer.
const DetailPlotPatch = `
process.gemSimHitValidation.detailPlot = cms.bool(True)
process.gemSimTrackValidation.detailPlot = cms.bool(True)
process.gemStripValidation.detailPlot = cms.bool(True)
process.gemPadValidation.detailPlot = cms.bool(True)
process.gemCoPadValidation.detailPlot = cms.bool(True)
process.gemDigiTrackValidation.detailPlot = cms.bool(True)
process.gemGeometryChecker.detailPlot = cms.bool(True)
process.gemRecHitsValidation.detailPlot = cms.bool(True)
process.gemRecHitTrackValidation.detailPlot = cms.bool(True)
`

const (
	PatchMissingContents = "missing-contents"
	PatchNoBkgNoise      = "no-bkg-noise"
	PatchDetailPlot      = "detail-plot"
)

// Patch is a block of configuration appended to a generated file.
type Patch struct {
	Name string
	// Description is printed before the patch is applied.
	Description string
	// File is relative to the job work directory.
	File string
	Text string
}

// PatchesFor returns the patches to apply to the files of one variant, in order.
// The missing contents patch is always applied first.
func PatchesFor(o JobOptions, files FileSet) []Patch {
	patches := []Patch{{
		Name:        PatchMissingContents,
		Description: "Add missing collections",
		File:        files.Digi,
		Text:        MissingContentsPatch,
	}}

	if o.NoBkgNoise {
		patches = append(patches, Patch{
			Name:        PatchNoBkgNoise,
			Description: "Switch off GEM background noise for efficiency plots",
			File:        files.Digi,
			Text:        NoBkgNoisePatch,
		})
	}

	if o.DetailPlot {
		patches = append(patches, Patch{
			Name:        PatchDetailPlot,
			Description: "Enable detailPlot in the validation analyzers",
			File:        files.Valid,
			Text:        DetailPlotPatch,
		})
	}

	return patches
}

// ApplyPatch appends the patch text to its file under dir.
// The file must already exist.
func ApplyPatch(dir string, p Patch) error {
	path := filepath.Join(dir, p.File)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrMissingPatchFile, "%s: %s", p.Name, path)
		}

		return errors.Wrapf(ErrPatchFailed, "%s: %s: %v", p.Name, path, err)
	}

	_, err = file.WriteString(p.Text)
	if err != nil {
		_ = file.Close()

		return errors.Wrapf(ErrPatchFailed, "%s: %s: %v", p.Name, path, err)
	}

	err = file.Close()
	if err != nil {
		return errors.Wrapf(ErrPatchFailed, "%s: %s: %v", p.Name, path, err)
	}

	return nil
}
