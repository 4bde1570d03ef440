package drawer

import (
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/gemsimvalid/pkg/sequence"
)

var detectorRGB = map[sequence.Detector][3]uint8{
	sequence.DetectorGEM: {135, 206, 250},
	sequence.DetectorME0: {240, 230, 140},
}

// DrawSequences draws every sequence of cfg as a chain hanging off a node
// named after the sequence, then writes the drawing.
func DrawSequences(d Drawer, cfg sequence.Config) error {
	for _, seq := range cfg.Sequences() {
		rgb := detectorRGB[seq.Detector()]
		fill, err := colors.RGB(rgb[0], rgb[1], rgb[2]) //nolint
		if err != nil {
			return errors.Wrap(err, "unable to get colour")
		}

		err = d.AddStep(seq.Name(), map[string]string{"shape": "box3d", "xlabel": string(seq.Detector())})
		if err != nil {
			return errors.Wrapf(err, "unable to add sequence %s", seq.Name())
		}

		parent := seq.Name()
		for _, m := range seq.Modules() {
			err := d.AddStep(m.Name, map[string]string{
				"shape":     "box",
				"style":     "filled",
				"fillcolor": fill.ToHEX().String(),
				"xlabel":    string(m.Layer),
			})
			if err != nil {
				return errors.Wrapf(err, "unable to add module %s", m.Name)
			}
			err = d.AddLink(parent, m.Name)
			if err != nil {
				return err
			}
			parent = m.Name
		}
	}

	return d.Draw()
}
