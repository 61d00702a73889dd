// Package compound defines the record shapes exchanged with the
// peak-extraction and prediction collaborators. Records are immutable inputs
// to the matching core; optional channels use pointers (or empty spectra) so a
// measured zero is never confused with an absent value.
package compound

// Spectrum is a centroided mass spectrum: parallel mass and intensity slices.
type Spectrum struct {
	Masses      []float64
	Intensities []float64
}

// Empty reports whether the spectrum carries no peaks.
func (s *Spectrum) Empty() bool {
	return s == nil || len(s.Masses) == 0
}

// Consistent reports whether the mass and intensity slices line up.
func (s *Spectrum) Consistent() bool {
	return s == nil || len(s.Masses) == len(s.Intensities)
}

// Predicted is a candidate product signature from the prediction collaborators.
type Predicted struct {
	// Label is the structural identity, typically a SMILES string.
	Label string
	// Spectrum is the predicted mass spectrum, nil or empty when unavailable.
	Spectrum *Spectrum
	// RetentionTime is the predicted apex time in minutes, nil when absent.
	RetentionTime *float64
	// LambdaMax is the predicted absorption maximum in nm, nil when absent.
	LambdaMax *float64
}

// Observed is an instrument-derived peak signature from the chromatography
// collaborator.
type Observed struct {
	Spectrum      *Spectrum
	RetentionTime *float64
	LambdaMax     *float64
	// PeakRef identifies the originating peak region, e.g. a window label
	// produced by the deconvolution stage. Empty when not supplied.
	PeakRef string
}

// Scalar is a convenience constructor for optional scalar channels.
func Scalar(v float64) *float64 { return &v }
