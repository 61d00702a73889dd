package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natelgrw/peak-prophet/internal/domain/compound"
)

// Input file shapes. Optional scalars are pointers so a value of 0 stays
// distinguishable from "absent".

type spectrumInput struct {
	Masses      []float64 `json:"masses"`
	Intensities []float64 `json:"intensities"`
}

type predictedInput struct {
	Label         string         `json:"label"`
	Spectrum      *spectrumInput `json:"spectrum,omitempty"`
	RetentionTime *float64       `json:"rt,omitempty"`
	LambdaMax     *float64       `json:"lmax,omitempty"`
}

type observedInput struct {
	Spectrum      *spectrumInput `json:"spectrum,omitempty"`
	RetentionTime *float64       `json:"rt,omitempty"`
	LambdaMax     *float64       `json:"lmax,omitempty"`
	PeakRef       string         `json:"peak_ref,omitempty"`
}

func loadPredicted(path string) ([]compound.Predicted, error) {
	var inputs []predictedInput
	if err := loadJSON(path, &inputs); err != nil {
		return nil, err
	}
	out := make([]compound.Predicted, len(inputs))
	for i, in := range inputs {
		out[i] = compound.Predicted{
			Label:         in.Label,
			Spectrum:      spectrumFromInput(in.Spectrum),
			RetentionTime: in.RetentionTime,
			LambdaMax:     in.LambdaMax,
		}
	}
	return out, nil
}

func loadObserved(path string) ([]compound.Observed, error) {
	var inputs []observedInput
	if err := loadJSON(path, &inputs); err != nil {
		return nil, err
	}
	out := make([]compound.Observed, len(inputs))
	for i, in := range inputs {
		out[i] = compound.Observed{
			Spectrum:      spectrumFromInput(in.Spectrum),
			RetentionTime: in.RetentionTime,
			LambdaMax:     in.LambdaMax,
			PeakRef:       in.PeakRef,
		}
	}
	return out, nil
}

func spectrumFromInput(in *spectrumInput) *compound.Spectrum {
	if in == nil {
		return nil
	}
	return &compound.Spectrum{Masses: in.Masses, Intensities: in.Intensities}
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
