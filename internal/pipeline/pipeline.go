// Package pipeline runs the one-shot precompute: load the image, gamma-correct it into the
// column buffer, then resample that into the polar buffer the display loop replays.
package pipeline

import (
	"fmt"
	"image"
	"math"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-povring/internal/column"
	"github.com/coreman2200/funtimes-povring/internal/config"
	diag "github.com/coreman2200/funtimes-povring/internal/diagnostics"
	"github.com/coreman2200/funtimes-povring/internal/gamma"
	"github.com/coreman2200/funtimes-povring/internal/pattern"
	"github.com/coreman2200/funtimes-povring/internal/polar"
	"github.com/coreman2200/funtimes-povring/internal/pov"
	"github.com/coreman2200/funtimes-povring/internal/source"
)

// Status tracks the lifecycle stage; safe to read from other goroutines.
type Status struct {
	stage atomic.Int32
	since atomic.Int64
}

func (s *Status) Set(st pov.Stage) {
	s.stage.Store(int32(st))
	s.since.Store(time.Now().UnixNano())
	log.Info().Str("stage", st.String()).Msg("stage")
}

func (s *Status) Stage() pov.Stage { return pov.Stage(s.stage.Load()) }

// Since is when the current stage was entered.
func (s *Status) Since() time.Time { return time.Unix(0, s.since.Load()) }

type Result struct {
	Geometry    polar.Geometry
	Table       gamma.Table
	Source      *source.Grid
	Column      *column.Buffer
	Polar       *polar.Buffer
	Diagnostics []diag.Diagnostic
}

// FitSize is the square edge an image is scaled to when fit is enabled.
func FitSize(g polar.Geometry) int {
	return int(math.Ceil(math.Max(g.CenterX, g.CenterY) + g.Radius))
}

// LoadImage resolves cfg.ImagePath to a decoded image, built-in patterns included.
func LoadImage(cfg *config.Config, g polar.Geometry) (image.Image, string, error) {
	if pattern.Is(cfg.ImagePath) {
		img, err := pattern.Parse(cfg.ImagePath, FitSize(g))
		return img, "pattern", err
	}
	return source.Load(cfg.ImagePath)
}

// Precompute validates cfg and builds every buffer. Nothing here touches hardware; any error
// is fatal and must stop startup. st may be nil.
func Precompute(cfg *config.Config, st *Status) (*Result, error) {
	if st == nil {
		st = &Status{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	g, err := cfg.Geometry()
	if err != nil {
		return nil, err
	}
	res := &Result{Geometry: g}

	st.Set(pov.StageLoading)
	img, format, err := LoadImage(cfg, g)
	if err != nil {
		return nil, err
	}
	log.Info().Str("path", cfg.ImagePath).Str("format", format).
		Int("width", img.Bounds().Dx()).Int("height", img.Bounds().Dy()).Msg("loaded image")
	if cfg.Fit {
		size := FitSize(g)
		img = source.Fit(img, size)
		log.Info().Int("size", size).Msg("scaled image to working area")
	}
	res.Source = source.FromImage(img)
	w, h := res.Source.Width, res.Source.Height
	res.Diagnostics = append(res.Diagnostics, checks(g, w, h)...)

	if g.Bounds == polar.BoundsReject {
		if err := polar.CheckCoverage(g, w, h); err != nil {
			need := polar.RequiredSize(g)
			return nil, fmt.Errorf("image %dx%d too small for the sweep (need %dx%d; set fit or a bounds policy): %w",
				w, h, need.Dx(), need.Dy(), err)
		}
	}

	res.Table, err = gamma.Build(cfg.Brightness, cfg.Gamma)
	if err != nil {
		return nil, err
	}
	res.Column = column.Build(res.Source, res.Table, float32(cfg.PixelBrightness))
	log.Info().Int("width", w).Int("height", h).Msg("converted")

	st.Set(pov.StagePrecomputing)
	res.Polar, err = polar.Resample(res.Column, g)
	if err != nil {
		return nil, err
	}
	if d, ok := powerCheck(res.Polar, cfg.PowerLimitAmps); ok {
		res.Diagnostics = append(res.Diagnostics, d)
	}
	log.Info().Int("angles", g.Angles).Int("radii", g.Radii).
		Str("mapping", g.Mapping.String()).Str("bounds", g.Bounds.String()).Msg("resampled")
	return res, nil
}

func checks(g polar.Geometry, w, h int) []diag.Diagnostic {
	var out []diag.Diagnostic
	if g.Mapping == polar.MappingLegacy {
		out = append(out, diag.Diagnostic{
			Severity: diag.Warn,
			Code:     "MAPPING.LEGACY",
			Summary:  "legacy mapping derives the source row from the radial step, not the angle",
			Detail:   "output will look distorted away from the horizontal axis",
			SuggestedFixes: []string{
				"set mapping: angular for a true polar disk",
				"render both with -preview and compare",
			},
		})
	}
	// reject fails startup on its own, so only the remapping policies are reported here
	if n := polar.Outside(g, w, h); n > 0 && g.Bounds != polar.BoundsReject {
		out = append(out, diag.Diagnostic{
			Severity: diag.Info,
			Code:     "SOURCE.COVERAGE",
			Summary:  "some polar cells fall outside the image",
			Detail:   fmt.Sprintf("bounds policy %s applies", g.Bounds),
			Evidence: map[string]any{"cells": n, "width": w, "height": h},
		})
	}
	if w != h {
		out = append(out, diag.Diagnostic{
			Severity: diag.Info,
			Code:     "SOURCE.ASPECT",
			Summary:  "image is not square",
			Evidence: map[string]any{"width": w, "height": h},
		})
	}
	return out
}

// ampsPerChannel is the full-scale draw of one LED channel.
const ampsPerChannel = 0.020

// PeakColumnAmps estimates the worst single-column current draw, scaling each LED by its
// per-pixel brightness.
func PeakColumnAmps(p *polar.Buffer) (amps float64, angle int) {
	for a := 0; a < p.Angles; a++ {
		var sum float64
		for _, px := range p.Row(a) {
			sum += (float64(px.R) + float64(px.G) + float64(px.B)) / 255 * float64(px.Brightness)
		}
		if sum*ampsPerChannel > amps {
			amps, angle = sum*ampsPerChannel, a
		}
	}
	return amps, angle
}

func powerCheck(p *polar.Buffer, limit float64) (diag.Diagnostic, bool) {
	if limit <= 0 {
		return diag.Diagnostic{}, false
	}
	amps, angle := PeakColumnAmps(p)
	if amps <= limit {
		return diag.Diagnostic{}, false
	}
	return diag.Diagnostic{
		Severity:       diag.Warn,
		Code:           "POWER.LIMIT",
		Summary:        "brightest column exceeds the supply budget",
		SuggestedFixes: []string{"lower brightness or pixel_brightness", "raise power_limit_amps if the supply allows"},
		Evidence:       map[string]any{"amps": amps, "limit_amps": limit, "angle": angle},
	}, true
}
