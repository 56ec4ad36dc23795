// Package generator drives a full run: fetch the candidate zones once,
// then classify, render, and write the config file for each configured
// nameserver.
package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kirei/blox/internal/blox/common/log"
	"github.com/kirei/blox/internal/blox/config"
	"github.com/kirei/blox/internal/blox/domain"
	"github.com/kirei/blox/internal/blox/render"
	"github.com/kirei/blox/internal/blox/services/classifier"
)

// ZoneSource provides the candidate zones for a view. Implemented by the
// infoblox gateway; tests substitute fixtures.
type ZoneSource interface {
	FetchZones(ctx context.Context, view string) ([]domain.ZoneRecord, error)
}

// Generator sequences one run. It holds no state across runs.
type Generator struct {
	source ZoneSource
	cfg    *config.AppConfig
	logger log.Logger
}

// New returns a Generator. A nil logger is replaced with a noop.
func New(source ZoneSource, cfg *config.AppConfig, logger log.Logger) *Generator {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Generator{source: source, cfg: cfg, logger: logger}
}

// Run fetches the zone candidates and generates every nameserver's config.
// The fetch happens once and is shared across nameservers; classification is
// pure, so sharing cannot change per-nameserver results. A fetch failure
// aborts the run before any file is touched. Failures scoped to a single
// nameserver are collected and reported together after the remaining
// nameservers have been processed.
func (g *Generator) Run(ctx context.Context) error {
	zones, err := g.source.FetchZones(ctx, g.cfg.Source.View)
	if err != nil {
		return fmt.Errorf("fetching zones for view %q: %w", g.cfg.Source.View, err)
	}

	var errs []error
	for _, spec := range g.cfg.Specs() {
		if err := g.generateOne(spec, zones); err != nil {
			g.logger.Error(map[string]any{
				"nameserver": spec.Name,
				"error":      err,
			}, "nameserver config generation failed")
			errs = append(errs, fmt.Errorf("nameserver %s: %w", spec.Name, err))
		}
	}
	return errors.Join(errs...)
}

// generateOne classifies the candidates for a single nameserver, renders the
// eligible ones in source order, and atomically replaces the output file.
func (g *Generator) generateOne(spec config.NamedNameserver, zones []domain.ZoneRecord) error {
	format, err := render.ParseFormat(spec.Format)
	if err != nil {
		return err
	}

	var eligible []render.Zone
	for _, zone := range zones {
		decision := classifier.Classify(zone, spec.Nameserver)
		if !decision.Included {
			g.logger.Debug(map[string]any{
				"zone":       zone.Name,
				"nameserver": spec.Name,
				"reason":     decision.Reason.String(),
			}, "zone excluded")
			continue
		}

		name, err := domain.CanonicalDomain(zone)
		if err != nil {
			// Recoverable: the zone is dropped, the run continues.
			g.logger.Debug(map[string]any{
				"zone":       zone.Name,
				"nameserver": spec.Name,
				"error":      err,
			}, "zone skipped")
			continue
		}

		g.logger.Debug(map[string]any{
			"zone":       zone.Name,
			"nameserver": spec.Name,
			"reason":     decision.Reason.String(),
		}, "zone included")
		eligible = append(eligible, render.Zone{OriginalName: zone.Name, Domain: name})
	}

	out, err := render.Render(format, eligible, spec.Nameserver)
	if err != nil {
		return err
	}

	if err := writeFileAtomic(spec.OutputFile, []byte(out)); err != nil {
		return fmt.Errorf("writing %s: %w", spec.OutputFile, err)
	}

	g.logger.Info(map[string]any{
		"nameserver": spec.Name,
		"format":     format.String(),
		"zones":      len(eligible),
		"output":     spec.OutputFile,
	}, "wrote nameserver config")
	return nil
}

// writeFileAtomic buffers the full output into a temp file in the target
// directory and renames it into place, so a failed run never leaves a
// partial config behind.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
