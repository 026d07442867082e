package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"kiln/internal/mir"
	"kiln/internal/types"
)

// Compiled pairs a module with the interner its types live in.
type Compiled struct {
	Module *mir.Module
	Types  *types.Interner
}

// ValidateAll validates independent modules concurrently, one worker per
// CPU. Reports come back in input order; a module's position in the
// result never depends on scheduling. The error return only reflects
// context cancellation, validation findings stay in the reports.
func ValidateAll(ctx context.Context, mods []Compiled) ([]*mir.Report, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	reports := make([]*mir.Report, len(mods))
	for i, cm := range mods {
		i, cm := i, cm
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report, _ := mir.Validate(cm.Module, cm.Types)
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
