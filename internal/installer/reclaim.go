package installer

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/disk"

	"opencv-ci/internal/logger"
)

// ReclaimPaths are toolchains preinstalled on hosted Linux runners that the
// OpenCV builds never use.
var ReclaimPaths = []string{
	"/usr/share/dotnet",
	"/usr/local/lib/android",
	"/opt/ghc",
	"/usr/local/.ghcup",
	"/opt/hostedtoolcache/CodeQL",
	"/usr/local/share/boost",
}

// ReclaimReport describes one reclamation pass.
type ReclaimReport struct {
	Removed []string
	Failed  []string
	// Freed is the growth of free space on the measured volume. It is zero
	// when either measurement failed.
	Freed uint64
}

// Reclaimer deletes ReclaimPaths to make room for the OpenCV build.
type Reclaimer struct {
	Paths  []string
	Volume string
	runner CommandRunner
	// freeSpace and isRoot are swapped out in tests.
	freeSpace func(ctx context.Context, volume string) (uint64, error)
	isRoot    func() bool
}

// NewReclaimer returns a reclaimer for ReclaimPaths measured on "/".
func NewReclaimer(runner CommandRunner) *Reclaimer {
	return &Reclaimer{
		Paths:     ReclaimPaths,
		Volume:    "/",
		runner:    runner,
		freeSpace: diskFree,
		isRoot:    func() bool { return os.Geteuid() == 0 },
	}
}

func diskFree(ctx context.Context, volume string) (uint64, error) {
	usage, err := disk.UsageWithContext(ctx, volume)
	if err != nil {
		return 0, fmt.Errorf("disk usage of %s: %w", volume, err)
	}
	return usage.Free, nil
}

// Reclaim removes every path, continuing past failures. The returned error
// joins the individual failures; callers treat it as advisory.
func (r *Reclaimer) Reclaim(ctx context.Context) (ReclaimReport, error) {
	var report ReclaimReport
	var errs []error

	before, beforeErr := r.freeSpace(ctx, r.Volume)
	if beforeErr != nil {
		logger.Debug("[DEBUG] Could not measure free space before reclamation: %v\n", beforeErr)
	}

	executable, prefix := "sudo", []string{"rm", "-rf"}
	if r.isRoot() {
		executable, prefix = "rm", []string{"-rf"}
	}

	for _, p := range r.Paths {
		args := append(append([]string{}, prefix...), p)
		if err := r.runner.Run(ctx, executable, args, nil); err != nil {
			logger.Debug("[DEBUG] Failed to remove %s: %v\n", p, err)
			report.Failed = append(report.Failed, p)
			errs = append(errs, fmt.Errorf("remove %s: %w", p, err))
			continue
		}
		report.Removed = append(report.Removed, p)
	}

	after, afterErr := r.freeSpace(ctx, r.Volume)
	if afterErr != nil {
		logger.Debug("[DEBUG] Could not measure free space after reclamation: %v\n", afterErr)
	}
	if beforeErr == nil && afterErr == nil && after > before {
		report.Freed = after - before
	}

	logger.Info("[INFO] Reclaimed %s on %s (%d removed, %d failed)\n",
		humanize.Bytes(report.Freed), r.Volume, len(report.Removed), len(report.Failed))

	return report, errors.Join(errs...)
}
