// Package orchestrator drives the package manager's build for the external
// dependencies of selected workspace members.
package orchestrator

import (
	"context"
	"sync"

	"go.trai.ch/skeleton/internal/core/domain"
	"go.trai.ch/skeleton/internal/core/ports"
	"go.trai.ch/zerr"
)

// PackageStatus represents the progress of one member's build.
type PackageStatus string

const (
	// StatusPending indicates the package is waiting to be built.
	StatusPending PackageStatus = "Pending"
	// StatusRunning indicates the build of the package is in progress.
	StatusRunning PackageStatus = "Running"
	// StatusCompleted indicates the build of the package succeeded.
	StatusCompleted PackageStatus = "Completed"
	// StatusFailed indicates the build of the package failed.
	StatusFailed PackageStatus = "Failed"
	// StatusSkipped indicates the package has no external dependencies to build.
	StatusSkipped PackageStatus = "Skipped"
)

// BuildOptions selects which members to build and how to invoke the compiler.
type BuildOptions struct {
	// Packages are the requested package specs. Ignored when All is set.
	Packages []string

	// Exclude are package specs removed from the requested set before expansion.
	Exclude []string

	// All requests every workspace member.
	All bool

	// Transitive expands over every reachable member instead of direct dependencies only.
	Transitive bool

	// Cargo is the compiler executable.
	Cargo string

	// Root is the directory each build runs in.
	Root string

	// Flags are the intensity flags passed to every invocation.
	Flags []string

	// Args are pass-through arguments appended to every invocation.
	Args []string
}

// Orchestrator builds the external dependency closure of workspace members,
// one compiler invocation per member.
type Orchestrator struct {
	compiler  ports.Compiler
	telemetry ports.Telemetry
	logger    ports.Logger

	mu     sync.RWMutex
	status map[domain.PackageID]PackageStatus
}

// New creates a new Orchestrator.
func New(compiler ports.Compiler, telemetry ports.Telemetry, logger ports.Logger) *Orchestrator {
	return &Orchestrator{
		compiler:  compiler,
		telemetry: telemetry,
		logger:    logger,
		status:    make(map[domain.PackageID]PackageStatus),
	}
}

// Status returns the status of id from the most recent Build.
// Packages outside that build set report an empty status.
func (o *Orchestrator) Status(id domain.PackageID) PackageStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.status[id]
}

func (o *Orchestrator) setStatus(id domain.PackageID, status PackageStatus) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status[id] = status
}

// Plan resolves opts against ws into the ordered list of members to build.
// An empty result is reported as domain.ErrNothingToBuild.
func Plan(ws *domain.Workspace, opts BuildOptions) ([]domain.Package, error) {
	excluded, err := ws.ResolveSpecs(opts.Exclude)
	if err != nil {
		return nil, err
	}

	var requested []domain.PackageID
	if opts.All {
		requested = ws.MemberIDs()
	} else {
		requested, err = ws.ResolveSpecs(opts.Packages)
		if err != nil {
			return nil, err
		}
	}

	skip := make(map[domain.PackageID]struct{}, len(excluded))
	for _, id := range excluded {
		skip[id] = struct{}{}
	}

	remaining := make([]domain.PackageID, 0, len(requested))
	for _, id := range requested {
		if _, ok := skip[id]; !ok {
			remaining = append(remaining, id)
		}
	}

	mode := domain.ExpandOneHop
	if opts.Transitive {
		mode = domain.ExpandTransitive
	}

	set := ws.Closure(remaining, mode)
	if len(set) == 0 {
		return nil, zerr.Wrap(domain.ErrNothingToBuild, "no workspace members selected")
	}
	return set, nil
}

// Build compiles the external dependencies of every member selected by opts.
// Members are processed in name order and the first failing invocation stops the run.
//
// A member without external dependencies is marked Skipped and cargo is not
// invoked for it: a build with no -p selector would compile the stubbed
// workspace crates themselves.
func (o *Orchestrator) Build(ctx context.Context, ws *domain.Workspace, opts BuildOptions) error {
	set, err := Plan(ws, opts)
	if err != nil {
		return err
	}

	o.mu.Lock()
	o.status = make(map[domain.PackageID]PackageStatus, len(set))
	for _, pkg := range set {
		o.status[pkg.ID] = StatusPending
	}
	o.mu.Unlock()

	for _, pkg := range set {
		if err := ctx.Err(); err != nil {
			return zerr.Wrap(err, "build cancelled")
		}
		if err := o.buildPackage(ctx, ws, pkg, opts); err != nil {
			return err
		}
	}

	return nil
}

func (o *Orchestrator) buildPackage(ctx context.Context, ws *domain.Workspace, pkg domain.Package, opts BuildOptions) error {
	vctx, vertex := o.telemetry.Record(ctx, pkg.Name)

	external := ws.ExternalDependencies(pkg.ID)
	if len(external) == 0 {
		o.logger.Debug("skipping " + pkg.Name)
		o.setStatus(pkg.ID, StatusSkipped)
		vertex.Log(domain.LogLevelInfo, "no external dependencies")
		vertex.Cached()
		vertex.Complete(nil)
		return nil
	}

	o.logger.Info("building dependencies of " + pkg.Name)
	o.setStatus(pkg.ID, StatusRunning)

	err := o.compiler.Build(vctx, domain.BuildRequest{
		Cargo:     opts.Cargo,
		Root:      opts.Root,
		Package:   pkg,
		Selectors: external,
		Flags:     opts.Flags,
		Args:      opts.Args,
	})
	vertex.Complete(err)
	if err != nil {
		o.setStatus(pkg.ID, StatusFailed)
		return err
	}

	o.setStatus(pkg.ID, StatusCompleted)
	return nil
}
