// Package scheduler runs a step for every project of the local dependency
// graph, never before the step of each of its dependencies has succeeded.
package scheduler

import (
	"context"
	"errors"
	"sync"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

// ProjectStatus represents the status of a project within a run.
type ProjectStatus string

const (
	// StatusPending indicates the project is waiting for its dependencies.
	StatusPending ProjectStatus = "Pending"
	// StatusRunning indicates the project's step is executing.
	StatusRunning ProjectStatus = "Running"
	// StatusCompleted indicates the step finished successfully.
	StatusCompleted ProjectStatus = "Completed"
	// StatusFailed indicates the step returned an error.
	StatusFailed ProjectStatus = "Failed"
	// StatusSkipped indicates the step never ran because the run failed first.
	StatusSkipped ProjectStatus = "Skipped"
)

// Step does the work for one project.
type Step func(ctx context.Context, project domain.InternedString) error

// Scheduler manages the execution of steps over the dependency graph.
type Scheduler struct {
	tracer ports.Tracer

	mu     sync.RWMutex
	status map[domain.InternedString]ProjectStatus
}

// NewScheduler creates a new Scheduler.
func NewScheduler(tracer ports.Tracer) *Scheduler {
	return &Scheduler{
		tracer: tracer,
		status: make(map[domain.InternedString]ProjectStatus),
	}
}

// Status returns the status of project in the last run.
func (s *Scheduler) Status(project domain.InternedString) ProjectStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status[project]
}

func (s *Scheduler) setStatus(project domain.InternedString, status ProjectStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[project] = status
}

// Run executes step for every project of graph in build order with at most
// parallelism steps in flight. With parallelism 1 the steps run exactly in
// topological order. After the first failure no further step starts.
func (s *Scheduler) Run(ctx context.Context, graph *domain.Graph, parallelism int, step Step) error {
	order, err := graph.TopologicalOrder()
	if err != nil {
		return err
	}
	if parallelism < 1 {
		parallelism = 1
	}

	planned := make([]string, len(order))
	for i, name := range order {
		planned[i] = name.String()
		s.setStatus(name, StatusPending)
	}
	s.tracer.EmitPlan(ctx, planned)

	state := &runState{
		s:           s,
		ctx:         ctx,
		graph:       graph,
		pending:     order,
		done:        make(map[domain.InternedString]bool, len(order)),
		results:     make(chan result, parallelism),
		parallelism: parallelism,
		step:        step,
	}
	return state.loop()
}

type result struct {
	project domain.InternedString
	err     error
}

type runState struct {
	s           *Scheduler
	ctx         context.Context
	graph       *domain.Graph
	pending     []domain.InternedString
	done        map[domain.InternedString]bool
	results     chan result
	active      int
	parallelism int
	step        Step
	errs        error
}

func (r *runState) loop() error {
	for {
		r.schedule()
		if r.active == 0 {
			break
		}
		res := <-r.results
		r.active--
		if res.err != nil {
			r.s.setStatus(res.project, StatusFailed)
			r.errs = errors.Join(r.errs, res.err)
			continue
		}
		r.s.setStatus(res.project, StatusCompleted)
		r.done[res.project] = true
	}

	for _, name := range r.pending {
		r.s.setStatus(name, StatusSkipped)
	}
	if err := r.ctx.Err(); err != nil && r.errs == nil {
		return err
	}
	return r.errs
}

// schedule starts every pending project whose dependencies are done, in build order.
func (r *runState) schedule() {
	if r.errs != nil || r.ctx.Err() != nil {
		return
	}

	remaining := r.pending[:0:0]
	for _, name := range r.pending {
		if r.active < r.parallelism && r.ready(name) {
			r.active++
			r.s.setStatus(name, StatusRunning)
			go r.execute(name)
			continue
		}
		remaining = append(remaining, name)
	}
	r.pending = remaining
}

func (r *runState) ready(name domain.InternedString) bool {
	node, _ := r.graph.Node(name)
	for _, dep := range node.Dependencies {
		if r.graph.Has(dep) && !r.done[dep] {
			return false
		}
	}
	return true
}

func (r *runState) execute(name domain.InternedString) {
	ctx, span := r.s.tracer.Start(r.ctx, "compile", ports.WithAttribute("project", name.String()))
	err := r.step(ctx, name)
	if err != nil {
		span.RecordError(err)
	}
	span.End()
	r.results <- result{project: name, err: err}
}
