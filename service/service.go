package service

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"
)

// Service describes a long-running component of the recommender.
type Service interface {
	Name() string

	// Run executes the service and blocks until the context gets cancelled
	// or an error occurs.
	Run(context.Context) error
}

// Backend is a graph or index connection shared by the services of a Group.
type Backend struct {
	Name  string
	Close func() error
}

// Group runs a set of services on top of the backends they query and owns
// the release of those backends.
type Group struct {
	services []Service
	backends []Backend
}

// Add registers svc for execution by Run.
func (g *Group) Add(svc Service) {
	g.services = append(g.services, svc)
}

// Attach hands the release of a backend over to the group. A nil closeFn
// means the backend holds nothing that needs releasing.
func (g *Group) Attach(name string, closeFn func() error) {
	if closeFn == nil {
		return
	}
	g.backends = append(g.backends, Backend{Name: name, Close: closeFn})
}

// Run executes all services and blocks until the context is cancelled or any
// of them fails, in which case the remaining ones are cancelled too. Once
// every service has returned, the attached backends are released whatever
// the outcome.
func (g *Group) Run(ctx context.Context) error {
	err := g.runServices(ctx)
	if relErr := g.Release(); relErr != nil {
		err = multierror.Append(err, relErr)
	}
	return err
}

func (g *Group) runServices(ctx context.Context) error {
	if len(g.services) == 0 {
		return nil
	}

	eg, runCtx := errgroup.WithContext(ctx)
	for _, svc := range g.services {
		svc := svc
		eg.Go(func() error {
			if err := svc.Run(runCtx); err != nil {
				return xerrors.Errorf("%s: %w", svc.Name(), err)
			}
			return nil
		})
	}
	return eg.Wait()
}

// Release closes the attached backends in the reverse order of attachment
// and reports every failure. Backends are detached, so calling Release again
// is a no-op.
func (g *Group) Release() error {
	var err error
	for i := len(g.backends) - 1; i >= 0; i-- {
		b := g.backends[i]
		if cErr := b.Close(); cErr != nil {
			err = multierror.Append(err, xerrors.Errorf("release %s: %w", b.Name, cErr))
		}
	}
	g.backends = nil
	return err
}
