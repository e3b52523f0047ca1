package cmd

import (
	"context"

	"github.com/opmodel/classidx/internal/assembler"
	"github.com/opmodel/classidx/internal/classpath"
	"github.com/opmodel/classidx/internal/output"
	"github.com/opmodel/classidx/internal/resolver"
)

// session is the classpath and collaborators one command works against.
type session struct {
	classpath *classpath.Classpath
	resolver  *resolver.ClasspathResolver
	assembler *assembler.Assembler
}

// openSession opens the resolved classpath and scans it for artifacts.
func openSession(cfg *GlobalConfig, strict bool) (*session, error) {
	cp, err := classpath.New(cfg.Classpath...)
	if err != nil {
		return nil, err
	}

	r, err := resolver.NewClasspathResolver(cp, resolver.Options{
		ManifestResource: cfg.Config.ManifestResource,
		Strict:           strict,
	})
	if err != nil {
		_ = cp.Close()
		return nil, err
	}

	output.Debug("opened classpath", "entries", len(cp.Entries()))
	return &session{
		classpath: cp,
		resolver:  r,
		assembler: assembler.New(cp, r),
	}, nil
}

// assemble runs the assembler, behind a spinner when stdout is a terminal and
// the output is for humans.
func (s *session) assemble(ctx context.Context, cfg *GlobalConfig, req assembler.Request) (*assembler.Result, error) {
	var res *assembler.Result
	action := func() error {
		var err error
		res, err = s.assembler.Assemble(req)
		return err
	}

	if cfg.Output != output.FormatTable || cfg.Verbose {
		return res, action()
	}
	err := output.RunWithSpinner(ctx, action, output.WithTitle("Indexing classpath..."))
	return res, err
}

// Close releases the classpath's archive handles.
func (s *session) Close() error {
	return s.classpath.Close()
}
