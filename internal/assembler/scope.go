package assembler

import "errors"

// scope owns the archives opened during one assembly and releases them
// together, in reverse order of opening.
type scope struct {
	archives []*ApplicationArchive
}

func (s *scope) track(a *ApplicationArchive) {
	s.archives = append(s.archives, a)
}

func (s *scope) close() error {
	var errs []error
	for i := len(s.archives) - 1; i >= 0; i-- {
		if err := s.archives[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.archives = nil
	return errors.Join(errs...)
}
