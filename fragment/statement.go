package fragment

import "github.com/Konsultn-Engineering/sqlinterp/params"

// Statement is a finished SQL text with its parameters, ready to hand to an
// executor.
type Statement struct {
	SQL    string
	Params *params.Registry
}

// Args returns the parameter values in order of registration.
func (s Statement) Args() []any {
	if s.Params == nil {
		return nil
	}
	ps := s.Params.Parameters()
	args := make([]any, len(ps))
	for i, p := range ps {
		args[i] = p.Value
	}
	return args
}
