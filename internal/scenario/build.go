package scenario

import (
	"fmt"
	"time"

	"github.com/roach88/firmo/internal/expect"
	"github.com/roach88/firmo/internal/tree"
)

// Build compiles a validated scenario into an executable node tree.
//
// Declaration order in the file is execution order in the tree. Check
// closures are stored unexecuted; they run only when the executor reaches
// the case.
func Build(f *File) (*tree.Node, error) {
	b := tree.NewBuilder()
	if err := BuildInto(b, f); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

// BuildInto declares a scenario's suites on an existing builder. The CLI
// uses this to combine several scenario files into one run.
func BuildInto(b *tree.Builder, f *File) error {
	if err := precheck(f); err != nil {
		return err
	}
	for i := range f.Suites {
		if err := buildSuite(b, &f.Suites[i]); err != nil {
			return err
		}
	}
	return nil
}

// precheck validates the parts of the document the CUE schema leaves open,
// so Build fails before any closure could panic at execution time.
func precheck(f *File) error {
	var check func(s *Suite) error
	check = func(s *Suite) error {
		for i := range s.Suites {
			if err := check(&s.Suites[i]); err != nil {
				return err
			}
		}
		for _, c := range s.Cases {
			if c.Timeout != "" {
				if _, err := time.ParseDuration(c.Timeout); err != nil {
					return fmt.Errorf("case %q: timeout: %w", c.Name, err)
				}
			}
			for _, chk := range c.Checks {
				if err := precheckCheck(c.Name, chk); err != nil {
					return err
				}
			}
		}
		return nil
	}
	for i := range f.Suites {
		if err := check(&f.Suites[i]); err != nil {
			return err
		}
	}
	return nil
}

func precheckCheck(caseName string, chk Check) error {
	switch chk.Kind {
	case "equal", "near", "contain", "contain_key", "subset", "before", "after", "same_day":
	case "between":
		if chk.Low == nil || chk.High == nil {
			return fmt.Errorf("case %q: between check needs low and high", caseName)
		}
	case "match":
		if chk.Pattern == "" {
			return fmt.Errorf("case %q: match check needs a pattern", caseName)
		}
	case "deep_key", "deep_key_value":
		if chk.Path == "" {
			return fmt.Errorf("case %q: %s check needs a path", caseName, chk.Kind)
		}
	default:
		return fmt.Errorf("case %q: unknown check kind %q", caseName, chk.Kind)
	}
	return nil
}

func buildSuite(b *tree.Builder, s *Suite) error {
	var err error
	decl := func() {
		for i := range s.Suites {
			if buildErr := buildSuite(b, &s.Suites[i]); buildErr != nil && err == nil {
				err = buildErr
			}
		}
		for _, c := range s.Cases {
			buildCase(b, c)
		}
	}

	switch s.Focus {
	case "focused":
		b.FDescribe(s.Name, decl)
	case "excluded":
		b.XDescribe(s.Name, decl)
	default:
		b.Describe(s.Name, decl)
	}
	return err
}

func buildCase(b *tree.Builder, c Case) {
	var opts []tree.CaseOption
	if c.Pending {
		reason := c.Reason
		if reason == "" {
			reason = "pending"
		}
		opts = append(opts, tree.WithPending(reason))
	}
	if c.Timeout != "" {
		d, _ := time.ParseDuration(c.Timeout) // Validated in precheck.
		opts = append(opts, tree.WithTimeout(d))
	}
	var body tree.Body
	if !c.Pending {
		checks := c.Checks
		body = func(tc tree.CaseContext) {
			for _, chk := range checks {
				runCheck(tc, chk)
			}
		}
	}

	switch c.Focus {
	case "focused":
		b.FIt(c.Name, body, opts...)
	case "excluded":
		b.XIt(c.Name, body, opts...)
	default:
		b.It(c.Name, body, opts...)
	}
}

// runCheck executes one declared check through the expectation API.
func runCheck(tc tree.CaseContext, chk Check) {
	e := tc.Expect(chk.Subject)
	if chk.Negate {
		e = e.Not()
	}
	if chk.Message != "" {
		e = e.WithMessage(chk.Message)
	}

	switch chk.Kind {
	case "equal":
		e.ToEqual(chk.Expected)
	case "near":
		if chk.Tolerance > 0 {
			e.ToBeNear(chk.Expected, chk.Tolerance)
		} else {
			e.ToBeNear(chk.Expected)
		}
	case "between":
		e.ToBeBetween(chk.Low, chk.High)
	case "match":
		e.ToMatch(chk.Pattern)
	case "contain":
		e.ToContain(chk.Expected)
	case "contain_key":
		e.ToContainKey(chk.Expected)
	case "deep_key":
		e.ToContainDeepKey(chk.Path)
	case "deep_key_value":
		e.ToHaveDeepKeyValue(chk.Path, chk.Expected)
	case "subset":
		e.ToContainSubset(chk.Expected)
	case "before":
		e.ToBeBefore(chk.Expected)
	case "after":
		e.ToBeAfter(chk.Expected)
	case "same_day":
		e.ToBeSameDayAs(chk.Expected)
	default:
		// Unreachable after precheck; a raise here is an engine bug.
		panic(&expect.UsageError{Op: chk.Kind, Reason: "unknown check kind"})
	}
}
