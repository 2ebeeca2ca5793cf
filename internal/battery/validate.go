package battery

import (
	"fmt"
	"strings"

	"typeprobe/internal/diagnostic"
	"typeprobe/internal/match"
	"typeprobe/internal/probe"
)

// RegisterProbes builds the file's custom probes and adds them to reg.
// Problems are reported as error diagnostics; valid probes are still registered.
func RegisterProbes(f *File, reg *probe.Registry) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}

	seen := make(map[string]bool, len(f.Probes))
	for _, def := range f.Probes {
		if seen[def.Name] {
			res.AddError(diagnostic.CodeDuplicateProbe, fmt.Sprintf("probe %q is defined twice", def.Name), "", def.Name)
			continue
		}
		seen[def.Name] = true

		p, err := def.Build(reg)
		if err != nil {
			res.AddError(diagnostic.CodeInvalidProbe, err.Error(), "", def.Name)
			continue
		}

		if err := reg.Register(p); err != nil {
			res.AddError(diagnostic.CodeDuplicateProbe, err.Error(), "", def.Name)
		}
	}

	return res
}

// Validate checks a battery against the probes in reg without evaluating
// anything: every case needs a type and at least one expectation, and every
// expectation must name a known probe.
func Validate(f *File, reg *probe.Registry) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("battery_is_nil", "battery is nil", "", "")
		return res
	}

	if len(f.Cases) == 0 {
		res.AddWarning(diagnostic.CodeEmptyCase, "battery has no cases", "", "")
	}

	names := reg.Names()
	for i, c := range f.Cases {
		if strings.TrimSpace(c.Type) == "" {
			res.AddError(diagnostic.CodeInvalidType, fmt.Sprintf("case %d has no type", i+1), "", "")
			continue
		}

		if len(c.Expect) == 0 {
			res.AddWarning(diagnostic.CodeEmptyCase, "case has no expectations", c.Type, "")
		}

		seen := make(map[string]bool, len(c.Expect))
		for _, exp := range c.Expect {
			if seen[exp.Probe] {
				res.AddError(diagnostic.CodeDuplicateProbe, "probe listed twice in one case", c.Type, exp.Probe)
				continue
			}
			seen[exp.Probe] = true

			if _, ok := reg.Lookup(exp.Probe); !ok {
				res.AddError(diagnostic.CodeUnknownProbe, fmt.Sprintf("unknown probe %q", exp.Probe), c.Type, exp.Probe,
					match.Suggest(exp.Probe, names, 3)...)
			}
		}
	}

	return res
}
