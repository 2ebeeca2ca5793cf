// Package battery loads, validates and runs batteries of capability
// expectations.
//
// A battery is a YAML file pairing candidate types with the probe results
// they must produce. Running a battery is the static verification step: any
// mismatch is an error diagnostic, and callers turn that into a failed build
// or a non-zero exit.
//
// # Schema Overview
//
//	version: "1"
//	imports:                       # available to every case, used only when referenced
//	  - typeprobe/container
//	probes:                        # optional custom probes
//	  - name: has-len
//	    method: Len
//	  - name: push-int
//	    method: Push
//	    args: ["1"]
//	  - name: has-id
//	    field: ID
//	  - name: zeroable
//	    body: ["*v = *new(T)"]
//	    vet: copylocks
//	cases:
//	  - type: container.Vector[int]
//	    expect:
//	      value-type: true
//	      data-field: false
//	  - type: int
//	    expect:
//	      copy-assignable: ~         # null: evaluated and reported, not asserted
//
// Expectations keep their file order. Custom probes must set exactly one of
// field, method or body.
package battery
