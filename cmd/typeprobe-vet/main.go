// typeprobe-vet reports type declarations whose //typeprobe:expect
// directives disagree with what the probes detect.
//
// Usage:
//
//	typeprobe-vet ./...
//	typeprobe-vet -probes=probes.yaml ./...
//	go vet -vettool=$(which typeprobe-vet) ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"typeprobe/internal/expectvet"
)

func main() {
	singlechecker.Main(expectvet.Analyzer)
}
