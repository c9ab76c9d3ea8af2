package main

// Build-time variables 'version', 'commit', and 'date' are declared in
// root.go and populated via -ldflags (see Makefile and .goreleaser.yaml).

// main is the entry point for the cljstyle application. Execute (defined in
// root.go) sets up and runs the root Cobra command; error handling is managed
// within Cobra's Execute pattern based on the error returned by RunE.
func main() {
	Execute()
}
