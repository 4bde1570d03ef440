// Package pipeline generates the GEM validation jobs.
//
// For every geometry variant the generator asks the external driver tool to
// write three configuration files, one per stage: digitisation, validation
// and harvesting. The driver is invoked with --no_exec so it only writes the
// files. Once the three invocations are done, fixed blocks of configuration
// are appended to the generated files depending on the job options.
//
// Building the argument vectors is pure (see BuildPlan) and kept apart from
// running them (see Runner), so plans can be checked without spawning
// processes. The generator processes variants strictly one after another and
// does not stop when the driver exits with a non-zero status: the failure is
// logged and reported in the Summary. Failing to patch a file is fatal.
package pipeline
