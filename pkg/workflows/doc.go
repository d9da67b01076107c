// Package workflows implements the maintenance passes for the workflow
// indirection scheme: a nested source tree of workflow.yml symlinks kept
// in step with a flat destination directory of canonically named workflow
// files.
//
// The fix pass inspects every link, repairs its target file name and link
// text, patches the embedded name line, and finally sweeps destination
// files no processed link accounted for. The refresh pass works the
// inverse layout: it removes dead destination symlinks and creates
// missing ones for workflow files found under the source tree.
//
// Both passes are single linear walks. Per-link failures are isolated,
// logged and reported; failures outside the per-link boundary abort the
// run.
package workflows
