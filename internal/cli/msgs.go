package cli

// Message constants
const (
	MsgRootShort = "Repository maintenance chores for CI"
	MsgRootLong  = `repokeeper bundles the small maintenance passes a repository needs from CI:
keeping the workflow symlink tree normalized, enforcing the fork naming
policy on the hosting platform, and rendering one-shot templates.`

	MsgWorkflowsShort = "Maintain the workflow symlink tree"
	MsgWorkflowsLong  = `The workflows commands keep the nested source tree of workflow.yml
indirection links and the flat destination directory of workflow files
consistent with each other.`

	MsgFixShort = "Normalize workflow links, filenames and embedded names"
	MsgFixLong  = `The fix command walks the source tree and, for every workflow link:
  - verifies the link points at the canonically named file in the
    destination directory, renaming and relinking as needed
  - patches the embedded 'name:' line to the canonical display name
  - finally removes destination files no processed link accounted for

Links that cannot be repaired are reported with remediation steps and
make the command exit non-zero; the run still processes every other
link. The procedure is idempotent: a second run over a repaired tree
changes nothing.`
	MsgFixExample = `  # Repair the workflow tree of the current repository
  repokeeper workflows fix

  # Preview every action without touching the filesystem
  repokeeper workflows fix --dry-run -v`

	MsgRefreshShort = "Remove dead workflow symlinks and create missing ones"
	MsgRefreshLong  = `The refresh command works the inverse layout: workflow files are the
real files under the source tree, and the destination directory holds
normalized symlinks pointing back at them. Dead destination symlinks
are removed and missing ones created.`
	MsgRefreshExample = `  # Refresh destination symlinks
  repokeeper workflows refresh`

	MsgForksShort = "Enforce policy on forked repositories"
	MsgForksLong  = `The forks commands talk to the GitHub API to keep the authenticated
user's forks within naming and description policy.`

	MsgEnforceShort = "Rename and retag tagged public forks"
	MsgEnforceLong  = `The enforce command searches the authenticated user's public forks
carrying the configured topic and, for each one, enforces the canonical
name '<parent-owner>--<parent-name>--<topic>' and the description tag.

Authentication uses the GH_TOKEN environment variable. Inside GitHub
Actions the token is masked and findings are emitted as annotations.`
	MsgEnforceExample = `  # Enforce the fork policy
  GH_TOKEN=... repokeeper forks enforce

  # See what would change
  GH_TOKEN=... repokeeper forks enforce --dry-run`

	MsgRenderShort = "Render a template from stdin to stdout"
	MsgRenderLong  = `The render command reads a Go template from standard input, renders it
against an empty context with the sprig function map available, and
prints the result.`
	MsgRenderExample = `  cat README.md.tmpl | repokeeper render > README.md`
)
