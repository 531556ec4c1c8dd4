package main

// Short messages (one-liners)
const (
	MsgRootShort = "Deduplicate APT source lists, safely and reversibly"
	MsgRootLong = `aptdedup scans your APT source-list files for duplicate repository
entries and comments out every occurrence after the first, never deleting a
line. Every run snapshots the files before touching them, so each change can
be undone either from the snapshot or by stripping the markers in place.

It can also wait on the dpkg/apt database lock before package operations,
surfacing the holding processes when the wait times out.`

	MsgScanShort       = "Report duplicate repository lines without changing anything"
	MsgApplyShort      = "Comment out duplicate repository lines (snapshot first)"
	MsgUndoShort       = "Undo a deduplication from a snapshot or by stripping markers"
	MsgWaitLockShort   = "Wait for the package database lock to become free"
	MsgBackupsShort    = "List stored snapshots"
	MsgGenconfigShort  = "Print the default configuration as TOML"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Flag help
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig   = "Config file path (default: discovered)"
	MsgFlagFormat   = "Output format: auto, term or text"
	MsgFlagDryRun   = "Preview changes without executing them"
	MsgFlagBackupID = "Snapshot id to restore (default: latest)"
	MsgFlagMarkers  = "Strip markers in place instead of restoring a snapshot"
	MsgFlagTimeout  = "Give up waiting after this long"
	MsgFlagInterval = "Poll the lock at this interval"
	MsgFlagYes      = "Authorize terminating lock holders without prompting"

	// Status messages
	MsgNoDuplicates  = "No duplicate entries found."
	MsgDryRunNotice  = "\nDRY RUN MODE - No changes were made"
	MsgNothingToUndo = "Nothing to undo."
	MsgNoBackups     = "No snapshots stored."
	MsgLockFree      = "Package database lock is free."
)
