// Package git provides git operations via shell commands.
//
// All operations use [os/exec.Command] to call the git CLI directly rather than
// using Go git libraries. This approach is simpler, more reliable, and ensures
// compatibility with user configurations (SSH keys, credential helpers, aliases).
//
// # Gateway
//
// [Client] implements [vcs.Gateway], the contract the analyzers and the
// replace orchestrator consume:
//
//   - Reads: [Client.AheadBehind], [Client.DiffNames], [Client.FileDiff],
//     [Client.ShowFile], [Client.MergeBase], [Client.SimulateMerge], [Client.RemoteTip]
//   - Ref changes: [Client.CreateBranch], [Client.PushBranch],
//     [Client.ForcePushWithLease], [Client.ResetHard], [Client.DeleteBranch]
//
// Merge simulation uses the trivial three-way `git merge-tree base a b`, which
// never writes to the object store, refs or the work tree.
//
// # Workflow Primitives
//
// Pass-through commands used by the CLI: [Client.Status], [Client.AddAll],
// [Client.Commit], [Client.Push], [Client.ListBranches], [Client.SwitchBranch],
// [Client.CreateAndSwitch], [Client.Stash], [Client.StashPop], [Client.StashList].
package git
