package replace

// State is a point in the replace lifecycle. States only move forward,
// except that a rejected confirmation returns to Idle.
type State int

const (
	Idle State = iota
	ImpactAnalyzed
	Confirmed
	BackupCreated
	RemoteOverwritten
	LocalReset
	SourceCleaned
	Done
)

var stateNames = [...]string{
	Idle:              "idle",
	ImpactAnalyzed:    "impact-analyzed",
	Confirmed:         "confirmed",
	BackupCreated:     "backup-created",
	RemoteOverwritten: "remote-overwritten",
	LocalReset:        "local-reset",
	SourceCleaned:     "source-cleaned",
	Done:              "done",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Step is a completed repository-changing step.
type Step string

const (
	StepBackupCreated     Step = "backup-created"
	StepRemoteOverwritten Step = "remote-overwritten"
	StepLocalReset        Step = "local-reset"
	StepSourceCleaned     Step = "source-cleaned"
)

var stepStates = map[Step]State{
	StepBackupCreated:     BackupCreated,
	StepRemoteOverwritten: RemoteOverwritten,
	StepLocalReset:        LocalReset,
	StepSourceCleaned:     SourceCleaned,
}

// Status is a snapshot of an operation's progress.
type Status struct {
	State         State
	Steps         []Step
	LastCompleted State
	Backup        string
}
