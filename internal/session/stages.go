package session

// Stage identifies one step of the generation pipeline indicator.
type Stage int

const (
	StageDownload Stage = iota
	StageAnalyze
	StageSpeakers
	StageCaptions
	StageVideo
)

// NumStages is the size of the pipeline indicator.
const NumStages = 5

func (s Stage) String() string {
	switch s {
	case StageDownload:
		return "download"
	case StageAnalyze:
		return "analyze"
	case StageSpeakers:
		return "speakers"
	case StageCaptions:
		return "captions"
	case StageVideo:
		return "video"
	default:
		return ""
	}
}

// Label returns the display name for the stage.
func (s Stage) Label() string {
	switch s {
	case StageDownload:
		return "Downloading"
	case StageAnalyze:
		return "Analyzing"
	case StageSpeakers:
		return "Detecting speakers"
	case StageCaptions:
		return "Generating captions"
	case StageVideo:
		return "Rendering video"
	default:
		return ""
	}
}

// StageState is the indicator state of one stage.
type StageState int

const (
	StagePending StageState = iota
	StageActive
	StageCompleted
)

// Activation thresholds for each stage; a stage completes when the next
// threshold is crossed, and the whole pipeline completes at 100.
var stageThresholds = [NumStages]int{10, 30, 50, 70, 90}

// StageStates derives the indicator from a progress percentage.
//
// The result is a pure function of the latest value: a smaller progress
// arriving later rewinds the indicator. The server sends monotonic progress
// by convention and the client does not enforce it.
func StageStates(progress int) [NumStages]StageState {
	var states [NumStages]StageState
	for i := range stageThresholds {
		next := 100
		if i+1 < NumStages {
			next = stageThresholds[i+1]
		}
		switch {
		case progress >= next:
			states[i] = StageCompleted
		case progress >= stageThresholds[i]:
			states[i] = StageActive
		default:
			states[i] = StagePending
		}
	}
	return states
}

// ActiveStage returns the currently active stage, if any.
func ActiveStage(progress int) (Stage, bool) {
	states := StageStates(progress)
	for i, st := range states {
		if st == StageActive {
			return Stage(i), true
		}
	}
	return 0, false
}
