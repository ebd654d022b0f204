package watcher

type State int32

const (
	Starting State = iota
	Watching
	Terminated
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Watching:
		return "watching"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}
