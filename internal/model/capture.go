package model

// CaptureState is a step of the capture state machine.
type CaptureState int

const (
	CaptureIdle CaptureState = iota
	CaptureQuotaCheck
	CaptureDenied
	CaptureCapturing
	CaptureUploading
	CaptureCommitted
	CaptureFailed
)

var captureStateNames = [...]string{
	CaptureIdle:       "idle",
	CaptureQuotaCheck: "quota_check",
	CaptureDenied:     "denied",
	CaptureCapturing:  "capturing",
	CaptureUploading:  "uploading",
	CaptureCommitted:  "committed",
	CaptureFailed:     "failed",
}

func (s CaptureState) String() string {
	if s < 0 || int(s) >= len(captureStateNames) {
		return "unknown"
	}
	return captureStateNames[s]
}

// Terminal reports whether no further transition is possible.
func (s CaptureState) Terminal() bool {
	return s == CaptureDenied || s == CaptureCommitted || s == CaptureFailed
}

// CaptureEvent is emitted by the capture device when a recording completes.
// Data is already encrypted by the device pipeline.
type CaptureEvent struct {
	Data            []byte
	DurationSeconds int
	Format          string
	Resolution      string
	OriginalName    string
}
