package submission

import (
	"html/template"
	"sync"
)

// View is the set of page elements the controller drives: the trigger
// control, the loading indicator, the response container and the error region.
type View interface {
	SetTriggerEnabled(enabled bool)
	SetLoading(loading bool)
	// ShowResponse fills the response container, reveals it and brings it into focus.
	ShowResponse(html template.HTML)
	ShowError(message string)
	HideError()
}

// Snapshot is the observable state of a View.
type Snapshot struct {
	TriggerEnabled  bool          `json:"triggerEnabled"`
	Loading         bool          `json:"loading"`
	ResponseVisible bool          `json:"responseVisible"`
	HTML            template.HTML `json:"html,omitempty"`
	ErrorVisible    bool          `json:"errorVisible"`
	Error           string        `json:"error,omitempty"`
}

// Recorder is a View that keeps the element state in memory. The page host
// ships its snapshot to the browser after every transition.
type Recorder struct {
	mu   sync.Mutex
	snap Snapshot
}

func NewRecorder() *Recorder {
	return &Recorder{snap: Snapshot{TriggerEnabled: true}}
}

func (r *Recorder) SetTriggerEnabled(enabled bool) {
	r.mu.Lock()
	r.snap.TriggerEnabled = enabled
	r.mu.Unlock()
}

func (r *Recorder) SetLoading(loading bool) {
	r.mu.Lock()
	r.snap.Loading = loading
	r.mu.Unlock()
}

func (r *Recorder) ShowResponse(html template.HTML) {
	r.mu.Lock()
	r.snap.HTML = html
	r.snap.ResponseVisible = true
	r.mu.Unlock()
}

func (r *Recorder) ShowError(message string) {
	r.mu.Lock()
	r.snap.Error = message
	r.snap.ErrorVisible = true
	r.mu.Unlock()
}

func (r *Recorder) HideError() {
	r.mu.Lock()
	r.snap.ErrorVisible = false
	r.mu.Unlock()
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}
