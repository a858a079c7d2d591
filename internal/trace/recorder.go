// Package trace records processed events as JSON lines and queries them.
//
// A Recorder is a post-dispatch hook. Each event the dispatcher processes
// becomes one JSON object:
//
//	{"session":"...","seq":3,"drain_depth":1,"context_depth":0,"gate":1,
//	 "type":"FocusIn","target":"input","related":"button",
//	 "propagation_stopped":false,"immediate_stopped":false,
//	 "default_prevented":false,"dispatch_stopped":true}
//
// Post-dispatch hooks run before the nested drain of the event, so records
// appear in processing order and seq increases monotonically.
package trace

import (
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/tidwall/sjson"

	"github.com/dshills/eventgate/internal/dispatcher/hook"
	"github.com/dshills/eventgate/internal/event"
)

// Priority is the post-dispatch priority of the recorder. It runs after
// the compatibility hook and before auditing.
const Priority = 900

// DefaultLimit is the number of records kept in memory by default.
const DefaultLimit = 4096

// Recorder collects dispatch records.
type Recorder struct {
	mu      sync.Mutex
	session string
	lines   []string
	limit   int
	dropped int
	w       io.Writer
	err     error
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithWriter copies every record, newline terminated, to w.
func WithWriter(w io.Writer) Option {
	return func(r *Recorder) { r.w = w }
}

// WithLimit bounds the records kept in memory. The oldest are dropped
// first. A limit of zero or less keeps everything.
func WithLimit(n int) Option {
	return func(r *Recorder) { r.limit = n }
}

// WithSession sets the session identifier stamped on every record.
func WithSession(id string) Option {
	return func(r *Recorder) { r.session = id }
}

// NewRecorder creates a recorder with a random session identifier.
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		session: uuid.NewString(),
		limit:   DefaultLimit,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name implements hook.Hook.
func (r *Recorder) Name() string { return "trace" }

// Priority implements hook.Hook.
func (r *Recorder) Priority() int { return Priority }

// Session returns the session identifier.
func (r *Recorder) Session() string { return r.session }

// PostDispatch implements hook.PostDispatchHook.
func (r *Recorder) PostDispatch(e event.Event, info *hook.Info) {
	line, err := Encode(r.session, e, info)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		r.err = err
		return
	}
	r.lines = append(r.lines, line)
	if r.limit > 0 && len(r.lines) > r.limit {
		n := len(r.lines) - r.limit
		r.lines = append(r.lines[:0], r.lines[n:]...)
		r.dropped += n
	}
	if r.w != nil {
		if _, err := io.WriteString(r.w, line+"\n"); err != nil {
			r.err = err
		}
	}
}

// Encode builds the JSON record for e.
func Encode(session string, e event.Event, info *hook.Info) (string, error) {
	b := e.EventBase()

	var (
		line string
		err  error
	)
	set := func(path string, value any) {
		if err == nil {
			line, err = sjson.Set(line, path, value)
		}
	}

	set("session", session)
	set("seq", info.Seq)
	set("drain_depth", info.DrainDepth)
	set("context_depth", info.ContextDepth)
	set("gate", info.Gate)
	set("type", e.TypeID().String())
	set("target", event.TargetName(b.Target()))
	if related := relatedTarget(e); related != nil {
		set("related", event.TargetName(related))
	}
	set("propagation_stopped", b.IsPropagationStopped())
	set("immediate_stopped", b.IsImmediatePropagationStopped())
	set("default_prevented", b.IsDefaultPrevented())
	set("dispatch_stopped", b.IsDispatchStopped())

	if err != nil {
		return "", err
	}
	return line, nil
}

func relatedTarget(e event.Event) event.Target {
	switch ev := e.(type) {
	case *event.FocusEvent:
		return ev.RelatedTarget
	case *event.CaptureEvent:
		return ev.RelatedTarget
	}
	return nil
}

// Lines returns a copy of the recorded lines.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// Len returns the number of records held.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lines)
}

// Dropped returns how many records fell out of the limit.
func (r *Recorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Err returns the last encoding or write error.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// JSON returns the records as a JSON array.
func (r *Recorder) JSON() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return "[" + strings.Join(r.lines, ",") + "]"
}

// Reset discards all records.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = nil
	r.dropped = 0
	r.err = nil
}
