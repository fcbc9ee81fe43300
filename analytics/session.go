package analytics

import (
	"strconv"
	"time"
)

// SessionGap is the inactivity gap in seconds that opens a new heuristic
// session for an IP (30 minutes).
const SessionGap = 1800

// PageHit is one normalized page view inside a session.
type PageHit struct {
	Page string
	Time time.Time
}

// Session is a reconstructed visitor visit: an ordered run of page hits
// attributed to one IP, bounded either by an explicit session identifier or
// by the inactivity-gap heuristic.
type Session struct {
	Key    string
	IP     string
	Events []PageHit
}

type ipState struct {
	index    int
	lastTime time.Time
	key      string
}

// sessionTracker groups hits into sessions during a single causal pass over
// rows ascending by timestamp. Sessions are never split retroactively.
type sessionTracker struct {
	byKey   map[string]*Session
	ordered []*Session
	ipState map[string]*ipState
}

func newSessionTracker() *sessionTracker {
	return &sessionTracker{
		byKey:   make(map[string]*Session),
		ipState: make(map[string]*ipState),
	}
}

// Observe appends the hit to the session it belongs to. An explicit session
// identifier always wins for its row and merges hits regardless of gaps;
// otherwise the per-IP synthetic session is extended or, after a gap larger
// than SessionGap, replaced.
func (t *sessionTracker) Observe(ip, sessionID, page string, at time.Time) {
	var key string
	if sessionID != "" {
		key = ip + "|" + sessionID
		if _, ok := t.byKey[key]; !ok {
			t.open(key, ip)
		}
	} else {
		state, ok := t.ipState[ip]
		if !ok {
			state = &ipState{}
			t.ipState[ip] = state
		}
		if state.key == "" || state.lastTime.IsZero() || at.Sub(state.lastTime) > SessionGap*time.Second {
			state.index++
			state.key = ip + "|" + strconv.Itoa(state.index)
			t.open(state.key, ip)
		}
		state.lastTime = at
		key = state.key
	}
	sess := t.byKey[key]
	sess.Events = append(sess.Events, PageHit{Page: page, Time: at})
}

// Sessions returns every session in the order it was opened.
func (t *sessionTracker) Sessions() []*Session {
	return t.ordered
}

func (t *sessionTracker) open(key, ip string) {
	sess := &Session{Key: key, IP: ip}
	t.byKey[key] = sess
	t.ordered = append(t.ordered, sess)
}
