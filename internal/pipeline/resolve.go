package pipeline

import (
	"strconv"
	"strings"

	"github.com/gyaneshwarpardhi/pipetree/internal/metrics"
)

// Resolve turns a loosely typed id from a UI event into a live proxy.
// It reports false when raw is not a positive integer, when the session is
// detached, or when no proxy with that id exists. It has no side effects.
func Resolve(sess *Session, raw string) (Proxy, bool) {
	if !sess.attached() {
		return nil, false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		metrics.ResolveFailures.Inc()
		sess.log().Debug("unresolvable node id", "raw", raw)
		return nil, false
	}
	p, ok := sess.Backend.ProxyByID(id)
	if !ok || p == nil {
		metrics.ResolveFailures.Inc()
		sess.log().Debug("node not found", "id", id)
		return nil, false
	}
	return p, true
}
