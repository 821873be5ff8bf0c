package conversation

import (
	"time"

	"github.com/WWPCA/ieltsprep/internal/models"
)

// partPolicy defines when a part counts as finished: either the elapsed
// time reaches the ceiling or the candidate has answered the minimum
// number of questions. Whichever fires first wins, and once set the
// completion flag never clears.
type partPolicy struct {
	timeCeiling       time.Duration
	minCandidateTurns int
}

var partPolicies = map[int]partPolicy{
	1: {timeCeiling: 5 * time.Minute, minCandidateTurns: 6},
	2: {timeCeiling: 4 * time.Minute, minCandidateTurns: 2},
	3: {timeCeiling: 5 * time.Minute, minCandidateTurns: 5},
}

// partComplete evaluates the completion policy for the session's current
// part against its elapsed time and recorded candidate turns.
func partComplete(sess *models.Session) bool {
	policy, ok := partPolicies[sess.Part]
	if !ok {
		return false
	}
	if time.Since(sess.StartTime) >= policy.timeCeiling {
		return true
	}
	return sess.CandidateTurns() >= policy.minCandidateTurns
}
