package entities

// CIStatus is the aggregated verdict over all CI checks of a PR.
type CIStatus string

const (
	// CIPending is the initial and "unknown/in progress" verdict.
	CIPending CIStatus = "PENDING"
	// CIGreenStatus means a supported check succeeded and none failed.
	CIGreenStatus CIStatus = "GREEN"
	// CIRedStatus means at least one check failed.
	CIRedStatus CIStatus = "RED"
)

// ParseCIStatus validates a persisted CI status value.
func ParseCIStatus(raw string) (CIStatus, error) {
	switch CIStatus(raw) {
	case CIPending, CIGreenStatus, CIRedStatus:
		return CIStatus(raw), nil
	}
	return "", ErrMalformedPR
}

// CheckState is the state of one individual CI check.
type CheckState string

const (
	CheckSuccess CheckState = "success"
	CheckFailure CheckState = "failure"
	CheckPending CheckState = "pending"
	CheckNeutral CheckState = "neutral"
)

// CheckResult is one CI check reported by the provider for a commit.
type CheckResult struct {
	Context    string
	State      CheckState
	DetailsURL string
}

// CIVerdict is the outcome of folding all check results into one status.
type CIVerdict struct {
	Status    CIStatus
	BuildLink string
}

// ReconcileCIStatus folds a list of check results into a single verdict.
//
// A failure anywhere forces RED, whether or not its context is supported: a
// red build is a red build. GREEN on the other hand has to be earned from a
// check the team opted into, so an unrelated green check cannot paper over a
// missing required one. Everything else is PENDING. The first failing entry
// in delivery order supplies the build link.
func ReconcileCIStatus(results []CheckResult, supported map[string]struct{}) CIVerdict {
	for _, r := range results {
		if r.State == CheckFailure {
			return CIVerdict{Status: CIRedStatus, BuildLink: r.DetailsURL}
		}
	}
	for _, r := range results {
		if _, ok := supported[r.Context]; ok && r.State == CheckSuccess {
			return CIVerdict{Status: CIGreenStatus}
		}
	}
	return CIVerdict{Status: CIPending}
}
