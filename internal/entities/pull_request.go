package entities

import "fmt"

// PullRequest is the review/CI state of one pull request. It aggregates
// review counters, the CI verdict, the merge flag and the chat messages the
// PR was announced with, and records a domain event for every mutation.
//
// All operations are synchronous and free of I/O; persistence and
// notification happen at the usecase boundary by draining ReleaseEvents.
type PullRequest struct {
	id         PRIdentifier
	gtms       int
	notGTMs    int
	ciStatus   CIStatus
	isMerged   bool
	isTooLarge bool
	messageIDs []MessageIdentifier
	events     []Event
}

// NewPullRequest creates a PR put to review for the first time. The message
// the PR was announced with becomes its first message reference, so the
// reference list is never empty.
func NewPullRequest(id PRIdentifier, firstMessage MessageIdentifier) *PullRequest {
	return &PullRequest{
		id:         id,
		ciStatus:   CIPending,
		messageIDs: []MessageIdentifier{firstMessage},
	}
}

// Identifier returns the immutable PR identifier.
func (pr *PullRequest) Identifier() PRIdentifier { return pr.id }

// IsMerged reports whether the PR has been merged.
func (pr *PullRequest) IsMerged() bool { return pr.isMerged }

// CIStatus returns the current aggregated CI verdict.
func (pr *PullRequest) CIStatus() CIStatus { return pr.ciStatus }

// Approve counts one more GTM.
func (pr *PullRequest) Approve() {
	pr.gtms++
	pr.record(PRApproved{PRIdentifier: pr.id})
}

// RequestChanges counts one more request for changes.
func (pr *PullRequest) RequestChanges() {
	pr.notGTMs++
	pr.record(ChangesRequested{PRIdentifier: pr.id})
}

// MarkCIGreen sets the CI status green. The event is recorded even when the
// status already was green.
func (pr *PullRequest) MarkCIGreen(buildLink string) {
	pr.ciStatus = CIGreenStatus
	pr.record(CIGreen{PRIdentifier: pr.id, BuildLink: buildLink})
}

// MarkCIRed sets the CI status red.
func (pr *PullRequest) MarkCIRed(buildLink string) {
	pr.ciStatus = CIRedStatus
	pr.record(CIRed{PRIdentifier: pr.id, BuildLink: buildLink})
}

// MarkMerged flags the PR merged. The flag is one-way; repeated calls keep
// it set and still record the event.
func (pr *PullRequest) MarkMerged() {
	pr.isMerged = true
	pr.record(PRMerged{PRIdentifier: pr.id})
}

// PutBackToReview appends the message the PR was announced with again. A
// message already present is not appended twice, but the event is recorded
// either way.
func (pr *PullRequest) PutBackToReview(message MessageIdentifier) {
	present := false
	for _, m := range pr.messageIDs {
		if m == message {
			present = true
			break
		}
	}
	if !present {
		pr.messageIDs = append(pr.messageIDs, message)
	}
	pr.record(PRPutBackToReview{PRIdentifier: pr.id, MessageIdentifier: message})
}

// MarkTooLarge flags the PR as exceeding the size warning limit.
func (pr *PullRequest) MarkTooLarge() {
	pr.isTooLarge = true
	pr.record(PRTooLarge{PRIdentifier: pr.id})
}

// MarkSmall clears the size warning flag. Shrinking back under the limit is
// not announced.
func (pr *PullRequest) MarkSmall() {
	pr.isTooLarge = false
}

// LatestMessageID returns the message reference of the most recent review
// announcement. The reference list is never empty for a PR built through
// NewPullRequest; the error is a defensive contract for hand-built records.
func (pr *PullRequest) LatestMessageID() (MessageIdentifier, error) {
	if len(pr.messageIDs) == 0 {
		return "", ErrNoMessageReference
	}
	return pr.messageIDs[len(pr.messageIDs)-1], nil
}

// MessageIDs returns the review announcement references in insertion order.
func (pr *PullRequest) MessageIDs() []MessageIdentifier {
	out := make([]MessageIdentifier, len(pr.messageIDs))
	copy(out, pr.messageIDs)
	return out
}

// ReleaseEvents drains the recorded events, clearing the outbox.
func (pr *PullRequest) ReleaseEvents() []Event {
	evs := pr.events
	pr.events = nil
	return evs
}

func (pr *PullRequest) record(e Event) {
	pr.events = append(pr.events, e)
}

// NormalizedPR is the flat persisted form of a PullRequest.
type NormalizedPR struct {
	Identifier string   `json:"identifier"`
	GTMs       int      `json:"gtms"`
	NotGTMs    int      `json:"not_gtms"`
	CIStatus   string   `json:"ci_status"`
	IsMerged   bool     `json:"is_merged"`
	IsTooLarge bool     `json:"is_too_large"`
	MessageIDs []string `json:"message_ids"`
}

// Normalize flattens the PR for persistence. Pending events are transient
// and not part of the normalized form.
func (pr *PullRequest) Normalize() NormalizedPR {
	ids := make([]string, len(pr.messageIDs))
	for i, m := range pr.messageIDs {
		ids[i] = m.String()
	}
	return NormalizedPR{
		Identifier: pr.id.String(),
		GTMs:       pr.gtms,
		NotGTMs:    pr.notGTMs,
		CIStatus:   string(pr.ciStatus),
		IsMerged:   pr.isMerged,
		IsTooLarge: pr.isTooLarge,
		MessageIDs: ids,
	}
}

// PullRequestFromNormalized rebuilds a PR from its persisted form. Partial
// records are rejected with ErrMalformedPR, never silently defaulted.
func PullRequestFromNormalized(n NormalizedPR) (*PullRequest, error) {
	id, err := ParsePRIdentifier(n.Identifier)
	if err != nil {
		return nil, fmt.Errorf("%w: identifier %q", ErrMalformedPR, n.Identifier)
	}
	if n.GTMs < 0 || n.NotGTMs < 0 {
		return nil, fmt.Errorf("%w: negative review counter", ErrMalformedPR)
	}
	status, err := ParseCIStatus(n.CIStatus)
	if err != nil {
		return nil, fmt.Errorf("%w: ci status %q", ErrMalformedPR, n.CIStatus)
	}
	if len(n.MessageIDs) == 0 {
		return nil, fmt.Errorf("%w: no message identifiers", ErrMalformedPR)
	}
	messageIDs := make([]MessageIdentifier, len(n.MessageIDs))
	for i, raw := range n.MessageIDs {
		m, err := ParseMessageIdentifier(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: empty message identifier", ErrMalformedPR)
		}
		messageIDs[i] = m
	}
	return &PullRequest{
		id:         id,
		gtms:       n.GTMs,
		notGTMs:    n.NotGTMs,
		ciStatus:   status,
		isMerged:   n.IsMerged,
		isTooLarge: n.IsTooLarge,
		messageIDs: messageIDs,
	}, nil
}
