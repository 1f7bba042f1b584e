package entities

// Event is the sealed interface for domain events recorded by the PR
// aggregate. Events are appended on every mutation, even when the new value
// equals the old one: notification fan-out keys off the event, not off a
// state diff.
type Event interface {
	// PR returns the identifier of the pull request the event belongs to.
	PR() PRIdentifier

	isEvent()
}

func (e PRApproved) isEvent()        {}
func (e ChangesRequested) isEvent()  {}
func (e CIGreen) isEvent()           {}
func (e CIRed) isEvent()             {}
func (e PRMerged) isEvent()          {}
func (e PRPutBackToReview) isEvent() {}
func (e PRTooLarge) isEvent()        {}

// PRApproved records a reviewer approval (a GTM).
type PRApproved struct {
	PRIdentifier PRIdentifier
}

func (e PRApproved) PR() PRIdentifier { return e.PRIdentifier }

// ChangesRequested records a reviewer asking for changes.
type ChangesRequested struct {
	PRIdentifier PRIdentifier
}

func (e ChangesRequested) PR() PRIdentifier { return e.PRIdentifier }

// CIGreen records the CI turning green.
type CIGreen struct {
	PRIdentifier PRIdentifier
	BuildLink    string
}

func (e CIGreen) PR() PRIdentifier { return e.PRIdentifier }

// CIRed records the CI turning red, with a link to the failing build when
// the provider supplied one.
type CIRed struct {
	PRIdentifier PRIdentifier
	BuildLink    string
}

func (e CIRed) PR() PRIdentifier { return e.PRIdentifier }

// PRMerged records the PR being merged.
type PRMerged struct {
	PRIdentifier PRIdentifier
}

func (e PRMerged) PR() PRIdentifier { return e.PRIdentifier }

// PRPutBackToReview records the PR being announced for review again via a
// new chat message.
type PRPutBackToReview struct {
	PRIdentifier      PRIdentifier
	MessageIdentifier MessageIdentifier
}

func (e PRPutBackToReview) PR() PRIdentifier { return e.PRIdentifier }

// PRTooLarge records the PR exceeding the size warning limit.
type PRTooLarge struct {
	PRIdentifier PRIdentifier
}

func (e PRTooLarge) PR() PRIdentifier { return e.PRIdentifier }
