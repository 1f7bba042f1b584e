package entities

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestPR(t *testing.T) *PullRequest {
	t.Helper()
	id, err := ParsePRIdentifier("akeneo/pim-community-dev/1111")
	require.NoError(t, err)
	return NewPullRequest(id, "1")
}

func TestPullRequest_CreateAndNormalize(t *testing.T) {
	pr := newTestPR(t)

	require.Equal(t, NormalizedPR{
		Identifier: "akeneo/pim-community-dev/1111",
		GTMs:       0,
		NotGTMs:    0,
		CIStatus:   "PENDING",
		IsMerged:   false,
		IsTooLarge: false,
		MessageIDs: []string{"1"},
	}, pr.Normalize())
}

func TestPullRequest_FromNormalizedRoundTrip(t *testing.T) {
	n := NormalizedPR{
		Identifier: "akeneo/pim-community-dev/1111",
		GTMs:       2,
		NotGTMs:    1,
		CIStatus:   "GREEN",
		IsMerged:   true,
		IsTooLarge: true,
		MessageIDs: []string{"1", "2"},
	}

	pr, err := PullRequestFromNormalized(n)
	require.NoError(t, err)
	require.Equal(t, n, pr.Normalize())
}

func TestPullRequest_FromNormalizedRejectsPartialRecords(t *testing.T) {
	valid := NormalizedPR{
		Identifier: "akeneo/pim-community-dev/1111",
		CIStatus:   "PENDING",
		MessageIDs: []string{"1"},
	}

	cases := map[string]func(n *NormalizedPR){
		"missing identifier":       func(n *NormalizedPR) { n.Identifier = "" },
		"malformed identifier":     func(n *NormalizedPR) { n.Identifier = "no-slashes" },
		"missing ci status":        func(n *NormalizedPR) { n.CIStatus = "" },
		"unknown ci status":        func(n *NormalizedPR) { n.CIStatus = "BLUE" },
		"negative gtms":            func(n *NormalizedPR) { n.GTMs = -1 },
		"negative not gtms":        func(n *NormalizedPR) { n.NotGTMs = -1 },
		"missing message ids":      func(n *NormalizedPR) { n.MessageIDs = nil },
		"empty message identifier": func(n *NormalizedPR) { n.MessageIDs = []string{""} },
	}

	for name, corrupt := range cases {
		t.Run(name, func(t *testing.T) {
			n := valid
			n.MessageIDs = append([]string(nil), valid.MessageIDs...)
			corrupt(&n)
			_, err := PullRequestFromNormalized(n)
			require.ErrorIs(t, err, ErrMalformedPR)
		})
	}
}

func TestPullRequest_ApproveMultipleTimes(t *testing.T) {
	pr := newTestPR(t)

	pr.Approve()
	pr.Approve()

	require.Equal(t, 2, pr.Normalize().GTMs)
	evs := pr.ReleaseEvents()
	require.Len(t, evs, 2)
	require.IsType(t, PRApproved{}, evs[0])
	require.IsType(t, PRApproved{}, evs[1])
}

func TestPullRequest_CountersAreIndependent(t *testing.T) {
	pr := newTestPR(t)

	pr.Approve()
	pr.RequestChanges()
	pr.Approve()
	pr.RequestChanges()
	pr.RequestChanges()

	n := pr.Normalize()
	require.Equal(t, 2, n.GTMs)
	require.Equal(t, 3, n.NotGTMs)
}

func TestPullRequest_MarkCIGreen(t *testing.T) {
	pr := newTestPR(t)

	pr.MarkCIGreen("")

	require.Equal(t, CIGreenStatus, pr.CIStatus())
	evs := pr.ReleaseEvents()
	require.Len(t, evs, 1)
	require.IsType(t, CIGreen{}, evs[0])
}

func TestPullRequest_MarkCIGreenTwiceEmitsTwice(t *testing.T) {
	pr := newTestPR(t)

	pr.MarkCIGreen("")
	pr.MarkCIGreen("")

	require.Equal(t, CIGreenStatus, pr.CIStatus())
	require.Len(t, pr.ReleaseEvents(), 2)
}

func TestPullRequest_MarkCIRedCarriesBuildLink(t *testing.T) {
	pr := newTestPR(t)

	pr.MarkCIRed("https://ci.example.com/build/42")

	require.Equal(t, CIRedStatus, pr.CIStatus())
	evs := pr.ReleaseEvents()
	require.Len(t, evs, 1)
	red, ok := evs[0].(CIRed)
	require.True(t, ok)
	require.Equal(t, "https://ci.example.com/build/42", red.BuildLink)
}

func TestPullRequest_MarkMergedIsOneWay(t *testing.T) {
	pr := newTestPR(t)

	pr.MarkMerged()
	pr.MarkMerged()

	require.True(t, pr.IsMerged())
	require.Len(t, pr.ReleaseEvents(), 2)
}

func TestPullRequest_PutBackToReviewAppends(t *testing.T) {
	pr := newTestPR(t)

	pr.PutBackToReview("2")

	require.Equal(t, []string{"1", "2"}, pr.Normalize().MessageIDs)
}

func TestPullRequest_PutBackToReviewSuppressesDuplicateMessage(t *testing.T) {
	pr := newTestPR(t)
	pr.ReleaseEvents()

	pr.PutBackToReview("2")
	pr.PutBackToReview("2")

	require.Equal(t, []string{"1", "2"}, pr.Normalize().MessageIDs)
	// duplicate message still records an event
	require.Len(t, pr.ReleaseEvents(), 2)
}

func TestPullRequest_LatestMessageID(t *testing.T) {
	pr := newTestPR(t)
	pr.PutBackToReview("2")

	latest, err := pr.LatestMessageID()
	require.NoError(t, err)
	require.Equal(t, MessageIdentifier("2"), latest)
}

func TestPullRequest_LatestMessageIDEmpty(t *testing.T) {
	pr := &PullRequest{}

	_, err := pr.LatestMessageID()
	require.ErrorIs(t, err, ErrNoMessageReference)
}

func TestPullRequest_ReleaseEventsClearsOutbox(t *testing.T) {
	pr := newTestPR(t)
	pr.Approve()

	require.Len(t, pr.ReleaseEvents(), 1)
	require.Empty(t, pr.ReleaseEvents())
}

func TestPullRequest_EventsCarryIdentifier(t *testing.T) {
	pr := newTestPR(t)
	pr.Approve()
	pr.MarkMerged()

	for _, e := range pr.ReleaseEvents() {
		require.Equal(t, pr.Identifier(), e.PR())
	}
}
