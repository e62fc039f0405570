package selcal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLookupRateProfileSupportedRates checks every enumerated rate resolves
// and that frame_len * frame_rate lands within 25 samples of sig_rate, the
// invariant spec.md §3 names.
func TestLookupRateProfileSupportedRates(t *testing.T) {
	for _, rate := range SupportedRates() {
		profile, err := LookupRateProfile(rate)
		require.NoError(t, err)
		require.Equal(t, rate, profile.InputRate)

		product := profile.FrameLen * profile.FrameRate
		diff := product - profile.SigRate
		if diff < 0 {
			diff = -diff
		}

		require.LessOrEqual(t, diff, 25)
	}
}

// TestLookupRateProfileRejectsUnsupported checks an unsupported rate
// returns an UnsupportedRate error.
func TestLookupRateProfileRejectsUnsupported(t *testing.T) {
	_, err := LookupRateProfile(8000)
	require.Error(t, err)

	var selErr *Error
	require.ErrorAs(t, err, &selErr)
	require.Equal(t, UnsupportedRate, selErr.Kind)
}
