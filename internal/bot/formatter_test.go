package bot

import (
	"testing"

	"waitlistbot/internal/roster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func responseText(t *testing.T, responses []Response) string {
	t.Helper()
	require.Len(t, responses, 1)
	response, ok := responses[0].(ResponseString)
	require.True(t, ok)
	return response.string
}

func TestFlagChanged(t *testing.T) {
	alice := roster.Member{ID: 1, Username: "alice"}

	assert.Equal(t, "alice added to VIP list",
		responseText(t, FlagChanged(alice, roster.FlagVIP, true)))
	assert.Equal(t, "alice removed from resume.cv list",
		responseText(t, FlagChanged(alice, roster.FlagResumeCV, false)))
	assert.Equal(t, "alice added to invited list",
		responseText(t, FlagChanged(alice, roster.FlagInvited, true)))

	// A flag without a friendly name still renders a complete message
	assert.Equal(t, "alice added to mystery list",
		responseText(t, FlagChanged(alice, roster.Flag("mystery"), true)))
}
