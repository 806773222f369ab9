package generator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMatrix = `# AUDIENCE TARGETING MATRIX FOR FITNESS

| AUDIENCE SEGMENT | KEY OBJECTIVE | KEY MESSAGE |
|------------------|---------------|-------------|
| Busy parents | Awareness | Short workouts that fit your day |

These segments focus on underserved groups in the 30-55 range.`

func TestPostProcessExtractsTitleAndSummary(t *testing.T) {
	draft, err := PostProcess(sampleMatrix + "\n")
	require.NoError(t, err)

	assert.Equal(t, "AUDIENCE TARGETING MATRIX FOR FITNESS", draft.Title)
	assert.Equal(t, "These segments focus on underserved groups in the 30-55 range.", draft.Summary)
	assert.Equal(t, sampleMatrix, draft.Markdown)
}

func TestPostProcessRejectsEmptyOutput(t *testing.T) {
	_, err := PostProcess("   \n\t")
	require.Error(t, err)

	var ge *GenError
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, ErrEmptyCompletion, ge.Code)
}

func TestPostProcessNoHeadingFallsBack(t *testing.T) {
	draft, err := PostProcess("just a single line of output")
	require.NoError(t, err)
	assert.Empty(t, draft.Title)
	assert.Equal(t, "just a single line of output", draft.Summary)
}
