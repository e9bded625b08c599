package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/fcv-2025.net/codejudge/internal/domain"
	"gitlab.com/fcv-2025.net/codejudge/internal/static/errs"
)

func TestParseTestCaseSet_FlatListSplitsFirstThree(t *testing.T) {
	raw := `[
		{"input":"1","expected_output":"1"},
		{"input":"2","expected_output":"4"},
		{"input":"3","expected_output":"9"},
		{"input":"4","expected_output":"16"},
		{"input":"5","expected_output":"25"}
	]`

	set, err := domain.ParseTestCaseSet([]byte(raw))
	require.NoError(t, err)

	require.Len(t, set.Visible, 3)
	require.Len(t, set.Hidden, 2)
	assert.Equal(t, "1", set.Visible[0].Input)
	assert.Equal(t, "16", set.Hidden[0].ExpectedOutput)
	assert.Equal(t, 5, set.Len())
}

func TestParseTestCaseSet_ShortFlatListIsAllVisible(t *testing.T) {
	set, err := domain.ParseTestCaseSet([]byte(`[{"input":"a","expected_output":"b"}]`))
	require.NoError(t, err)

	assert.Len(t, set.Visible, 1)
	assert.Empty(t, set.Hidden)
}

func TestParseTestCaseSet_PartitionedObject(t *testing.T) {
	raw := `{"examples":[{"input":"2","expected_output":"4"}],"hidden":[{"input":"3","expected_output":"6"}]}`

	set, err := domain.ParseTestCaseSet([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, []domain.TestCase{{Input: "2", ExpectedOutput: "4"}}, set.Visible)
	assert.Equal(t, []domain.TestCase{{Input: "3", ExpectedOutput: "6"}}, set.Hidden)
}

func TestParseTestCaseSet_ObjectWithOnlyHidden(t *testing.T) {
	set, err := domain.ParseTestCaseSet([]byte(`{"hidden":[{"input":"3","expected_output":"6"}]}`))
	require.NoError(t, err)

	assert.Empty(t, set.Visible)
	assert.Len(t, set.Hidden, 1)
}

func TestParseTestCaseSet_DoubleEncodedString(t *testing.T) {
	raw := `"[{\"input\":\"1\",\"expected_output\":\"2\"}]"`

	set, err := domain.ParseTestCaseSet([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, []domain.TestCase{{Input: "1", ExpectedOutput: "2"}}, set.Visible)
}

func TestParseTestCaseSet_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"null", "null"},
		{"number", "42"},
		{"broken json", `[{"input":`},
		{"unrelated object", `{"foo":1}`},
		{"triple encoded", `"\"[]\""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.ParseTestCaseSet([]byte(tt.raw))
			assert.ErrorIs(t, err, errs.ErrMalformedTestCases)
		})
	}
}

func TestTestCaseSet_AllKeepsVisibleFirst(t *testing.T) {
	set := domain.TestCaseSet{
		Visible: []domain.TestCase{{Input: "v1"}, {Input: "v2"}},
		Hidden:  []domain.TestCase{{Input: "h1"}},
	}

	all := set.All()
	require.Len(t, all, 3)
	assert.Equal(t, "v1", all[0].Input)
	assert.Equal(t, "v2", all[1].Input)
	assert.Equal(t, "h1", all[2].Input)
	assert.False(t, set.IsHidden(1))
	assert.True(t, set.IsHidden(2))
}
