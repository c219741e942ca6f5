package stix

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"attack2mongo/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadBundle(tb testing.TB) Bundle {
	tb.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "bundle.json"))
	require.NoError(tb, err)
	var bundle Bundle
	require.NoError(tb, json.Unmarshal(data, &bundle))
	return bundle
}

func TestSelect_KeepsOnlyMatchingTypeInOrder(t *testing.T) {
	bundle := loadBundle(t)

	selected, err := Select(bundle, domain.TypeAttackPattern)
	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Contains(t, string(selected[0]), "attack-pattern--970a3432")
	assert.Contains(t, string(selected[1]), "attack-pattern--b17a1a56")
}

func TestSelect_SkipsMissingAndNonStringType(t *testing.T) {
	bundle := Bundle{Objects: []json.RawMessage{
		json.RawMessage(`{"id":"a"}`),
		json.RawMessage(`{"type":42,"id":"b"}`),
		json.RawMessage(`{"type":null,"id":"c"}`),
		json.RawMessage(`{"type":"attack-pattern","id":"d"}`),
	}}

	selected, err := Select(bundle, domain.TypeAttackPattern)
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Contains(t, string(selected[0]), `"d"`)
}

func TestSelect_NonObjectEntry(t *testing.T) {
	bundle := Bundle{Objects: []json.RawMessage{json.RawMessage(`"attack-pattern"`)}}

	_, err := Select(bundle, domain.TypeAttackPattern)
	assert.ErrorIs(t, err, ErrTransform)
}

func TestSelect_NoMatches(t *testing.T) {
	bundle := Bundle{Objects: []json.RawMessage{json.RawMessage(`{"type":"malware"}`)}}

	selected, err := Select(bundle, domain.TypeAttackPattern)
	require.NoError(t, err)
	assert.NotNil(t, selected)
	assert.Empty(t, selected)
}

func TestTransform_Scenario(t *testing.T) {
	raw := json.RawMessage(`{"type":"attack-pattern","id":"T1001","name":"X","kill_chain_phases":[{"phase_name":"execution"}],"external_references":[{"source_name":"mitre","url":"http://x","description":"d"}]}`)

	record, err := Transform(raw)
	require.NoError(t, err)

	out, err := json.Marshal(record)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"T1001","name":"X","description":null,"created":null,"modified":null,"kill_chain_phases":["execution"],"external_references":[{"source_name":"mitre","url":"http://x","description":"d"}]}`, string(out))
}

func TestTransform_AllFieldsPresent(t *testing.T) {
	raw := json.RawMessage(`{
		"type":"attack-pattern","id":"attack-pattern--1","name":"N","description":"D",
		"created":"2020-01-01T00:00:00.000Z","modified":"2021-01-01T00:00:00.000Z",
		"kill_chain_phases":[{"kill_chain_name":"mitre-attack","phase_name":"discovery"},{"phase_name":"collection"}],
		"external_references":[{"source_name":"s","url":"u","description":"d","external_id":"T1"}]
	}`)

	record, err := Transform(raw)
	require.NoError(t, err)

	assert.Equal(t, domain.AttackPattern{
		ID:              "attack-pattern--1",
		Name:            "N",
		Description:     "D",
		Created:         "2020-01-01T00:00:00.000Z",
		Modified:        "2021-01-01T00:00:00.000Z",
		KillChainPhases: []any{"discovery", "collection"},
		ExternalReferences: []domain.Reference{
			{SourceName: "s", URL: "u", Description: "d"},
		},
	}, record)
}

func TestTransform_MissingArraysBecomeEmpty(t *testing.T) {
	record, err := Transform(json.RawMessage(`{"type":"attack-pattern","id":"x"}`))
	require.NoError(t, err)

	out, err := json.Marshal(record)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"kill_chain_phases":[]`)
	assert.Contains(t, string(out), `"external_references":[]`)
}

func TestTransform_MissingSubFieldsStayNull(t *testing.T) {
	raw := json.RawMessage(`{"type":"attack-pattern","kill_chain_phases":[{"kill_chain_name":"mitre-attack"}],"external_references":[{"external_id":"T1"}]}`)

	record, err := Transform(raw)
	require.NoError(t, err)
	require.Len(t, record.KillChainPhases, 1)
	assert.Nil(t, record.KillChainPhases[0])
	require.Len(t, record.ExternalReferences, 1)
	assert.Equal(t, domain.Reference{}, record.ExternalReferences[0])
}

func TestTransform_MalformedStructures(t *testing.T) {
	tests := map[string]string{
		"phases scalar":     `{"type":"attack-pattern","kill_chain_phases":"execution"}`,
		"references object": `{"type":"attack-pattern","external_references":{"source_name":"x"}}`,
		"phase string":      `{"type":"attack-pattern","kill_chain_phases":["execution"]}`,
		"null reference":    `{"type":"attack-pattern","external_references":[null]}`,
		"null phase":        `{"type":"attack-pattern","kill_chain_phases":[null]}`,
		"numeric phases":    `{"type":"attack-pattern","kill_chain_phases":[1]}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Transform(json.RawMessage(body))
			assert.ErrorIs(t, err, ErrTransform)
		})
	}
}

func TestTransform_CopiesScalarsOfAnyType(t *testing.T) {
	raw := json.RawMessage(`{
		"type":"attack-pattern","id":12,"name":7,"description":true,
		"created":{"ts":1},"modified":["2021"],
		"kill_chain_phases":[{"phase_name":3}],
		"external_references":[{"source_name":["a"],"url":1.5,"description":null}]
	}`)

	record, err := Transform(raw)
	require.NoError(t, err)

	assert.Equal(t, json.Number("12"), record.ID)
	assert.Equal(t, json.Number("7"), record.Name)
	assert.Equal(t, true, record.Description)
	assert.Equal(t, map[string]any{"ts": json.Number("1")}, record.Created)
	assert.Equal(t, []any{"2021"}, record.Modified)
	assert.Equal(t, []any{json.Number("3")}, record.KillChainPhases)
	assert.Equal(t, []domain.Reference{{SourceName: []any{"a"}, URL: json.Number("1.5")}}, record.ExternalReferences)

	out, err := json.Marshal(record)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":12,"name":7,"description":true,"created":{"ts":1},"modified":["2021"],"kill_chain_phases":[3],"external_references":[{"source_name":["a"],"url":1.5,"description":null}]}`, string(out))
}

func TestTransform_IgnoresUnusedFields(t *testing.T) {
	raw := json.RawMessage(`{
		"type":"attack-pattern","id":"x","x_mitre_version":{"v":1},
		"kill_chain_phases":[{"kill_chain_name":1,"phase_name":"execution"}],
		"external_references":[{"source_name":"mitre-attack","external_id":13,"extra":[null]}]
	}`)

	record, err := Transform(raw)
	require.NoError(t, err)
	assert.Equal(t, []any{"execution"}, record.KillChainPhases)
	assert.Equal(t, []domain.Reference{{SourceName: "mitre-attack"}}, record.ExternalReferences)
}

func TestBuildRecords_FromFixture(t *testing.T) {
	records, err := BuildRecords(loadBundle(t), domain.TypeAttackPattern)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Python", records[0].Name)
	assert.Equal(t, []any{"execution"}, records[0].KillChainPhases)
	require.Len(t, records[0].ExternalReferences, 2)
	assert.Nil(t, records[0].ExternalReferences[0].Description)

	assert.Equal(t, "Valid Accounts", records[1].Name)
	assert.Nil(t, records[1].Description)
	assert.Equal(t, []any{"defense-evasion", "persistence", nil}, records[1].KillChainPhases)
	assert.Empty(t, records[1].ExternalReferences)
}

func TestTransformAll_ReportsIndex(t *testing.T) {
	selected := []json.RawMessage{
		json.RawMessage(`{"type":"attack-pattern","id":"ok"}`),
		json.RawMessage(`{"type":"attack-pattern","kill_chain_phases":1}`),
	}

	_, err := TransformAll(selected)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransform)
	assert.Contains(t, err.Error(), "第 1 个匹配对象")
}

func TestRawSample(t *testing.T) {
	raw := json.RawMessage(`{"type":"attack-pattern","description":"` + strings.Repeat("a", 1000) + `"}`)

	sample := RawSample(raw, SampleLimit)
	assert.True(t, strings.HasPrefix(sample, "{\n  \"type\": \"attack-pattern\""))
	assert.True(t, strings.HasSuffix(sample, "\n..."))
	assert.Equal(t, SampleLimit+len("\n..."), len([]rune(sample)))

	short := RawSample(json.RawMessage(`{"a":1}`), SampleLimit)
	assert.Equal(t, "{\n  \"a\": 1\n}", short)
}
