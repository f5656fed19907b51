package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xor-shift/mcprng/util/rng"
)

func TestParseJobSpecs(t *testing.T) {
	body := []byte(`[
		{"batchKey": "b1", "entropy": [3077179212, 600245110, 1997595095, 1459043049], "generator": "xoshiro256pp", "streamNumber": 2, "numRows": 3, "numColumns": 4},
		{"batchKey": "b1", "seed": "hello", "streamNumber": 0, "numRows": 1, "numColumns": 1, "unknown": true}
	]`)

	specs, err := ParseJobSpecs(body)
	require.NoError(t, err)
	require.Len(t, specs, 2)

	assert.Equal(t, JobSpec{
		BatchKey:     "b1",
		Entropy:      []uint32{0xb76a074c, 0x23c70376, 0x7710e1d7, 0x56f73ae9},
		Generator:    "xoshiro256pp",
		StreamNumber: 2,
		NumRows:      3,
		NumColumns:   4,
	}, specs[0])
	assert.Equal(t, "hello", specs[1].Seed)
	assert.Equal(t, "", specs[1].Generator)
}

func TestParseJobSpecsErrors(t *testing.T) {
	cases := map[string]string{
		"not json":      `{`,
		"not an array":  `{"batchKey": "x"}`,
		"wrong type":    `[{"batchKey": "x", "seed": "s", "numRows": "many", "numColumns": 1}]`,
		"missing key":   `[{"seed": "s", "numRows": 1, "numColumns": 1}]`,
		"no seed":       `[{"batchKey": "x", "numRows": 1, "numColumns": 1}]`,
		"empty grid":    `[{"batchKey": "x", "seed": "s", "numRows": 0, "numColumns": 1}]`,
		"huge grid":     `[{"batchKey": "x", "seed": "s", "numRows": 2048, "numColumns": 1024}]`,
		"bad stream":    `[{"batchKey": "x", "seed": "s", "streamNumber": -1, "numRows": 1, "numColumns": 1}]`,
		"bad generator": `[{"batchKey": "x", "seed": "s", "generator": "mt", "numRows": 1, "numColumns": 1}]`,
		"bad pool size": `[{"batchKey": "x", "seed": "s", "poolSize": 2, "numRows": 1, "numColumns": 1}]`,
		"entropy wraps": `[{"batchKey": "x", "entropy": [4294967297], "numRows": 1, "numColumns": 1}]`,
		"entropy frac":  `[{"batchKey": "x", "entropy": [1.9], "numRows": 1, "numColumns": 1}]`,
		"entropy neg":   `[{"batchKey": "x", "entropy": [-1], "numRows": 1, "numColumns": 1}]`,
		"rows frac":     `[{"batchKey": "x", "seed": "s", "numRows": 2.9, "numColumns": 1}]`,
		"stream huge":   `[{"batchKey": "x", "seed": "s", "streamNumber": 4294967296, "numRows": 1, "numColumns": 1}]`,
		"stream range":  `[{"batchKey": "x", "seed": "s", "streamNumber": 65537, "numRows": 1, "numColumns": 1}]`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseJobSpecs([]byte(body))
			assert.ErrorIs(t, err, ErrInvalidJob)
		})
	}
}

func TestParseJobSpecsIntegerBounds(t *testing.T) {
	specs, err := ParseJobSpecs([]byte(`[{"batchKey": "x", "entropy": [0, 4294967295, 2.0], "streamNumber": 65536, "numRows": 1, "numColumns": 1}]`))
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, []uint32{0, 0xffffffff, 2}, specs[0].Entropy)
	assert.Equal(t, MaxStreamNumber, specs[0].StreamNumber)
}

func TestJobSpecValidateStreamNumber(t *testing.T) {
	spec := JobSpec{BatchKey: "x", Seed: "s", NumRows: 1, NumColumns: 1}

	spec.StreamNumber = MaxStreamNumber
	assert.NoError(t, spec.Validate())

	spec.StreamNumber = MaxStreamNumber + 1
	assert.ErrorIs(t, spec.Validate(), ErrInvalidJob)
}

func TestJobSpecSeedSequence(t *testing.T) {
	spec := JobSpec{Entropy: []uint32{0xb76a074c, 0x23c70376, 0x7710e1d7, 0x56f73ae9}}

	seq, err := spec.SeedSequence()
	require.NoError(t, err)
	assert.Equal(t, rng.DefaultPoolSize, seq.PoolSize())
	assert.Equal(t, []uint32{0xf431cc88, 0xb5bb44b2}, seq.GenerateState(2))
	assert.Equal(t, "b76a074c23c703767710e1d756f73ae9", spec.SeedWords())

	text := JobSpec{Seed: "hello", PoolSize: 8}
	seq, err = text.SeedSequence()
	require.NoError(t, err)
	assert.Equal(t, 8, seq.PoolSize())
	assert.Len(t, seq.Entropy(), 8)
	assert.Equal(t, "hello", text.SeedWords())
}

func TestJobResultGob(t *testing.T) {
	result := JobResult{
		BatchKey:     "b",
		StreamNumber: 1,
		Generator:    "pcg64dxsm",
		Result:       [][]float64{{0.25, 0.5}, {0.75, 0}},
	}

	body, err := EncodeJobResult(result)
	require.NoError(t, err)

	decoded, err := DecodeJobResult(body)
	require.NoError(t, err)
	assert.Equal(t, result, decoded)

	_, err = DecodeJobResult([]byte("garbage"))
	assert.Error(t, err)
}
