package common

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/mitchellh/mapstructure"

	"github.com/xor-shift/mcprng/util"
	"github.com/xor-shift/mcprng/util/rng"
)

const (
	// MaxCells bounds NumRows*NumColumns of a single job.
	MaxCells = 1 << 20
	// MaxStreamNumber bounds StreamNumber. Xoshiro stream c costs c jumps.
	MaxStreamNumber = 1 << 16
)

var ErrInvalidJob = errors.New("invalid job")

// JobSpec asks for a NumRows x NumColumns grid of unit-uniform draws from
// stream StreamNumber of the generator seeded by Entropy, or by Seed when
// Entropy is empty.
type JobSpec struct {
	BatchKey     string   `json:"batchKey" mapstructure:"batchKey"`
	Seed         string   `json:"seed,omitempty" mapstructure:"seed"`
	Entropy      []uint32 `json:"entropy,omitempty" mapstructure:"entropy"`
	PoolSize     int      `json:"poolSize,omitempty" mapstructure:"poolSize"`
	Generator    string   `json:"generator,omitempty" mapstructure:"generator"`
	StreamNumber int      `json:"streamNumber" mapstructure:"streamNumber"`
	NumRows      int      `json:"numRows" mapstructure:"numRows"`
	NumColumns   int      `json:"numColumns" mapstructure:"numColumns"`
}

type JobResult struct {
	BatchKey     string      `json:"batchKey"`
	StreamNumber int         `json:"streamNumber"`
	Generator    string      `json:"generator"`
	SeedWords    string      `json:"seedWords"`
	Result       [][]float64 `json:"result,omitempty"`
	Error        string      `json:"error,omitempty"`
}

func (spec *JobSpec) Validate() error {
	if spec.BatchKey == "" {
		return fmt.Errorf("%w: empty batch key", ErrInvalidJob)
	}

	if spec.Seed == "" && len(spec.Entropy) == 0 {
		return fmt.Errorf("%w: neither seed nor entropy given", ErrInvalidJob)
	}

	if spec.StreamNumber < 0 {
		return fmt.Errorf("%w: stream number %d is negative", ErrInvalidJob, spec.StreamNumber)
	}

	if spec.StreamNumber > MaxStreamNumber {
		return fmt.Errorf("%w: stream number %d exceeds %d", ErrInvalidJob, spec.StreamNumber, MaxStreamNumber)
	}

	if spec.NumRows < 1 || spec.NumColumns < 1 {
		return fmt.Errorf("%w: grid %dx%d is empty", ErrInvalidJob, spec.NumRows, spec.NumColumns)
	}

	if spec.NumRows > MaxCells/spec.NumColumns {
		return fmt.Errorf("%w: grid %dx%d exceeds %d cells", ErrInvalidJob, spec.NumRows, spec.NumColumns, MaxCells)
	}

	if spec.PoolSize != 0 && spec.PoolSize < rng.MinimumPoolSize {
		return fmt.Errorf("%w: pool size %d", ErrInvalidJob, spec.PoolSize)
	}

	if _, err := rng.ParseKind(spec.Generator); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidJob, err)
	}

	return nil
}

// SeedSequence builds the root seed sequence of the job.
func (spec *JobSpec) SeedSequence() (*rng.SeedSequence32, error) {
	poolSize := spec.PoolSize
	if poolSize == 0 {
		poolSize = rng.DefaultPoolSize
	}

	if len(spec.Entropy) > 0 {
		return rng.NewSeedSequence32(spec.Entropy, poolSize)
	}

	return rng.NewSeedSequenceFromString(spec.Seed, poolSize)
}

// SeedWords renders the entropy that identifies the job's seed.
func (spec *JobSpec) SeedWords() string {
	if len(spec.Entropy) > 0 {
		return util.ArrayToString(spec.Entropy)
	}

	return spec.Seed
}

// exactIntegers rejects JSON numbers that would be truncated or wrapped
// when stored in an integer field.
func exactIntegers(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	f, ok := data.(float64)
	if !ok {
		return data, nil
	}

	var lo, hi float64
	switch to.Kind() {
	case reflect.Uint32:
		lo, hi = 0, math.MaxUint32
	case reflect.Int:
		lo, hi = math.MinInt32, math.MaxInt32
	default:
		return data, nil
	}

	if f != math.Trunc(f) || f < lo || f > hi {
		return nil, fmt.Errorf("%v does not fit in %s", f, to)
	}

	return data, nil
}

// ParseJobSpecs decodes a JSON array of job objects.
func ParseJobSpecs(body []byte) (specs []JobSpec, err error) {
	var raw []map[string]interface{}

	if err = json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidJob, err)
	}

	specs = make([]JobSpec, len(raw))

	for k, v := range raw {
		var decoder *mapstructure.Decoder
		if decoder, err = mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			DecodeHook: mapstructure.DecodeHookFuncType(exactIntegers),
			Result:     &specs[k],
		}); err != nil {
			return nil, err
		}

		if err = decoder.Decode(v); err != nil {
			return nil, fmt.Errorf("%w: job at index %d: %s", ErrInvalidJob, k, err)
		}

		if err = specs[k].Validate(); err != nil {
			return nil, fmt.Errorf("job at index %d: %w", k, err)
		}
	}

	return specs, nil
}

func EncodeJobResult(result JobResult) ([]byte, error) {
	var buf bytes.Buffer

	if err := gob.NewEncoder(&buf).Encode(result); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func DecodeJobResult(body []byte) (JobResult, error) {
	var result JobResult

	if err := gob.NewDecoder(bytes.NewReader(body)).Decode(&result); err != nil {
		return JobResult{}, fmt.Errorf("decoding a result with gob: %w", err)
	}

	return result, nil
}
