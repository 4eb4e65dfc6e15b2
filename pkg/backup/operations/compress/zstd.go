package compress

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/provide-io/gen3save/pkg/backup/operations"
)

func init() {
	op, err := NewZstdOperation(zstd.SpeedBestCompression)
	if err != nil {
		panic(fmt.Sprintf("registering zstd operation: %v", err))
	}
	operations.Register(op)
}

// ZstdOperation implements Zstandard compression. The encoder and decoder
// are created once and reused through their stateless EncodeAll and
// DecodeAll calls.
type ZstdOperation struct {
	operations.BaseOperation
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewZstdOperation creates a Zstandard operation compressing at level
func NewZstdOperation(level zstd.EncoderLevel) (*ZstdOperation, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	return &ZstdOperation{
		BaseOperation: operations.BaseOperation{OpName: operations.OpZstd, OpExt: ".zst"},
		encoder:       enc,
		decoder:       dec,
	}, nil
}

// Apply compresses data using Zstandard
func (o *ZstdOperation) Apply(input []byte) ([]byte, error) {
	return o.encoder.EncodeAll(input, make([]byte, 0, len(input)/2)), nil
}

// Reverse decompresses Zstandard data
func (o *ZstdOperation) Reverse(input []byte) ([]byte, error) {
	data, err := o.decoder.DecodeAll(input, nil)
	if err != nil {
		return nil, fmt.Errorf("reading zstd data: %w", err)
	}
	return data, nil
}
