package fileops

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Compressor is the seam FileOps uses for its Compress/Decompress
// operations, mirroring the pack's Compressor interface shape so additional
// algorithms can be added later without touching callers.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

type zstdCompressor struct{}

// NewZstdCompressor returns the default, and currently only, Compressor.
func NewZstdCompressor() Compressor { return zstdCompressor{} }

func (zstdCompressor) Compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, make([]byte, 0, len(data))), nil
}

// Decompress refuses to decode a frame that lacks an encoded original-size
// header. The original design relies on ZSTD_getFrameContentSize returning
// ZSTD_CONTENTSIZE_UNKNOWN to reject streaming-style frames it cannot size
// up front; EncodeAll always writes the content size, so any frame missing
// one did not come from this store and is treated as corrupt input.
func (zstdCompressor) Decompress(data []byte) ([]byte, error) {
	var header zstd.Header
	if err := header.Decode(data); err != nil {
		return nil, fmt.Errorf("fileops: invalid zstd frame: %w", err)
	}
	if !header.HasFCS {
		return nil, fmt.Errorf("fileops: zstd frame missing content-size header")
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, make([]byte, 0, header.FrameContentSize))
}
