package sim

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"os"

	"github.com/golang/snappy"
	"github.com/pierrec/lz4/v4"
)

// CompressionType represents the compression algorithm used for trace files
type CompressionType uint8

const (
	CompressionNone   CompressionType = 0
	CompressionLZ4    CompressionType = 1
	CompressionSnappy CompressionType = 2
)

// Trace file layout:
// [0-1]: Magic number (0x9A6E)
// [2]: Format version
// [3]: Compression type (0=none, 1=LZ4, 2=Snappy)
// [4-7]: Frame count
// [8-11]: Step count
// [12-13]: Policy name length, followed by the name bytes
// then: UncompressedSize(4) | Checksum(4) | CompressedSize(4) | payload
//
// The payload holds one record per step (page int32, fault byte, frame
// state as frameCount int32s) followed by the final frame state.
const (
	TraceMagic   = 0x9A6E
	TraceVersion = 1
)

// ParseCompression maps a config compression name to its type
func ParseCompression(name string) (CompressionType, error) {
	switch name {
	case "none", "":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "snappy":
		return CompressionSnappy, nil
	default:
		return CompressionNone, fmt.Errorf("unsupported compression type: %s", name)
	}
}

// WriteTrace serializes a simulation result to a trace file,
// compressing the step payload with the given algorithm.
func WriteTrace(path string, result *SimulationResult, compressionType CompressionType) error {
	const op = "WriteTrace"

	payload := encodeTracePayload(result)
	checksum := crc32.ChecksumIEEE(payload)

	compressed, err := compressPayload(payload, compressionType)
	if err != nil {
		return NewSimError(ErrCodeInternal, op, "payload compression failed", err)
	}

	buf := make([]byte, 0, 26+len(result.Policy)+len(compressed))

	header := make([]byte, 14)
	binary.LittleEndian.PutUint16(header[0:2], TraceMagic)
	header[2] = TraceVersion
	header[3] = uint8(compressionType)
	binary.LittleEndian.PutUint32(header[4:8], uint32(result.FrameCount))
	binary.LittleEndian.PutUint32(header[8:12], uint32(len(result.History)))
	binary.LittleEndian.PutUint16(header[12:14], uint16(len(result.Policy)))
	buf = append(buf, header...)
	buf = append(buf, result.Policy...)

	sizes := make([]byte, 12)
	binary.LittleEndian.PutUint32(sizes[0:4], uint32(len(payload)))
	binary.LittleEndian.PutUint32(sizes[4:8], checksum)
	binary.LittleEndian.PutUint32(sizes[8:12], uint32(len(compressed)))
	buf = append(buf, sizes...)
	buf = append(buf, compressed...)

	if err := os.WriteFile(path, buf, 0644); err != nil {
		return ErrTraceIO(op, err)
	}
	return nil
}

// ReadTrace reads a trace file back into a simulation result.
// The checksum of the decompressed payload is verified before decoding.
func ReadTrace(path string) (*SimulationResult, error) {
	const op = "ReadTrace"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrTraceIO(op, err)
	}

	if len(data) < 14 {
		return nil, ErrTraceCorrupted(op, fmt.Sprintf("file too short for header: %d bytes", len(data)))
	}

	magic := binary.LittleEndian.Uint16(data[0:2])
	if magic != TraceMagic {
		return nil, ErrTraceCorrupted(op, fmt.Sprintf("invalid magic number %04x, expected %04x", magic, TraceMagic))
	}
	if data[2] != TraceVersion {
		return nil, NewSimError(ErrCodeTraceVersion, op,
			fmt.Sprintf("unsupported trace version %d", data[2]), nil)
	}

	compressionType := CompressionType(data[3])
	frameCount := int(binary.LittleEndian.Uint32(data[4:8]))
	stepCount := int(binary.LittleEndian.Uint32(data[8:12]))
	policyLen := int(binary.LittleEndian.Uint16(data[12:14]))

	offset := 14
	if len(data) < offset+policyLen+12 {
		return nil, ErrTraceCorrupted(op, "truncated header")
	}
	policy := string(data[offset : offset+policyLen])
	offset += policyLen

	uncompressedSize := int(binary.LittleEndian.Uint32(data[offset : offset+4]))
	checksum := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
	compressedSize := int(binary.LittleEndian.Uint32(data[offset+8 : offset+12]))
	offset += 12

	if len(data) < offset+compressedSize {
		return nil, ErrTraceCorrupted(op,
			fmt.Sprintf("need %d payload bytes, have %d", compressedSize, len(data)-offset))
	}

	payload, err := decompressPayload(data[offset:offset+compressedSize], compressionType, uncompressedSize)
	if err != nil {
		return nil, ErrTraceCorrupted(op, err.Error())
	}

	if crc32.ChecksumIEEE(payload) != checksum {
		return nil, ErrTraceCorrupted(op, "payload checksum mismatch")
	}

	result := &SimulationResult{
		Policy:     policy,
		FrameCount: frameCount,
	}
	if err := decodeTracePayload(result, payload, stepCount); err != nil {
		return nil, err
	}
	return result, nil
}

// encodeTracePayload flattens the history and final state into bytes
func encodeTracePayload(result *SimulationResult) []byte {
	recordSize := 5 + 4*result.FrameCount
	buf := make([]byte, 0, recordSize*len(result.History)+4*result.FrameCount)

	for _, rec := range result.History {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(rec.PageAccessed)))
		if rec.Fault {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
		for _, p := range rec.FrameState {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(p)))
		}
	}
	for _, p := range result.FinalFrameState {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(p)))
	}
	return buf
}

// decodeTracePayload rebuilds history, final state and fault count
func decodeTracePayload(result *SimulationResult, payload []byte, stepCount int) error {
	const op = "ReadTrace"

	recordSize := 5 + 4*result.FrameCount
	want := recordSize*stepCount + 4*result.FrameCount
	if len(payload) != want {
		return ErrTraceCorrupted(op,
			fmt.Sprintf("payload is %d bytes, want %d for %d steps of %d frames",
				len(payload), want, stepCount, result.FrameCount))
	}

	result.History = make([]StepRecord, 0, stepCount)
	offset := 0
	for i := 0; i < stepCount; i++ {
		page := int(int32(binary.LittleEndian.Uint32(payload[offset : offset+4])))
		fault := payload[offset+4] == 1
		offset += 5

		state := make([]int, result.FrameCount)
		for f := 0; f < result.FrameCount; f++ {
			state[f] = int(int32(binary.LittleEndian.Uint32(payload[offset : offset+4])))
			offset += 4
		}

		if fault {
			result.FaultCount++
		}
		result.History = append(result.History, StepRecord{
			PageAccessed: page,
			FrameState:   state,
			Fault:        fault,
		})
	}

	result.FinalFrameState = make([]int, result.FrameCount)
	for f := 0; f < result.FrameCount; f++ {
		result.FinalFrameState[f] = int(int32(binary.LittleEndian.Uint32(payload[offset : offset+4])))
		offset += 4
	}
	return nil
}

// compressPayload compresses the payload using the specified algorithm
func compressPayload(payload []byte, compressionType CompressionType) ([]byte, error) {
	switch compressionType {
	case CompressionNone:
		return payload, nil

	case CompressionLZ4:
		compressed := make([]byte, lz4.CompressBlockBound(len(payload)))
		n, err := lz4.CompressBlock(payload, compressed, nil)
		if err != nil {
			return nil, fmt.Errorf("LZ4 compression failed: %w", err)
		}
		if n == 0 {
			// Incompressible input; store it raw with a length marker the
			// decompressor can detect via the size fields.
			return payload, nil
		}
		return compressed[:n], nil

	case CompressionSnappy:
		return snappy.Encode(nil, payload), nil

	default:
		return nil, fmt.Errorf("unsupported compression type: %d", compressionType)
	}
}

// decompressPayload decompresses the payload and checks the exact size
func decompressPayload(data []byte, compressionType CompressionType, uncompressedSize int) ([]byte, error) {
	switch compressionType {
	case CompressionNone:
		return data, nil

	case CompressionLZ4:
		if len(data) == uncompressedSize {
			// Stored raw because LZ4 could not shrink it.
			return data, nil
		}
		decompressed := make([]byte, uncompressedSize)
		n, err := lz4.UncompressBlock(data, decompressed)
		if err != nil {
			return nil, fmt.Errorf("LZ4 decompression failed: %w", err)
		}
		if n != uncompressedSize {
			return nil, fmt.Errorf("LZ4 decompression size mismatch: got %d, expected %d", n, uncompressedSize)
		}
		return decompressed, nil

	case CompressionSnappy:
		decompressed, err := snappy.Decode(nil, data)
		if err != nil {
			return nil, fmt.Errorf("snappy decompression failed: %w", err)
		}
		if len(decompressed) != uncompressedSize {
			return nil, fmt.Errorf("snappy decompression size mismatch: got %d, expected %d", len(decompressed), uncompressedSize)
		}
		return decompressed, nil

	default:
		return nil, fmt.Errorf("unsupported compression type: %d", compressionType)
	}
}
