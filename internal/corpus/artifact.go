package corpus

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/siftlab/assessrec/internal/domain"
)

// Artifact layout: magic, format version, model string, dimension, record
// count, then the row-major float32 matrix in little-endian order. The
// header lets the loader reject artifacts built against a different model
// or corpus instead of silently serving stale vectors.
var artifactMagic = [4]byte{'A', 'S', 'R', 'X'}

const artifactVersion uint16 = 1

// SaveArtifact persists the index matrix to path. The write goes through a
// temp file and rename so a crash never leaves a truncated artifact behind.
func SaveArtifact(x *Index, path string) error {
	var buf bytes.Buffer
	buf.Write(artifactMagic[:])

	if err := binary.Write(&buf, binary.LittleEndian, artifactVersion); err != nil {
		return fmt.Errorf("write version: %w", err)
	}
	model := []byte(x.Model())
	if err := binary.Write(&buf, binary.LittleEndian, uint16(len(model))); err != nil {
		return fmt.Errorf("write model length: %w", err)
	}
	buf.Write(model)
	if err := binary.Write(&buf, binary.LittleEndian, uint32(x.Dim())); err != nil {
		return fmt.Errorf("write dimension: %w", err)
	}
	if err := binary.Write(&buf, binary.LittleEndian, uint32(x.Len())); err != nil {
		return fmt.Errorf("write count: %w", err)
	}

	data := make([]byte, len(x.matrix)*4)
	for i, f := range x.matrix {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(f))
	}
	buf.Write(data)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename artifact: %w", err)
	}
	return nil
}

// LoadArtifact reads a persisted matrix and pairs it with the live corpus
// records. Returns ErrArtifactIncompatible when the artifact was built with
// a different model, dimension, or record count; the caller should rebuild.
func LoadArtifact(path string, records []domain.Assessment, model string, wantDim int) (*Index, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}

	r := bytes.NewReader(raw)

	var magic [4]byte
	if _, err := r.Read(magic[:]); err != nil || magic != artifactMagic {
		return nil, fmt.Errorf("bad artifact magic: %w", domain.ErrArtifactIncompatible)
	}
	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil || version != artifactVersion {
		return nil, fmt.Errorf("artifact version %d: %w", version, domain.ErrArtifactIncompatible)
	}
	var modelLen uint16
	if err := binary.Read(r, binary.LittleEndian, &modelLen); err != nil {
		return nil, fmt.Errorf("read model length: %w", err)
	}
	modelBytes := make([]byte, modelLen)
	if _, err := r.Read(modelBytes); err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var dim, count uint32
	if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
		return nil, fmt.Errorf("read dimension: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("read count: %w", err)
	}

	if string(modelBytes) != model {
		return nil, fmt.Errorf("artifact model %q vs configured %q: %w",
			modelBytes, model, domain.ErrArtifactIncompatible)
	}
	if wantDim > 0 && int(dim) != wantDim {
		return nil, fmt.Errorf("artifact dim %d vs configured %d: %w",
			dim, wantDim, domain.ErrArtifactIncompatible)
	}
	if int(count) != len(records) {
		return nil, fmt.Errorf("artifact has %d records, corpus has %d: %w",
			count, len(records), domain.ErrArtifactIncompatible)
	}

	data := make([]byte, r.Len())
	if _, err := r.Read(data); err != nil {
		return nil, fmt.Errorf("read matrix: %w", err)
	}
	want := int(count) * int(dim) * 4
	if len(data) != want {
		return nil, fmt.Errorf("artifact matrix is %d bytes, want %d: %w",
			len(data), want, domain.ErrArtifactIncompatible)
	}

	matrix := make([]float32, int(count)*int(dim))
	for i := range matrix {
		matrix[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}

	return newIndex(records, matrix, int(dim), model)
}
