package snapshot

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/tinylib/msgp/msgp"

	"github.com/bamsammich/synclink/internal/fsys"
)

// dumpMagic identifies a snapshot dump. Bump the suffix on format changes.
const dumpMagic = "synclink-snapshot/1"

// maxPrealloc bounds how many records Decode reserves up front. The count
// in the header is not trusted until the records actually arrive.
const maxPrealloc = 1 << 16

// ErrCorruptDump is returned when a dump cannot be decoded into records.
var ErrCorruptDump = errors.New("corrupt snapshot dump")

// EncodeMsg writes r as a two-element msgpack array [path, kind].
func (r Record) EncodeMsg(w *msgp.Writer) error {
	if err := w.WriteArrayHeader(2); err != nil {
		return err
	}
	if err := w.WriteString(r.Path); err != nil {
		return err
	}
	return w.WriteUint8(uint8(r.Kind))
}

// DecodeMsg reads a record written by EncodeMsg.
func (r *Record) DecodeMsg(rd *msgp.Reader) error {
	n, err := rd.ReadArrayHeader()
	if err != nil {
		return err
	}
	if n != 2 {
		return fmt.Errorf("%w: record has %d fields", ErrCorruptDump, n)
	}
	if r.Path, err = rd.ReadString(); err != nil {
		return err
	}
	k, err := rd.ReadUint8()
	if err != nil {
		return err
	}
	r.Kind = fsys.Kind(k)
	switch r.Kind {
	case fsys.Dir, fsys.File, fsys.Symlink:
	default:
		return fmt.Errorf("%w: %q has kind %d", ErrCorruptDump, r.Path, k)
	}
	return nil
}

// Encode writes s to w as a zstd-compressed msgpack stream.
func (s *Snapshot) Encode(w io.Writer) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return fmt.Errorf("zstd encoder: %w", err)
	}

	mw := msgp.NewWriter(enc)
	if err := s.encodeBody(mw); err != nil {
		enc.Close()
		return err
	}
	if err := mw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func (s *Snapshot) encodeBody(mw *msgp.Writer) error {
	if err := mw.WriteString(dumpMagic); err != nil {
		return err
	}
	if err := mw.WriteString(s.Root); err != nil {
		return err
	}
	//nolint:gosec // G115: record count bounded by memory
	if err := mw.WriteArrayHeader(uint32(len(s.Records))); err != nil {
		return err
	}
	for _, r := range s.Records {
		if err := r.EncodeMsg(mw); err != nil {
			return err
		}
	}
	return nil
}

// Decode reads a snapshot written by Encode.
func Decode(r io.Reader) (*Snapshot, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	defer dec.Close()

	mr := msgp.NewReader(dec)

	magic, err := mr.ReadString()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptDump, err)
	}
	if magic != dumpMagic {
		return nil, fmt.Errorf("%w: bad header %q", ErrCorruptDump, magic)
	}

	root, err := mr.ReadString()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptDump, err)
	}
	n, err := mr.ReadArrayHeader()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptDump, err)
	}

	s := &Snapshot{Root: root, Records: make([]Record, 0, min(n, maxPrealloc))}
	for range n {
		var rec Record
		if err := rec.DecodeMsg(mr); err != nil {
			if errors.Is(err, ErrCorruptDump) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %w", ErrCorruptDump, err)
		}
		s.Records = append(s.Records, rec)
	}
	return s, nil
}

// WriteFile dumps s to path.
func (s *Snapshot) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dump: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := s.Encode(bw); err != nil {
		f.Close()
		return fmt.Errorf("write dump %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write dump %s: %w", path, err)
	}
	return f.Close()
}

// ReadFile loads a dump written by WriteFile.
func ReadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dump: %w", err)
	}
	defer f.Close()
	s, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("read dump %s: %w", path, err)
	}
	return s, nil
}
