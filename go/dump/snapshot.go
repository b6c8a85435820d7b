package dump

import (
	"encoding/binary"
	"io"

	"github.com/golang/snappy"
	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"

	"github.com/lunixbochs/hookcorn/go/models/cpu"
)

// snapshot format:
//
// header, struc-packed big-endian:
//   [4]byte magic ("HKSS")
//   uint32  format version
//   uint32  pc
//   int64   hi, lo
//   uint32  number of RDRAM words
// remainder is snappy-framed:
//   32 * int64  general purpose registers
//   n * uint32  RDRAM words

var SNAPSHOT_MAGIC = "HKSS"

const snapshotVersion = 1

// largest RDRAM a snapshot may claim, to bound allocation on corrupt input
const maxSnapshotWords = 0x4000000 / 4

type SnapshotHeader struct {
	Magic   string `struc:"[4]byte"`
	Version uint32
	PC      uint32
	HI, LO  int64
	Words   uint32
}

func WriteSnapshot(w io.Writer, regs *cpu.Regs, words []uint32) error {
	header := &SnapshotHeader{
		Magic:   SNAPSHOT_MAGIC,
		Version: snapshotVersion,
		PC:      regs.PC,
		HI:      regs.HI,
		LO:      regs.LO,
		Words:   uint32(len(words)),
	}
	if err := struc.PackWithOrder(w, header, binary.BigEndian); err != nil {
		return errors.Wrap(err, "failed to pack header")
	}
	zw := snappy.NewBufferedWriter(w)
	if err := binary.Write(zw, binary.BigEndian, regs.GPR[:]); err != nil {
		return errors.Wrap(err, "failed to write registers")
	}
	if err := binary.Write(zw, binary.BigEndian, words); err != nil {
		return errors.Wrap(err, "failed to write rdram")
	}
	return errors.Wrap(zw.Close(), "failed to flush snapshot")
}

func ReadSnapshot(r io.Reader) (*cpu.Regs, []uint32, error) {
	var header SnapshotHeader
	if err := struc.UnpackWithOrder(r, &header, binary.BigEndian); err != nil {
		return nil, nil, errors.Wrap(err, "failed to unpack header")
	}
	if header.Magic != SNAPSHOT_MAGIC {
		return nil, nil, errors.New("invalid snapshot magic")
	}
	if header.Version != snapshotVersion {
		return nil, nil, errors.Errorf("unsupported snapshot version %d", header.Version)
	}
	if header.Words > maxSnapshotWords {
		return nil, nil, errors.Errorf("snapshot claims %#x words of rdram", header.Words)
	}
	regs := &cpu.Regs{PC: header.PC, HI: header.HI, LO: header.LO}
	zr := snappy.NewReader(r)
	if err := binary.Read(zr, binary.BigEndian, regs.GPR[:]); err != nil {
		return nil, nil, errors.Wrap(err, "failed to read registers")
	}
	words := make([]uint32, header.Words)
	if err := binary.Read(zr, binary.BigEndian, words); err != nil {
		return nil, nil, errors.Wrap(err, "failed to read rdram")
	}
	return regs, words, nil
}
