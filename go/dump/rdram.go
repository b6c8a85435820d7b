package dump

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

// WriteRDRAM writes every word of RDRAM in big-endian order, so the output
// matches the byte layout the emulated CPU sees.
func WriteRDRAM(w io.Writer, words []uint32) error {
	bw := bufio.NewWriter(w)
	var buf [4]byte
	for _, word := range words {
		binary.BigEndian.PutUint32(buf[:], word)
		if _, err := bw.Write(buf[:]); err != nil {
			return errors.Wrap(err, "rdram dump failed")
		}
	}
	return errors.Wrap(bw.Flush(), "rdram dump failed")
}

func DumpRDRAM(path string, words []uint32) error {
	err := WriteFile(path, func(w io.Writer) error { return WriteRDRAM(w, words) })
	return errors.Wrap(err, "rdram dump failed")
}

// WriteFile creates path and fills it with write. A failed close is
// reported like a failed write.
func WriteFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadRDRAM reads a dump made by WriteRDRAM back into words.
func ReadRDRAM(r io.Reader) ([]uint32, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "rdram read failed")
	}
	if len(data)%4 != 0 {
		return nil, errors.Errorf("rdram dump length %d is not a multiple of 4", len(data))
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.BigEndian.Uint32(data[i*4:])
	}
	return words, nil
}
