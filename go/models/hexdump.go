package models

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// HexDump formats memory as lines of 32-bit big-endian words followed by
// their printable characters.
func HexDump(base uint32, mem []byte) []string {
	var clean = func(p []byte) string {
		o := make([]byte, len(p))
		for i, c := range p {
			if c >= 0x20 && c <= 0x7e {
				o[i] = c
			} else {
				o[i] = '.'
			}
		}
		return string(o)
	}
	const bsz = 4
	const blockCount = 4
	const lineSize = bsz * blockCount
	var out []string
	blocks := make([]string, blockCount)
	tail := make([]string, blockCount)
	for i := 0; i < len(mem); i += lineSize {
		memLine := mem[i:]
		for j := 0; j < blockCount; j++ {
			start, end := j*bsz, (j+1)*bsz
			if start >= len(memLine) {
				blocks[j] = strings.Repeat(" ", bsz*2)
				tail[j] = strings.Repeat(" ", bsz)
				continue
			}
			pad := 0
			if end > len(memLine) {
				pad = end - len(memLine)
				end = len(memLine)
			}
			block := memLine[start:end]
			blocks[j] = hex.EncodeToString(block) + strings.Repeat("  ", pad)
			tail[j] = clean(block) + strings.Repeat(" ", pad)
		}
		out = append(out, fmt.Sprintf("0x%08x: %s [%s]", base+uint32(i), strings.Join(blocks, " "), strings.Join(tail, "")))
	}
	return out
}
