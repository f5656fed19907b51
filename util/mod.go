package util

import (
	"fmt"
	"strconv"
	"strings"
	"unsafe"
)

// ArrayToString concatenates the words of arr as zero-padded hex.
func ArrayToString[T uint8 | uint16 | uint32 | uint64](arr []T) string {
	var sb strings.Builder

	for _, v := range arr {
		bitWidth := int(unsafe.Sizeof(v) * 8)
		sb.WriteString(fmt.Sprintf("%0[1]*[2]x", bitWidth/4, v))
	}

	return sb.String()
}

// ParseHexWords parses separated hex words with or without a 0x prefix,
// e.g. "0xb5bb44b2f431cc88,e3977bacb2e89874".
func ParseHexWords(s string, bitWidth int) ([]uint64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == ':'
	})

	ret := make([]uint64, 0, len(fields))
	for i, f := range fields {
		f = strings.TrimPrefix(strings.TrimPrefix(f, "0x"), "0X")
		v, err := strconv.ParseUint(f, 16, bitWidth)
		if err != nil {
			return nil, fmt.Errorf("word %d (%q): %w", i, f, err)
		}
		ret = append(ret, v)
	}

	return ret, nil
}
