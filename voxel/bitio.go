package voxel

import "io"

func writeUVarint(dst []byte, x uint64) []byte {
	for x >= 0x80 {
		dst = append(dst, byte(x)|0x80)
		x >>= 7
	}
	return append(dst, byte(x))
}

func readUVarint(src []byte, pos *int) (uint64, error) {
	var x uint64
	var s uint
	i := *pos
	for {
		if i >= len(src) {
			return 0, io.ErrUnexpectedEOF
		}
		b := src[i]
		i++
		if b < 0x80 {
			if s == 63 && b > 1 {
				return 0, io.ErrUnexpectedEOF
			}
			x |= uint64(b) << s
			break
		}
		x |= uint64(b&0x7F) << s
		s += 7
		if s > 63 {
			return 0, io.ErrUnexpectedEOF
		}
	}
	*pos = i
	return x, nil
}

func writeString(dst []byte, s string) []byte {
	dst = writeUVarint(dst, uint64(len(s)))
	return append(dst, s...)
}

func readString(src []byte, pos *int) (string, error) {
	n, err := readUVarint(src, pos)
	if err != nil {
		return "", err
	}
	if uint64(len(src)-*pos) < n {
		return "", io.ErrUnexpectedEOF
	}
	s := string(src[*pos : *pos+int(n)])
	*pos += int(n)
	return s, nil
}

func readBytes(src []byte, pos *int, n int) ([]byte, error) {
	if len(src)-*pos < n {
		return nil, io.ErrUnexpectedEOF
	}
	b := src[*pos : *pos+n]
	*pos += n
	return b, nil
}
