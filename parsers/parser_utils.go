// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\parsers\parser_utils.go
package parsers

import (
	"bufio"
	"io"
)

// SkipBOM はUTF-8 BOMをスキップします。
func SkipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	bom := []byte{0xEF, 0xBB, 0xBF}
	peeked, err := br.Peek(3)
	if err != nil {
		return br
	}
	isBOM := true
	for i, b := range bom {
		if peeked[i] != b {
			isBOM = false
			break
		}
	}
	if isBOM {
		br.Discard(3)
	}
	return br
}
