package umi

import "strings"

// validBase marks the bytes accepted in an extracted UMI token, after
// uppercasing. 'N' is accepted here; how it matches is the matcher's
// concern.
var validBase [256]bool

func init() {
	for _, b := range []byte("ACGTN") {
		validBase[b] = true
	}
}

// Extract returns the UMI token encoded in a read identifier. The token
// is the segment after the last ':' or '_' in the first
// whitespace-delimited word of the identifier, uppercased. Extraction
// fails when the word has no separator, when the segment is not exactly
// length bytes, or when it contains a byte outside ACGTN after
// uppercasing. Extract never inspects the read sequence.
func Extract(id string, length int) (string, bool) {
	word := id
	if i := strings.IndexAny(word, " \t"); i >= 0 {
		word = word[:i]
	}
	sep := strings.LastIndexAny(word, ":_")
	if sep < 0 {
		return "", false
	}
	token := word[sep+1:]
	if len(token) != length {
		return "", false
	}
	buf := make([]byte, length)
	for i := 0; i < length; i++ {
		b := token[i]
		if 'a' <= b && b <= 'z' {
			b -= 'a' - 'A'
		}
		if !validBase[b] {
			return "", false
		}
		buf[i] = b
	}
	return string(buf), true
}
