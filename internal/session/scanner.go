package session

import (
	"strings"

	"github.com/dshills/termfix/internal/host"
)

// Token is one unit of decoded terminal input: either a synthetic key code
// recognized from a registered byte sequence, or a single raw byte.
type Token struct {
	// Key is the synthetic code when IsKey is true.
	Key host.KeyCode

	// IsKey distinguishes recognized sequences from raw bytes.
	IsKey bool

	// Byte is the raw input byte when IsKey is false.
	Byte byte
}

// Scanner decodes raw terminal input into tokens, recognizing registered
// byte sequences across read boundaries. A partial prefix of a registered
// sequence is held until the following read resolves it, mirroring how an
// editor's input decoder accumulates escape sequences.
type Scanner struct {
	seqs    map[string]host.KeyCode
	pending []byte
}

// NewScanner creates a scanner for the given sequence table.
func NewScanner(seqs map[host.KeyCode]string) *Scanner {
	s := &Scanner{seqs: make(map[string]host.KeyCode)}
	for code, bytes := range seqs {
		if bytes != "" {
			s.seqs[bytes] = code
		}
	}
	return s
}

// Feed consumes a read's worth of input and returns the tokens completed
// by it, in input order. Bytes forming a partial sequence prefix are
// retained for the next call.
func (s *Scanner) Feed(buf []byte) []Token {
	data := append(s.pending, buf...)
	s.pending = nil

	var out []Token
	for len(data) > 0 {
		code, n, partial := s.match(data)
		if partial {
			s.pending = data
			break
		}
		if n > 0 {
			out = append(out, Token{Key: code, IsKey: true})
			data = data[n:]
			continue
		}
		out = append(out, Token{Byte: data[0]})
		data = data[1:]
	}
	return out
}

// Pending returns the bytes held as a partial sequence prefix.
func (s *Scanner) Pending() []byte {
	return s.pending
}

// Flush abandons sequence matching on the held bytes and returns them as
// raw-byte tokens. Used when the caller decides a prefix will never
// complete (e.g. a lone escape before further input).
func (s *Scanner) Flush() []Token {
	pending := s.pending
	s.pending = nil

	out := make([]Token, 0, len(pending))
	for _, b := range pending {
		out = append(out, Token{Byte: b})
	}
	return out
}

// match reports whether data begins with a complete registered sequence
// (code and its length), or is a proper prefix of one (partial).
func (s *Scanner) match(data []byte) (code host.KeyCode, n int, partial bool) {
	for seq, c := range s.seqs {
		if len(data) >= len(seq) {
			if string(data[:len(seq)]) == seq {
				return c, len(seq), false
			}
		} else if strings.HasPrefix(seq, string(data)) {
			partial = true
		}
	}
	return 0, 0, partial
}
