package order

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Order keys are produced here for callers that persist a plan. The comparator never calls
// into this file.

// keyAlphabet is in byte order. The dash lets KeyBetween read IndexKey output.
const keyAlphabet = "-0123456789abcdefghijklmnopqrstuvwxyz"

var (
	ErrKeyBounds   = errors.New("order key bounds must satisfy lower < upper")
	ErrKeyNoSpace  = errors.New("no order key fits between bounds")
	ErrKeyAlphabet = errors.New("order key outside [-0-9a-z]")
)

func keyDigit(c byte) (int, bool) {
	switch {
	case c == '-':
		return 0, true
	case c >= '0' && c <= '9':
		return 1 + int(c-'0'), true
	case c >= 'a' && c <= 'z':
		return 11 + int(c-'a'), true
	default:
		return 0, false
	}
}

// KeyBetween returns a key strictly between lower and upper. Either bound may be
// empty to mean open-ended.
func KeyBetween(lower, upper string) (string, error) {
	lower = strings.ToLower(strings.TrimSpace(lower))
	upper = strings.ToLower(strings.TrimSpace(upper))
	if lower != "" && upper != "" && lower >= upper {
		return "", ErrKeyBounds
	}

	fits := func(k string) bool {
		return k != "" && (lower == "" || lower < k) && (upper == "" || k < upper)
	}

	var prefix []byte
	for i := 0; i < 256; i++ {
		lo, hi := 0, len(keyAlphabet)-1
		if i < len(lower) {
			d, ok := keyDigit(lower[i])
			if !ok {
				return "", ErrKeyAlphabet
			}
			lo = d
		}
		if i < len(upper) {
			d, ok := keyDigit(upper[i])
			if !ok {
				return "", ErrKeyAlphabet
			}
			hi = d
		}
		if lo == hi {
			prefix = append(prefix, keyAlphabet[lo])
			continue
		}
		if hi-lo > 1 {
			k := string(append(prefix, keyAlphabet[lo+(hi-lo)/2]))
			if !fits(k) {
				// e.g. "y" and "y0": nothing sorts strictly between them.
				return "", ErrKeyNoSpace
			}
			return k, nil
		}
		// Adjacent digits: any extension of lower stays below upper.
		k := lower + "0"
		if !fits(k) {
			return "", ErrKeyNoSpace
		}
		return k, nil
	}
	return "", ErrKeyNoSpace
}

// KeyBetweenUnique is KeyBetween that skips keys already present in existing.
func KeyBetweenUnique(existing map[string]bool, lower, upper string) (string, error) {
	cur := lower
	for i := 0; i < 256; i++ {
		k, err := KeyBetween(cur, upper)
		if err != nil {
			return "", err
		}
		if !existing[k] {
			return k, nil
		}
		cur = k
	}
	return "", ErrKeyNoSpace
}

// IndexKey builds the store's positional key: a zero-padded index followed by a random
// suffix, so keys sort by index and never collide across concurrent writers.
func IndexKey(index int) string {
	if index < 0 {
		index = 0
	}
	return fmt.Sprintf("%08d-%s", index, strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// KeysForOrder assigns a fresh IndexKey to every id according to its position.
func KeysForOrder(ids []string) map[string]string {
	out := make(map[string]string, len(ids))
	for i, id := range ids {
		out[id] = IndexKey(i)
	}
	return out
}
