// package codec converts symbol ordinals to and from their serialized
// byte form.
//
// Encoded symbols are one or two bytes. Byte 0x00 always terminates a
// string and byte 0x01 is the newline symbol, so the first allocatable
// ordinal receives code 0x02. Codes 0x02-0xF0 are single bytes;
// 0xF1-0xFF act as lead bytes that each unlock 255 further two-byte
// codes. The mapping skips every lead+0x00 combination so 0x00 stays an
// unambiguous end-of-string marker:
//
//	ordinal 0   => 0x02
//	ordinal 238 => 0xF0
//	ordinal 239 => 0xF1 0x01
//	ordinal 493 => 0xF1 0xFF
//	ordinal 494 => 0xF2 0x01
//	...
package codec

import (
	"errors"
	"fmt"
)

const (
	// Terminator ends every encoded string.
	Terminator = 0x00
	// Newline is the encoded newline symbol.
	Newline = 0x01

	// reserved counts the codes set aside for Terminator and Newline.
	reserved = 2

	// firstLead is the lowest two-byte lead code.
	firstLead = 0xF0
	maxPage   = 0x0F

	// MaxOrdinals is the number of symbols a pack may allocate.
	MaxOrdinals = 0x10*0xFF - 0x0F - reserved
)

// ErrRange reports an ordinal or code outside the representable range.
// Given inputs validated by the allocation builder it indicates a logic
// bug, not a user-fixable condition.
var ErrRange = errors.New("codec: out of range")

// Encode returns the serialized form of the allocatable ordinal o.
func Encode(o int) ([]byte, error) {
	if o < 0 {
		return nil, fmt.Errorf("%w: ordinal %d", ErrRange, o)
	}
	code := o + reserved
	page := (code + 0x0E) / 0xFF
	if page > maxPage {
		return nil, fmt.Errorf("%w: ordinal %d", ErrRange, o)
	}
	if page == 0 {
		return []byte{byte(code)}, nil
	}
	lead := firstLead + page
	value := (code+0x0E)%0xFF + 0x01
	if lead > 0xFF || value > 0xFF {
		// Unreachable when the page check above holds.
		return nil, fmt.Errorf("%w: lead %#x value %#x", ErrRange, lead, value)
	}
	return []byte{byte(lead), byte(value)}, nil
}

// Decode is the exact inverse of Encode. The firmware never decodes;
// this direction exists so the bijection can be verified.
func Decode(b []byte) (int, error) {
	switch len(b) {
	case 1:
		code := int(b[0])
		if code < reserved || code > firstLead {
			return 0, fmt.Errorf("%w: code %#02x", ErrRange, code)
		}
		return code - reserved, nil
	case 2:
		page := int(b[0]) - firstLead
		if page < 1 || page > maxPage {
			return 0, fmt.Errorf("%w: lead %#02x", ErrRange, b[0])
		}
		value := int(b[1])
		if value == 0 {
			return 0, fmt.Errorf("%w: zero value byte", ErrRange)
		}
		code := page*0xFF + value - 0x0F
		return code - reserved, nil
	}
	return 0, fmt.Errorf("%w: %d byte code", ErrRange, len(b))
}
