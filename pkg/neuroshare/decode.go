package neuroshare

import "github.com/arloliu/mebo/endian"

// nativeOrder is the host byte order. Vendor libraries fill event payload
// buffers with whatever the machine uses, so decoding follows suit.
var nativeOrder = endian.CheckEndianness()

// decodeUnsigned reads the first width bytes of b as an unsigned integer in
// native byte order, widened to uint32. Width values other than 1, 2 and 4
// decode to 0 rather than failing; event payloads are the only caller and
// their widths are pinned by the event kind.
func decodeUnsigned(b []byte, width int) uint32 {
	if width > len(b) {
		return 0
	}
	switch width {
	case 1:
		return uint32(b[0])
	case 2:
		return uint32(nativeOrder.Uint16(b))
	case 4:
		return nativeOrder.Uint32(b)
	}
	return 0
}
