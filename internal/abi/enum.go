package abi

// Binary enum layout (§6): { u32 discriminant; payload[...] } aligned to 8
// bytes as a whole. The payload's own size/alignment come from
// internal/typesys's layout computation; this file only fixes the
// discriminant's width and the enum's overall alignment, the two facts the
// ABI promises callers across compiler runs.
const (
	DiscriminantSize  int64 = 4
	EnumAlignment     int64 = 8
	OptionSomeDiscriminant uint32 = 0
	OptionNoneDiscriminant uint32 = 1
	ResultOkDiscriminant  uint32 = 0
	ResultErrDiscriminant uint32 = 1
)

// PayloadOffset returns the byte offset of an enum's payload given its
// discriminant size, rounded up to the payload's own alignment.
func PayloadOffset(payloadAlign int64) int64 {
	if payloadAlign <= 0 {
		return DiscriminantSize
	}
	if rem := DiscriminantSize % payloadAlign; rem != 0 {
		return DiscriminantSize + (payloadAlign - rem)
	}
	return DiscriminantSize
}

// AlignEnumSize rounds size up to EnumAlignment, the whole-struct alignment
// every binary enum layout must satisfy regardless of its payload's own
// alignment.
func AlignEnumSize(size int64) int64 {
	if rem := size % EnumAlignment; rem != 0 {
		return size + (EnumAlignment - rem)
	}
	return size
}
