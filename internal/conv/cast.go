package conv

import (
	"fmt"
	"math"
)

// IntToUint32 converts v to uint32, failing on negative or oversized values.
func IntToUint32(v int) (uint32, error) {
	if v < 0 || uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("conv: %d out of uint32 range", v)
	}
	return uint32(v), nil
}

// Uint32ToInt converts v to int, failing where int is 32 bits wide.
func Uint32ToInt(v uint32) (int, error) {
	if uint64(v) > uint64(math.MaxInt) {
		return 0, fmt.Errorf("conv: %d out of int range", v)
	}
	return int(v), nil
}
