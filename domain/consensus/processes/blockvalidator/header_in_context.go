package blockvalidator

import (
	"sort"

	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/jio-labs/jiod/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

// ValidateHeaderInContext checks header.TimeInMilliseconds against the
// median of its parents' timestamps (spec §4.9: "in-context, timestamp >
// median(parents.timestamp)"). A genesis header (no parents) always
// passes.
func (v *blockValidator) ValidateHeaderInContext(header *externalapi.DomainBlockHeader, parentTimestamps []int64) error {
	if len(parentTimestamps) == 0 {
		return nil
	}

	medianTime := median(parentTimestamps)
	if header.TimeInMilliseconds <= medianTime {
		return errors.Wrapf(ruleerrors.ErrTimeTooOld, "block timestamp %d is not after the median parent timestamp %d",
			header.TimeInMilliseconds, medianTime)
	}
	return nil
}

func median(timestamps []int64) int64 {
	sorted := append([]int64{}, timestamps...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
