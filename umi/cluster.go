package umi

import "math/rand"

// checkArgs validates the shared clustering parameters.
func checkArgs(maxMismatches, minClusterSize int) error {
	if maxMismatches < 0 || minClusterSize < 1 {
		return ErrInvalidArgument
	}
	return nil
}

// pickRead applies the representative-selection policy to one cluster's
// reads: clusters of at least minClusterSize collapse to one member chosen
// by rnd, smaller groups are emitted whole. A nil rnd selects the first
// member, which keeps callers that do not care about sampling
// deterministic.
func pickRead(out []Read, members []Read, minClusterSize int, rnd *rand.Rand) []Read {
	if len(members) == 0 {
		return out
	}
	if len(members) >= minClusterSize {
		i := 0
		if rnd != nil {
			i = rnd.Intn(len(members))
		}
		return append(out, members[i])
	}
	return append(out, members...)
}
