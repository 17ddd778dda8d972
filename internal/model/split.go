package model

import (
	"fmt"
	"math"
	"math/rand"
)

// TrainTestSplit partitions row indices into train and test sets with a
// seeded shuffle, so identical inputs always produce the same split. The
// test set holds ceil(n * testFraction) rows, at least one each side.
func TrainTestSplit(n int, testFraction float64, seed int64) (train, test []int, err error) {
	if n < 2 {
		return nil, nil, fmt.Errorf("need at least 2 rows to split, got %d", n)
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction must be in (0, 1), got %g", testFraction)
	}

	testN := int(math.Ceil(float64(n) * testFraction))
	if testN >= n {
		testN = n - 1
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	test = append([]int(nil), perm[:testN]...)
	train = append([]int(nil), perm[testN:]...)
	return train, test, nil
}
