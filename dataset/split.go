package dataset

import "fmt"

// SplitModulo partitions row positions [0, n) by index modulus: position i
// goes to test when i % modulus == testRemainder, otherwise to train. Both
// slices keep ascending order.
func SplitModulo(n, modulus, testRemainder int) (train, test []int, err error) {
	if modulus < 2 {
		return nil, nil, fmt.Errorf("dataset: modulus must be at least 2, got %d", modulus)
	}
	if testRemainder < 0 || testRemainder >= modulus {
		return nil, nil, fmt.Errorf("dataset: test remainder %d outside [0,%d)", testRemainder, modulus)
	}
	for i := 0; i < n; i++ {
		if i%modulus == testRemainder {
			test = append(test, i)
		} else {
			train = append(train, i)
		}
	}
	return train, test, nil
}

// Split partitions the dataset with SplitModulo. It fails when either side
// would be empty.
func (d *Dataset) Split(modulus, testRemainder int) (train, test *Dataset, err error) {
	trainPos, testPos, err := SplitModulo(d.Len(), modulus, testRemainder)
	if err != nil {
		return nil, nil, err
	}
	if len(trainPos) == 0 || len(testPos) == 0 {
		return nil, nil, fmt.Errorf("dataset: split of %d rows by %d leaves an empty partition", d.Len(), modulus)
	}
	if train, err = d.Subset(trainPos); err != nil {
		return nil, nil, err
	}
	if test, err = d.Subset(testPos); err != nil {
		return nil, nil, err
	}
	return train, test, nil
}
