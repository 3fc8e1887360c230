package address

import "errors"

// ErrTooManyAddresses is returned when more than a current and a previous
// address are supplied. Only the first address may carry an open-ended
// validity range, so longer histories cannot be date-linked.
var ErrTooManyAddresses = errors.New("too many addresses")

// LinkDates links the validity ranges of a current/previous address pair
// in place. The first address is the current one and is left untouched;
// each subsequent address's ValidUntil becomes the day before the prior
// address's ValidFrom. More than two addresses is an error and no element
// is modified.
func LinkDates(addresses []CanonicalAddress) error {
	if len(addresses) > 2 {
		return ErrTooManyAddresses
	}

	for i := 1; i < len(addresses); i++ {
		validFrom := addresses[i-1].ValidFrom
		addresses[i].ValidUntil = Date{Time: validFrom.AddDate(0, 0, -1)}
	}
	return nil
}
