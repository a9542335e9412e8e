package domain

// Dataset is the entire persisted document. The store reads and writes it as
// a unit; there is no partial-update path. Callers load the whole dataset,
// mutate in memory and save the whole dataset back.
type Dataset struct {
	Tokens      []TokenRecord      `json:"tokens"`
	Redemptions []RedemptionRecord `json:"redemptions"`
}

// EmptyDataset returns a dataset with non-nil slices so it serialises as
// {"tokens":[],"redemptions":[]} rather than nulls.
func EmptyDataset() Dataset {
	return Dataset{
		Tokens:      []TokenRecord{},
		Redemptions: []RedemptionRecord{},
	}
}

// FindToken returns the token record for the given raw token value.
func (d Dataset) FindToken(token string) (TokenRecord, bool) {
	for _, t := range d.Tokens {
		if t.Token == token {
			return t, true
		}
	}
	return TokenRecord{}, false
}

// FindRedemption returns the redemption record for the given raw token value.
func (d Dataset) FindRedemption(token string) (RedemptionRecord, bool) {
	for _, r := range d.Redemptions {
		if r.Token == token {
			return r, true
		}
	}
	return RedemptionRecord{}, false
}
