package ledger

// Holding keys a balance by holder and subject.
type Holding struct {
	Holder  Address
	Subject Address
}

// Batch stages ledger writes so they can be committed all at once.
// Values are absolute; a zero value removes the entry.
type Batch struct {
	supply   map[Address]uint64
	balances map[Holding]uint64
	holders  map[Address]uint64
	meta     map[string][]byte
	journal  [][]byte
}

// NewBatch creates an empty Batch.
func NewBatch() *Batch {
	return &Batch{
		supply:   make(map[Address]uint64),
		balances: make(map[Holding]uint64),
		holders:  make(map[Address]uint64),
		meta:     make(map[string][]byte),
	}
}

// SetSupply stages the total supply of a subject's shares.
func (b *Batch) SetSupply(subject Address, v uint64) {
	b.supply[subject] = v
}

// SetBalance stages a holder's balance of a subject's shares.
func (b *Batch) SetBalance(holder, subject Address, v uint64) {
	b.balances[Holding{Holder: holder, Subject: subject}] = v
}

// SetHolders stages the number of distinct holders of a subject's shares.
func (b *Batch) SetHolders(subject Address, v uint64) {
	b.holders[subject] = v
}

// PutMeta stages a metadata record.
func (b *Batch) PutMeta(key string, v []byte) {
	b.meta[key] = append([]byte(nil), v...)
}

// AppendJournal stages an entry to be appended to the journal.
func (b *Batch) AppendJournal(entry []byte) {
	b.journal = append(b.journal, append([]byte(nil), entry...))
}

// Empty reports whether the batch stages nothing.
func (b *Batch) Empty() bool {
	return len(b.supply) == 0 && len(b.balances) == 0 && len(b.holders) == 0 &&
		len(b.meta) == 0 && len(b.journal) == 0
}

func (b *Batch) validate() error {
	for k := range b.meta {
		if k == "" {
			return ErrEmptyMetaKey
		}
	}
	return nil
}
