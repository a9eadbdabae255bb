// Package regchain builds the per-identity append-only chain of successive
// CIP-509 registrations (spec §2-F): each new registration can selectively
// overwrite or remove a cert/key slot by index, so resolving "the current
// state of an identity" means folding the chain rather than just reading its
// last entry.
package regchain

import (
	"github.com/input-output-hk/catalyst-libs-go/pkg/cip509"
)

// Entry is one registration recorded on the chain: the decoded CIP-509
// envelope plus the transaction/block coordinates it was found at.
type Entry struct {
	Registration cip509.Cip509
	TxHash       [32]byte
	Height       int64
}

// Chain is an immutable snapshot of one identity's registration history.
// Append never mutates the receiver; it returns a new Chain holding a copy
// of the receiver's entries plus the new one, matching spec §5's "registration chains are immutable
// snapshots; updates return new snapshots; concurrent readers never observe
// a partial update" policy. No mutex is needed because a Chain value, once
// built, is never written to again.
type Chain struct {
	catalystID string
	entries    []Entry
}

// New starts an empty chain for the given Catalyst identity.
func New(catalystID string) *Chain {
	return &Chain{catalystID: catalystID}
}

// CatalystID returns the identity this chain tracks.
func (c *Chain) CatalystID() string { return c.catalystID }

// Append returns a new Chain with e appended after the receiver's entries.
func (c *Chain) Append(e Entry) *Chain {
	entries := make([]Entry, len(c.entries)+1)
	copy(entries, c.entries)
	entries[len(c.entries)] = e
	return &Chain{catalystID: c.catalystID, entries: entries}
}

// Entries returns a defensive copy of the chain's entries in append order.
func (c *Chain) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len reports the number of registrations recorded.
func (c *Chain) Len() int { return len(c.entries) }

// Latest returns the most recently appended entry, or (Entry{}, false) if
// the chain is empty.
func (c *Chain) Latest() (Entry, bool) {
	if len(c.entries) == 0 {
		return Entry{}, false
	}
	return c.entries[len(c.entries)-1], true
}

// Resolve folds the chain into the identity's current RBAC state: each
// subsequent entry's cert/key slots override the prior state positionally —
// SlotPresent replaces, SlotDeleted clears, SlotUndefined leaves the
// previous value untouched — and later role_set entries fully replace
// earlier ones for the same role number.
func (c *Chain) Resolve() cip509.RbacMetadata {
	var out cip509.RbacMetadata
	out.RoleSet = map[uint8]cip509.RoleData{}
	for _, e := range c.entries {
		rbac := e.Registration.Rbac
		out.X509Certs = foldSlots(out.X509Certs, rbac.X509Certs)
		out.C509Certs = foldSlots(out.C509Certs, rbac.C509Certs)
		out.PublicKeys = foldSlots(out.PublicKeys, rbac.PublicKeys)
		if len(rbac.RevocationHashes) > 0 {
			out.RevocationHashes = append(out.RevocationHashes, rbac.RevocationHashes...)
		}
		for role, data := range rbac.RoleSet {
			out.RoleSet[role] = data
		}
	}
	return out
}

// foldSlots applies prev[i] <- next[i] slot-overwrite semantics, growing
// prev when next is longer (a registration can introduce new slot indices).
func foldSlots(prev, next []cip509.CertSlot) []cip509.CertSlot {
	if len(next) == 0 {
		return prev
	}
	out := make([]cip509.CertSlot, len(prev), maxInt(len(prev), len(next)))
	copy(out, prev)
	for i, slot := range next {
		switch slot.Kind {
		case cip509.SlotUndefined:
			if i >= len(out) {
				out = append(out, slot)
			}
			// else: leave the existing slot untouched.
		case cip509.SlotPresent, cip509.SlotDeleted:
			if i < len(out) {
				out[i] = slot
			} else {
				for len(out) < i {
					out = append(out, cip509.CertSlot{Kind: cip509.SlotUndefined})
				}
				out = append(out, slot)
			}
		}
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
