package regchain

import (
	"testing"

	"github.com/input-output-hk/catalyst-libs-go/pkg/cip509"
)

func TestAppendIsImmutable(t *testing.T) {
	c0 := New("id.catalyst://cardano/abc")
	c1 := c0.Append(Entry{Height: 1})
	c2 := c1.Append(Entry{Height: 2})

	if c0.Len() != 0 {
		t.Fatalf("c0 mutated: len=%d", c0.Len())
	}
	if c1.Len() != 1 {
		t.Fatalf("c1 mutated by later append: len=%d", c1.Len())
	}
	if c2.Len() != 2 {
		t.Fatalf("c2.Len() = %d, want 2", c2.Len())
	}
	latest, ok := c2.Latest()
	if !ok || latest.Height != 2 {
		t.Fatalf("Latest() = %+v, ok=%v", latest, ok)
	}
}

func TestResolve_LaterSlotOverridesEarlier(t *testing.T) {
	c := New("id").
		Append(Entry{Registration: cip509.Cip509{Rbac: cip509.RbacMetadata{
			C509Certs: []cip509.CertSlot{{Kind: cip509.SlotPresent, Value: []byte{1}}},
		}}}).
		Append(Entry{Registration: cip509.Cip509{Rbac: cip509.RbacMetadata{
			C509Certs: []cip509.CertSlot{{Kind: cip509.SlotDeleted}},
		}}})

	resolved := c.Resolve()
	if len(resolved.C509Certs) != 1 || resolved.C509Certs[0].Kind != cip509.SlotDeleted {
		t.Fatalf("Resolve() C509Certs = %+v, want slot 0 deleted", resolved.C509Certs)
	}
}

func TestResolve_UndefinedLeavesPriorSlotUntouched(t *testing.T) {
	c := New("id").
		Append(Entry{Registration: cip509.Cip509{Rbac: cip509.RbacMetadata{
			PublicKeys: []cip509.CertSlot{{Kind: cip509.SlotPresent, Value: []byte{9}}},
		}}}).
		Append(Entry{Registration: cip509.Cip509{Rbac: cip509.RbacMetadata{
			PublicKeys: []cip509.CertSlot{{Kind: cip509.SlotUndefined}},
		}}})

	resolved := c.Resolve()
	if len(resolved.PublicKeys) != 1 || resolved.PublicKeys[0].Kind != cip509.SlotPresent {
		t.Fatalf("Resolve() PublicKeys = %+v, want slot 0 still present", resolved.PublicKeys)
	}
}

func TestResolve_RoleSetReplacedWholesaleByRole(t *testing.T) {
	c := New("id").
		Append(Entry{Registration: cip509.Cip509{Rbac: cip509.RbacMetadata{
			RoleSet: map[uint8]cip509.RoleData{0: {PaymentKeyRef: 1}},
		}}}).
		Append(Entry{Registration: cip509.Cip509{Rbac: cip509.RbacMetadata{
			RoleSet: map[uint8]cip509.RoleData{0: {PaymentKeyRef: -1}},
		}}})

	resolved := c.Resolve()
	if resolved.RoleSet[0].PaymentKeyRef != -1 {
		t.Fatalf("RoleSet[0].PaymentKeyRef = %d, want -1", resolved.RoleSet[0].PaymentKeyRef)
	}
}
