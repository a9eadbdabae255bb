// Package catalystid implements the Catalyst-ID URI grammar from spec §3:
//
//	id.catalyst://[user[:nonce]@][subnet.]network/<base64url(role0_vk)>[/role[/rotation]][#encrypt]
//
// A CatalystId value has two display forms ("id" and "uri") sharing one
// underlying value; the short form strips user, nonce, role, rotation, and
// the scheme. Parsing/formatting is hand-rolled rather than built on
// net/url: the `user[:nonce]@` segment and the bare (schemeless) short form
// fall outside what net/url's URI grammar accepts, so this mirrors the
// teacher's own bespoke string<->bytes codecs (pkg/identity's BID,
// pkg/content's CID) rather than forcing a generic URL parser to fit.
package catalystid

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// Scheme is the URI scheme for the long form.
const Scheme = "id.catalyst://"

// MinNonce and MaxNonce bound the inclusive nonce range from spec §3.
const (
	MinNonce int64 = 1735689600
	MaxNonce int64 = 4891363200
)

// CatalystId is a parsed Catalyst identity URI.
type CatalystId struct {
	User     string // optional
	Nonce    *int64 // optional; nil means absent
	Subnet   string // optional
	Network  string // required
	VKey     []byte // role0 verifying key, 32 bytes
	Role     *uint8 // optional
	Rotation *uint8 // optional
	Encrypt  bool   // #encrypt fragment present
}

// Parse parses s in either long (id.catalyst://...) or short (network/vk)
// form.
func Parse(s string) (CatalystId, error) {
	var id CatalystId
	rest := s

	if strings.HasPrefix(rest, Scheme) {
		rest = strings.TrimPrefix(rest, Scheme)
	}

	if idx := strings.IndexByte(rest, '#'); idx >= 0 {
		frag := rest[idx+1:]
		rest = rest[:idx]
		if frag != "encrypt" {
			return CatalystId{}, fmt.Errorf("catalystid: unsupported fragment %q", frag)
		}
		id.Encrypt = true
	}

	var authority, path string
	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		authority, path = rest[:idx], rest[idx+1:]
	} else {
		return CatalystId{}, fmt.Errorf("catalystid: missing %q/<vkey> path", s)
	}

	// authority := [user[:nonce]@][subnet.]network
	host := authority
	if idx := strings.IndexByte(authority, '@'); idx >= 0 {
		userinfo := authority[:idx]
		host = authority[idx+1:]
		if cidx := strings.IndexByte(userinfo, ':'); cidx >= 0 {
			id.User = userinfo[:cidx]
			nonceStr := userinfo[cidx+1:]
			n, err := strconv.ParseInt(nonceStr, 10, 64)
			if err != nil {
				return CatalystId{}, fmt.Errorf("catalystid: bad nonce %q: %w", nonceStr, err)
			}
			if n < MinNonce || n > MaxNonce {
				return CatalystId{}, fmt.Errorf("catalystid: nonce %d outside [%d, %d]", n, MinNonce, MaxNonce)
			}
			id.Nonce = &n
		} else {
			id.User = userinfo
		}
	}

	if dot := strings.IndexByte(host, '.'); dot >= 0 {
		id.Subnet = host[:dot]
		id.Network = host[dot+1:]
	} else {
		id.Network = host
	}
	if id.Network == "" {
		return CatalystId{}, fmt.Errorf("catalystid: empty network in %q", s)
	}

	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		return CatalystId{}, fmt.Errorf("catalystid: missing verifying key in %q", s)
	}
	vkey, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		// fall back to padded form, some callers may include padding.
		vkey, err = base64.URLEncoding.DecodeString(parts[0])
		if err != nil {
			return CatalystId{}, fmt.Errorf("catalystid: bad verifying key: %w", err)
		}
	}
	id.VKey = vkey

	if len(parts) > 1 && parts[1] != "" {
		r, err := parseUint8(parts[1])
		if err != nil {
			return CatalystId{}, fmt.Errorf("catalystid: bad role: %w", err)
		}
		id.Role = &r
	}
	if len(parts) > 2 && parts[2] != "" {
		r, err := parseUint8(parts[2])
		if err != nil {
			return CatalystId{}, fmt.Errorf("catalystid: bad rotation: %w", err)
		}
		id.Rotation = &r
	}

	return id, nil
}

func parseUint8(s string) (uint8, error) {
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, err
	}
	return uint8(n), nil
}

// Short returns the minimal short display form named in spec §3: just
// network/vkey, stripping user, nonce, role, rotation, the scheme, and any
// fragment.
func (id CatalystId) Short() string {
	return id.hostPart() + "/" + base64.RawURLEncoding.EncodeToString(id.VKey)
}

// Uri returns the long display form: always carries the id.catalyst://
// scheme, plus any of user, nonce, role, rotation, #encrypt that are present.
func (id CatalystId) Uri() string {
	var b strings.Builder
	b.WriteString(Scheme)
	b.WriteString(id.userinfoPart())
	b.WriteString(id.hostPart())
	b.WriteByte('/')
	b.WriteString(base64.RawURLEncoding.EncodeToString(id.VKey))
	if id.Role != nil {
		b.WriteByte('/')
		b.WriteString(strconv.FormatUint(uint64(*id.Role), 10))
		if id.Rotation != nil {
			b.WriteByte('/')
			b.WriteString(strconv.FormatUint(uint64(*id.Rotation), 10))
		}
	}
	b.WriteString(id.fragmentPart())
	return b.String()
}

// String formats the identity, choosing between the two display forms the
// way Parse's vector set expects: the scheme-carrying "uri" form is used
// whenever a role is present (role/rotation are only meaningful alongside a
// concrete signing-key rotation, which only the uri form can express),
// otherwise the scheme-less form is used, preserving any user/nonce/fragment.
func (id CatalystId) String() string {
	if id.Role != nil {
		return id.Uri()
	}
	var b strings.Builder
	b.WriteString(id.userinfoPart())
	b.WriteString(id.hostPart())
	b.WriteByte('/')
	b.WriteString(base64.RawURLEncoding.EncodeToString(id.VKey))
	b.WriteString(id.fragmentPart())
	return b.String()
}

func (id CatalystId) userinfoPart() string {
	if id.User == "" && id.Nonce == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(id.User)
	if id.Nonce != nil {
		b.WriteByte(':')
		b.WriteString(strconv.FormatInt(*id.Nonce, 10))
	}
	b.WriteByte('@')
	return b.String()
}

func (id CatalystId) fragmentPart() string {
	if id.Encrypt {
		return "#encrypt"
	}
	return ""
}

func (id CatalystId) hostPart() string {
	if id.Subnet != "" {
		return id.Subnet + "." + id.Network
	}
	return id.Network
}
