package entities

// InterfaceMode is the trunking state of a port
type InterfaceMode string

const (
	ModeAccess      InterfaceMode = "access"
	ModeTagged      InterfaceMode = "tagged"
	ModeTaggedAll   InterfaceMode = "tagged-all"
	ModeTaggedNoneg InterfaceMode = "tagged-noneg"
	ModeVirtual     InterfaceMode = "virtual"
	ModeLAG         InterfaceMode = "lag"
)

// InterfaceType classifies an interface record
type InterfaceType string

const (
	TypePhysical InterfaceType = "physical"
	TypeVirtual  InterfaceType = "virtual"
	TypeLAG      InterfaceType = "lag"
	TypeOther    InterfaceType = "other"
)

// StatusUp is the ifOperStatus code of an operational port
const StatusUp = "1"

// LLDPRemote holds what a port learned about its LLDP neighbor
type LLDPRemote struct {
	Name string `json:"name,omitempty"`
	MAC  string `json:"mac,omitempty"`
	Port string `json:"port,omitempty"`
}

// Interface is one row of a device interface table, physical or virtual
type Interface struct {
	Index        string        `json:"index"`
	Name         string        `json:"name"`
	MACAddress   string        `json:"mac_address,omitempty"`
	MTU          int           `json:"mtu,omitempty"`
	Status       string        `json:"status,omitempty"`
	Description  string        `json:"description,omitempty"`
	Mode         InterfaceMode `json:"mode,omitempty"`
	UntaggedVLAN string        `json:"untagged_vlan,omitempty"`
	TaggedVLANs  []string      `json:"tagged_vlans,omitempty"`
	IPAddress    string        `json:"ip_address,omitempty"`
	Mask         string        `json:"mask,omitempty"`
	IPWithPrefix string        `json:"ip_with_prefix,omitempty"`
	LLDPRemote   *LLDPRemote   `json:"lldp_remote,omitempty"`
	RemoteIP     string        `json:"remote_ip,omitempty"`
	Type         InterfaceType `json:"type"`
}

// IsUp reports whether the raw status code means the port is operational
func (i Interface) IsUp() bool {
	return i.Status == StatusUp
}

// VLANUnset reports whether a raw native/untagged value means no VLAN
func VLANUnset(v string) bool {
	return v == "" || v == "0" || v == "1"
}

// NewAccessInterface returns the vendor record of an access port
func NewAccessInterface(index, untagged string) Interface {
	if VLANUnset(untagged) {
		untagged = ""
	}
	return Interface{Index: index, Mode: ModeAccess, UntaggedVLAN: untagged}
}

// NewTrunkInterface returns the vendor record of a trunk port. A trunk with no
// tagged VLANs, or carrying only its native VLAN, is tagged-all.
func NewTrunkInterface(index, native string, tagged []string, mode InterfaceMode) Interface {
	if VLANUnset(native) {
		native = ""
	}
	if tagged == nil {
		tagged = []string{}
	}
	if len(tagged) == 0 || (len(tagged) == 1 && tagged[0] == native) {
		mode = ModeTaggedAll
	}
	return Interface{Index: index, Mode: mode, UntaggedVLAN: native, TaggedVLANs: tagged}
}
