package services

import (
	"net"
	"strconv"
	"strings"

	"github.com/carlosrabelo/ifpoll/domain/entities"
	"github.com/carlosrabelo/ifpoll/domain/table"
)

// PhysicalTables holds the walked tables a physical interface set is built from
type PhysicalTables struct {
	Names       *table.Indexed
	MTU         *table.Indexed
	Status      *table.Indexed
	MAC         *table.Indexed
	Description *table.Indexed
	LocalPorts  *table.Indexed
	RemoteName  *table.Indexed
	RemotePort  *table.Indexed
	RemoteMAC   *table.Indexed
}

// AssemblePhysical builds one interface per index of the name table, in walk
// order. Trunking state comes from vendor records with the same index.
func AssemblePhysical(t PhysicalTables, vendor []entities.Interface, arp *entities.ARPTable, dec TextDecoder) []entities.Interface {
	if dec == nil {
		dec = defaultDecoder
	}

	byIndex := make(map[string]entities.Interface, len(vendor))
	for _, v := range vendor {
		byIndex[v.Index] = v
	}

	remoteNames := CorrelateLLDP(t.Names, t.LocalPorts, t.RemoteName)
	remotePorts := CorrelateLLDP(t.Names, t.LocalPorts, t.RemotePort)
	remoteMACs := CorrelateLLDP(t.Names, t.LocalPorts, t.RemoteMAC)

	interfaces := make([]entities.Interface, 0, t.Names.Len())
	for _, index := range t.Names.Keys() {
		iface := entities.Interface{
			Index:      index,
			Name:       t.Names.Value(index),
			MTU:        parseMTU(t.MTU.Value(index)),
			Status:     t.Status.Value(index),
			MACAddress: t.MAC.Value(index),
			Type:       interfaceType(t.Names.Value(index)),
		}
		if iface.IsUp() {
			iface.Description = dec.Decode(t.Description.Value(index))
		}

		if v, ok := byIndex[index]; ok {
			iface.Mode = v.Mode
			iface.UntaggedVLAN = v.UntaggedVLAN
			if v.TaggedVLANs != nil {
				iface.TaggedVLANs = append([]string{}, v.TaggedVLANs...)
			}
		}

		remote := entities.LLDPRemote{
			Name: remoteNames[index],
			MAC:  remoteMACs[index],
			Port: remotePorts[index],
		}
		if remote != (entities.LLDPRemote{}) {
			iface.LLDPRemote = &remote
		}
		if ip, ok := arp.LookupIP(remote.MAC); ok {
			iface.RemoteIP = ip
		}

		interfaces = append(interfaces, iface)
	}
	return interfaces
}

// VirtualTables holds the walked tables SVIs are built from. IfIndex and
// Masks are keyed by IP address.
type VirtualTables struct {
	IfIndex *table.Indexed
	Masks   *table.Indexed
	Names   *table.Indexed
	MTU     *table.Indexed
	MAC     *table.Indexed
}

// AssembleVirtual builds one interface per configured IP address, skipping
// addresses with a 0.0.0.0 mask
func AssembleVirtual(t VirtualTables) []entities.Interface {
	interfaces := make([]entities.Interface, 0, t.IfIndex.Len())
	for _, ip := range t.IfIndex.Keys() {
		mask := t.Masks.Value(ip)
		if mask == "0.0.0.0" {
			continue
		}
		index := t.IfIndex.Value(ip)
		name, ok := t.Names.Get(index)
		if !ok || name == "" {
			name = index + "SVI"
		}
		interfaces = append(interfaces, entities.Interface{
			Index:        index,
			Name:         name,
			IPAddress:    ip,
			Mask:         mask,
			IPWithPrefix: withPrefix(ip, mask),
			MTU:          parseMTU(t.MTU.Value(index)),
			MACAddress:   t.MAC.Value(index),
			Mode:         entities.ModeVirtual,
			Type:         entities.TypeVirtual,
		})
	}
	return interfaces
}

func parseMTU(raw string) int {
	mtu, err := strconv.Atoi(raw)
	if err != nil || mtu < 1 {
		return 0
	}
	return mtu
}

func interfaceType(name string) entities.InterfaceType {
	if strings.HasPrefix(strings.ToLower(name), "p") {
		return entities.TypeLAG
	}
	return entities.TypePhysical
}

// withPrefix returns ip/len for a contiguous mask, otherwise an empty string
func withPrefix(ip, mask string) string {
	m := net.ParseIP(mask).To4()
	if m == nil {
		return ""
	}
	ones, bits := net.IPMask(m).Size()
	if bits == 0 {
		return ""
	}
	return ip + "/" + strconv.Itoa(ones)
}
