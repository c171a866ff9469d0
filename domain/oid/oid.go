// Package oid lists the object identifiers walked by the poller.
package oid

// SNMPv2-MIB / ENTITY-MIB identity
const (
	SysDescr             = ".1.3.6.1.2.1.1.1"
	SysName              = ".1.3.6.1.2.1.1.5"
	EntPhysicalModelName = ".1.3.6.1.2.1.47.1.1.1.1.13"
	EntPhysicalSerialNum = ".1.3.6.1.2.1.47.1.1.1.1.11"
)

// IF-MIB
const (
	IfDescr       = ".1.3.6.1.2.1.2.2.1.2"
	IfMtu         = ".1.3.6.1.2.1.2.2.1.4"
	IfPhysAddress = ".1.3.6.1.2.1.2.2.1.6"
	IfOperStatus  = ".1.3.6.1.2.1.2.2.1.8"
	IfName        = ".1.3.6.1.2.1.31.1.1.1.1"
	IfAlias       = ".1.3.6.1.2.1.31.1.1.1.18"
)

// IP-MIB
const (
	IPAdEntIfIndex          = ".1.3.6.1.2.1.4.20.1.2"
	IPAdEntNetMask          = ".1.3.6.1.2.1.4.20.1.3"
	IPNetToMediaPhysAddress = ".1.3.6.1.2.1.4.22.1.2"
)

// LLDP-MIB
const (
	LldpLocPortID    = ".1.0.8802.1.1.2.1.3.7.1.3"
	LldpRemChassisID = ".1.0.8802.1.1.2.1.4.1.1.5"
	LldpRemPortID    = ".1.0.8802.1.1.2.1.4.1.1.7"
	LldpRemSysName   = ".1.0.8802.1.1.2.1.4.1.1.9"
)

// CISCO-VTP-MIB and CISCO-VLAN-MEMBERSHIP-MIB
const (
	VlanTrunkPortVlansEnabled    = ".1.3.6.1.4.1.9.9.46.1.6.1.1.4"
	VlanTrunkPortNativeVlan      = ".1.3.6.1.4.1.9.9.46.1.6.1.1.5"
	VlanTrunkPortVlansXmitJoined = ".1.3.6.1.4.1.9.9.46.1.6.1.1.8"
	VlanTrunkPortDynamicState    = ".1.3.6.1.4.1.9.9.46.1.6.1.1.13"
	VmVlan                       = ".1.3.6.1.4.1.9.9.68.1.2.2.1.2"
)

// CISCOSB-vlan-MIB and Q-BRIDGE-MIB
const (
	VlanPortModeState          = ".1.3.6.1.4.1.9.6.1.101.48.22.1.1"
	Dot1qVlanStaticEgressPorts = ".1.3.6.1.2.1.17.7.1.4.3.1.2"
	Dot1qPvid                  = ".1.3.6.1.2.1.17.7.1.4.5.1.1"
)
