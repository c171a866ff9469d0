package table

import (
	"fmt"
	"strconv"

	"github.com/hashicorp/go-multierror"
)

// DefaultVLAN is never reported as a tagged VLAN
const DefaultVLAN = "1"

// TaggedByPort decodes per-port VLAN bitmaps (port index -> hex) into
// port index -> VLAN ids. Rows that fail to decode are left out and reported.
func TaggedByPort(bitmaps *Indexed, offset int) (map[string][]string, error) {
	out := make(map[string][]string, bitmaps.Len())
	var errs *multierror.Error
	for _, port := range bitmaps.Keys() {
		positions, err := DecodeBitmap(bitmaps.Value(port), offset)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("port %s: %w", port, err))
			continue
		}
		vlans := make([]string, 0, len(positions))
		for _, p := range positions {
			vlan := strconv.Itoa(p)
			if vlan == DefaultVLAN {
				continue
			}
			vlans = append(vlans, vlan)
		}
		out[port] = vlans
	}
	return out, errs.ErrorOrNil()
}

// TaggedByVLAN decodes per-VLAN port bitmaps (VLAN id -> hex) and inverts
// them into port index -> VLAN ids, VLANs listed in walk order.
func TaggedByVLAN(bitmaps *Indexed, offset int) (map[string][]string, error) {
	out := make(map[string][]string)
	var errs *multierror.Error
	for _, vlan := range bitmaps.Keys() {
		if vlan == DefaultVLAN {
			continue
		}
		positions, err := DecodeBitmap(bitmaps.Value(vlan), offset)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("vlan %s: %w", vlan, err))
			continue
		}
		for _, p := range positions {
			port := strconv.Itoa(p)
			out[port] = append(out[port], vlan)
		}
	}
	return out, errs.ErrorOrNil()
}
