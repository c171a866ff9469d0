package entities

// PollResult is everything learned from one device in one polling cycle
type PollResult struct {
	Target            string      `json:"target"`
	Hostname          string      `json:"hostname,omitempty"`
	Model             string      `json:"model,omitempty"`
	SerialNumber      string      `json:"serial_number,omitempty"`
	Family            string      `json:"family,omitempty"`
	Interfaces        []Interface `json:"interfaces,omitempty"`
	VirtualInterfaces []Interface `json:"virtual_interfaces,omitempty"`
	Warnings          []string    `json:"warnings,omitempty"`
	Fatal             string      `json:"fatal,omitempty"`
}

// Failed reports whether the device aborted with a fatal error
func (r PollResult) Failed() bool {
	return r.Fatal != ""
}
