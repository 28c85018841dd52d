package payment

import "slices"

// Capability names one lifecycle operation of the provider contract.
type Capability string

const (
	CapabilityInitiate  Capability = "initiate"
	CapabilityAuthorize Capability = "authorize"
	CapabilityCapture   Capability = "capture"
	CapabilityRefund    Capability = "refund"
	CapabilityCancel    Capability = "cancel"
	CapabilityDelete    Capability = "delete"
	CapabilityStatus    Capability = "status"
	CapabilityRetrieve  Capability = "retrieve"
	CapabilityUpdate    Capability = "update"
	CapabilityWebhook   Capability = "webhook"
)

// AllCapabilities lists every operation of the contract, supported or not.
var AllCapabilities = []Capability{
	CapabilityInitiate,
	CapabilityAuthorize,
	CapabilityCapture,
	CapabilityRefund,
	CapabilityCancel,
	CapabilityDelete,
	CapabilityStatus,
	CapabilityRetrieve,
	CapabilityUpdate,
	CapabilityWebhook,
}

// CapabilitySet is an immutable list of supported operations.
type CapabilitySet []Capability

func (s CapabilitySet) Supports(c Capability) bool {
	return slices.Contains(s, c)
}

// Unsupported returns the contract operations missing from s.
func (s CapabilitySet) Unsupported() []Capability {
	var out []Capability
	for _, c := range AllCapabilities {
		if !s.Supports(c) {
			out = append(out, c)
		}
	}
	return out
}
