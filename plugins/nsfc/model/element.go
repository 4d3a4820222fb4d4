// Copyright (c) 2019 Cisco and/or its affiliates.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at:
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import (
	"fmt"
	"strings"
)

// Kind identifies the variant of an Element.
type Kind int

const (
	// NetworkElementKind is a network attachment point (neutron port).
	NetworkElementKind Kind = iota

	// InspectionPortKind is a port pair.
	InspectionPortKind

	// InspectionPortGroupKind is a port pair group.
	InspectionPortGroupKind

	// ServiceFunctionChainKind is a port chain.
	ServiceFunctionChainKind
)

// String converts Kind into a human-readable string.
func (k Kind) String() string {
	switch k {
	case NetworkElementKind:
		return "network-element"
	case InspectionPortKind:
		return "inspection-port"
	case InspectionPortGroupKind:
		return "inspection-port-group"
	case ServiceFunctionChainKind:
		return "service-function-chain"
	}
	return "INVALID"
}

// Element is the closed union of entities handled by the redirection API.
// Only the four variants of this package implement it.
type Element interface {
	// ElementID returns the backend-assigned identifier.
	ElementID() string

	// ParentID returns the identifier of the owning entity, empty if none.
	ParentID() string

	// Kind returns the variant of the element.
	Kind() Kind

	isElement()
}

// NetworkElement is a remote network attachment point (neutron port).
// A NetworkElement carrying only ID is also used as a bare reference
// to any other element.
type NetworkElement struct {
	ID           string   `json:"id"`
	MACAddresses []string `json:"macAddresses,omitempty"`
	PortIPs      []string `json:"portIPs,omitempty"`

	// Parent is the id of the port pair owning this element, if any.
	Parent string `json:"parentId,omitempty"`
}

// ElementID returns the port id.
func (ne *NetworkElement) ElementID() string { return ne.ID }

// ParentID returns the id of the owning port pair.
func (ne *NetworkElement) ParentID() string { return ne.Parent }

// Kind returns NetworkElementKind.
func (ne *NetworkElement) Kind() Kind { return NetworkElementKind }

func (ne *NetworkElement) isElement() {}

// String converts NetworkElement into a human-readable string.
func (ne *NetworkElement) String() string {
	if ne == nil {
		return "<nil>"
	}
	return fmt.Sprintf("NetworkElement <ID:%s IPs:%v MACs:%v Parent:%s>",
		ne.ID, ne.PortIPs, ne.MACAddresses, ne.Parent)
}

// InspectionPort is an ordered ingress/egress pair forming one inspection tap.
type InspectionPort struct {
	ID      string          `json:"id"`
	Ingress *NetworkElement `json:"ingress,omitempty"`
	Egress  *NetworkElement `json:"egress,omitempty"`

	// Parent is the id of the owning port pair group.
	Parent string `json:"parentId,omitempty"`

	// Group is the resolved owning group (back-reference).
	Group *InspectionPortGroup `json:"-"`
}

// ElementID returns the port pair id.
func (ip *InspectionPort) ElementID() string { return ip.ID }

// ParentID returns the id of the owning port pair group.
func (ip *InspectionPort) ParentID() string {
	if ip.Group != nil {
		return ip.Group.ID
	}
	return ip.Parent
}

// Kind returns InspectionPortKind.
func (ip *InspectionPort) Kind() Kind { return InspectionPortKind }

func (ip *InspectionPort) isElement() {}

// IngressID returns the id of the ingress element, empty if unset.
func (ip *InspectionPort) IngressID() string {
	if ip.Ingress == nil {
		return ""
	}
	return ip.Ingress.ID
}

// EgressID returns the id of the egress element, empty if unset.
func (ip *InspectionPort) EgressID() string {
	if ip.Egress == nil {
		return ""
	}
	return ip.Egress.ID
}

// String converts InspectionPort into a human-readable string.
func (ip *InspectionPort) String() string {
	if ip == nil {
		return "<nil>"
	}
	return fmt.Sprintf("InspectionPort <ID:%s Ingress:%s Egress:%s Parent:%s>",
		ip.ID, ip.IngressID(), ip.EgressID(), ip.ParentID())
}

// InspectionPortGroup is an ordered set of inspection ports forming one stage of a chain.
type InspectionPortGroup struct {
	ID    string            `json:"id"`
	Ports []*InspectionPort `json:"ports"`

	// Parent is the id of the owning chain, empty for an unchained group.
	Parent string `json:"parentId,omitempty"`

	// Chain is the resolved owning chain (back-reference).
	Chain *ServiceFunctionChain `json:"-"`
}

// ElementID returns the port pair group id.
func (g *InspectionPortGroup) ElementID() string { return g.ID }

// ParentID returns the id of the owning chain.
func (g *InspectionPortGroup) ParentID() string {
	if g.Chain != nil {
		return g.Chain.ID
	}
	return g.Parent
}

// Kind returns InspectionPortGroupKind.
func (g *InspectionPortGroup) Kind() Kind { return InspectionPortGroupKind }

func (g *InspectionPortGroup) isElement() {}

// AddPort appends the port and sets its back-reference to this group.
func (g *InspectionPortGroup) AddPort(port *InspectionPort) {
	port.Group = g
	port.Parent = g.ID
	g.Ports = append(g.Ports, port)
}

// Port returns the member port with the given id, nil if not a member.
func (g *InspectionPortGroup) Port(id string) *InspectionPort {
	for _, port := range g.Ports {
		if port.ID == id {
			return port
		}
	}
	return nil
}

// String converts InspectionPortGroup into a human-readable string.
func (g *InspectionPortGroup) String() string {
	if g == nil {
		return "<nil>"
	}
	ports := make([]string, 0, len(g.Ports))
	for _, port := range g.Ports {
		ports = append(ports, port.ID)
	}
	return fmt.Sprintf("InspectionPortGroup <ID:%s Ports:[%s] Parent:%s>",
		g.ID, strings.Join(ports, ", "), g.ParentID())
}

// ServiceFunctionChain is an ordered sequence of inspection port groups.
// The order of Groups is the traffic path.
type ServiceFunctionChain struct {
	ID            string                 `json:"id"`
	Groups        []*InspectionPortGroup `json:"groups"`
	ClassifierIDs []string               `json:"classifierIds"`

	// Hooks bound to this chain (reverse references).
	Hooks []*InspectionHook `json:"-"`
}

// ElementID returns the port chain id.
func (sfc *ServiceFunctionChain) ElementID() string { return sfc.ID }

// ParentID returns empty string, chains are top-level.
func (sfc *ServiceFunctionChain) ParentID() string { return "" }

// Kind returns ServiceFunctionChainKind.
func (sfc *ServiceFunctionChain) Kind() Kind { return ServiceFunctionChainKind }

func (sfc *ServiceFunctionChain) isElement() {}

// AddGroup appends the group and sets its back-reference to this chain.
func (sfc *ServiceFunctionChain) AddGroup(group *InspectionPortGroup) {
	group.Chain = sfc
	group.Parent = sfc.ID
	sfc.Groups = append(sfc.Groups, group)
}

// Group returns the member group with the given id, nil if not a member.
func (sfc *ServiceFunctionChain) Group(id string) *InspectionPortGroup {
	for _, group := range sfc.Groups {
		if group.ID == id {
			return group
		}
	}
	return nil
}

// GroupIDs returns ids of the member groups in chain order.
func (sfc *ServiceFunctionChain) GroupIDs() []string {
	ids := make([]string, 0, len(sfc.Groups))
	for _, group := range sfc.Groups {
		ids = append(ids, group.ID)
	}
	return ids
}

// String converts ServiceFunctionChain into a human-readable string.
func (sfc *ServiceFunctionChain) String() string {
	if sfc == nil {
		return "<nil>"
	}
	return fmt.Sprintf("ServiceFunctionChain <ID:%s Groups:%v Classifiers:%v>",
		sfc.ID, sfc.GroupIDs(), sfc.ClassifierIDs)
}

// InspectionHook binds one protected network element to one chain
// via a flow classifier. HookID is the classifier id.
type InspectionHook struct {
	HookID        string                `json:"hookId"`
	InspectedPort *NetworkElement       `json:"inspectedPort,omitempty"`
	Chain         *ServiceFunctionChain `json:"chain,omitempty"`

	// not functional with neutron SFC, carried for interface compatibility
	Tag               int64                `json:"tag,omitempty"`
	Order             int64                `json:"order,omitempty"`
	EncapsulationType TagEncapsulationType `json:"encapsulationType,omitempty"`
	FailurePolicy     FailurePolicyType    `json:"failurePolicy,omitempty"`
}

// String converts InspectionHook into a human-readable string.
func (h *InspectionHook) String() string {
	if h == nil {
		return "<nil>"
	}
	chainID := ""
	if h.Chain != nil {
		chainID = h.Chain.ID
	}
	inspected := ""
	if h.InspectedPort != nil {
		inspected = h.InspectedPort.ID
	}
	return fmt.Sprintf("InspectionHook <ID:%s Inspected:%s Chain:%s>", h.HookID, inspected, chainID)
}
