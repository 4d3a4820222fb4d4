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

package neutron

import "fmt"

// Names of the remote collections, used as the path under the SFC extension
// and as the label of the call statistics.
const (
	PortsCollection           = "ports"
	PortPairsCollection       = "port_pairs"
	PortPairGroupsCollection  = "port_pair_groups"
	PortChainsCollection      = "port_chains"
	FlowClassifiersCollection = "flow_classifiers"
)

// FixedIP is one address assigned to a port.
type FixedIP struct {
	SubnetID  string `json:"subnet_id,omitempty"`
	IPAddress string `json:"ip_address"`
}

// Port is the subset of a neutron port consumed by the adapter.
type Port struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name,omitempty"`
	MACAddress  string                 `json:"mac_address,omitempty"`
	FixedIPs    []FixedIP              `json:"fixed_ips,omitempty"`
	DeviceID    string                 `json:"device_id,omitempty"`
	DeviceOwner string                 `json:"device_owner,omitempty"`
	Profile     map[string]interface{} `json:"binding:profile,omitempty"`
}

// IPAddresses returns all fixed IP addresses of the port.
func (p *Port) IPAddresses() []string {
	ips := make([]string, 0, len(p.FixedIPs))
	for _, fip := range p.FixedIPs {
		ips = append(ips, fip.IPAddress)
	}
	return ips
}

// ProfileValue returns the string stored in the binding profile under key,
// empty if not set.
func (p *Port) ProfileValue(key string) string {
	if p.Profile == nil {
		return ""
	}
	value, ok := p.Profile[key]
	if !ok || value == nil {
		return ""
	}
	if str, isStr := value.(string); isStr {
		return str
	}
	return fmt.Sprint(value)
}

// PortUpdate is the mutable part of a port.
type PortUpdate struct {
	Profile map[string]interface{} `json:"binding:profile"`
}

// PortPair is a port pair of the SFC extension.
type PortPair struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	ProjectID   string `json:"project_id,omitempty"`
	Ingress     string `json:"ingress" validate:"required"`
	Egress      string `json:"egress" validate:"required"`
}

// PortPairUpdate is the mutable part of a port pair.
type PortPairUpdate struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// PortPairGroup is a port pair group of the SFC extension.
type PortPairGroup struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	ProjectID   string   `json:"project_id,omitempty"`
	PortPairs   []string `json:"port_pairs" validate:"dive,required"`
}

// PortPairGroupUpdate is the mutable part of a port pair group.
type PortPairGroupUpdate struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	PortPairs   []string `json:"port_pairs" validate:"dive,required"`
}

// PortChain is a port chain of the SFC extension.
type PortChain struct {
	ID              string   `json:"id,omitempty"`
	Name            string   `json:"name,omitempty"`
	Description     string   `json:"description,omitempty"`
	ProjectID       string   `json:"project_id,omitempty"`
	PortPairGroups  []string `json:"port_pair_groups" validate:"required,min=1,dive,required"`
	FlowClassifiers []string `json:"flow_classifiers" validate:"dive,required"`
}

// PortChainUpdate is the mutable part of a port chain.
type PortChainUpdate struct {
	Name            string   `json:"name,omitempty"`
	Description     string   `json:"description,omitempty"`
	PortPairGroups  []string `json:"port_pair_groups" validate:"dive,required"`
	FlowClassifiers []string `json:"flow_classifiers" validate:"dive,required"`
}

// FlowClassifier is a flow classifier of the SFC extension.
type FlowClassifier struct {
	ID                     string `json:"id,omitempty"`
	Name                   string `json:"name,omitempty"`
	Description            string `json:"description,omitempty"`
	ProjectID              string `json:"project_id,omitempty"`
	EtherType              string `json:"ethertype,omitempty"`
	Protocol               string `json:"protocol,omitempty"`
	SourceIPPrefix         string `json:"source_ip_prefix,omitempty"`
	DestinationIPPrefix    string `json:"destination_ip_prefix" validate:"required"`
	LogicalSourcePort      string `json:"logical_source_port" validate:"required"`
	LogicalDestinationPort string `json:"logical_destination_port,omitempty"`
}

// FlowClassifierUpdate is the mutable part of a flow classifier.
type FlowClassifierUpdate struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// String converts PortPair into a human-readable string.
func (pp *PortPair) String() string {
	return fmt.Sprintf("PortPair <ID:%s Ingress:%s Egress:%s>", pp.ID, pp.Ingress, pp.Egress)
}

// String converts PortPairGroup into a human-readable string.
func (ppg *PortPairGroup) String() string {
	return fmt.Sprintf("PortPairGroup <ID:%s PortPairs:%v>", ppg.ID, ppg.PortPairs)
}

// String converts PortChain into a human-readable string.
func (pc *PortChain) String() string {
	return fmt.Sprintf("PortChain <ID:%s Groups:%v Classifiers:%v>", pc.ID, pc.PortPairGroups, pc.FlowClassifiers)
}

// String converts FlowClassifier into a human-readable string.
func (fc *FlowClassifier) String() string {
	return fmt.Sprintf("FlowClassifier <ID:%s Dst:%s Src:%s LogicalSrc:%s LogicalDst:%s>",
		fc.ID, fc.DestinationIPPrefix, fc.SourceIPPrefix, fc.LogicalSourcePort, fc.LogicalDestinationPort)
}

// Contains returns true if id is in the list.
func Contains(list []string, id string) bool {
	for _, item := range list {
		if item == id {
			return true
		}
	}
	return false
}

// Without returns a copy of list with all occurrences of id removed.
func Without(list []string, id string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item != id {
			out = append(out, item)
		}
	}
	return out
}
