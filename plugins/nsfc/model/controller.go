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

import "fmt"

// TagEncapsulationType is the encapsulation requested for an inspection hook.
type TagEncapsulationType string

const (
	// VLAN encapsulation.
	VLAN TagEncapsulationType = "VLAN"
	// VXLAN encapsulation.
	VXLAN TagEncapsulationType = "VXLAN"
	// MPLS encapsulation.
	MPLS TagEncapsulationType = "MPLS"
	// GRE encapsulation.
	GRE TagEncapsulationType = "GRE"
)

// FailurePolicyType is the failure policy requested for an inspection hook.
type FailurePolicyType string

const (
	// FailOpen lets traffic through when the inspection path fails.
	FailOpen FailurePolicyType = "FAIL_OPEN"
	// FailClose drops traffic when the inspection path fails.
	FailClose FailurePolicyType = "FAIL_CLOSE"
	// NA means no policy.
	NA FailurePolicyType = "NA"
)

// VirtualizationConnector carries the provider credentials of one backend.
type VirtualizationConnector struct {
	Name                    string `json:"name" validate:"required"`
	ProviderIPAddress       string `json:"providerIPAddress" validate:"required"`
	ProviderAdminDomainID   string `json:"providerAdminDomainId"`
	ProviderUsername        string `json:"providerUsername" validate:"required"`
	ProviderPassword        string `json:"providerPassword"`
	ProviderAdminTenantName string `json:"providerAdminTenantName"`
}

// String converts VirtualizationConnector into a human-readable string (without the password).
func (vc *VirtualizationConnector) String() string {
	return fmt.Sprintf("VirtualizationConnector <Name:%s Provider:%s Domain:%s Tenant:%s User:%s>",
		vc.Name, vc.ProviderIPAddress, vc.ProviderAdminDomainID, vc.ProviderAdminTenantName, vc.ProviderUsername)
}

// Status is the answer of the status query.
type Status struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Ready   bool   `json:"ready"`
}

// Capabilities lists which optional features of the redirection contract
// the backend offers. Callers can branch on them instead of provoking
// Unsupported errors.
type Capabilities struct {
	OffboxRedirection bool `json:"offboxRedirection"`
	SFC               bool `json:"sfc"`
	FailurePolicy     bool `json:"failurePolicy"`
	ProviderCreds     bool `json:"providerCreds"`
	QueryPortInfo     bool `json:"queryPortInfo"`
	PortGroup         bool `json:"portGroup"`
	NeutronSFC        bool `json:"neutronSfc"`
	Tagging           bool `json:"tagging"`
	HookOrder         bool `json:"hookOrder"`
}

// FlowInfo describes one flow of a port info query.
type FlowInfo struct {
	SourceIP      string `json:"sourceIp"`
	DestinationIP string `json:"destinationIp"`
}

// FlowPortInfo is the answer for one flow of a port info query.
type FlowPortInfo struct {
	PortID string `json:"portId"`
}
