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

package redirection

import (
	"github.com/contiv/nsfc/plugins/nsfc/model"
)

// API is the redirection contract implemented on top of Neutron SFC.
//
// Inspection ports map to port pairs, inspection port groups to port pair
// groups, network elements created by RegisterNetworkElement to port chains
// and inspection hooks to flow classifiers.
type API interface {
	// GetInspectionPort returns the fully resolved inspection port, looked up
	// by id and then by its ingress and egress. Returns nil if not found.
	GetInspectionPort(port *model.InspectionPort) (*model.InspectionPort, error)

	// RegisterInspectionPort reuses or creates the port pair for the given
	// ingress and egress and makes it a member of the group referenced
	// by port.Parent (a new group is created if empty).
	RegisterInspectionPort(port *model.InspectionPort) (*model.InspectionPort, error)

	// RemoveInspectionPort removes the port pair together with its group
	// if the pair was the last member. Removing an unknown port is not an error.
	RemoveInspectionPort(port *model.InspectionPort) error

	// InstallInspectionHook protects <inspected> with the chain referenced by
	// <chainRef> and returns the hook id. Tag, encapsulation, order and failure
	// policy are accepted and ignored.
	InstallInspectionHook(inspected *model.NetworkElement, chainRef model.Element, tag int64,
		encType model.TagEncapsulationType, order int64, policy model.FailurePolicyType) (string, error)

	// UpdateInspectionHook moves the hook to the chain of hook.Chain.
	UpdateInspectionHook(hook *model.InspectionHook) error

	// RemoveInspectionHook removes the hook, unknown ids are ignored.
	RemoveInspectionHook(hookID string) error

	// GetInspectionHook returns the hook with its chain, nil if not found.
	GetInspectionHook(hookID string) (*model.InspectionHook, error)

	// RegisterNetworkElement creates a chain over the given groups (in order).
	RegisterNetworkElement(groupRefs []model.Element) (*model.ServiceFunctionChain, error)

	// UpdateNetworkElement replaces the group list of the chain.
	UpdateNetworkElement(chainRef model.Element, groupRefs []model.Element) (*model.ServiceFunctionChain, error)

	// DeleteNetworkElement deletes the chain.
	DeleteNetworkElement(chainRef model.Element) error

	// GetNetworkElements returns the groups of the chain in chain order.
	GetNetworkElements(chainRef model.Element) ([]*model.InspectionPortGroup, error)

	// Capabilities lists the optional features offered by this implementation.
	Capabilities() model.Capabilities

	// Operations below are not offered by Neutron SFC and always fail
	// with an Unsupported error.

	GetInspectionHookByPorts(inspected *model.NetworkElement, inspectionPort model.Element) (*model.InspectionHook, error)
	RemoveInspectionHookByPorts(inspected *model.NetworkElement, inspectionPort model.Element) error
	RemoveAllInspectionHooks(inspected *model.NetworkElement) error
	GetInspectionHookTag(inspected *model.NetworkElement, inspectionPort model.Element) (int64, error)
	SetInspectionHookTag(inspected *model.NetworkElement, inspectionPort model.Element, tag int64) error
	GetInspectionHookFailurePolicy(inspected *model.NetworkElement, inspectionPort model.Element) (model.FailurePolicyType, error)
	SetInspectionHookFailurePolicy(inspected *model.NetworkElement, inspectionPort model.Element, policy model.FailurePolicyType) error
	GetInspectionHookOrder(inspected *model.NetworkElement, inspectionPort model.Element) (int64, error)
	SetInspectionHookOrder(inspected *model.NetworkElement, inspectionPort model.Element, order int64) error
	GetNetworkElementByDeviceOwnerID(deviceOwnerID string) (*model.NetworkElement, error)
}

// SnapshotRecorder receives the entities returned by successful mutations.
// The redirection logic never reads them back.
type SnapshotRecorder interface {
	RecordChain(chain *model.ServiceFunctionChain) error
	ForgetChain(id string) error
	RecordInspectionPort(port *model.InspectionPort) error
	ForgetInspectionPort(id string) error
	RecordHook(hook *model.InspectionHook) error
	ForgetHook(id string) error
}

// NeutronSFCCapabilities are the capabilities of the Neutron SFC backend.
var NeutronSFCCapabilities = model.Capabilities{
	ProviderCreds: true,
	NeutronSFC:    true,
}
