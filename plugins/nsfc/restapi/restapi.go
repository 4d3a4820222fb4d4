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

package restapi

import (
	"strings"

	"github.com/contiv/nsfc/plugins/nsfc/model"
)

const (
	// RESTPrefix is versioned prefix for REST urls.
	RESTPrefix = "/nsfc/v1/"

	// IDVar is the name of the path variable carrying the element id.
	IDVar = "id"

	// RestURLStatus is versioned URL for the agent status.
	RestURLStatus = RESTPrefix + "status"

	// RestURLCapabilities is versioned URL for the backend capabilities.
	RestURLCapabilities = RESTPrefix + "capabilities"

	// RestURLInspectionPorts is versioned URL for inspection port registration.
	RestURLInspectionPorts = RESTPrefix + "inspection-ports"

	// RestURLInspectionPort is versioned URL of one inspection port.
	RestURLInspectionPort = RestURLInspectionPorts + "/{" + IDVar + "}"

	// RestURLInspectionHooks is versioned URL for inspection hook installation.
	RestURLInspectionHooks = RESTPrefix + "inspection-hooks"

	// RestURLInspectionHook is versioned URL of one inspection hook.
	RestURLInspectionHook = RestURLInspectionHooks + "/{" + IDVar + "}"

	// RestURLChains is versioned URL for chain registration.
	RestURLChains = RESTPrefix + "chains"

	// RestURLChain is versioned URL of one chain.
	RestURLChain = RestURLChains + "/{" + IDVar + "}"

	// RestURLChainElements is versioned URL of the groups of one chain.
	RestURLChainElements = RestURLChain + "/elements"

	// RestURLChainSnapshot is versioned URL of the last recorded snapshot of a chain.
	RestURLChainSnapshot = RESTPrefix + "snapshots/chains/{" + IDVar + "}"

	// RestURLHookSnapshot is versioned URL of the last recorded snapshot of an inspection hook.
	RestURLHookSnapshot = RESTPrefix + "snapshots/inspection-hooks/{" + IDVar + "}"
)

// WithID substitutes the id into a URL template containing the IDVar variable.
func WithID(template, id string) string {
	return strings.Replace(template, "{"+IDVar+"}", id, 1)
}

// HookInstallRequest is the body of POST RestURLInspectionHooks.
type HookInstallRequest struct {
	InspectedPort     *model.NetworkElement      `json:"inspectedPort"`
	ChainID           string                     `json:"chainId"`
	Tag               int64                      `json:"tag,omitempty"`
	EncapsulationType model.TagEncapsulationType `json:"encapsulationType,omitempty"`
	Order             int64                      `json:"order,omitempty"`
	FailurePolicy     model.FailurePolicyType    `json:"failurePolicy,omitempty"`
}

// HookInstallReply is the answer to POST RestURLInspectionHooks.
type HookInstallReply struct {
	HookID string `json:"hookId"`
}

// HookUpdateRequest is the body of PUT RestURLInspectionHook.
type HookUpdateRequest struct {
	InspectedPort *model.NetworkElement `json:"inspectedPort"`
	ChainID       string                `json:"chainId"`
}

// ChainRequest is the body of POST RestURLChains and PUT RestURLChain.
type ChainRequest struct {
	GroupIDs []string `json:"groupIds"`
}

// ErrorReply is returned with every non-2xx status.
type ErrorReply struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Code  int    `json:"code,omitempty"`
}
