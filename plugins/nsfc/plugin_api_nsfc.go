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

package nsfc

import (
	"github.com/contiv/nsfc/plugins/nsfc/model"
	"github.com/contiv/nsfc/plugins/nsfc/redirection"
)

// API defines methods provided by the Neutron SFC plugin for use by other plugins.
type API interface {
	// GetStatus returns name and version of the controller. It never
	// contacts the backend.
	GetStatus(vc *model.VirtualizationConnector, region string) (*model.Status, error)

	// Capabilities returns the features offered by Neutron SFC.
	Capabilities() model.Capabilities

	// CreateRedirectionAPI authenticates with the given connector and returns
	// a redirection API bound to its network service.
	CreateRedirectionAPI(vc *model.VirtualizationConnector, region string) (redirection.API, error)

	// QueryPortInfo is not supported.
	QueryPortInfo(vc *model.VirtualizationConnector, region string,
		query map[string]*model.FlowInfo) (map[string]*model.FlowPortInfo, error)

	// DefaultRedirection returns the redirection API of the connector
	// from the plugin configuration, created on the first call.
	DefaultRedirection() (redirection.API, error)
}
