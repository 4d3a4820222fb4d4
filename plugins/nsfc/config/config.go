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

package config

const (
	defaultAuthPort = 5000
	defaultAuthPath = "/v3"

	// DefaultHookProfileKey is the key of the port binding profile under which
	// the id of the inspection hook protecting the port is stored.
	DefaultHookProfileKey = "sfc_inspection_hook_id"

	defaultPortPairDescription  = "OSC-registered port pair"
	defaultPortChainDescription = "Port Chain object created by OSC"
)

// Config holds the configuration of the Neutron SFC plugin.
type Config struct {
	// address of the OpenStack controller, used to build the Keystone URL
	ProviderIPAddress string `json:"providerIPAddress"`

	// Keystone listens at http://<ProviderIPAddress>:<AuthPort><AuthPath>
	AuthPort uint16 `json:"authPort"`
	AuthPath string `json:"authPath"`

	// credentials of the default connector, used by the REST API
	Name     string `json:"name"`
	Domain   string `json:"domain"`
	Project  string `json:"project"`
	Username string `json:"username"`
	Password string `json:"password"`
	Region   string `json:"region"`

	HookProfileKey string `json:"hookProfileKey"`

	PortPairDescription  string `json:"portPairDescription"`
	PortChainDescription string `json:"portChainDescription"`

	// directory of the per-connector snapshot databases, snapshots are disabled if empty
	SnapshotDir string `json:"snapshotDir"`
}

// DefaultConfig returns configuration for the Neutron SFC plugin with default values.
func DefaultConfig() *Config {
	return &Config{
		AuthPort:             defaultAuthPort,
		AuthPath:             defaultAuthPath,
		HookProfileKey:       DefaultHookProfileKey,
		PortPairDescription:  defaultPortPairDescription,
		PortChainDescription: defaultPortChainDescription,
	}
}
