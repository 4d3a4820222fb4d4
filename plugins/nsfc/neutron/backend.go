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

// Backend is the raw SDK surface of the remote SFC service.
//
// Get methods return (nil, nil) when the object does not exist.
// Failures reported by the service are returned as sfcerr backend faults.
type Backend interface {
	ListPorts() ([]*Port, error)
	GetPort(id string) (*Port, error)
	UpdatePort(id string, update *PortUpdate) (*Port, error)

	ListPortPairs() ([]*PortPair, error)
	GetPortPair(id string) (*PortPair, error)
	CreatePortPair(pair *PortPair) (*PortPair, error)
	UpdatePortPair(id string, update *PortPairUpdate) (*PortPair, error)
	DeletePortPair(id string) error

	ListPortPairGroups() ([]*PortPairGroup, error)
	GetPortPairGroup(id string) (*PortPairGroup, error)
	CreatePortPairGroup(group *PortPairGroup) (*PortPairGroup, error)
	UpdatePortPairGroup(id string, update *PortPairGroupUpdate) (*PortPairGroup, error)
	DeletePortPairGroup(id string) error

	ListPortChains() ([]*PortChain, error)
	GetPortChain(id string) (*PortChain, error)
	CreatePortChain(chain *PortChain) (*PortChain, error)
	UpdatePortChain(id string, update *PortChainUpdate) (*PortChain, error)
	DeletePortChain(id string) error

	ListFlowClassifiers() ([]*FlowClassifier, error)
	GetFlowClassifier(id string) (*FlowClassifier, error)
	CreateFlowClassifier(classifier *FlowClassifier) (*FlowClassifier, error)
	UpdateFlowClassifier(id string, update *FlowClassifierUpdate) (*FlowClassifier, error)
	DeleteFlowClassifier(id string) error
}
