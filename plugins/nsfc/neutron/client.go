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

import (
	"net"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ligato/cn-infra/logging"

	"github.com/contiv/nsfc/plugins/nsfc/sfcerr"
)

// API is the typed view of the remote collections used by the rest of the adapter.
// Update methods take the full object, the ID is used as the key only.
type API interface {
	ListPorts() ([]*Port, error)
	GetPort(id string) (*Port, error)
	UpdatePortProfile(id string, profile map[string]interface{}) (*Port, error)

	ListPortPairs() ([]*PortPair, error)
	GetPortPair(id string) (*PortPair, error)
	CreatePortPair(pair *PortPair) (*PortPair, error)
	UpdatePortPair(pair *PortPair) (*PortPair, error)
	DeletePortPair(id string) error

	ListPortPairGroups() ([]*PortPairGroup, error)
	GetPortPairGroup(id string) (*PortPairGroup, error)
	CreatePortPairGroup(group *PortPairGroup) (*PortPairGroup, error)
	UpdatePortPairGroup(group *PortPairGroup) (*PortPairGroup, error)
	DeletePortPairGroup(id string) error

	ListPortChains() ([]*PortChain, error)
	GetPortChain(id string) (*PortChain, error)
	CreatePortChain(chain *PortChain) (*PortChain, error)
	UpdatePortChain(chain *PortChain) (*PortChain, error)
	DeletePortChain(id string) error

	ListFlowClassifiers() ([]*FlowClassifier, error)
	GetFlowClassifier(id string) (*FlowClassifier, error)
	CreateFlowClassifier(classifier *FlowClassifier) (*FlowClassifier, error)
	UpdateFlowClassifier(classifier *FlowClassifier) (*FlowClassifier, error)
	DeleteFlowClassifier(id string) error
}

// StatsRecorder receives the outcome of every remote call.
type StatsRecorder interface {
	RecordCall(collection, operation string, err error)
}

const (
	opList   = "list"
	opGet    = "get"
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// Client implements API on top of a Backend.
//
// Besides validation of the request payloads it corrects the following
// backend quirks:
//  - nil group/classifier lists of a port chain are returned as empty lists,
//  - the destination prefix of a new flow classifier is turned into a host CIDR,
//  - update payloads carry only the fields the backend allows to modify.
type Client struct {
	backend  Backend
	log      logging.Logger
	stats    StatsRecorder
	validate *validator.Validate
}

// NewClient returns a new client over the given backend. <stats> may be nil.
func NewClient(backend Backend, log logging.Logger, stats StatsRecorder) *Client {
	return &Client{
		backend:  backend,
		log:      log,
		stats:    stats,
		validate: validator.New(),
	}
}

func (c *Client) record(collection, operation string, err error) {
	if err != nil {
		c.log.Debugf("Call %s %s failed: %v", operation, collection, err)
	} else {
		c.log.Debugf("Call %s %s succeeded", operation, collection)
	}
	if c.stats != nil {
		c.stats.RecordCall(collection, operation, err)
	}
}

// check validates the request payload before it is sent.
func (c *Client) check(what string, payload interface{}) error {
	err := c.validate.Struct(payload)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		field := verrs[0]
		if field.Tag() == "required" {
			return sfcerr.NullArgument(what + " " + field.Field())
		}
		return sfcerr.InvalidArgumentf("invalid %s %s: failed on '%s'", what, field.Namespace(), field.Tag())
	}
	return sfcerr.InvalidArgumentf("invalid %s: %v", what, err)
}

func requireID(what, id string) error {
	if id == "" {
		return sfcerr.NullArgument(what + " Id")
	}
	return nil
}

// ListPorts lists all ports.
func (c *Client) ListPorts() ([]*Port, error) {
	ports, err := c.backend.ListPorts()
	c.record(PortsCollection, opList, err)
	return ports, err
}

// GetPort returns the port with the given id, nil if it does not exist.
func (c *Client) GetPort(id string) (*Port, error) {
	if err := requireID("Port", id); err != nil {
		return nil, err
	}
	port, err := c.backend.GetPort(id)
	c.record(PortsCollection, opGet, err)
	return port, err
}

// UpdatePortProfile replaces the binding profile of the port.
func (c *Client) UpdatePortProfile(id string, profile map[string]interface{}) (*Port, error) {
	if err := requireID("Port", id); err != nil {
		return nil, err
	}
	if profile == nil {
		profile = map[string]interface{}{}
	}
	port, err := c.backend.UpdatePort(id, &PortUpdate{Profile: profile})
	c.record(PortsCollection, opUpdate, err)
	return port, err
}

// ListPortPairs lists all port pairs.
func (c *Client) ListPortPairs() ([]*PortPair, error) {
	pairs, err := c.backend.ListPortPairs()
	c.record(PortPairsCollection, opList, err)
	return pairs, err
}

// GetPortPair returns the port pair with the given id, nil if it does not exist.
func (c *Client) GetPortPair(id string) (*PortPair, error) {
	if err := requireID("Port Pair", id); err != nil {
		return nil, err
	}
	pair, err := c.backend.GetPortPair(id)
	c.record(PortPairsCollection, opGet, err)
	return pair, err
}

// CreatePortPair creates a new port pair.
func (c *Client) CreatePortPair(pair *PortPair) (*PortPair, error) {
	if pair == nil {
		return nil, sfcerr.NullArgument("Port Pair")
	}
	if err := c.check("Port Pair", pair); err != nil {
		return nil, err
	}
	created, err := c.backend.CreatePortPair(pair)
	c.record(PortPairsCollection, opCreate, err)
	return created, err
}

// UpdatePortPair updates name and description of the port pair.
func (c *Client) UpdatePortPair(pair *PortPair) (*PortPair, error) {
	if pair == nil {
		return nil, sfcerr.NullArgument("Port Pair")
	}
	if err := requireID("Port Pair", pair.ID); err != nil {
		return nil, err
	}
	updated, err := c.backend.UpdatePortPair(pair.ID, &PortPairUpdate{
		Name:        pair.Name,
		Description: pair.Description,
	})
	c.record(PortPairsCollection, opUpdate, err)
	return updated, err
}

// DeletePortPair deletes the port pair.
func (c *Client) DeletePortPair(id string) error {
	if err := requireID("Port Pair", id); err != nil {
		return err
	}
	err := c.backend.DeletePortPair(id)
	c.record(PortPairsCollection, opDelete, err)
	return err
}

// ListPortPairGroups lists all port pair groups.
func (c *Client) ListPortPairGroups() ([]*PortPairGroup, error) {
	groups, err := c.backend.ListPortPairGroups()
	c.record(PortPairGroupsCollection, opList, err)
	return groups, err
}

// GetPortPairGroup returns the port pair group with the given id, nil if it does not exist.
func (c *Client) GetPortPairGroup(id string) (*PortPairGroup, error) {
	if err := requireID("Port Pair Group", id); err != nil {
		return nil, err
	}
	group, err := c.backend.GetPortPairGroup(id)
	c.record(PortPairGroupsCollection, opGet, err)
	return group, err
}

// CreatePortPairGroup creates a new port pair group.
func (c *Client) CreatePortPairGroup(group *PortPairGroup) (*PortPairGroup, error) {
	if group == nil {
		return nil, sfcerr.NullArgument("Port Pair Group")
	}
	request := *group
	request.PortPairs = nonNil(request.PortPairs)
	if err := c.check("Port Pair Group", &request); err != nil {
		return nil, err
	}
	created, err := c.backend.CreatePortPairGroup(&request)
	c.record(PortPairGroupsCollection, opCreate, err)
	return created, err
}

// UpdatePortPairGroup updates the port pair group, including its member list.
func (c *Client) UpdatePortPairGroup(group *PortPairGroup) (*PortPairGroup, error) {
	if group == nil {
		return nil, sfcerr.NullArgument("Port Pair Group")
	}
	if err := requireID("Port Pair Group", group.ID); err != nil {
		return nil, err
	}
	update := &PortPairGroupUpdate{
		Name:        group.Name,
		Description: group.Description,
		PortPairs:   nonNil(group.PortPairs),
	}
	if err := c.check("Port Pair Group", update); err != nil {
		return nil, err
	}
	updated, err := c.backend.UpdatePortPairGroup(group.ID, update)
	c.record(PortPairGroupsCollection, opUpdate, err)
	return updated, err
}

// DeletePortPairGroup deletes the port pair group.
func (c *Client) DeletePortPairGroup(id string) error {
	if err := requireID("Port Pair Group", id); err != nil {
		return err
	}
	err := c.backend.DeletePortPairGroup(id)
	c.record(PortPairGroupsCollection, opDelete, err)
	return err
}

// ListPortChains lists all port chains.
func (c *Client) ListPortChains() ([]*PortChain, error) {
	chains, err := c.backend.ListPortChains()
	c.record(PortChainsCollection, opList, err)
	for _, chain := range chains {
		normalizeChain(chain)
	}
	return chains, err
}

// GetPortChain returns the port chain with the given id, nil if it does not exist.
func (c *Client) GetPortChain(id string) (*PortChain, error) {
	if err := requireID("Port Chain", id); err != nil {
		return nil, err
	}
	chain, err := c.backend.GetPortChain(id)
	c.record(PortChainsCollection, opGet, err)
	return normalizeChain(chain), err
}

// CreatePortChain creates a new port chain.
func (c *Client) CreatePortChain(chain *PortChain) (*PortChain, error) {
	if chain == nil {
		return nil, sfcerr.NullArgument("Port Chain")
	}
	if err := c.check("Port Chain", chain); err != nil {
		return nil, err
	}
	created, err := c.backend.CreatePortChain(chain)
	c.record(PortChainsCollection, opCreate, err)
	return normalizeChain(created), err
}

// UpdatePortChain updates the port chain, including its group and classifier lists.
func (c *Client) UpdatePortChain(chain *PortChain) (*PortChain, error) {
	if chain == nil {
		return nil, sfcerr.NullArgument("Port Chain")
	}
	if err := requireID("Port Chain", chain.ID); err != nil {
		return nil, err
	}
	update := &PortChainUpdate{
		Name:            chain.Name,
		Description:     chain.Description,
		PortPairGroups:  nonNil(chain.PortPairGroups),
		FlowClassifiers: nonNil(chain.FlowClassifiers),
	}
	if err := c.check("Port Chain", update); err != nil {
		return nil, err
	}
	updated, err := c.backend.UpdatePortChain(chain.ID, update)
	c.record(PortChainsCollection, opUpdate, err)
	return normalizeChain(updated), err
}

// DeletePortChain deletes the port chain.
func (c *Client) DeletePortChain(id string) error {
	if err := requireID("Port Chain", id); err != nil {
		return err
	}
	err := c.backend.DeletePortChain(id)
	c.record(PortChainsCollection, opDelete, err)
	return err
}

// ListFlowClassifiers lists all flow classifiers.
func (c *Client) ListFlowClassifiers() ([]*FlowClassifier, error) {
	classifiers, err := c.backend.ListFlowClassifiers()
	c.record(FlowClassifiersCollection, opList, err)
	return classifiers, err
}

// GetFlowClassifier returns the flow classifier with the given id, nil if it does not exist.
func (c *Client) GetFlowClassifier(id string) (*FlowClassifier, error) {
	if err := requireID("Flow Classifier", id); err != nil {
		return nil, err
	}
	classifier, err := c.backend.GetFlowClassifier(id)
	c.record(FlowClassifiersCollection, opGet, err)
	return classifier, err
}

// CreateFlowClassifier creates a new flow classifier with the destination
// prefix in CIDR notation.
func (c *Client) CreateFlowClassifier(classifier *FlowClassifier) (*FlowClassifier, error) {
	if classifier == nil {
		return nil, sfcerr.NullArgument("Flow Classifier")
	}
	request := *classifier
	request.DestinationIPPrefix = HostPrefix(request.DestinationIPPrefix)
	if err := c.check("Flow Classifier", &request); err != nil {
		return nil, err
	}
	created, err := c.backend.CreateFlowClassifier(&request)
	c.record(FlowClassifiersCollection, opCreate, err)
	return created, err
}

// UpdateFlowClassifier updates name and description of the flow classifier.
func (c *Client) UpdateFlowClassifier(classifier *FlowClassifier) (*FlowClassifier, error) {
	if classifier == nil {
		return nil, sfcerr.NullArgument("Flow Classifier")
	}
	if err := requireID("Flow Classifier", classifier.ID); err != nil {
		return nil, err
	}
	updated, err := c.backend.UpdateFlowClassifier(classifier.ID, &FlowClassifierUpdate{
		Name:        classifier.Name,
		Description: classifier.Description,
	})
	c.record(FlowClassifiersCollection, opUpdate, err)
	return updated, err
}

// DeleteFlowClassifier deletes the flow classifier.
func (c *Client) DeleteFlowClassifier(id string) error {
	if err := requireID("Flow Classifier", id); err != nil {
		return err
	}
	err := c.backend.DeleteFlowClassifier(id)
	c.record(FlowClassifiersCollection, opDelete, err)
	return err
}

// HostPrefix turns a bare address into a host CIDR (/32 for IPv4, /128 for IPv6).
// Prefixes already in CIDR notation and empty strings are returned unchanged.
func HostPrefix(prefix string) string {
	if prefix == "" || strings.Contains(prefix, "/") {
		return prefix
	}
	if ip := net.ParseIP(prefix); ip != nil && ip.To4() == nil {
		return prefix + "/128"
	}
	return prefix + "/32"
}

func normalizeChain(chain *PortChain) *PortChain {
	if chain == nil {
		return nil
	}
	chain.PortPairGroups = nonNil(chain.PortPairGroups)
	chain.FlowClassifiers = nonNil(chain.FlowClassifiers)
	return chain
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
